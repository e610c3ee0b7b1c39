package agents

import (
	"math"
	"sort"
)

// demandEpsilon keeps the demand change defined when yesterday's demand was zero.
const demandEpsilon = 1e-5

// SetPrice prices today's goods. The base price marks the unit cost up by the
// day-over-day change in neighbouring demand; a competitor benchmark at the
// given percentile raises it when higher. The result never falls below cost.
func (a *Agent) SetPrice(percentile float64) float64 {
	cost := a.market.ProdCost(a.Group) * a.Multiplier

	change := 1 + (float64(a.demand-a.demand0)+demandEpsilon)/(float64(a.demand0)+demandEpsilon)
	desired := cost * change
	if len(a.competitorPrices) > 0 {
		desired = math.Max(desired, Percentile(a.competitorPrices, percentile))
	}
	price := math.Max(cost, desired)

	a.mu.Lock()
	a.costPerUnit = cost
	a.price = price
	a.mu.Unlock()

	a.demand0 = a.demand
	return price
}

// SetQuantity plans today's production: enough to cover visible demand not
// already in stock, limited by what the reinvested share of the profit made
// since the last decision can pay for. A loss plans nothing.
func (a *Agent) SetQuantity() int {
	a.mu.Lock()
	cash, stock, cost := a.cash, a.stock, a.costPerUnit
	a.mu.Unlock()

	profit := cash - a.cash0
	a.cash0 = cash
	budget := profit * (1 - a.Save)

	toMake := a.demand - stock
	planned := toMake
	switch {
	case toMake <= 0:
		planned = 0
	case cost <= 0:
		// Free to make: plan the whole shortfall.
	default:
		if afford := math.Floor(budget / cost); afford < float64(toMake) {
			planned = int(math.Max(afford, 0))
		}
	}

	a.mu.Lock()
	a.planned = planned
	a.mu.Unlock()
	return planned
}

// Percentile returns the p-th percentile (0–100) of values using linear
// interpolation between the closest ranks. values is not modified.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p = math.Min(math.Max(p, 0), 100)
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
