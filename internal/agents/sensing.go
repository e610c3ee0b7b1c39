package agents

import "sort"

// Supplier is the chosen seller for one production group. OK is false when no
// neighbour can supply the group.
type Supplier struct {
	ID AgentID
	OK bool
}

// SeeDemandAndCompetitors scans every other agent within SellRadius. It sums
// their remaining need for the agent's own group into the neighbouring demand
// score and collects the prices of neighbours producing the same group.
func (a *Agent) SeeDemandAndCompetitors() {
	demand := 0
	a.competitorPrices = a.competitorPrices[:0]

	for _, id := range a.market.Neighbors(a.Position, a.SellRadius) {
		if id == a.ID {
			continue
		}
		n := a.market.Agent(id)
		demand += n.Need(a.Group)
		if a.market.GroupOf(id) == a.Group {
			a.competitorPrices = append(a.competitorPrices, n.Price())
		}
	}

	a.mu.Lock()
	a.demand = demand
	a.mu.Unlock()
}

// CompetitorPrices returns the competitor prices from the last scan, nearest
// competitor first.
func (a *Agent) CompetitorPrices() []float64 {
	out := make([]float64, len(a.competitorPrices))
	copy(out, a.competitorPrices)
	return out
}

// SeeSupply picks, for every production group, the cheapest in-stock seller
// within BuyRadius. The agent's own group is only ever supplied by the agent
// itself, out of its own stock. Equal prices go to the nearer seller.
func (a *Agent) SeeSupply() []Supplier {
	ngroups := a.market.NumGroups()
	suppliers := make([]Supplier, ngroups)

	type offer struct {
		id    AgentID
		price float64
	}
	offers := make([][]offer, ngroups)
	for _, id := range a.market.Neighbors(a.Position, a.BuyRadius) {
		if id == a.ID {
			continue
		}
		g := a.market.GroupOf(id)
		if g == a.Group || g < 0 || int(g) >= ngroups {
			continue
		}
		n := a.market.Agent(id)
		if n.Stock() <= 0 {
			continue
		}
		offers[g] = append(offers[g], offer{id: id, price: n.Price()})
	}

	for g := range suppliers {
		if Group(g) == a.Group {
			if a.Stock() > 0 {
				suppliers[g] = Supplier{ID: a.ID, OK: true}
			}
			continue
		}
		if len(offers[g]) == 0 {
			continue
		}
		sort.SliceStable(offers[g], func(i, j int) bool {
			return offers[g][i].price < offers[g][j].price
		})
		suppliers[g] = Supplier{ID: offers[g][0].id, OK: true}
	}

	a.suppliers = suppliers
	return suppliers
}
