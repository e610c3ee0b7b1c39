package agents

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeDemandExcludesSelfAndCollectsCompetitors(t *testing.T) {
	m := newFakeMarket([]int{3, 1}, []float64{1, 1})
	a := m.add(cfgAt(0, 0, 0, 10, 2, 0))
	m.add(cfgAt(1, 0, 0, 10, 4, 0))
	m.add(cfgAt(0, 1, 1, 10, 9, 0))
	m.add(cfgAt(3, 0, 0, 10, 1, 0)) // out of range

	a.SeeDemandAndCompetitors()

	assert.Equal(t, 6, a.Demand())
	assert.Equal(t, []float64{4}, a.CompetitorPrices())
}

func TestSeeDemandNoNeighbours(t *testing.T) {
	m := newFakeMarket([]int{3}, []float64{1})
	a := m.add(cfgAt(0, 0, 0, 10, 2, 0))

	a.SeeDemandAndCompetitors()

	assert.Equal(t, 0, a.Demand())
	assert.Empty(t, a.CompetitorPrices())
}

func TestSeeSupplyOwnGroupIsSelfOnly(t *testing.T) {
	m := newFakeMarket([]int{1, 1}, []float64{1, 1})
	a := m.add(cfgAt(0, 0, 0, 10, 2, 0))
	m.add(cfgAt(1, 0, 0, 10, 1, 9))

	sup := a.SeeSupply()
	assert.False(t, sup[0].OK, "neighbour of same group never supplies")

	a.stock = 1
	sup = a.SeeSupply()
	require.True(t, sup[0].OK)
	assert.Equal(t, a.ID, sup[0].ID)
}

func TestSeeSupplySkipsOutOfStock(t *testing.T) {
	m := newFakeMarket([]int{0, 1}, []float64{1, 1})
	a := m.add(cfgAt(0, 0, 0, 10, 2, 0))
	m.add(cfgAt(1, 0, 1, 0, 1, 0)) // cheapest, empty
	pricey := m.add(cfgAt(-1, 0, 1, 0, 7, 2))
	m.add(cfgAt(0, 1, 1, 0, 8, 2))

	sup := a.SeeSupply()
	require.True(t, sup[1].OK)
	assert.Equal(t, pricey.ID, sup[1].ID)
}

func TestSeeSupplyPriceTieGoesToNearest(t *testing.T) {
	m := newFakeMarket([]int{0, 1}, []float64{1, 1})
	a := m.add(cfgAt(0, 0, 0, 10, 2, 0))
	a.BuyRadius = 2.5
	m.add(cfgAt(2, 0, 1, 0, 3, 1))
	near := m.add(cfgAt(0, -1, 1, 0, 3, 1))

	sup := a.SeeSupply()
	require.True(t, sup[1].OK)
	assert.Equal(t, near.ID, sup[1].ID)
}

func TestSeeSupplyNoProducers(t *testing.T) {
	m := newFakeMarket([]int{1, 1, 1}, []float64{1, 1, 1})
	a := m.add(cfgAt(0, 0, 0, 10, 2, 0))

	for g, s := range a.SeeSupply() {
		assert.False(t, s.OK, "group %d", g)
	}
}

func TestZeroRadiusSensesNobody(t *testing.T) {
	m := newFakeMarket([]int{3, 1}, []float64{1, 1})
	c := cfgAt(0, 0, 0, 10, 2, 1)
	c.SellRadius = 0
	c.BuyRadius = 0
	a := m.add(c)
	m.add(cfgAt(1, 0, 0, 10, 4, 0))
	m.add(cfgAt(0, 1, 1, 10, 9, 5))
	require.Equal(t, 0.0, a.SellRadius)

	a.SeeDemandAndCompetitors()
	assert.Equal(t, 0, a.Demand())
	assert.Empty(t, a.CompetitorPrices())

	sup := a.SeeSupply()
	assert.True(t, sup[0].OK, "own stock is still reachable")
	assert.False(t, sup[1].OK)
}

func TestInfiniteRadiusSensesEveryone(t *testing.T) {
	m := newFakeMarket([]int{1}, []float64{1})
	c := cfgAt(0, 0, 0, 10, 2, 0)
	c.SellRadius = math.Inf(1)
	a := m.add(c)
	m.add(cfgAt(1, 0, 0, 10, 4, 0))
	m.add(cfgAt(7, -3, 0, 10, 6, 0))

	a.SeeDemandAndCompetitors()

	assert.Equal(t, 2, a.Demand())
	assert.Equal(t, []float64{4, 6}, a.CompetitorPrices())
}
