package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/agora/internal/agents"
	"github.com/talgya/agora/internal/world"
)

func newTestMarket(t *testing.T) *Market {
	t.Helper()
	m, err := NewMarket([]int{1, 2}, NewCostSchedule([]float64{2, 3}, 0, 0.1, 1))
	require.NoError(t, err)
	return m
}

func spawnAt(t *testing.T, m *Market, q, r int, g agents.Group, price float64, stock int) *agents.Agent {
	t.Helper()
	cfg := agents.DefaultConfig()
	cfg.Position = world.HexCoord{Q: q, R: r}
	cfg.Group = g
	cfg.Cash = 50
	cfg.Price = price
	cfg.Stock = stock
	a, err := m.Spawn(cfg)
	require.NoError(t, err)
	return a
}

func TestNewMarketValidates(t *testing.T) {
	_, err := NewMarket(nil, NewCostSchedule(nil, 0, 0, 1))
	assert.Error(t, err)
	_, err = NewMarket([]int{1, 1}, NewCostSchedule([]float64{1}, 0, 0, 1))
	assert.Error(t, err)
}

func TestSpawnAssignsIndexAndGroup(t *testing.T) {
	m := newTestMarket(t)
	a := spawnAt(t, m, 0, 0, 1, 1, 0)
	b := spawnAt(t, m, 1, 0, 0, 1, 0)

	assert.Equal(t, agents.AgentID(0), a.ID)
	assert.Equal(t, agents.AgentID(1), b.ID)
	assert.Equal(t, agents.Group(1), m.GroupOf(a.ID))
	assert.Same(t, b, m.Agent(1))
	assert.Equal(t, agents.Hierarchy{1, 2}, a.Hierarchy())

	_, err := m.Spawn(agents.Config{Group: 5})
	assert.Error(t, err)
}

func TestNeedsIsCopy(t *testing.T) {
	m := newTestMarket(t)
	n := m.Needs()
	n[0] = 99
	assert.Equal(t, []int{1, 2}, m.Needs())
}

func TestNeighborsSelfFirst(t *testing.T) {
	m := newTestMarket(t)
	a := spawnAt(t, m, 0, 0, 0, 1, 0)
	spawnAt(t, m, 2, 0, 0, 1, 0)
	c := spawnAt(t, m, 0, 1, 1, 1, 0)

	assert.Equal(t, []agents.AgentID{a.ID, c.ID}, m.Neighbors(a.Position, 1.1))
}

func TestContactLog(t *testing.T) {
	m := newTestMarket(t)
	buyer := spawnAt(t, m, 0, 0, 0, 1, 0)
	spawnAt(t, m, 1, 0, 1, 5, 3)

	m.SetDay(4)
	bought, err := buyer.ShoppingRoutine(false)
	require.NoError(t, err)
	require.True(t, bought)
	m.SetDay(5)
	m.RecordContact(1, 0)

	assert.Equal(t, []Contact{{Day: 4, Buyer: 0, Seller: 1}}, m.ContactsOn(4))
	assert.Len(t, m.Contacts(), 2)
	assert.Equal(t, []Contact{{Day: 5, Buyer: 1, Seller: 0}}, m.ContactsSince(1))
	assert.Nil(t, m.ContactsSince(2))
	assert.Equal(t, 2, m.ContactCount())
}

func TestCostScheduleConstantWithoutAmplitude(t *testing.T) {
	s := NewCostSchedule([]float64{2, 3}, 0, 0.1, 1)
	assert.Equal(t, []float64{2, 3}, s.CostsOn(0))
	assert.Equal(t, []float64{2, 3}, s.CostsOn(40))
}

func TestCostScheduleDriftBounded(t *testing.T) {
	s := NewCostSchedule([]float64{2, 3}, 0.3, 0.2, 9)
	again := NewCostSchedule([]float64{2, 3}, 0.3, 0.2, 9)
	for day := 0; day < 60; day++ {
		costs := s.CostsOn(day)
		assert.Equal(t, again.CostsOn(day), costs, "reproducible")
		for g, c := range costs {
			base := s.Base[g]
			assert.Greater(t, c, 0.0)
			assert.GreaterOrEqual(t, c, base*0.7-1e-9)
			assert.LessOrEqual(t, c, base*1.3+1e-9)
		}
	}
}

func TestSetDayAppliesCosts(t *testing.T) {
	s := NewCostSchedule([]float64{2, 3}, 0.3, 0.2, 9)
	m, err := NewMarket([]int{1, 1}, s)
	require.NoError(t, err)

	m.SetDay(12)
	assert.Equal(t, 12, m.Day())
	assert.Equal(t, s.CostsOn(12), m.Costs())
	assert.Equal(t, s.CostsOn(12)[1], m.ProdCost(1))
}
