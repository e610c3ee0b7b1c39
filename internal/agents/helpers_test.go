package agents

import "github.com/talgya/agora/internal/world"

type contact struct {
	day           int
	buyer, seller AgentID
}

// fakeMarket is a minimal in-memory Market for driving agents directly.
type fakeMarket struct {
	needs    []int
	costs    []float64
	agents   []*Agent
	index    *world.Index
	day      int
	contacts []contact
}

func newFakeMarket(needs []int, costs []float64) *fakeMarket {
	return &fakeMarket{needs: needs, costs: costs, index: world.NewIndex()}
}

func (m *fakeMarket) add(cfg Config) *Agent {
	id := AgentID(m.index.Add(cfg.Position))
	a := New(m, id, cfg)
	m.agents = append(m.agents, a)
	return a
}

func (m *fakeMarket) Needs() []int {
	out := make([]int, len(m.needs))
	copy(out, m.needs)
	return out
}

func (m *fakeMarket) ProdCost(g Group) float64 { return m.costs[g] }
func (m *fakeMarket) NumGroups() int           { return len(m.needs) }
func (m *fakeMarket) GroupOf(id AgentID) Group { return m.agents[id].Group }
func (m *fakeMarket) Agent(id AgentID) *Agent  { return m.agents[id] }
func (m *fakeMarket) Day() int                 { return m.day }

func (m *fakeMarket) Neighbors(pos world.HexCoord, radius float64) []AgentID {
	idx := m.index.Within(pos, radius)
	out := make([]AgentID, len(idx))
	for i, v := range idx {
		out[i] = AgentID(v)
	}
	return out
}

func (m *fakeMarket) RecordContact(buyer, seller AgentID) {
	m.contacts = append(m.contacts, contact{day: m.day, buyer: buyer, seller: seller})
}

// cfgAt returns a config at pos in group g with no personal cost deviation.
func cfgAt(q, r int, g Group, cash, price float64, stock int) Config {
	c := DefaultConfig()
	c.Position = world.HexCoord{Q: q, R: r}
	c.Group = g
	c.Deviation = 0
	c.Cash = cash
	c.Price = price
	c.Stock = stock
	return c
}
