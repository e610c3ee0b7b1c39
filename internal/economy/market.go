// Package economy provides the agora market: the population of agents, the
// spatial index they sense through, the needs and cost schedules, the day
// counter and the contact log.
package economy

import (
	"fmt"
	"sync"

	"github.com/talgya/agora/internal/agents"
	"github.com/talgya/agora/internal/world"
)

// Contact records one completed purchase.
type Contact struct {
	Day    int            `json:"day" db:"day"`
	Buyer  agents.AgentID `json:"buyer" db:"buyer"`
	Seller agents.AgentID `json:"seller" db:"seller"`
}

// Market owns the agent population and implements agents.Market.
type Market struct {
	needs    []int
	schedule *CostSchedule
	costs    []float64

	agents []*agents.Agent
	groups []agents.Group
	index  *world.Index
	day    int

	mu       sync.Mutex
	contacts []Contact
}

var _ agents.Market = (*Market)(nil)

// NewMarket creates an empty market. needs is the weekly per-group schedule;
// the schedule's base costs must cover the same groups.
func NewMarket(needs []int, schedule *CostSchedule) (*Market, error) {
	if len(needs) == 0 {
		return nil, fmt.Errorf("market needs at least one production group")
	}
	if len(schedule.Base) != len(needs) {
		return nil, fmt.Errorf("cost schedule has %d groups, needs has %d", len(schedule.Base), len(needs))
	}
	n := make([]int, len(needs))
	copy(n, needs)
	return &Market{
		needs:    n,
		schedule: schedule,
		costs:    schedule.CostsOn(0),
		index:    world.NewIndex(),
	}, nil
}

// Spawn creates an agent from cfg, indexes it and adds it to the population.
func (m *Market) Spawn(cfg agents.Config) (*agents.Agent, error) {
	if cfg.Group < 0 || int(cfg.Group) >= len(m.needs) {
		return nil, fmt.Errorf("agent group %d out of range [0,%d)", cfg.Group, len(m.needs))
	}
	id := agents.AgentID(m.index.Add(cfg.Position))
	a := agents.New(m, id, cfg)
	m.agents = append(m.agents, a)
	m.groups = append(m.groups, cfg.Group)
	return a, nil
}

// Agents returns the population in index order.
func (m *Market) Agents() []*agents.Agent {
	return m.agents
}

// Needs returns a copy of the weekly need schedule.
func (m *Market) Needs() []int {
	out := make([]int, len(m.needs))
	copy(out, m.needs)
	return out
}

// ProdCost returns today's base production cost of group g.
func (m *Market) ProdCost(g agents.Group) float64 {
	return m.costs[g]
}

// Costs returns a copy of today's base production costs.
func (m *Market) Costs() []float64 {
	out := make([]float64, len(m.costs))
	copy(out, m.costs)
	return out
}

// NumGroups returns the number of production groups.
func (m *Market) NumGroups() int {
	return len(m.needs)
}

// GroupOf returns the production group of agent id.
func (m *Market) GroupOf(id agents.AgentID) agents.Group {
	return m.groups[id]
}

// Agent returns the agent at index id.
func (m *Market) Agent(id agents.AgentID) *agents.Agent {
	return m.agents[id]
}

// Neighbors returns agents within radius of pos, nearest first.
func (m *Market) Neighbors(pos world.HexCoord, radius float64) []agents.AgentID {
	idx := m.index.Within(pos, radius)
	out := make([]agents.AgentID, len(idx))
	for i, v := range idx {
		out[i] = agents.AgentID(v)
	}
	return out
}

// Day returns the current simulated day.
func (m *Market) Day() int {
	return m.day
}

// SetDay advances the market to day and applies that day's production costs.
func (m *Market) SetDay(day int) {
	m.day = day
	m.costs = m.schedule.CostsOn(day)
}

// RecordContact appends a purchase to the contact log.
func (m *Market) RecordContact(buyer, seller agents.AgentID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts = append(m.contacts, Contact{Day: m.day, Buyer: buyer, Seller: seller})
}

// Contacts returns a copy of the whole contact log.
func (m *Market) Contacts() []Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Contact, len(m.contacts))
	copy(out, m.contacts)
	return out
}

// ContactsSince returns the contacts logged after the first n.
func (m *Market) ContactsSince(n int) []Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n >= len(m.contacts) {
		return nil
	}
	out := make([]Contact, len(m.contacts)-n)
	copy(out, m.contacts[n:])
	return out
}

// ContactsOn returns the contacts logged on the given day.
func (m *Market) ContactsOn(day int) []Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Contact
	for _, c := range m.contacts {
		if c.Day == day {
			out = append(out, c)
		}
	}
	return out
}

// ContactCount returns the length of the contact log.
func (m *Market) ContactCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.contacts)
}
