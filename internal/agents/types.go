// Package agents provides the dual-role market agent: a producer that sells
// goods of its own production group and a consumer that buys goods of every
// group from its neighbourhood.
package agents

import (
	"sync"

	"github.com/talgya/agora/internal/world"
)

// AgentID is an agent's market index: its slot in the market's agent list and
// in the spatial index.
type AgentID int

// Group identifies a production group.
type Group int

// Defaults used when a Config leaves a parameter unset.
const (
	DefaultRadius     = 1.1
	DefaultSave       = 0.25
	DefaultDeviation  = 0.01
	DefaultPercentile = 50.0
)

// Config holds the creation parameters of an agent.
type Config struct {
	Cash     float64        `yaml:"cash" json:"cash"`
	Price    float64        `yaml:"price" json:"price"`
	Stock    int            `yaml:"stock" json:"stock"`
	Position world.HexCoord `yaml:"-" json:"position"`
	Group    Group          `yaml:"-" json:"group"`

	// Deviation from the group's base production cost; the personal
	// multiplier is 1 + Deviation.
	Deviation float64 `yaml:"deviation" json:"deviation"`

	SellRadius float64 `yaml:"sell_radius" json:"sell_radius"` // Demand and competitor sensing
	BuyRadius  float64 `yaml:"buy_radius" json:"buy_radius"`   // Supply sensing
	Save       float64 `yaml:"save" json:"save"`               // Share of profit withheld from production

	// Percentile of neighbouring competitor prices used as a pricing benchmark.
	Percentile float64 `yaml:"percentile" json:"percentile"`

	// Strict makes OpenStore and ShoppingRoutine return ErrIncoherent when a
	// routine leaves cash or stock negative. The mutation is never undone.
	Strict bool `yaml:"strict" json:"strict"`
}

// DefaultConfig returns the parameters of a typical agent.
func DefaultConfig() Config {
	return Config{
		Deviation:  DefaultDeviation,
		SellRadius: DefaultRadius,
		BuyRadius:  DefaultRadius,
		Save:       DefaultSave,
		Percentile: DefaultPercentile,
	}
}

// Agent is a producer/consumer living at a fixed position in the agora.
//
// Fields guarded by mu are the agent's public economic state: neighbours read
// them while sensing and buyers mutate them through Sell. Planner state is
// only written by the agent's own routines.
type Agent struct {
	ID         AgentID        `json:"id"`
	Position   world.HexCoord `json:"position"`
	Group      Group          `json:"group"`
	Multiplier float64        `json:"multiplier"` // Personal production-cost multiplier

	SellRadius float64 `json:"sell_radius"`
	BuyRadius  float64 `json:"buy_radius"`
	Save       float64 `json:"save"`
	Percentile float64 `json:"percentile"`
	Strict     bool    `json:"strict"`

	market Market

	mu          sync.Mutex
	cash        float64
	stock       int
	price       float64
	costPerUnit float64
	hierarchy   Hierarchy
	ledger      Ledger

	// Planner state, written only by the agent's own routines. demand and
	// planned are also read by observers, so they are written under mu.
	demand           int       // Neighbouring demand score for own group
	planned          int       // Quantity to produce today
	demand0          int       // Previous day's demand score
	cash0            float64   // Cash at the previous quantity decision
	competitorPrices []float64 // Prices of same-group neighbours
	suppliers        []Supplier
}

// New creates an agent bound to market m at index id. Parameters are taken
// as given: a zero radius senses nobody and a zero percentile benchmarks
// against the cheapest competitor. Start from DefaultConfig for the usual
// values.
func New(m Market, id AgentID, cfg Config) *Agent {
	a := &Agent{
		ID:         id,
		Position:   cfg.Position,
		Group:      cfg.Group,
		Multiplier: 1 + cfg.Deviation,
		SellRadius: cfg.SellRadius,
		BuyRadius:  cfg.BuyRadius,
		Save:       cfg.Save,
		Percentile: cfg.Percentile,
		Strict:     cfg.Strict,
		market:     m,
		cash:       cfg.Cash,
		stock:      cfg.Stock,
		price:      cfg.Price,
		cash0:      cfg.Cash,
	}
	needs := m.Needs()
	if int(cfg.Group) < len(needs) {
		a.demand0 = needs[cfg.Group]
	}
	a.ResetNeeds()
	return a
}

// Cash returns the agent's current cash.
func (a *Agent) Cash() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cash
}

// Stock returns the number of units the agent holds.
func (a *Agent) Stock() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stock
}

// Price returns the agent's current selling price.
func (a *Agent) Price() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.price
}

// CostPerUnit returns the production cost computed at the last pricing step.
func (a *Agent) CostPerUnit() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.costPerUnit
}

// Need returns the remaining weekly quantity the agent wants of group g.
func (a *Agent) Need(g Group) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hierarchy.Get(g)
}

// Hierarchy returns a copy of the agent's consumer hierarchy.
func (a *Agent) Hierarchy() Hierarchy {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hierarchy.Clone()
}

// Ledger returns a copy of every transaction record in order.
func (a *Agent) Ledger() []Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Records()
}

// LedgerTail returns the last n transaction records.
func (a *Agent) LedgerTail(n int) []Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Tail(n)
}

// Demand returns the neighbouring demand score from the last scan.
func (a *Agent) Demand() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.demand
}

// Planned returns the production quantity from the last planning step.
func (a *Agent) Planned() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.planned
}

// Snapshot is a point-in-time copy of an agent's public state.
type Snapshot struct {
	ID          AgentID        `json:"id"`
	Position    world.HexCoord `json:"position"`
	Group       Group          `json:"group"`
	Multiplier  float64        `json:"multiplier"`
	Cash        float64        `json:"cash"`
	Stock       int            `json:"stock"`
	Price       float64        `json:"price"`
	CostPerUnit float64        `json:"cost_per_unit"`
	Hierarchy   Hierarchy      `json:"hierarchy"`
	Demand      int            `json:"demand"`
	Planned     int            `json:"planned"`
	Ledger      int            `json:"ledger_len"`
}

// Snapshot returns a consistent copy of the agent's state.
func (a *Agent) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		ID:          a.ID,
		Position:    a.Position,
		Group:       a.Group,
		Multiplier:  a.Multiplier,
		Cash:        a.cash,
		Stock:       a.stock,
		Price:       a.price,
		CostPerUnit: a.costPerUnit,
		Hierarchy:   a.hierarchy.Clone(),
		Demand:      a.demand,
		Planned:     a.planned,
		Ledger:      a.ledger.Len(),
	}
}
