// Simulation ties the market and its agents together and runs them each day.
package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/talgya/agora/internal/economy"
)

// maxEvents bounds the event log kept in memory.
const maxEvents = 1000

// Options tune the daily driver.
type Options struct {
	// ShoppingRounds is how many consumer passes run per day. Each pass lets
	// every agent buy at most one unit.
	ShoppingRounds int
}

// Simulation holds the complete agora state and wires the daily passes.
type Simulation struct {
	Market  *economy.Market
	Options Options

	// mu guards everything below and serialises readers against a running day.
	mu      sync.RWMutex
	Events  []Event    // Recent events, trimmed weekly
	Stats   SimStats   // Statistics of the last completed day
	History []SimStats // One entry per completed day
	LastDay int        // Most recent day processed; -1 before the first
}

// Event is a notable occurrence in the agora.
type Event struct {
	Day         int    `json:"day" db:"day"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"` // "incoherent", "market", ...
}

// SimStats tracks aggregate market statistics for one day.
type SimStats struct {
	Day        int     `json:"day" db:"day"`
	Population int     `json:"population" db:"population"`
	TotalCash  float64 `json:"total_cash" db:"total_cash"`
	TotalStock int     `json:"total_stock" db:"total_stock"`
	MeanPrice  float64 `json:"mean_price" db:"mean_price"`
	Produced   int     `json:"produced" db:"produced"`
	Purchases  int     `json:"purchases" db:"purchases"`
	Unmet      int     `json:"unmet" db:"unmet"`           // Remaining weekly need across agents
	Incoherent int     `json:"incoherent" db:"incoherent"` // Agents left with negative cash or stock
}

// NewSimulation creates a Simulation over a populated market.
func NewSimulation(m *economy.Market, opts Options) *Simulation {
	if opts.ShoppingRounds <= 0 {
		opts.ShoppingRounds = 1
	}
	sim := &Simulation{
		Market:  m,
		Options: opts,
		LastDay: -1,
	}
	sim.Stats = sim.collectStats(0)
	return sim
}

// TickDay runs one simulated day: every agent opens its store, then every
// agent shops for ShoppingRounds passes. Needs reset on the final pass of the
// last day of a week.
func (s *Simulation) TickDay(day int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Market.SetDay(day)
	contactsBefore := s.Market.ContactCount()

	checks := dayChecks{}
	produced := s.producerPass(day, checks)
	for round := 0; round < s.Options.ShoppingRounds; round++ {
		reset := IsWeekEnd(day) && round == s.Options.ShoppingRounds-1
		s.consumerPass(day, reset, checks)
	}

	stats := s.collectStats(day)
	stats.Produced = produced
	stats.Purchases = s.Market.ContactCount() - contactsBefore
	stats.Incoherent = len(checks)
	s.Stats = stats
	s.History = append(s.History, stats)
	s.LastDay = day

	slog.Info("daily report",
		"day", day,
		"time", SimTime(day),
		"agents", stats.Population,
		"total_cash", humanize.CommafWithDigits(stats.TotalCash, 2),
		"total_stock", stats.TotalStock,
		"mean_price", fmt.Sprintf("%.3f", stats.MeanPrice),
		"produced", stats.Produced,
		"purchases", stats.Purchases,
		"unmet", stats.Unmet,
		"incoherent", stats.Incoherent,
	)
}

// TickWeek runs after the last day of each week.
func (s *Simulation) TickWeek(day int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purchases := 0
	start := max(len(s.History)-DaysPerWeek, 0)
	for _, st := range s.History[start:] {
		purchases += st.Purchases
	}
	slog.Info("weekly summary",
		"day", day,
		"time", SimTime(day),
		"purchases", humanize.Comma(int64(purchases)),
		"events_this_week", len(s.Events),
	)

	// Trim old events to prevent unbounded growth.
	if len(s.Events) > maxEvents {
		s.Events = s.Events[len(s.Events)-maxEvents:]
	}
}

// View runs fn with the simulation locked for reading.
func (s *Simulation) View(fn func(*Simulation)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s)
}

// CurrentDay returns the most recently processed day.
func (s *Simulation) CurrentDay() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastDay
}

func (s *Simulation) addEvent(day int, category, format string, args ...any) {
	s.Events = append(s.Events, Event{
		Day:         day,
		Description: fmt.Sprintf(format, args...),
		Category:    category,
	})
}

func (s *Simulation) collectStats(day int) SimStats {
	st := SimStats{Day: day}
	priceSum := 0.0
	for _, a := range s.Market.Agents() {
		snap := a.Snapshot()
		st.Population++
		st.TotalCash += snap.Cash
		st.TotalStock += snap.Stock
		st.Unmet += snap.Hierarchy.Total()
		priceSum += snap.Price
	}
	if st.Population > 0 {
		st.MeanPrice = priceSum / float64(st.Population)
	}
	return st
}
