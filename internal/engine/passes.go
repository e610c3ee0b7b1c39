package engine

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/talgya/agora/internal/agents"
)

// dayChecks collects the agents found incoherent during one day, so each is
// counted and reported once however many routines leave it that way.
type dayChecks map[agents.AgentID]bool

// producerPass opens every store in index order and returns the units
// produced.
func (s *Simulation) producerPass(day int, checks dayChecks) (produced int) {
	for _, a := range s.Market.Agents() {
		err := a.OpenStore()
		produced += a.Planned()
		s.afterRoutine(day, a, "open_store", err, checks)
	}
	return produced
}

// consumerPass lets every agent shop once, in index order. All production
// has already happened, so sellers' stock only falls during the pass.
func (s *Simulation) consumerPass(day int, reset bool, checks dayChecks) {
	for _, a := range s.Market.Agents() {
		_, err := a.ShoppingRoutine(reset)
		s.afterRoutine(day, a, "shopping", err, checks)
	}
}

// afterRoutine inspects an agent after one of its routines. Violations count
// in strict and lenient mode alike; strict mode only adds the error.
func (s *Simulation) afterRoutine(day int, a *agents.Agent, routine string, err error, checks dayChecks) {
	if err != nil && !errors.Is(err, agents.ErrIncoherent) {
		slog.Error("agent routine failed", "agent", a.ID, "routine", routine, "error", err)
	}

	violations := a.Check()
	if len(violations) == 0 || checks[a.ID] {
		return
	}
	checks[a.ID] = true

	if err != nil {
		s.addEvent(day, "incoherent", "%v", err)
		return
	}
	parts := make([]string, len(violations))
	for i, v := range violations {
		parts[i] = v.String()
	}
	s.addEvent(day, "incoherent", "agent %d after %s: %s", a.ID, routine, strings.Join(parts, ", "))
}
