package agents

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrIncoherent is returned in strict mode when a routine leaves the agent
// with negative cash or stock.
var ErrIncoherent = errors.New("agent state incoherent")

// recentRecords is how many ledger records accompany a coherence warning.
const recentRecords = 5

// Violation is a broken state invariant.
type Violation struct {
	Field string  `json:"field"`
	Value float64 `json:"value"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s=%g", v.Field, v.Value)
}

// Check inspects cash and stock and returns every negative one. It only
// observes.
func (a *Agent) Check() []Violation {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []Violation
	if a.cash < 0 {
		out = append(out, Violation{Field: "cash", Value: a.cash})
	}
	if a.stock < 0 {
		out = append(out, Violation{Field: "stock", Value: float64(a.stock)})
	}
	return out
}

// coherenceCheck logs violations together with the latest ledger records.
// In strict mode it also reports them as an error; nothing is rolled back.
func (a *Agent) coherenceCheck(routine string) error {
	violations := a.Check()
	if len(violations) == 0 {
		return nil
	}

	recent := a.LedgerTail(recentRecords)
	for _, v := range violations {
		slog.Warn("agent "+v.Field+" is negative",
			"agent", a.ID,
			"routine", routine,
			"value", v.Value,
			"recent", recent,
		)
	}

	if !a.Strict {
		return nil
	}
	parts := make([]string, len(violations))
	for i, v := range violations {
		parts[i] = v.String()
	}
	return fmt.Errorf("agent %d after %s: %w: %s", a.ID, routine, ErrIncoherent, strings.Join(parts, ", "))
}
