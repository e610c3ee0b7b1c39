package economy

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// minCostFraction keeps drifting costs strictly positive.
const minCostFraction = 0.05

// CostSchedule drifts each group's base production cost smoothly from day to
// day. Every group samples its own row of a 2D noise field, so groups move
// independently but reproducibly for a seed.
type CostSchedule struct {
	Base      []float64 // Base cost per group
	Amplitude float64   // Maximum relative swing; 0 keeps costs constant
	Frequency float64   // Noise steps per day

	noise opensimplex.Noise
}

// NewCostSchedule creates a schedule over the given base costs.
func NewCostSchedule(base []float64, amplitude, frequency float64, seed int64) *CostSchedule {
	b := make([]float64, len(base))
	copy(b, base)
	return &CostSchedule{
		Base:      b,
		Amplitude: amplitude,
		Frequency: frequency,
		noise:     opensimplex.NewNormalized(seed + 500),
	}
}

// CostsOn returns every group's cost on the given day.
func (s *CostSchedule) CostsOn(day int) []float64 {
	out := make([]float64, len(s.Base))
	for g, base := range s.Base {
		out[g] = s.cost(g, base, day)
	}
	return out
}

func (s *CostSchedule) cost(g int, base float64, day int) float64 {
	if s.Amplitude == 0 || s.noise == nil {
		return base
	}
	// Normalized noise is in [0, 1]; centre it on zero.
	n := s.noise.Eval2(float64(g)*7.31, float64(day)*s.Frequency)*2 - 1
	return math.Max(base*(1+s.Amplitude*n), base*minCostFraction)
}
