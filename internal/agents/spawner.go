// Agent spawning: lays the initial population out on the hex disc and draws
// each agent's personal parameters once.
package agents

import (
	"math/rand"

	"github.com/talgya/agora/internal/world"
)

// SpawnConfig controls initial population generation.
type SpawnConfig struct {
	Radius       int     // Hex disc radius; one agent per hex
	Groups       int     // Number of production groups
	MaxDeviation float64 // Personal cost deviation drawn from [0, MaxDeviation)
	CashSpread   float64 // Initial cash varies by ± this fraction
	Base         Config  // Template for everything not drawn
}

// Spawner creates agent configurations for the market.
type Spawner struct {
	rng *rand.Rand
}

// NewSpawner creates a spawner with the given seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{rng: rand.New(rand.NewSource(seed + 300))}
}

// Population returns one configuration per hex of the disc. Groups are dealt
// round-robin and shuffled, so group sizes differ by at most one.
func (s *Spawner) Population(cfg SpawnConfig) []Config {
	cells := world.Disc(cfg.Radius)
	groups := make([]Group, len(cells))
	for i := range groups {
		if cfg.Groups > 0 {
			groups[i] = Group(i % cfg.Groups)
		}
	}
	s.rng.Shuffle(len(groups), func(i, j int) {
		groups[i], groups[j] = groups[j], groups[i]
	})

	out := make([]Config, len(cells))
	for i, pos := range cells {
		c := cfg.Base
		c.Position = pos
		c.Group = groups[i]
		c.Deviation = s.rng.Float64() * cfg.MaxDeviation
		if cfg.CashSpread > 0 {
			c.Cash *= 1 + (s.rng.Float64()*2-1)*cfg.CashSpread
		}
		out[i] = c
	}
	return out
}
