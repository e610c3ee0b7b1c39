package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/agora/internal/config"
	"github.com/talgya/agora/internal/world"
)

func TestBuildSimulationPopulatesDisc(t *testing.T) {
	cfg := config.Default()
	cfg.Population.Radius = 2

	sim, err := buildSimulation(cfg)
	require.NoError(t, err)

	assert.Len(t, sim.Market.Agents(), len(world.Disc(2)))
	assert.Equal(t, len(cfg.Market.Needs), sim.Market.NumGroups())
}

func TestBuildSimulationDrawsSeed(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 0
	cfg.Population.Radius = 1

	_, err := buildSimulation(cfg)
	require.NoError(t, err)
	assert.NotZero(t, cfg.Seed)
}

func TestBuildSimulationIsDeterministic(t *testing.T) {
	build := func() []float64 {
		cfg := config.Default()
		cfg.Population.Radius = 2
		sim, err := buildSimulation(cfg)
		require.NoError(t, err)
		var cash []float64
		for _, a := range sim.Market.Agents() {
			cash = append(cash, a.Cash())
		}
		return cash
	}
	assert.Equal(t, build(), build())
}
