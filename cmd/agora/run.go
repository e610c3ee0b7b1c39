package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/talgya/agora/internal/agents"
	"github.com/talgya/agora/internal/api"
	"github.com/talgya/agora/internal/config"
	"github.com/talgya/agora/internal/economy"
	"github.com/talgya/agora/internal/engine"
	"github.com/talgya/agora/internal/entropy"
	"github.com/talgya/agora/internal/persistence"
)

// buildSimulation creates the market, populates it and wraps it in a
// Simulation. A zero seed is replaced by a random one.
func buildSimulation(cfg *config.Config) (*engine.Simulation, error) {
	if cfg.Seed == 0 {
		cfg.Seed = entropy.Seed()
		slog.Info("drew random seed", "seed", cfg.Seed)
	}

	schedule := economy.NewCostSchedule(cfg.Market.BaseCosts, cfg.Market.CostAmplitude, cfg.Market.CostFrequency, cfg.Seed)
	market, err := economy.NewMarket(cfg.Market.Needs, schedule)
	if err != nil {
		return nil, fmt.Errorf("create market: %w", err)
	}

	population := agents.NewSpawner(cfg.Seed).Population(agents.SpawnConfig{
		Radius:       cfg.Population.Radius,
		Groups:       cfg.Groups(),
		MaxDeviation: cfg.Population.MaxDeviation,
		CashSpread:   cfg.Population.CashSpread,
		Base:         cfg.Agent,
	})
	for _, ac := range population {
		if _, err := market.Spawn(ac); err != nil {
			return nil, fmt.Errorf("spawn agent: %w", err)
		}
	}

	slog.Info("agora ready",
		"agents", len(market.Agents()),
		"groups", market.NumGroups(),
		"radius", cfg.Population.Radius,
		"seed", cfg.Seed,
	)
	return engine.NewSimulation(market, engine.Options{ShoppingRounds: cfg.ShoppingRounds}), nil
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sim, err := buildSimulation(cfg)
	if err != nil {
		return err
	}

	// ── Database ──────────────────────────────────────────────────────
	var db *persistence.DB
	var runID string
	if cfg.Storage.DBPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		db, err = persistence.Open(cfg.Storage.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		runID, err = db.StartRun(cfg.Seed)
		if err != nil {
			return fmt.Errorf("start run: %w", err)
		}
		slog.Info("database opened", "path", cfg.Storage.DBPath, "run_id", runID)
	}

	// ── Engine ────────────────────────────────────────────────────────
	interval, err := cfg.Interval()
	if err != nil {
		return err
	}
	eng := engine.NewEngine()
	eng.MaxDays = cfg.Days
	eng.Interval = interval
	eng.OnDay = func(day int) {
		sim.TickDay(day)
		if db != nil && cfg.Storage.SaveEvery > 0 && (day+1)%cfg.Storage.SaveEvery == 0 {
			if err := db.SaveWorldState(sim); err != nil {
				slog.Error("periodic save failed", "day", day, "error", err)
			}
		}
	}
	eng.OnWeek = sim.TickWeek

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.API.Port > 0 {
		srv := &api.Server{
			Sim:         sim,
			RunID:       runID,
			Port:        cfg.API.Port,
			CORSOrigins: cfg.API.CORSOrigins,
		}
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("HTTP shutdown failed", "error", err)
			}
		}()
	}

	runErr := eng.Run(ctx)
	if errors.Is(runErr, context.Canceled) {
		slog.Info("interrupted, shutting down", "day", sim.CurrentDay())
		runErr = nil
	}

	if db != nil {
		if err := db.SaveWorldState(sim); err != nil {
			return fmt.Errorf("final save: %w", err)
		}
	}

	st := sim.Stats
	fmt.Printf("\nagora finished %s: %d agents, %d purchases logged, %d incoherent on the last day.\n",
		engine.SimTime(max(sim.CurrentDay(), 0)), st.Population, sim.Market.ContactCount(), st.Incoherent)
	return runErr
}
