// Package config loads the agora run configuration from YAML, a .env file
// and AGORA_* environment variables, in that order of precedence (lowest
// first).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/talgya/agora/internal/agents"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Seed           int64            `yaml:"seed"`
	Days           int              `yaml:"days"` // 0 runs until interrupted
	ShoppingRounds int              `yaml:"shopping_rounds"`
	DayInterval    string           `yaml:"day_interval"` // Go duration; empty runs flat out
	LogLevel       string           `yaml:"log_level"`
	Population     PopulationConfig `yaml:"population"`
	Agent          agents.Config    `yaml:"agent"`
	Market         MarketConfig     `yaml:"market"`
	Storage        StorageConfig    `yaml:"storage"`
	API            APIConfig        `yaml:"api"`
}

type PopulationConfig struct {
	Radius       int     `yaml:"radius"`
	MaxDeviation float64 `yaml:"max_deviation"`
	CashSpread   float64 `yaml:"cash_spread"`
}

type MarketConfig struct {
	Needs         []int     `yaml:"needs"`
	BaseCosts     []float64 `yaml:"base_costs"`
	CostAmplitude float64   `yaml:"cost_amplitude"`
	CostFrequency float64   `yaml:"cost_frequency"`
}

type StorageConfig struct {
	DBPath    string `yaml:"db_path"` // Empty disables persistence
	SaveEvery int    `yaml:"save_every"`
}

type APIConfig struct {
	Port        int      `yaml:"port"` // 0 disables the API
	CORSOrigins []string `yaml:"cors_origins"`
}

// Default returns a small four-group agora.
func Default() *Config {
	agent := agents.DefaultConfig()
	agent.Cash = 100
	agent.Price = 2
	agent.Stock = 3

	return &Config{
		Seed:           42,
		Days:           56,
		ShoppingRounds: 3,
		LogLevel:       "info",
		Population: PopulationConfig{
			Radius:       6,
			MaxDeviation: 0.2,
			CashSpread:   0.1,
		},
		Agent: agent,
		Market: MarketConfig{
			Needs:         []int{3, 2, 2, 1},
			BaseCosts:     []float64{1, 1.5, 2, 3},
			CostAmplitude: 0.1,
			CostFrequency: 0.05,
		},
		Storage: StorageConfig{
			DBPath:    "data/agora.db",
			SaveEvery: 7,
		},
		API: APIConfig{
			Port: 8080,
			CORSOrigins: []string{
				"http://localhost:5173",
				"http://localhost:3000",
			},
		},
	}
}

// Load reads path over the defaults, applies .env and environment overrides
// and validates the result. An empty path uses the defaults alone.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Load environment variables from .env file if present.
	_ = godotenv.Load()
	if err := c.loadFromEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) loadFromEnv() error {
	if val := os.Getenv("AGORA_SEED"); val != "" {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("AGORA_SEED: %w", err)
		}
		c.Seed = n
	}
	if val := os.Getenv("AGORA_DAYS"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("AGORA_DAYS: %w", err)
		}
		c.Days = n
	}
	if val := os.Getenv("AGORA_PORT"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("AGORA_PORT: %w", err)
		}
		c.API.Port = n
	}
	if val, ok := os.LookupEnv("AGORA_DB_PATH"); ok {
		c.Storage.DBPath = val
	}
	if val := os.Getenv("AGORA_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("AGORA_CORS_ORIGINS"); val != "" {
		c.API.CORSOrigins = nil
		for _, origin := range strings.Split(val, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.API.CORSOrigins = append(c.API.CORSOrigins, origin)
			}
		}
	}
	return nil
}

// Validate checks the configuration for values the simulation cannot run with.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalid)
	}
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Days < 0 {
		add("days must be >= 0")
	}
	if c.ShoppingRounds < 1 {
		add("shopping_rounds must be >= 1")
	}
	if _, err := c.Interval(); err != nil {
		add("day_interval: %v", err)
	}
	if _, err := c.Level(); err != nil {
		add("log_level: %v", err)
	}
	if c.Population.Radius < 0 {
		add("population.radius must be >= 0")
	}
	if c.Population.MaxDeviation < 0 {
		add("population.max_deviation must be >= 0")
	}
	if c.Population.CashSpread < 0 || c.Population.CashSpread >= 1 {
		add("population.cash_spread must be in [0,1)")
	}

	a := c.Agent
	if a.Cash < 0 {
		add("agent.cash must be >= 0")
	}
	if a.Stock < 0 {
		add("agent.stock must be >= 0")
	}
	if a.SellRadius < 0 || a.BuyRadius < 0 {
		add("agent radii must be >= 0")
	}
	if a.Save < 0 || a.Save > 1 {
		add("agent.save must be in [0,1]")
	}
	if a.Percentile < 0 || a.Percentile > 100 {
		add("agent.percentile must be in [0,100]")
	}

	m := c.Market
	if len(m.Needs) == 0 {
		add("market.needs must list at least one group")
	}
	if len(m.BaseCosts) != len(m.Needs) {
		add("market.base_costs has %d groups, market.needs has %d", len(m.BaseCosts), len(m.Needs))
	}
	for g, n := range m.Needs {
		if n < 0 {
			add("market.needs[%d] must be >= 0", g)
		}
	}
	for g, cost := range m.BaseCosts {
		if cost <= 0 {
			add("market.base_costs[%d] must be > 0", g)
		}
	}
	if m.CostAmplitude < 0 || m.CostAmplitude >= 1 {
		add("market.cost_amplitude must be in [0,1)")
	}

	if c.Storage.SaveEvery < 0 {
		add("storage.save_every must be >= 0")
	}
	if c.API.Port < 0 || c.API.Port > 65535 {
		add("api.port out of range")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	err := lvl.UnmarshalText([]byte(c.LogLevel))
	return lvl, err
}

// Groups returns the number of production groups.
func (c *Config) Groups() int {
	return len(c.Market.Needs)
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
