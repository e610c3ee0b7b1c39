// Package api provides the read-only HTTP API for observing a running agora.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/cors"

	"github.com/talgya/agora/internal/agents"
	"github.com/talgya/agora/internal/economy"
	"github.com/talgya/agora/internal/engine"
)

// ledgerPreview is how many records the agent detail endpoint includes.
const ledgerPreview = 20

// Server serves the agora state over HTTP.
type Server struct {
	Sim         *engine.Simulation
	RunID       string
	Port        int
	CORSOrigins []string

	srv *http.Server
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	heavy := NewRateLimiter(30, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/agents", s.handleAgents)
	mux.HandleFunc("GET /api/v1/agent/{id}", s.handleAgent)
	mux.HandleFunc("GET /api/v1/agent/{id}/ledger", RateLimitMiddleware(heavy, s.handleLedger))
	mux.HandleFunc("GET /api/v1/contacts", s.handleContacts)
	mux.HandleFunc("GET /api/v1/stats", s.handleStats)
	mux.HandleFunc("GET /api/v1/stats/history", RateLimitMiddleware(heavy, s.handleStatsHistory))
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)

	c := cors.New(cors.Options{
		AllowedOrigins: s.CORSOrigins,
		AllowedMethods: []string{http.MethodGet},
	})
	return c.Handler(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "cors_origins", len(s.CORSOrigins))

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Shutdown stops the server started by Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var status map[string]any
	s.Sim.View(func(sim *engine.Simulation) {
		m := sim.Market
		status = map[string]any{
			"name":       "agora",
			"run_id":     s.RunID,
			"day":        sim.LastDay,
			"sim_time":   engine.SimTime(max(sim.LastDay, 0)),
			"agents":     len(m.Agents()),
			"groups":     m.NumGroups(),
			"needs":      m.Needs(),
			"prod_costs": m.Costs(),
			"contacts":   m.ContactCount(),
			"stats":      sim.Stats,
		}
	})
	writeJSON(w, status)
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	group := -1
	if g := r.URL.Query().Get("group"); g != "" {
		n, err := strconv.Atoi(g)
		if err != nil || n < 0 {
			http.Error(w, "invalid group", http.StatusBadRequest)
			return
		}
		group = n
	}

	result := []agents.Snapshot{}
	s.Sim.View(func(sim *engine.Simulation) {
		for _, a := range sim.Market.Agents() {
			if group >= 0 && int(a.Group) != group {
				continue
			}
			result = append(result, a.Snapshot())
		}
	})
	writeJSON(w, result)
}

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	a, ok := s.lookupAgent(w, r)
	if !ok {
		return
	}
	var detail map[string]any
	s.Sim.View(func(*engine.Simulation) {
		detail = map[string]any{
			"agent":      a.Snapshot(),
			"violations": a.Check(),
			"recent":     a.LedgerTail(ledgerPreview),
		}
	})
	writeJSON(w, detail)
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	a, ok := s.lookupAgent(w, r)
	if !ok {
		return
	}
	var records []agents.Record
	s.Sim.View(func(*engine.Simulation) {
		records = a.Ledger()
	})
	writeJSON(w, records)
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	day := s.Sim.CurrentDay()
	if d := r.URL.Query().Get("day"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil {
			http.Error(w, "invalid day", http.StatusBadRequest)
			return
		}
		day = n
	}

	var contacts []economy.Contact
	s.Sim.View(func(sim *engine.Simulation) {
		contacts = sim.Market.ContactsOn(day)
	})
	if contacts == nil {
		contacts = []economy.Contact{}
	}
	writeJSON(w, map[string]any{"day": day, "contacts": contacts})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var stats engine.SimStats
	s.Sim.View(func(sim *engine.Simulation) {
		stats = sim.Stats
	})
	writeJSON(w, stats)
}

func (s *Server) handleStatsHistory(w http.ResponseWriter, r *http.Request) {
	var history []engine.SimStats
	s.Sim.View(func(sim *engine.Simulation) {
		history = append([]engine.SimStats{}, sim.History...)
	})
	writeJSON(w, history)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var events []engine.Event
	s.Sim.View(func(sim *engine.Simulation) {
		events = append([]engine.Event{}, sim.Events...)
	})
	writeJSON(w, events)
}

// lookupAgent resolves the {id} path value, writing an error response when
// it does not name an agent.
func (s *Server) lookupAgent(w http.ResponseWriter, r *http.Request) (*agents.Agent, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid agent id", http.StatusBadRequest)
		return nil, false
	}
	var a *agents.Agent
	s.Sim.View(func(sim *engine.Simulation) {
		if id >= 0 && id < len(sim.Market.Agents()) {
			a = sim.Market.Agent(agents.AgentID(id))
		}
	})
	if a == nil {
		http.Error(w, "agent not found", http.StatusNotFound)
		return nil, false
	}
	return a, true
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		slog.Debug("write response failed", "error", err)
	}
}
