package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/talgya/agora/internal/agents"
	"github.com/talgya/agora/internal/economy"
	"github.com/talgya/agora/internal/engine"
)

// AgentRow is a stored agent.
type AgentRow struct {
	ID          int     `db:"id" json:"id"`
	Q           int     `db:"pos_q" json:"q"`
	R           int     `db:"pos_r" json:"r"`
	Group       int     `db:"grp" json:"group"`
	Multiplier  float64 `db:"multiplier" json:"multiplier"`
	Cash        float64 `db:"cash" json:"cash"`
	Stock       int     `db:"stock" json:"stock"`
	Price       float64 `db:"price" json:"price"`
	CostPerUnit float64 `db:"cost_per_unit" json:"cost_per_unit"`
	Demand      int     `db:"demand" json:"demand"`
	Hierarchy   string  `db:"hierarchy_json" json:"-"`
	LedgerLen   int     `db:"ledger_len" json:"ledger_len"`
}

// Needs decodes the stored consumer hierarchy.
func (r AgentRow) Needs() (agents.Hierarchy, error) {
	var h agents.Hierarchy
	err := json.Unmarshal([]byte(r.Hierarchy), &h)
	return h, err
}

// LoadAgents returns every stored agent ordered by id.
func (db *DB) LoadAgents() ([]AgentRow, error) {
	var rows []AgentRow
	err := db.conn.Select(&rows, `SELECT id, pos_q, pos_r, grp, multiplier, cash, stock, price,
		cost_per_unit, demand, hierarchy_json, ledger_len FROM agents ORDER BY id`)
	return rows, err
}

// LoadLedger returns the stored ledger of one agent.
func (db *DB) LoadLedger(id agents.AgentID) ([]agents.Record, error) {
	var blob []byte
	if err := db.conn.Get(&blob, "SELECT ledger_zst FROM agents WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("load ledger %d: %w", id, err)
	}
	return decodeLedger(blob)
}

// RecentContacts returns the most recent contacts, newest first.
func (db *DB) RecentContacts(limit int) ([]economy.Contact, error) {
	var contacts []economy.Contact
	err := db.conn.Select(&contacts,
		"SELECT day, buyer, seller FROM contacts ORDER BY id DESC LIMIT ?",
		limit,
	)
	return contacts, err
}

// LoadStats returns every stored day of statistics in order.
func (db *DB) LoadStats() ([]engine.SimStats, error) {
	var stats []engine.SimStats
	err := db.conn.Select(&stats, "SELECT * FROM daily_stats ORDER BY day")
	return stats, err
}

// RecentEvents returns the most recent N events.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT day, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}
