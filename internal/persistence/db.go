// Package persistence provides SQLite-based storage of agora runs: agent
// state, compressed ledgers, the contact log, daily statistics and events.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/agora/internal/economy"
	"github.com/talgya/agora/internal/engine"
)

// DB wraps a SQLite connection for run persistence.
type DB struct {
	conn *sqlx.DB

	// Watermarks of what SaveWorldState has already written.
	savedContacts int
	savedDay      int
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn, savedDay: -1}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS agents (
		id INTEGER PRIMARY KEY,
		pos_q INTEGER NOT NULL,
		pos_r INTEGER NOT NULL,
		grp INTEGER NOT NULL,
		multiplier REAL NOT NULL,
		cash REAL NOT NULL,
		stock INTEGER NOT NULL,
		price REAL NOT NULL,
		cost_per_unit REAL NOT NULL,
		demand INTEGER NOT NULL,
		hierarchy_json TEXT NOT NULL,
		ledger_len INTEGER NOT NULL,
		ledger_zst BLOB
	);

	CREATE TABLE IF NOT EXISTS contacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		day INTEGER NOT NULL,
		buyer INTEGER NOT NULL,
		seller INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS daily_stats (
		day INTEGER PRIMARY KEY,
		population INTEGER NOT NULL,
		total_cash REAL NOT NULL,
		total_stock INTEGER NOT NULL,
		mean_price REAL NOT NULL,
		produced INTEGER NOT NULL,
		purchases INTEGER NOT NULL,
		unmet INTEGER NOT NULL,
		incoherent INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		day INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_contacts_day ON contacts(day);
	CREATE INDEX IF NOT EXISTS idx_events_day ON events(day);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Reset clears all run data, keeping the schema.
func (db *DB) Reset() error {
	for _, table := range []string{"agents", "contacts", "daily_stats", "events", "world_meta"} {
		if _, err := db.conn.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	db.savedContacts = 0
	db.savedDay = -1
	return nil
}

// SaveAgents writes every agent of the market (full replace).
func (db *DB) SaveAgents(m *economy.Market) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM agents"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO agents
		(id, pos_q, pos_r, grp, multiplier, cash, stock, price, cost_per_unit,
		 demand, hierarchy_json, ledger_len, ledger_zst)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range m.Agents() {
		snap := a.Snapshot()
		hierarchyJSON, err := json.Marshal(snap.Hierarchy)
		if err != nil {
			return fmt.Errorf("encode hierarchy %d: %w", snap.ID, err)
		}
		ledger, err := encodeLedger(a.Ledger())
		if err != nil {
			return fmt.Errorf("encode ledger %d: %w", snap.ID, err)
		}

		_, err = stmt.Exec(
			snap.ID, snap.Position.Q, snap.Position.R, snap.Group, snap.Multiplier,
			snap.Cash, snap.Stock, snap.Price, snap.CostPerUnit,
			snap.Demand, string(hierarchyJSON), snap.Ledger, ledger,
		)
		if err != nil {
			return fmt.Errorf("insert agent %d: %w", snap.ID, err)
		}
	}

	return tx.Commit()
}

// SaveContacts appends contacts to the database.
func (db *DB) SaveContacts(contacts []economy.Contact) error {
	if len(contacts) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, c := range contacts {
		if _, err := tx.Exec(
			"INSERT INTO contacts (day, buyer, seller) VALUES (?, ?, ?)",
			c.Day, c.Buyer, c.Seller,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveStats writes daily statistics, replacing any row for the same day.
func (db *DB) SaveStats(stats []engine.SimStats) error {
	if len(stats) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, st := range stats {
		if _, err := tx.NamedExec(`INSERT OR REPLACE INTO daily_stats
			(day, population, total_cash, total_stock, mean_price, produced, purchases, unmet, incoherent)
			VALUES (:day, :population, :total_cash, :total_stock, :mean_price, :produced, :purchases, :unmet, :incoherent)`,
			st,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (day, description, category) VALUES (?, ?, ?)",
			e.Day, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair in run metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// SaveWorldState saves the agents in full and appends contacts, statistics
// and events produced since the previous save.
func (db *DB) SaveWorldState(sim *engine.Simulation) error {
	var saveErr error
	sim.View(func(s *engine.Simulation) {
		slog.Info("saving run state", "agents", len(s.Market.Agents()), "day", s.LastDay)

		if err := db.SaveAgents(s.Market); err != nil {
			saveErr = fmt.Errorf("save agents: %w", err)
			return
		}
		contacts := s.Market.ContactsSince(db.savedContacts)
		if err := db.SaveContacts(contacts); err != nil {
			saveErr = fmt.Errorf("save contacts: %w", err)
			return
		}
		db.savedContacts += len(contacts)

		var stats []engine.SimStats
		for _, st := range s.History {
			if st.Day > db.savedDay {
				stats = append(stats, st)
			}
		}
		if err := db.SaveStats(stats); err != nil {
			saveErr = fmt.Errorf("save stats: %w", err)
			return
		}
		var events []engine.Event
		for _, e := range s.Events {
			if e.Day > db.savedDay {
				events = append(events, e)
			}
		}
		if err := db.SaveEvents(events); err != nil {
			saveErr = fmt.Errorf("save events: %w", err)
			return
		}
		if err := db.SaveMeta("last_day", strconv.Itoa(s.LastDay)); err != nil {
			saveErr = fmt.Errorf("save meta: %w", err)
			return
		}
		db.savedDay = s.LastDay
	})
	if saveErr != nil {
		return saveErr
	}

	slog.Info("run state saved")
	return nil
}
