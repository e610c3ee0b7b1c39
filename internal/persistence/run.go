package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// StartRun clears previous run data and records a new run identifier and
// seed. It returns the run ID.
func (db *DB) StartRun(seed int64) (string, error) {
	if err := db.Reset(); err != nil {
		return "", fmt.Errorf("reset: %w", err)
	}
	id := uuid.NewString()
	if err := db.SaveMeta("run_id", id); err != nil {
		return "", err
	}
	if err := db.SaveMeta("seed", strconv.FormatInt(seed, 10)); err != nil {
		return "", err
	}
	return id, nil
}

// RunID returns the identifier of the stored run, or "" if none.
func (db *DB) RunID() (string, error) {
	id, err := db.GetMeta("run_id")
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return id, err
}
