package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"

	"downsort/internal/rules"
)

// PendingDestination associates a download id with a precomputed folder
// before the organizer decides on a final path. Session-scoped: it
// survives a process restart but not a new watch session.
type PendingDestination struct {
	Folder string      `json:"folder"`
	Manual bool        `json:"isManual"`
	Rule   *rules.Rule `json:"rule,omitempty"`
}

func (db *DB) sessionGeneration() (int64, error) {
	v, ok, err := db.getSetting(keySessionGen)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// BeginSession starts a new session generation and purges pending rows
// left over from earlier ones. The watch daemon calls this on startup.
func (db *DB) BeginSession() error {
	gen, err := db.sessionGeneration()
	if err != nil {
		return err
	}
	gen++
	if err := db.setSetting(keySessionGen, strconv.FormatInt(gen, 10)); err != nil {
		return err
	}
	_, err = db.SQL.Exec(`DELETE FROM session_pending WHERE generation < ?`, gen)
	return err
}

// PutPending stores the precomputed destination for a download id.
func (db *DB) PutPending(downloadID string, p PendingDestination) error {
	if downloadID == "" {
		return errors.New("download id required")
	}
	gen, err := db.sessionGeneration()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = db.SQL.Exec(`INSERT INTO session_pending(download_id, generation, payload)
		VALUES(?, ?, ?)
		ON CONFLICT(download_id) DO UPDATE SET generation = excluded.generation, payload = excluded.payload`,
		downloadID, gen, string(payload))
	return err
}

// TakePending consumes a pending destination: read once, then deleted.
// Returns nil when none is recorded for the id.
func (db *DB) TakePending(downloadID string) (*PendingDestination, error) {
	var payload string
	err := db.SQL.QueryRow(`SELECT payload FROM session_pending WHERE download_id = ?`,
		downloadID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if _, err := db.SQL.Exec(`DELETE FROM session_pending WHERE download_id = ?`, downloadID); err != nil {
		return nil, err
	}
	var p PendingDestination
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// HasPending reports whether a pending destination exists without
// consuming it.
func (db *DB) HasPending(downloadID string) (bool, error) {
	var one int
	err := db.SQL.QueryRow(`SELECT 1 FROM session_pending WHERE download_id = ?`,
		downloadID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
