// Package store persists user configuration and runtime state in a
// single sqlite database: the ordered rule list, custom categories,
// built-in category toggles, bounded download history, suggestion
// counters and the session-scoped pending-destination map.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/glebarez/sqlite"
)

const (
	// HistoryCap bounds the history table, oldest evicted first.
	HistoryCap = 50
	// IgnoredCap bounds the dismissed-suggestion set.
	IgnoredCap = 200
)

// DB wraps the sqlite handle. All methods are safe for the single
// event-driven caller the daemon runs; concurrent read-modify-write is
// last-writer-wins.
type DB struct {
	SQL  *sql.DB
	Path string
}

// Open creates the data directory if needed, opens the database and
// initializes the schema. Schema statements are idempotent so reopening
// an existing database is a no-op.
func Open(dataRoot string) (*DB, error) {
	if dataRoot == "" {
		return nil, errors.New("data root required")
	}
	if err := os.MkdirAll(dataRoot, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dataRoot, "downsort.db")
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout=5000&_pragma=journal_mode(WAL)&_fk=1", path)
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := initSchema(sqldb); err != nil {
		_ = sqldb.Close()
		return nil, err
	}
	return &DB{SQL: sqldb, Path: path}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rules (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			kind TEXT NOT NULL,
			match_value TEXT NOT NULL,
			folder TEXT NOT NULL,
			rename_template TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			folder TEXT NOT NULL,
			extensions TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT NOT NULL,
			folder TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			download_id TEXT NOT NULL DEFAULT '',
			size INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS suggest_counters (
			key TEXT PRIMARY KEY,
			count INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS suggest_ignored (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			key TEXT NOT NULL UNIQUE,
			created_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS suggest_pending (
			key TEXT PRIMARY KEY,
			domain TEXT NOT NULL,
			ext TEXT NOT NULL,
			folder TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_pending (
			download_id TEXT PRIMARY KEY,
			generation INTEGER NOT NULL,
			payload TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Close releases the database handle.
func (db *DB) Close() error { return db.SQL.Close() }
