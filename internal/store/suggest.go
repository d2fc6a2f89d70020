package store

import (
	"database/sql"
	"errors"
	"time"
)

// IncrementCounter bumps the suggestion counter for a composite
// domain|ext|folder key and returns the new count.
func (db *DB) IncrementCounter(key string) (int, error) {
	_, err := db.SQL.Exec(`INSERT INTO suggest_counters(key, count) VALUES(?, 1)
		ON CONFLICT(key) DO UPDATE SET count = count + 1`, key)
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.SQL.QueryRow(`SELECT count FROM suggest_counters WHERE key = ?`, key).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ClearCounter resets a counter after a prompt is answered either way.
func (db *DB) ClearCounter(key string) error {
	_, err := db.SQL.Exec(`DELETE FROM suggest_counters WHERE key = ?`, key)
	return err
}

// IsIgnored reports whether the user already dismissed this key.
func (db *DB) IsIgnored(key string) (bool, error) {
	var one int
	err := db.SQL.QueryRow(`SELECT 1 FROM suggest_ignored WHERE key = ?`, key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// AddIgnored remembers a dismissed suggestion, FIFO capped at IgnoredCap.
func (db *DB) AddIgnored(key string) error {
	_, err := db.SQL.Exec(`INSERT INTO suggest_ignored(key, created_at) VALUES(?, ?)
		ON CONFLICT(key) DO NOTHING`, key, time.Now().Unix())
	if err != nil {
		return err
	}
	_, err = db.SQL.Exec(`DELETE FROM suggest_ignored WHERE id NOT IN
		(SELECT id FROM suggest_ignored ORDER BY id DESC LIMIT ?)`, IgnoredCap)
	return err
}

// IgnoredKeys lists dismissed keys, oldest first.
func (db *DB) IgnoredKeys() ([]string, error) {
	rows, err := db.SQL.Query(`SELECT key FROM suggest_ignored ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// PendingSuggestion is a fired "create a rule?" prompt awaiting a CLI
// answer, the portable stand-in for notification action buttons.
type PendingSuggestion struct {
	Key    string
	Domain string
	Ext    string
	Folder string
	Time   time.Time
}

// AddPendingSuggestion records a fired prompt. At most one per key.
func (db *DB) AddPendingSuggestion(p PendingSuggestion) error {
	if p.Time.IsZero() {
		p.Time = time.Now()
	}
	_, err := db.SQL.Exec(`INSERT INTO suggest_pending(key, domain, ext, folder, created_at)
		VALUES(?, ?, ?, ?, ?) ON CONFLICT(key) DO NOTHING`,
		p.Key, p.Domain, p.Ext, p.Folder, p.Time.Unix())
	return err
}

// PendingSuggestions lists unanswered prompts, oldest first.
func (db *DB) PendingSuggestions() ([]PendingSuggestion, error) {
	rows, err := db.SQL.Query(`SELECT key, domain, ext, folder, created_at
		FROM suggest_pending ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []PendingSuggestion
	for rows.Next() {
		var p PendingSuggestion
		var ts int64
		if err := rows.Scan(&p.Key, &p.Domain, &p.Ext, &p.Folder, &ts); err != nil {
			return nil, err
		}
		p.Time = time.Unix(ts, 0)
		out = append(out, p)
	}
	return out, rows.Err()
}

// TakePendingSuggestion consumes one prompt by key.
func (db *DB) TakePendingSuggestion(key string) (*PendingSuggestion, error) {
	var p PendingSuggestion
	var ts int64
	err := db.SQL.QueryRow(`SELECT key, domain, ext, folder, created_at
		FROM suggest_pending WHERE key = ?`, key).Scan(&p.Key, &p.Domain, &p.Ext, &p.Folder, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if _, err := db.SQL.Exec(`DELETE FROM suggest_pending WHERE key = ?`, key); err != nil {
		return nil, err
	}
	p.Time = time.Unix(ts, 0)
	return &p, nil
}
