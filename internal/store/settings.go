package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"

	"downsort/internal/rules"
)

// Setting keys. History, counters and session rows have their own tables;
// everything scalar lives in the settings kv table.
const (
	keyAutoOrganize     = "auto_organize"
	keyNotificationMode = "notifications"
	keyForceNext        = "force_next"
	keySessionGen       = "session_generation"
	builtinTogglePrefix = "builtin."
)

// Notification modes, mirroring the always/errors/never setting of the
// options surface.
const (
	NotifyAlways = "always"
	NotifyErrors = "errors"
	NotifyNever  = "never"
)

func (db *DB) getSetting(key string) (string, bool, error) {
	var v string
	err := db.SQL.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (db *DB) setSetting(key, value string) error {
	_, err := db.SQL.Exec(`INSERT INTO settings(key, value) VALUES(?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (db *DB) deleteSetting(key string) error {
	_, err := db.SQL.Exec(`DELETE FROM settings WHERE key = ?`, key)
	return err
}

// AutoOrganize reports whether automatic organizing is enabled.
// Defaults to true when never set.
func (db *DB) AutoOrganize() (bool, error) {
	v, ok, err := db.getSetting(keyAutoOrganize)
	if err != nil || !ok {
		return err == nil, err
	}
	return v == "true", nil
}

func (db *DB) SetAutoOrganize(on bool) error {
	return db.setSetting(keyAutoOrganize, strconv.FormatBool(on))
}

// NotificationMode returns always, errors or never. Defaults to always.
func (db *DB) NotificationMode() (string, error) {
	v, ok, err := db.getSetting(keyNotificationMode)
	if err != nil {
		return "", err
	}
	if !ok {
		return NotifyAlways, nil
	}
	switch v {
	case NotifyAlways, NotifyErrors, NotifyNever:
		return v, nil
	}
	return NotifyAlways, nil
}

func (db *DB) SetNotificationMode(mode string) error {
	switch mode {
	case NotifyAlways, NotifyErrors, NotifyNever:
		return db.setSetting(keyNotificationMode, mode)
	}
	return errors.New("notification mode must be always, errors or never")
}

// BuiltinToggles returns the enabled state per built-in taxonomy key.
// Keys never toggled are absent, which callers treat as enabled.
func (db *DB) BuiltinToggles() (map[string]bool, error) {
	rows, err := db.SQL.Query(`SELECT key, value FROM settings WHERE key LIKE ?`, builtinTogglePrefix+"%")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := make(map[string]bool)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k[len(builtinTogglePrefix):]] = v == "true"
	}
	return out, rows.Err()
}

// SetBuiltinToggle enables or disables one built-in taxonomy entry.
func (db *DB) SetBuiltinToggle(key string, on bool) error {
	valid := false
	for _, k := range rules.BuiltinOrder {
		if k == key {
			valid = true
			break
		}
	}
	if !valid {
		return errors.New("unknown built-in category: " + key)
	}
	return db.setSetting(builtinTogglePrefix+key, strconv.FormatBool(on))
}

type forceNext struct {
	Folder string `json:"folder"`
}

// SetForceNext arms the one-shot forced folder for the next download.
func (db *DB) SetForceNext(folder string) error {
	b, err := json.Marshal(forceNext{Folder: folder})
	if err != nil {
		return err
	}
	return db.setSetting(keyForceNext, string(b))
}

// PeekForceNext reports the armed folder without consuming it.
func (db *DB) PeekForceNext() (string, bool, error) {
	v, ok, err := db.getSetting(keyForceNext)
	if err != nil || !ok {
		return "", false, err
	}
	var f forceNext
	if err := json.Unmarshal([]byte(v), &f); err != nil || f.Folder == "" {
		return "", false, nil
	}
	return f.Folder, true, nil
}

// ConsumeForceNext reads and clears the one-shot flag in one call, so it
// applies to exactly one download.
func (db *DB) ConsumeForceNext() (string, bool, error) {
	folder, ok, err := db.PeekForceNext()
	if err != nil || !ok {
		return "", false, err
	}
	if err := db.deleteSetting(keyForceNext); err != nil {
		return "", false, err
	}
	return folder, true, nil
}

// ClearForceNext disarms the flag without using it.
func (db *DB) ClearForceNext() error { return db.deleteSetting(keyForceNext) }
