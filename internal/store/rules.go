package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"downsort/internal/rules"
)

// Rules returns the rule list in user-defined order.
func (db *DB) Rules() ([]rules.Rule, error) {
	rows, err := db.SQL.Query(`SELECT id, kind, match_value, folder, rename_template
		FROM rules ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []rules.Rule
	for rows.Next() {
		var r rules.Rule
		var kind string
		if err := rows.Scan(&r.ID, &kind, &r.MatchValue, &r.Folder, &r.RenameTemplate); err != nil {
			return nil, err
		}
		r.Kind = rules.RuleKind(kind)
		out = append(out, r)
	}
	return out, rows.Err()
}

// AddRule validates and appends a rule at the end of the order. A missing
// id gets a fresh one; ids are stable across later edits.
func (db *DB) AddRule(r rules.Rule) (rules.Rule, error) {
	if err := validateRule(r); err != nil {
		return rules.Rule{}, err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := db.SQL.Exec(`INSERT INTO rules(id, position, kind, match_value, folder, rename_template)
		VALUES(?, (SELECT COALESCE(MAX(position), -1) + 1 FROM rules), ?, ?, ?, ?)`,
		r.ID, string(r.Kind), r.MatchValue, r.Folder, r.RenameTemplate)
	if err != nil {
		return rules.Rule{}, err
	}
	return r, nil
}

// DeleteRule removes a rule by id.
func (db *DB) DeleteRule(id string) error {
	res, err := db.SQL.Exec(`DELETE FROM rules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("no rule with id %s", id)
	}
	return nil
}

// MoveRule repositions a rule to index (0-based) and renumbers the rest.
func (db *DB) MoveRule(id string, index int) error {
	all, err := db.Rules()
	if err != nil {
		return err
	}
	from := -1
	for i, r := range all {
		if r.ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return fmt.Errorf("no rule with id %s", id)
	}
	if index < 0 {
		index = 0
	}
	if index >= len(all) {
		index = len(all) - 1
	}
	moved := all[from]
	all = append(all[:from], all[from+1:]...)
	rest := make([]rules.Rule, 0, len(all)+1)
	rest = append(rest, all[:index]...)
	rest = append(rest, moved)
	rest = append(rest, all[index:]...)
	return db.renumberRules(rest)
}

func (db *DB) renumberRules(ordered []rules.Rule) error {
	tx, err := db.SQL.Begin()
	if err != nil {
		return err
	}
	for i, r := range ordered {
		if _, err := tx.Exec(`UPDATE rules SET position = ? WHERE id = ?`, i, r.ID); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// ReplaceRules swaps the whole rule list, used by import. Rules without
// ids get fresh ones. Validation failures abort before anything is
// written.
func (db *DB) ReplaceRules(rs []rules.Rule) error {
	for i := range rs {
		if err := validateRule(rs[i]); err != nil {
			return fmt.Errorf("rule %d: %w", i+1, err)
		}
		if rs[i].ID == "" {
			rs[i].ID = uuid.NewString()
		}
	}
	tx, err := db.SQL.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM rules`); err != nil {
		_ = tx.Rollback()
		return err
	}
	for i, r := range rs {
		if _, err := tx.Exec(`INSERT INTO rules(id, position, kind, match_value, folder, rename_template)
			VALUES(?, ?, ?, ?, ?, ?)`,
			r.ID, i, string(r.Kind), r.MatchValue, r.Folder, r.RenameTemplate); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// ExportRulesJSON renders the rule list as a portable JSON array that
// ImportRulesJSON accepts back.
func (db *DB) ExportRulesJSON() ([]byte, error) {
	rs, err := db.Rules()
	if err != nil {
		return nil, err
	}
	if rs == nil {
		rs = []rules.Rule{}
	}
	return json.MarshalIndent(rs, "", "  ")
}

// ImportRulesJSON parses an exported rule array and replaces the current
// list. Malformed input aborts with no partial state written.
func (db *DB) ImportRulesJSON(data []byte) (int, error) {
	var rs []rules.Rule
	if err := json.Unmarshal(data, &rs); err != nil {
		return 0, fmt.Errorf("import file is not a rule array: %w", err)
	}
	if err := db.ReplaceRules(rs); err != nil {
		return 0, err
	}
	return len(rs), nil
}

func validateRule(r rules.Rule) error {
	switch r.Kind {
	case rules.KindKeyword, rules.KindURL:
	default:
		return fmt.Errorf("kind must be %s or %s", rules.KindKeyword, rules.KindURL)
	}
	if strings.TrimSpace(r.MatchValue) == "" {
		return errors.New("match value required")
	}
	if strings.TrimSpace(r.Folder) == "" {
		return errors.New("destination folder required")
	}
	return nil
}
