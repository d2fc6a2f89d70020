package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"downsort/internal/rules"
)

// Categories returns the custom category list in order. These are
// checked before the built-in taxonomy.
func (db *DB) Categories() ([]rules.Category, error) {
	rows, err := db.SQL.Query(`SELECT id, folder, extensions FROM categories ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []rules.Category
	for rows.Next() {
		var c rules.Category
		var exts string
		if err := rows.Scan(&c.ID, &c.Folder, &exts); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(exts), &c.Extensions); err != nil {
			return nil, fmt.Errorf("category %s extensions: %w", c.ID, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddCategory appends a custom category. Extensions are normalized to
// lower case with dots stripped before storage.
func (db *DB) AddCategory(c rules.Category) (rules.Category, error) {
	if strings.TrimSpace(c.Folder) == "" {
		return rules.Category{}, errors.New("category folder required")
	}
	norm := make([]string, 0, len(c.Extensions))
	for _, e := range c.Extensions {
		if n := rules.NormalizeExt(e); n != "" {
			norm = append(norm, n)
		}
	}
	if len(norm) == 0 {
		return rules.Category{}, errors.New("at least one extension required")
	}
	c.Extensions = norm
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	exts, err := json.Marshal(c.Extensions)
	if err != nil {
		return rules.Category{}, err
	}
	_, err = db.SQL.Exec(`INSERT INTO categories(id, position, folder, extensions)
		VALUES(?, (SELECT COALESCE(MAX(position), -1) + 1 FROM categories), ?, ?)`,
		c.ID, c.Folder, string(exts))
	if err != nil {
		return rules.Category{}, err
	}
	return c, nil
}

// DeleteCategory removes a custom category by id.
func (db *DB) DeleteCategory(id string) error {
	res, err := db.SQL.Exec(`DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("no category with id %s", id)
	}
	return nil
}
