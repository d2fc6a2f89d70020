// Package tui is a small dashboard over the organizer state: recent
// history on one tab, the rule list on the other.
package tui

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"downsort/internal/rules"
	"downsort/internal/store"
)

// Model holds the data behind the dashboard and the filter logic.
// Rendering and key handling live in view.go / tui.go.
type Model struct {
	db      *store.DB
	history []store.HistoryEntry
	rules   []rules.Rule
}

func NewModel(db *store.DB) *Model {
	return &Model{db: db}
}

// Load refreshes both tabs from the database.
func (m *Model) Load() error {
	hist, err := m.db.History()
	if err != nil {
		return err
	}
	rls, err := m.db.Rules()
	if err != nil {
		return err
	}
	m.history = hist
	m.rules = rls
	return nil
}

// FilteredHistory returns history entries whose filename or folder
// fuzzy-matches the query. An empty query returns everything.
func (m *Model) FilteredHistory(query string) []store.HistoryEntry {
	query = strings.TrimSpace(query)
	if query == "" {
		return m.history
	}
	var out []store.HistoryEntry
	for _, h := range m.history {
		if fuzzy.MatchNormalizedFold(query, h.Filename) || fuzzy.MatchNormalizedFold(query, h.Folder) {
			out = append(out, h)
		}
	}
	return out
}

// FilteredRules returns rules whose match value or folder fuzzy-matches
// the query.
func (m *Model) FilteredRules(query string) []rules.Rule {
	query = strings.TrimSpace(query)
	if query == "" {
		return m.rules
	}
	var out []rules.Rule
	for _, r := range m.rules {
		if fuzzy.MatchNormalizedFold(query, r.MatchValue) || fuzzy.MatchNormalizedFold(query, r.Folder) {
			out = append(out, r)
		}
	}
	return out
}
