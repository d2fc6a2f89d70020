package tui

import (
	"strings"
	"testing"
	"time"

	"downsort/internal/rules"
	"downsort/internal/store"
)

func newDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestModelLoadAndFilter(t *testing.T) {
	db := newDB(t)
	if _, err := db.AddRule(rules.Rule{Kind: rules.KindKeyword, MatchValue: "invoice", Folder: "Finance"}); err != nil {
		t.Fatalf("add rule: %v", err)
	}
	if _, err := db.AddRule(rules.Rule{Kind: rules.KindURL, MatchValue: "github.com", Folder: "Code"}); err != nil {
		t.Fatalf("add rule: %v", err)
	}
	if err := db.AppendHistory(store.HistoryEntry{Filename: "invoice-march.pdf", Folder: "Finance", Size: 1024, Time: time.Now()}); err != nil {
		t.Fatalf("append history: %v", err)
	}
	if err := db.AppendHistory(store.HistoryEntry{Filename: "song.mp3", Folder: "Audio", Size: 2048, Time: time.Now()}); err != nil {
		t.Fatalf("append history: %v", err)
	}

	m := NewModel(db)
	if err := m.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := len(m.FilteredHistory("")); got != 2 {
		t.Fatalf("history count = %d, want 2", got)
	}
	if got := m.FilteredHistory("invoice"); len(got) != 1 || got[0].Filename != "invoice-march.pdf" {
		t.Fatalf("filtered history = %+v", got)
	}
	if got := m.FilteredRules("github"); len(got) != 1 || got[0].Folder != "Code" {
		t.Fatalf("filtered rules = %+v", got)
	}
	if got := len(m.FilteredRules("zzz")); got != 0 {
		t.Fatalf("filtered rules for nonsense query = %d, want 0", got)
	}
}

func TestViewRendersTabs(t *testing.T) {
	db := newDB(t)
	if err := db.AppendHistory(store.HistoryEntry{Filename: "report.pdf", Folder: "Documents", Size: 512, Time: time.Now()}); err != nil {
		t.Fatalf("append history: %v", err)
	}

	m := NewModel(db)
	if err := m.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	v := NewView()
	v.SetSize(120, 40)
	c := NewController(m, v)

	out := v.View(m, c)
	if !strings.Contains(out, "Documents/report.pdf") {
		t.Fatalf("history tab missing destination:\n%s", out)
	}

	c.tab = tabRules
	out = v.View(m, c)
	if !strings.Contains(out, "No rules defined.") {
		t.Fatalf("rules tab missing empty message:\n%s", out)
	}
}
