package organizer

import (
	"os"
	"path/filepath"
	"testing"

	"downsort/internal/notify"
	"downsort/internal/resolver"
	"downsort/internal/rules"
	"downsort/internal/store"
	"downsort/internal/suggest"
)

type fixture struct {
	org  *Organizer
	db   *store.DB
	root string
}

func newFixture(t *testing.T, originURL string) *fixture {
	t.Helper()
	db, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	root := t.TempDir()
	originFn := func(resolver.Download) string { return originURL }
	org := New(Options{
		Resolver:  resolver.New(db, originFn, nil),
		DB:        db,
		Notifier:  notify.NewLog(nil),
		Suggester: suggest.New(db, notify.NewLog(nil), 3, nil),
		Origin:    originFn,
		Root:      root,
	})
	return &fixture{org: org, db: db, root: root}
}

func drop(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestHandleMovesByBuiltinCategory(t *testing.T) {
	f := newFixture(t, "")
	src := drop(t, t.TempDir(), "song.mp3")

	if err := f.org.Handle(resolver.Download{ID: "1", Path: src, Filename: "song.mp3"}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	want := filepath.Join(f.root, "Audio", "song.mp3")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("file not placed at %s: %v", want, err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("source should be gone")
	}
	hs, _ := f.db.History()
	if len(hs) != 1 || hs[0].Folder != "Audio" || hs[0].Filename != "song.mp3" {
		t.Fatalf("history: %+v", hs)
	}
}

func TestHandlePassThroughLeavesFile(t *testing.T) {
	f := newFixture(t, "")
	src := drop(t, t.TempDir(), "data.weird")
	if err := f.org.Handle(resolver.Download{ID: "1", Path: src, Filename: "data.weird"}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatal("pass-through must leave the file alone")
	}
	hs, _ := f.db.History()
	if len(hs) != 0 {
		t.Fatalf("pass-through must not write history: %+v", hs)
	}
}

func TestHandleUniquifiesConflicts(t *testing.T) {
	f := newFixture(t, "")
	if err := os.MkdirAll(filepath.Join(f.root, "Audio"), 0o755); err != nil {
		t.Fatal(err)
	}
	drop(t, filepath.Join(f.root, "Audio"), "song.mp3")
	src := drop(t, t.TempDir(), "song.mp3")

	if err := f.org.Handle(resolver.Download{ID: "1", Path: src, Filename: "song.mp3"}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.root, "Audio", "song (2).mp3")); err != nil {
		t.Fatalf("expected uniquified name: %v", err)
	}
}

func TestHandleSanitizesRuleFolder(t *testing.T) {
	f := newFixture(t, "")
	if _, err := f.db.AddRule(rules.Rule{Kind: rules.KindKeyword, MatchValue: "draft", Folder: `in:voices`}); err != nil {
		t.Fatal(err)
	}
	src := drop(t, t.TempDir(), "draft.bin")
	if err := f.org.Handle(resolver.Download{ID: "1", Path: src, Filename: "draft.bin"}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.root, "in_voices", "draft.bin")); err != nil {
		t.Fatalf("sanitized folder missing: %v", err)
	}
}

func TestHandleFeedsSuggestionCounter(t *testing.T) {
	f := newFixture(t, "https://pics.example.com/gallery")
	for i := 0; i < 3; i++ {
		src := drop(t, t.TempDir(), "shot.png")
		if err := f.org.Handle(resolver.Download{ID: "x", Path: src, Filename: "shot.png"}); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}
	ps, err := f.db.PendingSuggestions()
	if err != nil || len(ps) != 1 {
		t.Fatalf("expected one fired suggestion: %+v %v", ps, err)
	}
	if ps[0].Domain != "pics.example.com" || ps[0].Ext != "png" || ps[0].Folder != "Images" {
		t.Fatalf("suggestion key parts: %+v", ps[0])
	}
}

func TestHandleRuleDecisionDoesNotFeedSuggestions(t *testing.T) {
	f := newFixture(t, "https://pics.example.com/gallery")
	if _, err := f.db.AddRule(rules.Rule{Kind: rules.KindKeyword, MatchValue: "shot", Folder: "Shots"}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		src := drop(t, t.TempDir(), "shot.png")
		if err := f.org.Handle(resolver.Download{ID: "x", Path: src, Filename: "shot.png"}); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}
	ps, _ := f.db.PendingSuggestions()
	if len(ps) != 0 {
		t.Fatalf("rule placements must not count toward suggestions: %+v", ps)
	}
}

func TestSweepOrganizesExistingFiles(t *testing.T) {
	f := newFixture(t, "")
	watch := t.TempDir()
	drop(t, watch, "a.pdf")
	drop(t, watch, "b.crdownload")
	drop(t, watch, ".hidden")

	n, err := f.org.Sweep(watch, []string{".crdownload"})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("handled = %d, want 1", n)
	}
	if _, err := os.Stat(filepath.Join(f.root, "PDFs", "a.pdf")); err != nil {
		t.Fatalf("a.pdf not organized: %v", err)
	}
	if _, err := os.Stat(filepath.Join(watch, "b.crdownload")); err != nil {
		t.Fatal("spool file must be skipped")
	}
}
