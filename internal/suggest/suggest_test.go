package suggest

import (
	"sync"
	"testing"

	"downsort/internal/store"
)

// countingNotifier records prompt invocations.
type countingNotifier struct {
	mu      sync.Mutex
	prompts int
}

func (c *countingNotifier) Success(string, string) {}
func (c *countingNotifier) Error(string, string)   {}
func (c *countingNotifier) Prompt(string, string) {
	c.mu.Lock()
	c.prompts++
	c.mu.Unlock()
}

func newSuggester(t *testing.T) (*Suggester, *store.DB, *countingNotifier) {
	t.Helper()
	db, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	n := &countingNotifier{}
	return New(db, n, 3, nil), db, n
}

func TestPromptFiresAtThresholdExactlyOnce(t *testing.T) {
	s, _, n := newSuggester(t)
	for i := 0; i < 5; i++ {
		if err := s.Record("example.com", "pdf", "Documents"); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if n.prompts != 1 {
		t.Fatalf("prompts = %d, want exactly 1", n.prompts)
	}
}

func TestRecordSkipsIncompleteKeys(t *testing.T) {
	s, db, n := newSuggester(t)
	for i := 0; i < 5; i++ {
		if err := s.Record("", "pdf", "Documents"); err != nil {
			t.Fatal(err)
		}
	}
	if n.prompts != 0 {
		t.Fatal("no prompt without an origin domain")
	}
	ps, _ := db.PendingSuggestions()
	if len(ps) != 0 {
		t.Fatalf("unexpected pending suggestions: %+v", ps)
	}
}

func TestAcceptMaterializesURLRule(t *testing.T) {
	s, db, _ := newSuggester(t)
	for i := 0; i < 3; i++ {
		if err := s.Record("example.com", "pdf", "Documents"); err != nil {
			t.Fatal(err)
		}
	}
	key := Key("example.com", "pdf", "Documents")
	r, err := s.Accept(key)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if r.MatchValue != "example.com" || r.Folder != "Documents" {
		t.Fatalf("bad rule: %+v", r)
	}
	rs, _ := db.Rules()
	if len(rs) != 1 {
		t.Fatalf("rule not persisted: %+v", rs)
	}
	// Counter cleared: three more placements prompt again.
	n2 := &countingNotifier{}
	s2 := New(db, n2, 3, nil)
	for i := 0; i < 3; i++ {
		if err := s2.Record("example.com", "pdf", "Documents"); err != nil {
			t.Fatal(err)
		}
	}
	if n2.prompts != 1 {
		t.Fatalf("counter should restart after accept, prompts = %d", n2.prompts)
	}
}

func TestDismissedKeyNeverPromptsAgain(t *testing.T) {
	s, _, n := newSuggester(t)
	for i := 0; i < 3; i++ {
		if err := s.Record("example.com", "zip", "Compressed"); err != nil {
			t.Fatal(err)
		}
	}
	if n.prompts != 1 {
		t.Fatalf("prompts = %d", n.prompts)
	}
	if err := s.Dismiss(Key("example.com", "zip", "Compressed")); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	for i := 0; i < 10; i++ {
		if err := s.Record("example.com", "zip", "Compressed"); err != nil {
			t.Fatal(err)
		}
	}
	if n.prompts != 1 {
		t.Fatalf("dismissed key prompted again: %d", n.prompts)
	}
}

func TestParseKey(t *testing.T) {
	d, e, f, err := ParseKey("a.com|pdf|Docs")
	if err != nil || d != "a.com" || e != "pdf" || f != "Docs" {
		t.Fatalf("got %q %q %q %v", d, e, f, err)
	}
	if _, _, _, err := ParseKey("nope"); err == nil {
		t.Fatal("expected error")
	}
}
