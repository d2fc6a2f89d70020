package origin

import "testing"

func TestTrackerObserveLast(t *testing.T) {
	tr := NewTracker()
	if tr.Last() != "" {
		t.Fatal("fresh tracker should be empty")
	}
	tr.Observe("https://a.example/page")
	tr.Observe("")
	if tr.Last() != "https://a.example/page" {
		t.Fatalf("empty observations must not clobber: %q", tr.Last())
	}
	tr.Observe("https://b.example/next")
	if tr.Last() != "https://b.example/next" {
		t.Fatalf("got %q", tr.Last())
	}
}

func TestResolverFallsBackToTracker(t *testing.T) {
	tr := NewTracker()
	tr.Observe("https://fallback.example/")
	r := NewResolver(tr)
	// A path with no xattrs resolves to the tracker value.
	if got := r.Origin("/nonexistent/file.bin"); got != "https://fallback.example/" {
		t.Fatalf("got %q", got)
	}
}
