// Package origin resolves the web page URL believed to have initiated a
// download. Resolution is best-effort and may be stale or wrong, which
// is acceptable because it only feeds classification heuristics.
package origin

import "sync"

// Tracker remembers the most recently observed page URL, the fallback
// when a file carries no origin metadata of its own.
type Tracker struct {
	mu   sync.Mutex
	last string
}

func NewTracker() *Tracker { return &Tracker{} }

// Observe records a page URL. Grab commands and watcher hints feed it.
func (t *Tracker) Observe(url string) {
	if url == "" {
		return
	}
	t.mu.Lock()
	t.last = url
	t.mu.Unlock()
}

// Last returns the most recently observed URL, or "".
func (t *Tracker) Last() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Resolver combines per-file metadata with the tracker fallback.
type Resolver struct {
	tracker *Tracker
}

func NewResolver(t *Tracker) *Resolver {
	if t == nil {
		t = NewTracker()
	}
	return &Resolver{tracker: t}
}

// Origin returns the origin page URL for a downloaded file: the file's
// own origin xattr when the browser recorded one, otherwise the last
// observed URL, otherwise "". Lookup failures degrade to the fallback,
// never to an error.
func (r *Resolver) Origin(path string) string {
	if u, _ := FileURLs(path); u != "" {
		return u
	}
	return r.tracker.Last()
}
