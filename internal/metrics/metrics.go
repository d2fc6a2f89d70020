// Package metrics writes a Prometheus textfile for node_exporter's
// textfile collector. Optional; a nil Manager is a no-op.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Manager struct {
	path string
	mu   sync.Mutex

	organized        int64
	passthrough      int64
	grabBytes        int64
	suggestionsFired int64
}

// New returns nil unless the textfile is enabled and has a path;
// callers invoke methods on the nil Manager freely.
func New(enabled bool, path string) *Manager {
	if !enabled || path == "" {
		return nil
	}
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	return &Manager{path: path}
}

func (m *Manager) IncOrganized() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.organized++
	m.mu.Unlock()
}

func (m *Manager) IncPassthrough() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.passthrough++
	m.mu.Unlock()
}

func (m *Manager) AddGrabBytes(n int64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.grabBytes += n
	m.mu.Unlock()
}

func (m *Manager) IncSuggestionsFired() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.suggestionsFired++
	m.mu.Unlock()
}

// Write renders the textfile atomically (temp file + rename).
func (m *Manager) Write() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := os.CreateTemp(filepath.Dir(m.path), ".metrics.tmp.*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(f.Name()) }()

	fmt.Fprintf(f, "# HELP downsort_organized_total Downloads moved into a categorized folder.\n")
	fmt.Fprintf(f, "# TYPE downsort_organized_total counter\n")
	fmt.Fprintf(f, "downsort_organized_total %d\n", m.organized)

	fmt.Fprintf(f, "# HELP downsort_passthrough_total Downloads left untouched.\n")
	fmt.Fprintf(f, "# TYPE downsort_passthrough_total counter\n")
	fmt.Fprintf(f, "downsort_passthrough_total %d\n", m.passthrough)

	fmt.Fprintf(f, "# HELP downsort_grab_bytes_total Bytes fetched by grab commands.\n")
	fmt.Fprintf(f, "# TYPE downsort_grab_bytes_total counter\n")
	fmt.Fprintf(f, "downsort_grab_bytes_total %d\n", m.grabBytes)

	fmt.Fprintf(f, "# HELP downsort_suggestions_fired_total Rule suggestion prompts shown.\n")
	fmt.Fprintf(f, "# TYPE downsort_suggestions_fired_total counter\n")
	fmt.Fprintf(f, "downsort_suggestions_fired_total %d\n", m.suggestionsFired)

	fmt.Fprintf(f, "# HELP downsort_metrics_timestamp_seconds UNIX timestamp of the last write.\n")
	fmt.Fprintf(f, "# TYPE downsort_metrics_timestamp_seconds gauge\n")
	fmt.Fprintf(f, "downsort_metrics_timestamp_seconds %d\n", time.Now().Unix())

	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), m.path)
}
