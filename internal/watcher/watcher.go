// Package watcher turns filesystem activity in the downloads directory
// into completed-download events. Browsers write a spool file
// (.crdownload, .part) and rename it when done, so the watcher reacts
// to the final name appearing and then waits for the size to settle
// before emitting, which also covers programs that write in place.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"downsort/internal/logging"
	"downsort/internal/origin"
	"downsort/internal/resolver"
)

type Watcher struct {
	dir            string
	settle         time.Duration
	spoolSuffixes  []string
	ignorePrefixes []string
	tracker        *origin.Tracker
	log            *logging.Logger
	events         chan resolver.Download
}

type Options struct {
	Dir            string
	Settle         time.Duration
	SpoolSuffixes  []string
	IgnorePrefixes []string
	Tracker        *origin.Tracker
	Log            *logging.Logger
}

func New(opts Options) *Watcher {
	if opts.Settle <= 0 {
		opts.Settle = 2 * time.Second
	}
	if opts.Log == nil {
		opts.Log = logging.NewNop()
	}
	return &Watcher{
		dir:            opts.Dir,
		settle:         opts.Settle,
		spoolSuffixes:  opts.SpoolSuffixes,
		ignorePrefixes: opts.IgnorePrefixes,
		tracker:        opts.Tracker,
		log:            opts.Log,
		events:         make(chan resolver.Download, 16),
	}
}

// Events delivers completed downloads. Closed when Run returns.
func (w *Watcher) Events() <-chan resolver.Download { return w.events }

// Run watches until the context is canceled. Each download is emitted
// once, after its size has been stable for the settle window.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = fsw.Close() }()
	if err := fsw.Add(w.dir); err != nil {
		return err
	}

	tick := w.settle / 2
	if tick < 50*time.Millisecond {
		tick = 50 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	// Candidate files waiting to settle: last observed change and size.
	lastChange := make(map[string]time.Time)
	lastSize := make(map[string]int64)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				delete(lastChange, ev.Name)
				delete(lastSize, ev.Name)
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if w.skip(name) {
				continue
			}
			if fi, err := os.Stat(ev.Name); err == nil && !fi.IsDir() {
				lastChange[ev.Name] = time.Now()
				lastSize[ev.Name] = fi.Size()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", logging.Err(err))

		case now := <-ticker.C:
			for p, since := range lastChange {
				fi, err := os.Stat(p)
				if err != nil {
					delete(lastChange, p)
					delete(lastSize, p)
					continue
				}
				if fi.Size() != lastSize[p] {
					lastChange[p] = now
					lastSize[p] = fi.Size()
					continue
				}
				if now.Sub(since) < w.settle {
					continue
				}
				delete(lastChange, p)
				delete(lastSize, p)
				w.emit(ctx, p, fi.Size())
			}
		}
	}
}

func (w *Watcher) emit(ctx context.Context, path string, size int64) {
	name := filepath.Base(path)
	d := resolver.Download{ID: name, Path: path, Filename: name, Size: size}
	d.URL, d.Referrer = origin.FileURLs(path)
	if w.tracker != nil && d.URL != "" {
		w.tracker.Observe(d.URL)
	}
	select {
	case w.events <- d:
		w.log.Debug("download completed", logging.String("file", name))
	case <-ctx.Done():
	}
}

// skip filters dotfiles, explicitly ignored prefixes and browser spool
// files still being written.
func (w *Watcher) skip(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, p := range w.ignorePrefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return true
		}
	}
	lower := strings.ToLower(name)
	for _, s := range w.spoolSuffixes {
		if strings.HasSuffix(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
