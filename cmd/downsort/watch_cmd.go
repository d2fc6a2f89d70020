package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"downsort/internal/config"
	dserrors "downsort/internal/errors"
	"downsort/internal/lockfile"
	"downsort/internal/logging"
	"downsort/internal/metrics"
	"downsort/internal/notify"
	"downsort/internal/organizer"
	"downsort/internal/origin"
	"downsort/internal/resolver"
	"downsort/internal/store"
	"downsort/internal/suggest"
	"downsort/internal/watcher"
)

// handleWatch runs the daemon: a filesystem watcher feeding the
// organizer until interrupted. Only one watcher may run per data root.
func handleWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	cfgPath, logLevel, jsonOut := commonFlags(fs)
	sweep := fs.Bool("sweep", false, "organize files already present at startup")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, db, log, err := loadEnv(*cfgPath, *logLevel, *jsonOut)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	defer func() { _ = log.Sync() }()

	if fi, err := os.Stat(c.General.WatchRoot); err != nil || !fi.IsDir() {
		return dserrors.WatchRootMissing(c.General.WatchRoot)
	}
	lockPath := filepath.Join(c.General.DataRoot, "downsort.lock")
	lock, err := lockfile.Acquire(lockPath)
	if err != nil {
		return dserrors.AlreadyRunning(lockPath).WithDetails(err)
	}
	defer func() { _ = lock.Release() }()

	// A new watcher run is a new session: stale pending destinations
	// from a previous run must not redirect new downloads.
	if err := db.BeginSession(); err != nil {
		return err
	}

	tracker := origin.NewTracker()
	org := buildOrganizer(c, db, tracker, log, true)

	w := watcher.New(watcher.Options{
		Dir:            c.General.WatchRoot,
		Settle:         time.Duration(c.Watch.SettleMS) * time.Millisecond,
		SpoolSuffixes:  c.Watch.SpoolSuffixes,
		IgnorePrefixes: c.Watch.IgnorePrefixes,
		Tracker:        tracker,
		Log:            log,
	})

	log.Info("watching",
		logging.String("dir", c.General.WatchRoot),
		logging.Int("settle_ms", c.Watch.SettleMS))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.Run(gctx) })
	g.Go(func() error {
		for d := range w.Events() {
			if err := org.Handle(d); err != nil {
				log.Warn("organize failed", logging.String("file", d.Filename), logging.Err(err))
			}
		}
		return nil
	})
	if *sweep {
		g.Go(func() error {
			n, err := org.Sweep(c.General.WatchRoot, c.Watch.SpoolSuffixes)
			if err != nil {
				log.Warn("startup sweep failed", logging.Err(err))
				return nil
			}
			log.Info("startup sweep done", logging.Int("organized", n))
			return nil
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}

// handleOrganize is the one-shot counterpart of watch: a single sweep
// over the downloads directory, no daemon, no lock contention with a
// running watcher because decisions are idempotent and moves uniquify.
func handleOrganize(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("organize", flag.ContinueOnError)
	cfgPath, logLevel, jsonOut := commonFlags(fs)
	dir := fs.String("dir", "", "directory to organize (default: watch root)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, db, log, err := loadEnv(*cfgPath, *logLevel, *jsonOut)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	target := *dir
	if target == "" {
		target = c.General.WatchRoot
	}
	if fi, err := os.Stat(target); err != nil || !fi.IsDir() {
		return dserrors.WatchRootMissing(target)
	}

	org := buildOrganizer(c, db, origin.NewTracker(), log, false)
	n, err := org.Sweep(target, c.Watch.SpoolSuffixes)
	if err != nil {
		return err
	}
	fmt.Printf("Organized %d file(s).\n", n)
	return nil
}

// buildOrganizer assembles the resolve/move/notify pipeline shared by
// watch and organize. Desktop toasts only make sense for the daemon;
// the one-shot path logs instead.
func buildOrganizer(c *config.Config, db *store.DB, tracker *origin.Tracker, log *logging.Logger, desktop bool) *organizer.Organizer {
	originRes := origin.NewResolver(tracker)
	originFn := func(d resolver.Download) string {
		if d.URL != "" {
			return d.URL
		}
		if d.Referrer != "" {
			return d.Referrer
		}
		return originRes.Origin(d.Path)
	}

	var notifier notify.Notifier
	if desktop {
		notifier = notify.NewDesktop(func() string {
			mode, err := db.NotificationMode()
			if err != nil {
				return store.NotifyAlways
			}
			return mode
		}, log)
	} else {
		notifier = notify.NewLog(log)
	}

	m := metrics.New(c.Metrics.PrometheusTextfile.Enabled, c.Metrics.PrometheusTextfile.Path)
	sugg := suggest.New(db, notifier, c.Suggestions.Threshold, log)
	sugg.SetMetrics(m)
	res := resolver.New(db, originFn, log)

	root := c.General.OrganizeRoot
	if root == "" {
		root = c.General.WatchRoot
	}
	return organizer.New(organizer.Options{
		Resolver:  res,
		DB:        db,
		Notifier:  notifier,
		Suggester: sugg,
		Origin:    originFn,
		Root:      root,
		Log:       log,
		Metrics:   m,
	})
}
