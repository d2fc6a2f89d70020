package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"downsort/internal/fetch"
	"downsort/internal/metrics"
	"downsort/internal/origin"
	"downsort/internal/resolver"
	"downsort/internal/store"
)

// handleGrab downloads a URL into the watch root and runs it through
// the same resolution pipeline a watched download gets. --to records a
// manual destination that outranks every rule, matching what a "save
// into folder" action does.
func handleGrab(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("grab", flag.ContinueOnError)
	cfgPath, logLevel, jsonOut := commonFlags(fs)
	url := fs.String("url", "", "URL to download")
	to := fs.String("to", "", "destination folder, bypassing rule matching")
	referrer := fs.String("referrer", "", "referrer page URL (feeds url rules)")
	noOrganize := fs.Bool("no-organize", false, "download only; leave organizing to a running watcher")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *url == "" && fs.NArg() > 0 {
		*url = fs.Arg(0)
	}
	if strings.TrimSpace(*url) == "" {
		return errors.New("--url or a positional URL is required")
	}
	c, db, log, err := loadEnv(*cfgPath, *logLevel, *jsonOut)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tracker := origin.NewTracker()
	m := metrics.New(c.Metrics.PrometheusTextfile.Enabled, c.Metrics.PrometheusTextfile.Path)
	f := fetch.New(time.Duration(c.Network.TimeoutSeconds)*time.Second, c.Network.UserAgent, tracker, log, m)

	res, err := f.Grab(ctx, *url, c.General.WatchRoot, *referrer)
	if err != nil {
		return err
	}
	fmt.Printf("Downloaded: %s (%d bytes)\n", res.Path, res.Size)
	_ = m.Write()

	if *to != "" {
		if had, err := db.HasPending(res.Filename); err == nil && had {
			fmt.Printf("Replacing earlier destination for %s\n", res.Filename)
		}
		// Keyed by filename so a running watcher consumes it when the
		// file settles.
		if err := db.PutPending(res.Filename, store.PendingDestination{Folder: *to, Manual: true}); err != nil {
			return err
		}
	}
	if *noOrganize {
		return nil
	}

	org := buildOrganizer(c, db, tracker, log, false)
	return org.Handle(resolver.Download{
		ID:       res.Filename,
		Path:     res.Path,
		Filename: res.Filename,
		URL:      *url,
		Referrer: *referrer,
		Size:     res.Size,
	})
}
