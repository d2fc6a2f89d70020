// Package organizer applies destination decisions: it moves completed
// downloads into categorized folders and performs the bookkeeping that
// follows a move.
package organizer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"downsort/internal/logging"
	"downsort/internal/metrics"
	"downsort/internal/notify"
	"downsort/internal/origin"
	"downsort/internal/rename"
	"downsort/internal/resolver"
	"downsort/internal/rules"
	"downsort/internal/store"
	"downsort/internal/suggest"
	"downsort/internal/util"
)

type Organizer struct {
	res      *resolver.Resolver
	db       *store.DB
	notifier notify.Notifier
	sugg     *suggest.Suggester
	origin   resolver.OriginFunc
	root     string // organize root: categorized folders are created here
	log      *logging.Logger
	metrics  *metrics.Manager
}

type Options struct {
	Resolver  *resolver.Resolver
	DB        *store.DB
	Notifier  notify.Notifier
	Suggester *suggest.Suggester
	Origin    resolver.OriginFunc
	Root      string
	Log       *logging.Logger
	Metrics   *metrics.Manager
}

func New(opts Options) *Organizer {
	if opts.Log == nil {
		opts.Log = logging.NewNop()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NewLog(opts.Log)
	}
	if opts.Origin == nil {
		opts.Origin = func(resolver.Download) string { return "" }
	}
	return &Organizer{
		res:      opts.Resolver,
		db:       opts.DB,
		notifier: opts.Notifier,
		sugg:     opts.Suggester,
		origin:   opts.Origin,
		root:     opts.Root,
		log:      opts.Log,
		metrics:  opts.Metrics,
	}
}

// Handle resolves and applies the destination for one completed
// download. Pass-through is the normal no-decision path; only a failed
// move returns an error, after surfacing it to the user.
func (o *Organizer) Handle(d resolver.Download) error {
	dec, err := o.res.Resolve(d)
	if err != nil {
		// Resolution trouble degrades to pass-through.
		o.log.Warn("resolution failed, leaving download in place",
			logging.String("file", d.Filename), logging.Err(err))
		o.metrics.IncPassthrough()
		return nil
	}
	if dec == nil {
		o.log.Debug("no decision", logging.String("file", d.Filename))
		o.metrics.IncPassthrough()
		return nil
	}

	folder := rename.Sanitize(dec.Folder)
	filename := rename.Sanitize(dec.Filename)
	destDir := filepath.Join(o.root, folder)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		o.notifier.Error("Could not organize download", err.Error())
		return fmt.Errorf("create %s: %w", destDir, err)
	}
	dest, err := util.UniquePath(destDir, filename)
	if err != nil {
		o.notifier.Error("Could not organize download", err.Error())
		return err
	}
	if err := moveFile(d.Path, dest); err != nil {
		o.notifier.Error("Could not organize download",
			fmt.Sprintf("moving %s failed: %v", d.Filename, err))
		return fmt.Errorf("move %s: %w", d.Path, err)
	}

	size := d.Size
	if size == 0 {
		if fi, err := os.Stat(dest); err == nil {
			size = fi.Size()
		}
	}
	placed := filepath.Base(dest)
	if err := o.db.AppendHistory(store.HistoryEntry{
		Filename: placed, Folder: folder, URL: d.URL, DownloadID: d.ID, Size: size,
	}); err != nil {
		o.log.Warn("history append failed", logging.Err(err))
	}

	o.log.Info("organized",
		logging.String("file", placed),
		logging.String("folder", folder),
		logging.String("source", string(dec.Source)))
	o.metrics.IncOrganized()
	_ = o.metrics.Write()

	// Manual choices get no success toast; the user just made the choice.
	if !dec.Manual {
		o.notifier.Success(placed, folder)
	}

	if o.sugg != nil && (dec.Source == resolver.SourceCategory || dec.Source == resolver.SourceBuiltin) {
		originURL := dec.Origin
		if originURL == "" {
			originURL = o.origin(d)
		}
		if domain := util.Domain(originURL); domain != "" {
			if err := o.sugg.Record(domain, rules.Ext(d.Filename), dec.Folder); err != nil {
				o.log.Warn("suggestion tracking failed", logging.Err(err))
			}
		}
	}
	return nil
}

// Sweep runs one organizing pass over files already sitting in dir,
// skipping dotfiles, directories and in-progress spool files. Used by
// the one-shot organize command and right after daemon startup.
func (o *Organizer) Sweep(dir string, spoolSuffixes []string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	handled := 0
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if hasSuffix(e.Name(), spoolSuffixes) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		d := resolver.Download{ID: e.Name(), Path: p, Filename: e.Name()}
		if u, ref := origin.FileURLs(p); u != "" || ref != "" {
			d.URL, d.Referrer = u, ref
		}
		if err := o.Handle(d); err != nil {
			o.log.Warn("sweep entry failed", logging.String("file", e.Name()), logging.Err(err))
			continue
		}
		// Pass-through leaves the file in place; only count real moves.
		if _, err := os.Stat(p); os.IsNotExist(err) {
			handled++
		}
	}
	return handled, nil
}

func hasSuffix(name string, suffixes []string) bool {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// moveFile renames, falling back to copy+remove when source and
// destination sit on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = sf.Close() }()
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = df.Close() }()
	_, err = io.Copy(df, sf)
	return err
}
