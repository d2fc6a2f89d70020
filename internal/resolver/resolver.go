// Package resolver decides where a completed download belongs: a target
// folder and a possibly-renamed filename, or no decision at all, in
// which case the file stays where it landed.
package resolver

import (
	"time"

	"downsort/internal/logging"
	"downsort/internal/rename"
	"downsort/internal/rules"
	"downsort/internal/store"
)

// Download is a completed-or-completing download record.
type Download struct {
	ID       string
	Path     string // current on-disk location
	Filename string // suggested filename
	URL      string // final download URL
	Referrer string
	Size     int64
}

// Source identifies which resolution stage produced a decision.
type Source string

const (
	SourceOverride Source = "override" // one-shot forced folder
	SourcePending  Source = "pending"  // precomputed at creation time
	SourceRule     Source = "rule"     // keyword/url rule match
	SourceCategory Source = "category" // custom extension category
	SourceBuiltin  Source = "builtin"  // built-in taxonomy fallback
)

// Decision is a resolved destination. Folder and Filename are raw; the
// organizer sanitizes them when building the final path.
type Decision struct {
	Folder   string
	Filename string
	Source   Source
	Rule     *rules.Rule
	Manual   bool
	Origin   string // resolved origin URL, reused by the suggestion counter
}

// Store is the slice of the settings store the resolver consumes.
// *store.DB satisfies it; tests inject fakes.
type Store interface {
	AutoOrganize() (bool, error)
	ConsumeForceNext() (string, bool, error)
	TakePending(downloadID string) (*store.PendingDestination, error)
	Rules() ([]rules.Rule, error)
	Categories() ([]rules.Category, error)
	BuiltinToggles() (map[string]bool, error)
}

// OriginFunc resolves a download's origin page URL. Implementations are
// best-effort and must return "" rather than fail.
type OriginFunc func(d Download) string

type Resolver struct {
	st     Store
	origin OriginFunc
	log    *logging.Logger
	now    func() time.Time
}

func New(st Store, origin OriginFunc, log *logging.Logger) *Resolver {
	if origin == nil {
		origin = func(Download) string { return "" }
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Resolver{st: st, origin: origin, log: log, now: time.Now}
}

// Resolve walks the resolution order: one-shot override, pending
// destination, rules in user order, custom categories, built-in
// taxonomy, pass-through. A nil decision with nil error is the normal
// pass-through path, not a failure.
func (r *Resolver) Resolve(d Download) (*Decision, error) {
	if folder, ok, err := r.st.ConsumeForceNext(); err != nil {
		return nil, err
	} else if ok {
		r.log.Debug("forced folder consumed",
			logging.String("download", d.ID), logging.String("folder", folder))
		return &Decision{Folder: folder, Filename: d.Filename, Source: SourceOverride, Manual: true}, nil
	}

	auto, err := r.st.AutoOrganize()
	if err != nil {
		return nil, err
	}
	if !auto {
		return nil, nil
	}

	if p, err := r.st.TakePending(d.ID); err != nil {
		return nil, err
	} else if p != nil {
		dec := &Decision{Folder: p.Folder, Filename: d.Filename, Source: SourcePending, Rule: p.Rule, Manual: p.Manual}
		if p.Rule != nil && p.Rule.RenameTemplate != "" {
			dec.Origin = r.origin(d)
			dec.Filename = rename.Apply(p.Rule.RenameTemplate, d.Filename, dec.Origin, r.now())
		}
		return dec, nil
	}

	rs, err := r.st.Rules()
	if err != nil {
		return nil, err
	}
	originURL := ""
	if len(rs) > 0 {
		originURL = r.origin(d)
	}
	if rule, ok := rules.FirstMatch(rs, d.Filename, d.URL, d.Referrer, originURL); ok {
		dec := &Decision{Folder: rule.Folder, Filename: d.Filename, Source: SourceRule, Rule: &rule, Origin: originURL}
		if rule.RenameTemplate != "" {
			dec.Filename = rename.Apply(rule.RenameTemplate, d.Filename, originURL, r.now())
		}
		return dec, nil
	}

	ext := rules.Ext(d.Filename)

	cats, err := r.st.Categories()
	if err != nil {
		return nil, err
	}
	if c, ok := rules.FirstCategory(cats, ext); ok {
		return &Decision{Folder: c.Folder, Filename: d.Filename, Source: SourceCategory, Origin: originURL}, nil
	}

	toggles, err := r.st.BuiltinToggles()
	if err != nil {
		return nil, err
	}
	if folder, ok := rules.BuiltinFolder(ext, toggles); ok {
		return &Decision{Folder: folder, Filename: d.Filename, Source: SourceBuiltin, Origin: originURL}, nil
	}

	return nil, nil
}
