// Package suggest tracks repeated unmatched-but-consistent placements
// and offers to materialize a rule once a pattern repeats often enough.
package suggest

import (
	"fmt"
	"strings"

	"downsort/internal/logging"
	"downsort/internal/metrics"
	"downsort/internal/notify"
	"downsort/internal/rules"
	"downsort/internal/store"
)

// DefaultThreshold is the repeat count that fires a prompt.
const DefaultThreshold = 3

// Key builds the composite counter key.
func Key(domain, ext, folder string) string {
	return domain + "|" + ext + "|" + folder
}

// ParseKey splits a composite key back into its parts.
func ParseKey(key string) (domain, ext, folder string, err error) {
	parts := strings.SplitN(key, "|", 3)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("malformed suggestion key: %s", key)
	}
	return parts[0], parts[1], parts[2], nil
}

type Suggester struct {
	db        *store.DB
	notifier  notify.Notifier
	threshold int
	log       *logging.Logger
	metrics   *metrics.Manager
}

// SetMetrics attaches an optional counter sink for fired prompts.
func (s *Suggester) SetMetrics(m *metrics.Manager) { s.metrics = m }

func New(db *store.DB, notifier notify.Notifier, threshold int, log *logging.Logger) *Suggester {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if log == nil {
		log = logging.NewNop()
	}
	if notifier == nil {
		notifier = notify.NewLog(log)
	}
	return &Suggester{db: db, notifier: notifier, threshold: threshold, log: log}
}

// Record counts an extension-fallback placement. When the counter hits
// the threshold exactly, one prompt fires; counts beyond it stay silent
// until the user answers. Dismissed keys never prompt again.
func (s *Suggester) Record(domain, ext, folder string) error {
	if domain == "" || ext == "" || folder == "" {
		return nil
	}
	key := Key(domain, ext, folder)
	ignored, err := s.db.IsIgnored(key)
	if err != nil {
		return err
	}
	if ignored {
		return nil
	}
	n, err := s.db.IncrementCounter(key)
	if err != nil {
		return err
	}
	if n != s.threshold {
		return nil
	}
	if err := s.db.AddPendingSuggestion(store.PendingSuggestion{
		Key: key, Domain: domain, Ext: ext, Folder: folder,
	}); err != nil {
		return err
	}
	s.notifier.Prompt("Create a rule?",
		fmt.Sprintf("You keep saving .%s files from %s into %s. Run: downsort suggestions accept %q", ext, domain, folder, key))
	s.metrics.IncSuggestionsFired()
	s.log.Info("rule suggestion fired",
		logging.String("domain", domain), logging.String("ext", ext), logging.String("folder", folder))
	return nil
}

// Accept materializes a url rule for the suggestion and clears its
// counter. The rule matches the origin domain and targets the folder
// the user kept choosing.
func (s *Suggester) Accept(key string) (rules.Rule, error) {
	p, err := s.db.TakePendingSuggestion(key)
	if err != nil {
		return rules.Rule{}, err
	}
	if p == nil {
		// Allow accepting straight from a key, e.g. typed from the prompt.
		domain, ext, folder, err := ParseKey(key)
		if err != nil {
			return rules.Rule{}, err
		}
		p = &store.PendingSuggestion{Key: key, Domain: domain, Ext: ext, Folder: folder}
	}
	r, err := s.db.AddRule(rules.Rule{
		Kind:       rules.KindURL,
		MatchValue: p.Domain,
		Folder:     p.Folder,
	})
	if err != nil {
		return rules.Rule{}, err
	}
	if err := s.db.ClearCounter(key); err != nil {
		return rules.Rule{}, err
	}
	return r, nil
}

// Dismiss remembers the decision so the key never prompts again, and
// clears the counter.
func (s *Suggester) Dismiss(key string) error {
	if _, err := s.db.TakePendingSuggestion(key); err != nil {
		return err
	}
	if err := s.db.AddIgnored(key); err != nil {
		return err
	}
	return s.db.ClearCounter(key)
}
