package rules

import "strings"

// RuleKind selects what a rule's match value is compared against.
type RuleKind string

const (
	// KindKeyword matches against the download's filename.
	KindKeyword RuleKind = "keyword"
	// KindURL matches against the download URL, referrer and origin page URL.
	KindURL RuleKind = "url"
)

// Rule is one user-defined matching directive. Rules are kept in a fixed
// user-defined order and the first match wins.
type Rule struct {
	ID             string   `json:"id"`
	Kind           RuleKind `json:"type"`
	MatchValue     string   `json:"value"`
	Folder         string   `json:"folder"`
	RenameTemplate string   `json:"renamePattern,omitempty"`
}

// Matches reports whether the rule applies to a download. Keyword rules
// look for the match value in the filename; url rules look in any of the
// given URLs. Matching is case-insensitive substring containment, and a
// rule with an empty match value never matches.
func (r Rule) Matches(filename string, urls ...string) bool {
	needle := strings.ToLower(strings.TrimSpace(r.MatchValue))
	if needle == "" {
		return false
	}
	switch r.Kind {
	case KindKeyword:
		return strings.Contains(strings.ToLower(filename), needle)
	case KindURL:
		for _, u := range urls {
			if u == "" {
				continue
			}
			if strings.Contains(strings.ToLower(u), needle) {
				return true
			}
		}
	}
	return false
}

// FirstMatch returns the first rule in order that matches, honoring the
// first-match-wins invariant.
func FirstMatch(rs []Rule, filename string, urls ...string) (Rule, bool) {
	for _, r := range rs {
		if r.Matches(filename, urls...) {
			return r, true
		}
	}
	return Rule{}, false
}

// Category is a user-defined extension set bound to a folder. Custom
// categories are checked before the built-in taxonomy.
type Category struct {
	ID         string   `json:"id"`
	Folder     string   `json:"folder"`
	Extensions []string `json:"extensions"`
}

// HasExtension reports whether ext (lower-cased, no dot) is in the set.
func (c Category) HasExtension(ext string) bool {
	for _, e := range c.Extensions {
		if NormalizeExt(e) == ext {
			return true
		}
	}
	return false
}

// FirstCategory returns the first category containing the extension.
func FirstCategory(cats []Category, ext string) (Category, bool) {
	if ext == "" {
		return Category{}, false
	}
	for _, c := range cats {
		if c.HasExtension(ext) {
			return c, true
		}
	}
	return Category{}, false
}

// Ext extracts the file's final dot-suffix, lower-cased without the dot.
// Multi-dot names use only the last segment; names without a dot yield "".
func Ext(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 || i == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

// NormalizeExt lower-cases and strips a leading dot from a user-supplied
// extension so stored sets compare exactly.
func NormalizeExt(e string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
}
