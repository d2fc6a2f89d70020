package util

import (
	"fmt"
	"net/url"
	"os"
	pathpkg "path"
	"path/filepath"
	"strings"
)

// UniquePath returns a collision-free path inside dir for base, the same
// uniquify-on-conflict naming browsers use: " (2)", " (3)" and so on are
// inserted before the extension until a free name is found.
func UniquePath(dir, base string) (string, error) {
	p := filepath.Join(dir, base)
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return "", err
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 2; ; i++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		if _, err := os.Stat(cand); err != nil {
			if os.IsNotExist(err) {
				return cand, nil
			}
			return "", err
		}
	}
}

// URLPathBase extracts the last path element of a URL for use as a
// default filename, ignoring query and fragment. Falls back to
// "download" when nothing usable remains.
func URLPathBase(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "download"
	}
	if u, err := url.Parse(s); err == nil {
		if b := pathpkg.Base(u.Path); b != "" && b != "/" && b != "." {
			return b
		}
		return "download"
	}
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if b := filepath.Base(s); b != "" && b != "/" && b != "." {
		return b
	}
	return "download"
}

// Domain returns the hostname of a URL with any "www." prefix removed,
// or "" when the URL does not parse. Used for suggestion keys.
func Domain(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
