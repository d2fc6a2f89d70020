package logging

import (
	"net/url"
	"strings"
)

// SanitizeURL strips userinfo, query and fragment before a URL is logged,
// so tokens embedded in download links never reach the log stream.
func SanitizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	u, err := url.Parse(s)
	if err != nil {
		return s
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
