// Package rename renders filename templates and sanitizes names before
// they are joined into destination paths.
package rename

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"downsort/internal/rules"
)

// UnknownSite is substituted for [site] when no origin URL is resolvable.
const UnknownSite = "unknown-site"

var (
	unsafeRunes = regexp.MustCompile(`[<>:"/\\|?*]+`)
	datePattern = regexp.MustCompile(`\[date:([^\]]+)\]`)
	dateTokens  = regexp.MustCompile(`YYYY|YY|MM|DD|hh|mm|ss`)
)

// Sanitize replaces filesystem-unsafe character runs with a single
// underscore. It is idempotent.
func Sanitize(name string) string {
	return unsafeRunes.ReplaceAllString(name, "_")
}

// Apply renders a rename template for a download. Recognized placeholders:
//
//	[site]           first label of the origin hostname, "www." stripped
//	[original_name]  the filename with its extension removed
//	[date:FORMAT]    now formatted with tokens YYYY YY MM DD hh mm ss
//
// The original extension is re-appended lower-cased regardless of the
// template content. An empty template keeps the original name.
func Apply(template, filename, originURL string, now time.Time) string {
	if strings.TrimSpace(template) == "" {
		return filename
	}
	ext := rules.Ext(filename)
	base := filename
	if ext != "" {
		base = filename[:len(filename)-len(ext)-1]
	}

	out := strings.ReplaceAll(template, "[site]", siteLabel(originURL))
	out = strings.ReplaceAll(out, "[original_name]", base)
	out = datePattern.ReplaceAllStringFunc(out, func(m string) string {
		format := datePattern.FindStringSubmatch(m)[1]
		return FormatDate(format, now)
	})

	if ext != "" {
		out += "." + ext
	}
	return out
}

// FormatDate renders the mini date-format language. Unrecognized text
// passes through literally.
func FormatDate(format string, now time.Time) string {
	return dateTokens.ReplaceAllStringFunc(format, func(tok string) string {
		switch tok {
		case "YYYY":
			return now.Format("2006")
		case "YY":
			return now.Format("06")
		case "MM":
			return now.Format("01")
		case "DD":
			return now.Format("02")
		case "hh":
			return now.Format("15")
		case "mm":
			return now.Format("04")
		case "ss":
			return now.Format("05")
		}
		return tok
	})
}

// siteLabel reduces an origin URL to its first hostname label, with the
// "www." prefix stripped: https://files.example.co.uk/p -> "files".
func siteLabel(originURL string) string {
	if strings.TrimSpace(originURL) == "" {
		return UnknownSite
	}
	u, err := url.Parse(originURL)
	if err != nil || u.Hostname() == "" {
		return UnknownSite
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	if i := strings.IndexByte(host, '.'); i > 0 {
		host = host[:i]
	}
	if host == "" {
		return UnknownSite
	}
	return host
}

// JoinPath sanitizes both components and joins them with a forward
// slash, a folder-relative destination.
func JoinPath(folder, filename string) string {
	return Sanitize(folder) + "/" + Sanitize(filename)
}
