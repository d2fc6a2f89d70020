//go:build !linux

package origin

// FileURLs has no portable implementation off Linux; the tracker
// fallback carries resolution instead.
func FileURLs(path string) (originURL, referrerURL string) {
	return "", ""
}
