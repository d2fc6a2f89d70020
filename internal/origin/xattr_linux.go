//go:build linux

package origin

import "golang.org/x/sys/unix"

// Browsers on Linux record where a file came from in these attributes.
const (
	xattrOrigin   = "user.xdg.origin.url"
	xattrReferrer = "user.xdg.referrer.url"
)

// FileURLs reads the download and referrer URLs a browser attached to
// the file. Missing attributes yield empty strings.
func FileURLs(path string) (originURL, referrerURL string) {
	return getxattr(path, xattrOrigin), getxattr(path, xattrReferrer)
}

func getxattr(path, name string) string {
	buf := make([]byte, 1024)
	n, err := unix.Getxattr(path, name, buf)
	if err != nil || n <= 0 {
		return ""
	}
	return string(buf[:n])
}
