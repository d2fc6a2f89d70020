// Package fetch downloads a URL straight into the downloads directory,
// the local counterpart of a context-menu "save into folder" download.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"downsort/internal/logging"
	"downsort/internal/metrics"
	"downsort/internal/origin"
	"downsort/internal/util"
)

type Fetcher struct {
	client  *http.Client
	ua      string
	tracker *origin.Tracker
	log     *logging.Logger
	metrics *metrics.Manager
}

func New(timeout time.Duration, userAgent string, tracker *origin.Tracker, log *logging.Logger, m *metrics.Manager) *Fetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Fetcher{
		client:  newHTTPClient(timeout),
		ua:      userAgent,
		tracker: tracker,
		log:     log,
		metrics: m,
	}
}

// Result describes a finished grab.
type Result struct {
	Path     string
	Filename string
	Size     int64
}

// Grab downloads url into dir, staging through a .part file and
// renaming on completion. The filename comes from Content-Disposition
// when the server sends one, else from the URL path. referrer feeds the
// origin tracker so rule matching can see where the grab came from.
func (f *Fetcher) Grab(ctx context.Context, url, dir, referrer string) (*Result, error) {
	if url == "" {
		return nil, errors.New("url required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if f.tracker != nil {
		if referrer != "" {
			f.tracker.Observe(referrer)
		} else {
			f.tracker.Observe(url)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.ua != "" {
		req.Header.Set("User-Agent", f.ua)
	}
	if referrer != "" {
		req.Header.Set("Referer", referrer)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	name := filenameFor(resp, url)
	final, err := util.UniquePath(dir, name)
	if err != nil {
		return nil, err
	}
	part := final + ".part"
	out, err := os.OpenFile(part, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	n, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(part)
		return nil, fmt.Errorf("download %s: %w", logging.SanitizeURL(url), err)
	}
	if err := os.Rename(part, final); err != nil {
		return nil, err
	}
	f.metrics.AddGrabBytes(n)
	f.log.Info("grabbed",
		logging.String("url", logging.SanitizeURL(url)),
		logging.String("dest", final),
		logging.Int64("bytes", n))
	return &Result{Path: final, Filename: filepath.Base(final), Size: n}, nil
}

// filenameFor prefers the server's Content-Disposition filename, then
// the last URL path segment.
func filenameFor(resp *http.Response, url string) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if fn := strings.TrimSpace(params["filename"]); fn != "" {
				return filepath.Base(fn)
			}
		}
	}
	return util.URLPathBase(url)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		IdleConnTimeout:     90 * time.Second,
	}
	client := &http.Client{Transport: tr, Timeout: timeout}
	// Keep the UA and referrer across redirects.
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) == 0 {
			return nil
		}
		prev := via[len(via)-1]
		if ua := prev.Header.Get("User-Agent"); ua != "" {
			req.Header.Set("User-Agent", ua)
		}
		if ref := prev.Header.Get("Referer"); ref != "" {
			req.Header.Set("Referer", ref)
		}
		return nil
	}
	return client
}
