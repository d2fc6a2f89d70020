package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"downsort/internal/logging"
	"downsort/internal/origin"
)

func newFetcher(tr *origin.Tracker) *Fetcher {
	return New(10*time.Second, "downsort-test/1.0", tr, logging.NewNop(), nil)
}

func TestGrabWritesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/report.pdf" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("pdf-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	res, err := newFetcher(nil).Grab(context.Background(), srv.URL+"/files/report.pdf", dir, "")
	if err != nil {
		t.Fatalf("grab: %v", err)
	}
	if res.Filename != "report.pdf" {
		t.Fatalf("filename = %q, want report.pdf", res.Filename)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "pdf-bytes" {
		t.Fatalf("content = %q", data)
	}
	if res.Size != int64(len("pdf-bytes")) {
		t.Fatalf("size = %d", res.Size)
	}
	if _, err := os.Stat(res.Path + ".part"); !os.IsNotExist(err) {
		t.Fatalf("part file left behind")
	}
}

func TestGrabContentDispositionName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="statement.csv"`)
		_, _ = w.Write([]byte("a,b\n"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	res, err := newFetcher(nil).Grab(context.Background(), srv.URL+"/dl", dir, "")
	if err != nil {
		t.Fatalf("grab: %v", err)
	}
	if res.Filename != "statement.csv" {
		t.Fatalf("filename = %q, want statement.csv", res.Filename)
	}
}

func TestGrabUniquifiesExisting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "dl"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := newFetcher(nil).Grab(context.Background(), srv.URL+"/dl", dir, "")
	if err != nil {
		t.Fatalf("grab: %v", err)
	}
	if res.Filename != "dl (2)" {
		t.Fatalf("filename = %q, want %q", res.Filename, "dl (2)")
	}
}

func TestGrabFeedsTracker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	tr := &origin.Tracker{}
	if _, err := newFetcher(tr).Grab(context.Background(), srv.URL+"/a.bin", t.TempDir(), "https://example.com/page"); err != nil {
		t.Fatalf("grab: %v", err)
	}
	if got := tr.Last(); got != "https://example.com/page" {
		t.Fatalf("tracker last = %q", got)
	}
}

func TestGrabBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := newFetcher(nil).Grab(context.Background(), srv.URL+"/a", t.TempDir(), ""); err == nil {
		t.Fatal("expected error for 403")
	}
}
