package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func runWatcher(t *testing.T, dir string) (*Watcher, context.CancelFunc) {
	t.Helper()
	w := New(Options{
		Dir:           dir,
		Settle:        100 * time.Millisecond,
		SpoolSuffixes: []string{".crdownload", ".part"},
	})
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = w.Run(ctx) }()
	// Give the inotify watch a moment to attach.
	time.Sleep(150 * time.Millisecond)
	return w, cancel
}

func TestEmitsAfterSettle(t *testing.T) {
	dir := t.TempDir()
	w, cancel := runWatcher(t, dir)
	defer cancel()

	if err := os.WriteFile(filepath.Join(dir, "file.pdf"), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case d := <-w.Events():
		if d.Filename != "file.pdf" || d.Size != 4 {
			t.Fatalf("unexpected event: %+v", d)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event emitted")
	}
}

func TestSpoolRenameEmitsFinalNameOnly(t *testing.T) {
	dir := t.TempDir()
	w, cancel := runWatcher(t, dir)
	defer cancel()

	spool := filepath.Join(dir, "file.bin.crdownload")
	if err := os.WriteFile(spool, []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := os.Rename(spool, filepath.Join(dir, "file.bin")); err != nil {
		t.Fatal(err)
	}

	select {
	case d := <-w.Events():
		if d.Filename != "file.bin" {
			t.Fatalf("expected final name, got %+v", d)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event emitted")
	}
	select {
	case d := <-w.Events():
		t.Fatalf("unexpected second event: %+v", d)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestDotfilesIgnored(t *testing.T) {
	dir := t.TempDir()
	w, cancel := runWatcher(t, dir)
	defer cancel()

	if err := os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case d := <-w.Events():
		t.Fatalf("dotfile emitted: %+v", d)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestChannelClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	w, cancel := runWatcher(t, dir)
	cancel()
	select {
	case _, ok := <-w.Events():
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close")
	}
}
