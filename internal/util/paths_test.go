package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestUniquePathFreeName(t *testing.T) {
	dir := t.TempDir()
	p, err := UniquePath(dir, "file.txt")
	if err != nil {
		t.Fatalf("unique: %v", err)
	}
	if p != filepath.Join(dir, "file.txt") {
		t.Fatalf("got %s", p)
	}
}

func TestUniquePathNumbersConflicts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"file.txt", "file (2).txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	p, err := UniquePath(dir, "file.txt")
	if err != nil {
		t.Fatalf("unique: %v", err)
	}
	if p != filepath.Join(dir, "file (3).txt") {
		t.Fatalf("got %s", p)
	}
}

func TestURLPathBase(t *testing.T) {
	cases := map[string]string{
		"https://example.com/files/report.pdf?x=1": "report.pdf",
		"https://example.com/":                     "download",
		"":                                         "download",
	}
	for in, want := range cases {
		if got := URLPathBase(in); got != want {
			t.Fatalf("URLPathBase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDomain(t *testing.T) {
	if got := Domain("https://www.example.com/a"); got != "example.com" {
		t.Fatalf("got %q", got)
	}
	if got := Domain("://bad"); got != "" {
		t.Fatalf("got %q", got)
	}
}
