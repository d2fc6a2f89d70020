package rename

import (
	"strings"
	"testing"
	"time"
)

func TestSanitizeIdempotent(t *testing.T) {
	in := `a<b>c:d"e/f\g|h?i*j.txt`
	once := Sanitize(in)
	if Sanitize(once) != once {
		t.Fatalf("sanitize not idempotent: %q vs %q", Sanitize(once), once)
	}
	if strings.ContainsAny(once, `<>:"/\|?*`) {
		t.Fatalf("forbidden characters survived: %q", once)
	}
}

func TestSanitizeCollapsesRuns(t *testing.T) {
	if got := Sanitize(`a<<>>b`); got != "a_b" {
		t.Fatalf("got %q, want a_b", got)
	}
}

func TestApplyPlainTemplate(t *testing.T) {
	got := Apply("receipt", "scan.PDF", "", time.Now())
	if got != "receipt.pdf" {
		t.Fatalf("got %q, want receipt.pdf", got)
	}
}

func TestApplyEmptyTemplateKeepsName(t *testing.T) {
	if got := Apply("  ", "keep.me.txt", "", time.Now()); got != "keep.me.txt" {
		t.Fatalf("got %q", got)
	}
}

func TestApplySite(t *testing.T) {
	got := Apply("[site]-file", "a.zip", "https://files.example.co.uk/dl?x=1", time.Now())
	if got != "files-file.zip" {
		t.Fatalf("got %q, want files-file.zip", got)
	}
	got = Apply("[site]", "a.zip", "https://www.example.com/", time.Now())
	if got != "example.zip" {
		t.Fatalf("www strip failed: %q", got)
	}
}

func TestApplySiteFallback(t *testing.T) {
	got := Apply("[site]", "a.zip", "", time.Now())
	if got != UnknownSite+".zip" {
		t.Fatalf("got %q", got)
	}
}

func TestApplyOriginalName(t *testing.T) {
	got := Apply("[original_name]-copy", "report.v2.pdf", "", time.Now())
	if got != "report.v2-copy.pdf" {
		t.Fatalf("got %q", got)
	}
}

func TestApplyDate(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 5, 9, 0, time.UTC)
	got := Apply("[date:YYYY-MM-DD]", "a.txt", "", now)
	if got != "2024-03-05.txt" {
		t.Fatalf("got %q", got)
	}
	got = Apply("[date:hh:mm]", "a.txt", "", now)
	if got != "14:05.txt" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatDateUnknownTokensPassThrough(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 5, 9, 0, time.UTC)
	if got := FormatDate("YY at Qx", now); got != "24 at Qx" {
		t.Fatalf("got %q", got)
	}
}

func TestApplyExtensionLowercased(t *testing.T) {
	if got := Apply("x", "SHOUT.ZIP", "", time.Now()); got != "x.zip" {
		t.Fatalf("got %q", got)
	}
}

func TestJoinPathSanitizesBothSides(t *testing.T) {
	got := JoinPath(`in:voices`, `we|ird.txt`)
	if got != "in_voices/we_ird.txt" {
		t.Fatalf("got %q", got)
	}
}
