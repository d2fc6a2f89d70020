package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadAppliesDefaults(t *testing.T) {
	p := writeConfig(t, "version: 1\ngeneral:\n  data_root: /tmp/ds\n  watch_root: /tmp/dl\n")
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.General.OrganizeRoot != "/tmp/dl" {
		t.Fatalf("organize_root should default to watch_root, got %s", c.General.OrganizeRoot)
	}
	if c.Suggestions.Threshold != 3 {
		t.Fatalf("threshold default = %d, want 3", c.Suggestions.Threshold)
	}
	if c.Watch.SettleMS != 2000 {
		t.Fatalf("settle_ms default = %d, want 2000", c.Watch.SettleMS)
	}
	if len(c.Watch.SpoolSuffixes) == 0 {
		t.Fatal("spool suffixes default missing")
	}
}

func TestLoadRejectsMissingWatchRoot(t *testing.T) {
	p := writeConfig(t, "version: 1\ngeneral:\n  data_root: /tmp/ds\n")
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for missing watch_root")
	}
}

func TestLoadRejectsRelativeWatchRoot(t *testing.T) {
	p := writeConfig(t, "version: 1\ngeneral:\n  data_root: /tmp/ds\n  watch_root: downloads\n")
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for relative watch_root")
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	p := writeConfig(t, "version: 1\ngeneral:\n  data_root: /tmp/ds\n  watch_root: /tmp/dl\nlogging:\n  format: xml\n")
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for bad logging.format")
	}
}
