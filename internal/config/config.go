package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config mirrors the YAML schema. Only daemon-level settings live here;
// user state that changes at runtime (rules, categories, toggles) is kept
// in the store so the CLI can edit it without touching this file.
type Config struct {
	Version     int         `yaml:"version"`
	General     General     `yaml:"general"`
	Watch       Watch       `yaml:"watch"`
	Network     Network     `yaml:"network"`
	Suggestions Suggestions `yaml:"suggestions"`
	Logging     Logging     `yaml:"logging"`
	Metrics     Metrics     `yaml:"metrics"`
}

type General struct {
	// DataRoot holds the state database and lockfile.
	DataRoot string `yaml:"data_root"`
	// WatchRoot is the downloads directory to organize.
	WatchRoot string `yaml:"watch_root"`
	// OrganizeRoot is where categorized subfolders are created.
	// Empty means the watch root itself.
	OrganizeRoot string `yaml:"organize_root"`
}

type Watch struct {
	// SettleMS is how long a file's size must stay unchanged before it
	// counts as a completed download.
	SettleMS int `yaml:"settle_ms"`
	// SpoolSuffixes are in-progress download extensions whose final
	// rename signals completion.
	SpoolSuffixes []string `yaml:"spool_suffixes"`
	// IgnorePrefixes skips files whose names start with any of these.
	IgnorePrefixes []string `yaml:"ignore_prefixes"`
}

type Network struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
}

type Suggestions struct {
	// Threshold is the repeat count that fires a "create a rule?" prompt.
	Threshold int `yaml:"threshold"`
}

type Logging struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // human|json
}

type Metrics struct {
	PrometheusTextfile Textfile `yaml:"prometheus_textfile"`
}

type Textfile struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultSpoolSuffixes cover the spool naming of the major browsers.
var DefaultSpoolSuffixes = []string{".crdownload", ".part", ".download", ".tmp"}

// DefaultPath resolves the config location: $DOWNSORT_CONFIG first,
// then ~/.config/downsort/config.yml.
func DefaultPath() string {
	if env := os.Getenv("DOWNSORT_CONFIG"); env != "" {
		return env
	}
	h, err := os.UserHomeDir()
	if err != nil || h == "" {
		return "config.yml"
	}
	return filepath.Join(h, ".config", "downsort", "config.yml")
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.General.OrganizeRoot == "" {
		c.General.OrganizeRoot = c.General.WatchRoot
	}
	if c.Watch.SettleMS <= 0 {
		c.Watch.SettleMS = 2000
	}
	if len(c.Watch.SpoolSuffixes) == 0 {
		c.Watch.SpoolSuffixes = DefaultSpoolSuffixes
	}
	if c.Suggestions.Threshold <= 0 {
		c.Suggestions.Threshold = 3
	}
	if c.Network.TimeoutSeconds <= 0 {
		c.Network.TimeoutSeconds = 60
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "human"
	}
}

// Validate checks the loaded config for the mistakes we can catch early.
func (c *Config) Validate() error {
	if c.General.DataRoot == "" {
		return errors.New("general.data_root is required")
	}
	if c.General.WatchRoot == "" {
		return errors.New("general.watch_root is required")
	}
	if !filepath.IsAbs(c.General.WatchRoot) {
		return fmt.Errorf("general.watch_root must be absolute: %s", c.General.WatchRoot)
	}
	switch c.Logging.Format {
	case "human", "json":
	default:
		return fmt.Errorf("logging.format must be human or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug|info|warn|error, got %q", c.Logging.Level)
	}
	if c.Metrics.PrometheusTextfile.Enabled && c.Metrics.PrometheusTextfile.Path == "" {
		return errors.New("metrics.prometheus_textfile.path required when enabled")
	}
	return nil
}

// Example returns a commented starter config for `downsort config init`.
func Example(home string) string {
	return `version: 1
general:
  data_root: ` + filepath.Join(home, ".local", "share", "downsort") + `
  watch_root: ` + filepath.Join(home, "Downloads") + `
  # organize_root defaults to watch_root
watch:
  settle_ms: 2000
network:
  timeout_seconds: 60
suggestions:
  threshold: 3
logging:
  level: info
  format: human
metrics:
  prometheus_textfile:
    enabled: false
    path: ""
`
}
