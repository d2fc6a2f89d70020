package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"

	"downsort/internal/config"
	dserrors "downsort/internal/errors"
	"downsort/internal/logging"
	"downsort/internal/store"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := run(ctx, os.Args[1:]); err != nil {
		var friendly *dserrors.UserFriendlyError
		if errors.As(err, &friendly) {
			fmt.Fprintln(os.Stderr, "error:", friendly.Error())
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage()
		return errors.New("no command provided")
	}

	cmd := args[0]
	switch cmd {
	case "watch":
		return handleWatch(ctx, args[1:])
	case "grab":
		return handleGrab(ctx, args[1:])
	case "organize":
		return handleOrganize(ctx, args[1:])
	case "rules":
		return handleRules(ctx, args[1:])
	case "categories":
		return handleCategories(ctx, args[1:])
	case "builtin":
		return handleBuiltin(ctx, args[1:])
	case "history":
		return handleHistory(ctx, args[1:])
	case "force-next":
		return handleForceNext(ctx, args[1:])
	case "set":
		return handleSet(ctx, args[1:])
	case "suggestions":
		return handleSuggestions(ctx, args[1:])
	case "config":
		return handleConfig(ctx, args[1:])
	case "tui":
		return handleTUI(ctx, args[1:])
	case "version":
		fmt.Println(version)
		return nil
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func usage() {
	fmt.Println(strings.TrimSpace(`downsort - downloads folder organizer

Usage:
  downsort <command> [flags]

Commands:
  watch             Watch the downloads directory and organize completed downloads
  grab              Download a URL into the downloads directory
  organize          One-shot pass over the downloads directory
  rules             Manage matching rules (list|add|rm|mv|import|export)
  categories        Manage custom extension categories (list|add|rm)
  builtin           Manage built-in category toggles (list|enable|disable)
  history           Show recently organized downloads
  force-next        Force the next download into a folder (or --clear)
  set               Runtime settings (auto-organize on|off, notifications always|errors|never)
  suggestions       Review rule suggestions (list [--ignored]|accept|dismiss)
  config            Config helpers (validate|print|init)
  tui               Open the interactive dashboard
  version           Print version
  help              Show this help

Flags:
  --config PATH     Path to YAML config file (or DOWNSORT_CONFIG env var; default: ~/.config/downsort/config.yml)
  --log-level L     Log level: debug|info|warn|error (per command)
  --json            JSON log output (per command)
`))
}

// commonFlags registers the flags every subcommand shares.
func commonFlags(fs *flag.FlagSet) (cfgPath, logLevel *string, jsonOut *bool) {
	cfgPath = fs.String("config", "", "Path to YAML config file")
	logLevel = fs.String("log-level", "", "log level (overrides config)")
	jsonOut = fs.Bool("json", false, "json logs")
	return
}

// loadEnv loads the config, opens the store and builds the logger. The
// caller owns closing the returned DB.
func loadEnv(cfgPath, logLevel string, jsonOut bool) (*config.Config, *store.DB, *logging.Logger, error) {
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	if _, err := os.Stat(cfgPath); err != nil {
		return nil, nil, nil, dserrors.ConfigNotFound(cfgPath)
	}
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, err
	}
	level := c.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	log := logging.New(level, jsonOut || c.Logging.Format == "json")
	db, err := store.Open(c.General.DataRoot)
	if err != nil {
		return nil, nil, nil, err
	}
	return c, db, log, nil
}

func handleHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	cfgPath, logLevel, jsonOut := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	_, db, _, err := loadEnv(*cfgPath, *logLevel, *jsonOut)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	entries, err := db.History()
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	if len(entries) == 0 {
		fmt.Println("Nothing organized yet.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%-36s → %-20s %8s  %s\n",
			e.Filename, e.Folder, humanize.Bytes(uint64(e.Size)), humanize.Time(e.Time))
	}
	return nil
}

func handleForceNext(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("force-next", flag.ContinueOnError)
	cfgPath, logLevel, jsonOut := commonFlags(fs)
	clearFlag := fs.Bool("clear", false, "clear a pending forced folder")
	if err := fs.Parse(args); err != nil {
		return err
	}
	_, db, _, err := loadEnv(*cfgPath, *logLevel, *jsonOut)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if *clearFlag {
		if err := db.ClearForceNext(); err != nil {
			return err
		}
		fmt.Println("Forced folder cleared.")
		return nil
	}
	if fs.NArg() == 0 {
		if folder, ok, err := db.PeekForceNext(); err != nil {
			return err
		} else if ok {
			fmt.Printf("Next download goes to: %s\n", folder)
		} else {
			fmt.Println("No forced folder set.")
		}
		return nil
	}
	folder := strings.TrimSpace(fs.Arg(0))
	if folder == "" {
		return errors.New("folder required")
	}
	if err := db.SetForceNext(folder); err != nil {
		return err
	}
	fmt.Printf("Next download goes to: %s\n", folder)
	return nil
}

// handleSet edits the runtime settings that live in the store rather
// than the config file, so a running watcher picks them up immediately.
func handleSet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	cfgPath, logLevel, jsonOut := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	_, db, _, err := loadEnv(*cfgPath, *logLevel, *jsonOut)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if fs.NArg() == 0 {
		auto, err := db.AutoOrganize()
		if err != nil {
			return err
		}
		mode, err := db.NotificationMode()
		if err != nil {
			return err
		}
		fmt.Printf("auto-organize: %v\nnotifications: %s\n", auto, mode)
		return nil
	}
	if fs.NArg() < 2 {
		return errors.New("usage: set <auto-organize on|off | notifications always|errors|never>")
	}
	key, val := fs.Arg(0), fs.Arg(1)
	switch key {
	case "auto-organize":
		switch val {
		case "on", "off":
			return db.SetAutoOrganize(val == "on")
		}
		return errors.New("auto-organize must be on or off")
	case "notifications":
		return db.SetNotificationMode(val)
	default:
		return fmt.Errorf("unknown setting: %s", key)
	}
}

func handleConfig(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("config subcommand required: validate | print | init")
	}
	sub := args[0]
	fs := flag.NewFlagSet("config "+sub, flag.ContinueOnError)
	cfgPath, _, _ := commonFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	path := *cfgPath
	if path == "" {
		path = config.DefaultPath()
	}

	switch sub {
	case "validate":
		if _, err := config.Load(path); err != nil {
			return err
		}
		fmt.Println("config: valid")
		return nil
	case "print":
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	case "init":
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(config.Example(home)), 0o644); err != nil {
			return err
		}
		fmt.Printf("Wrote starter config: %s\n", path)
		return nil
	default:
		return fmt.Errorf("unknown config subcommand: %s", sub)
	}
}
