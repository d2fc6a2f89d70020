package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"downsort/internal/notify"
	"downsort/internal/suggest"
)

// handleSuggestions reviews the "create a rule?" prompts the daemon has
// raised. Accept materializes a url rule; dismiss suppresses the
// domain/extension/folder combination for good.
func handleSuggestions(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("suggestions subcommand required: list | accept | dismiss")
	}
	sub := args[0]
	fs := flag.NewFlagSet("suggestions "+sub, flag.ContinueOnError)
	cfgPath, logLevel, jsonOut := commonFlags(fs)
	ignored := fs.Bool("ignored", false, "list dismissed suggestions instead of pending ones")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	c, db, log, err := loadEnv(*cfgPath, *logLevel, *jsonOut)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	sugg := suggest.New(db, notify.NewLog(log), c.Suggestions.Threshold, log)

	switch sub {
	case "list":
		if *ignored {
			keys, err := db.IgnoredKeys()
			if err != nil {
				return err
			}
			if *jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(keys)
			}
			if len(keys) == 0 {
				fmt.Println("No dismissed suggestions.")
				return nil
			}
			for _, k := range keys {
				fmt.Println(k)
			}
			return nil
		}
		pending, err := db.PendingSuggestions()
		if err != nil {
			return err
		}
		if *jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(pending)
		}
		if len(pending) == 0 {
			fmt.Println("No pending suggestions.")
			return nil
		}
		for _, p := range pending {
			fmt.Printf("%s\n  always send .%s files from %s to %s?\n", p.Key, p.Ext, p.Domain, p.Folder)
		}
		fmt.Println("\nUse: downsort suggestions accept|dismiss <key>")
		return nil

	case "accept":
		if fs.NArg() == 0 {
			return errors.New("suggestion key required (see suggestions list)")
		}
		r, err := sugg.Accept(fs.Arg(0))
		if err != nil {
			return err
		}
		fmt.Printf("Added rule %s: %s %q → %s\n", r.ID, r.Kind, r.MatchValue, r.Folder)
		return nil

	case "dismiss":
		if fs.NArg() == 0 {
			return errors.New("suggestion key required (see suggestions list)")
		}
		if err := sugg.Dismiss(fs.Arg(0)); err != nil {
			return err
		}
		fmt.Println("Suggestion dismissed.")
		return nil

	default:
		return fmt.Errorf("unknown suggestions subcommand: %s", sub)
	}
}
