package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"downsort/internal/rules"
	"downsort/internal/store"
)

func handleRules(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("rules subcommand required: list | add | rm | mv | import | export")
	}
	sub := args[0]
	fs := flag.NewFlagSet("rules "+sub, flag.ContinueOnError)
	cfgPath, logLevel, jsonOut := commonFlags(fs)

	var (
		kind     = fs.String("type", "keyword", "rule type: keyword | url")
		value    = fs.String("value", "", "match value (substring, case-insensitive)")
		folder   = fs.String("folder", "", "destination folder")
		template = fs.String("rename", "", "rename template, e.g. [site]-[original_name]")
		file     = fs.String("file", "", "JSON file for import/export (default: stdout/stdin)")
	)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	_, db, _, err := loadEnv(*cfgPath, *logLevel, *jsonOut)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	switch sub {
	case "list":
		return printRules(db, *jsonOut)

	case "add":
		r, err := db.AddRule(rules.Rule{
			Kind:           rules.RuleKind(*kind),
			MatchValue:     *value,
			Folder:         *folder,
			RenameTemplate: *template,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added rule %s: %s %q → %s\n", r.ID, r.Kind, r.MatchValue, r.Folder)
		return nil

	case "rm":
		if fs.NArg() == 0 {
			return errors.New("rule id required")
		}
		if err := db.DeleteRule(fs.Arg(0)); err != nil {
			return err
		}
		fmt.Println("Rule removed.")
		return nil

	case "mv":
		if fs.NArg() < 2 {
			return errors.New("usage: rules mv <id> <index>")
		}
		idx, err := strconv.Atoi(fs.Arg(1))
		if err != nil {
			return fmt.Errorf("index must be a number: %s", fs.Arg(1))
		}
		if err := db.MoveRule(fs.Arg(0), idx); err != nil {
			return err
		}
		return printRules(db, *jsonOut)

	case "export":
		data, err := db.ExportRulesJSON()
		if err != nil {
			return err
		}
		if *file == "" {
			fmt.Println(string(data))
			return nil
		}
		return os.WriteFile(*file, data, 0o644)

	case "import":
		var data []byte
		if *file == "" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(*file)
		}
		if err != nil {
			return err
		}
		n, err := db.ImportRulesJSON(data)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d rule(s).\n", n)
		return nil

	default:
		return fmt.Errorf("unknown rules subcommand: %s", sub)
	}
}

func printRules(db *store.DB, jsonOut bool) error {
	rs, err := db.Rules()
	if err != nil {
		return err
	}
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rs)
	}
	if len(rs) == 0 {
		fmt.Println("No rules defined.")
		return nil
	}
	for i, r := range rs {
		line := fmt.Sprintf("%2d. [%s] %-7s %q → %s", i+1, r.ID, r.Kind, r.MatchValue, r.Folder)
		if r.RenameTemplate != "" {
			line += "  rename=" + r.RenameTemplate
		}
		fmt.Println(line)
	}
	return nil
}

func handleCategories(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("categories subcommand required: list | add | rm")
	}
	sub := args[0]
	fs := flag.NewFlagSet("categories "+sub, flag.ContinueOnError)
	cfgPath, logLevel, jsonOut := commonFlags(fs)
	folder := fs.String("folder", "", "destination folder")
	exts := fs.String("ext", "", "comma-separated extensions, e.g. raw,dng,cr2")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	_, db, _, err := loadEnv(*cfgPath, *logLevel, *jsonOut)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	switch sub {
	case "list":
		cats, err := db.Categories()
		if err != nil {
			return err
		}
		if *jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(cats)
		}
		if len(cats) == 0 {
			fmt.Println("No custom categories.")
			return nil
		}
		for _, c := range cats {
			fmt.Printf("[%s] %s: %s\n", c.ID, c.Folder, strings.Join(c.Extensions, ", "))
		}
		return nil

	case "add":
		c, err := db.AddCategory(rules.Category{
			Folder:     *folder,
			Extensions: strings.Split(*exts, ","),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added category %s: %s (%s)\n", c.ID, c.Folder, strings.Join(c.Extensions, ", "))
		return nil

	case "rm":
		if fs.NArg() == 0 {
			return errors.New("category id required")
		}
		if err := db.DeleteCategory(fs.Arg(0)); err != nil {
			return err
		}
		fmt.Println("Category removed.")
		return nil

	default:
		return fmt.Errorf("unknown categories subcommand: %s", sub)
	}
}

func handleBuiltin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("builtin subcommand required: list | enable | disable")
	}
	sub := args[0]
	fs := flag.NewFlagSet("builtin "+sub, flag.ContinueOnError)
	cfgPath, logLevel, jsonOut := commonFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	_, db, _, err := loadEnv(*cfgPath, *logLevel, *jsonOut)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	switch sub {
	case "list":
		toggles, err := db.BuiltinToggles()
		if err != nil {
			return err
		}
		for _, key := range rules.BuiltinOrder {
			state := "enabled"
			if on, ok := toggles[key]; ok && !on {
				state = "disabled"
			}
			fmt.Printf("%-14s → %-14s %s\n", key, rules.BuiltinFolderName(key), state)
		}
		return nil

	case "enable", "disable":
		if fs.NArg() == 0 {
			return fmt.Errorf("category key required, one of: %s", strings.Join(rules.BuiltinOrder, " "))
		}
		if err := db.SetBuiltinToggle(fs.Arg(0), sub == "enable"); err != nil {
			return err
		}
		fmt.Printf("%s %sd.\n", fs.Arg(0), sub)
		return nil

	default:
		return fmt.Errorf("unknown builtin subcommand: %s", sub)
	}
}
