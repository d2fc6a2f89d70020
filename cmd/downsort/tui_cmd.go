package main

import (
	"context"
	"flag"

	tea "github.com/charmbracelet/bubbletea"

	"downsort/internal/tui"
)

func handleTUI(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	cfgPath, logLevel, jsonOut := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	_, db, _, err := loadEnv(*cfgPath, *logLevel, *jsonOut)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	p := tea.NewProgram(tui.New(db), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
