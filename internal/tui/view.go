package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"downsort/internal/rename"
	"downsort/internal/rules"
	"downsort/internal/store"
)

type View struct {
	styles uiStyles
	width  int
	height int
}

type uiStyles struct {
	header    lipgloss.Style
	tabOn     lipgloss.Style
	tabOff    lipgloss.Style
	row       lipgloss.Style
	sel       lipgloss.Style
	dim       lipgloss.Style
}

func NewView() *View {
	return &View{styles: uiStyles{
		header: lipgloss.NewStyle().Bold(true),
		tabOn:  lipgloss.NewStyle().Bold(true).Underline(true),
		tabOff: lipgloss.NewStyle().Faint(true),
		row:    lipgloss.NewStyle(),
		sel:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		dim:    lipgloss.NewStyle().Faint(true),
	}}
}

func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *View) View(m *Model, c *Controller) string {
	if v.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(v.renderHeader(c))
	b.WriteString("\n")

	if c.showHelp {
		b.WriteString(v.helpView())
		return b.String()
	}

	switch c.tab {
	case tabHistory:
		b.WriteString(v.renderHistory(m.FilteredHistory(c.query()), c.selected))
	case tabRules:
		b.WriteString(v.renderRules(m.FilteredRules(c.query()), c.selected))
	}

	b.WriteString("\n")
	b.WriteString(v.renderFilter(c.filterOn, c.filterInput))
	return b.String()
}

func (v *View) renderHeader(c *Controller) string {
	hist := v.styles.tabOff.Render("History")
	rls := v.styles.tabOff.Render("Rules")
	switch c.tab {
	case tabHistory:
		hist = v.styles.tabOn.Render("History")
	case tabRules:
		rls = v.styles.tabOn.Render("Rules")
	}
	return v.styles.header.Render("Downsort") + "  " + hist + " | " + rls
}

func (v *View) renderHistory(entries []store.HistoryEntry, selected int) string {
	if len(entries) == 0 {
		return "Nothing organized yet."
	}
	var b strings.Builder
	for i, e := range entries {
		style := v.styles.row
		if i == selected {
			style = v.styles.sel
		}
		line := fmt.Sprintf("%-52s %8s  %s",
			truncate(rename.JoinPath(e.Folder, e.Filename), 52),
			humanize.Bytes(uint64(e.Size)),
			relTime(e.Time))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderRules(rls []rules.Rule, selected int) string {
	if len(rls) == 0 {
		return "No rules defined."
	}
	var b strings.Builder
	for i, r := range rls {
		style := v.styles.row
		if i == selected {
			style = v.styles.sel
		}
		line := fmt.Sprintf("%2d. %-7s %-28s → %s", i+1, r.Kind, truncate(r.MatchValue, 28), r.Folder)
		if r.RenameTemplate != "" {
			line += "  " + v.styles.dim.Render("["+r.RenameTemplate+"]")
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderFilter(on bool, input textinput.Model) string {
	if on {
		return "/" + input.View()
	}
	return v.styles.dim.Render("tab switch · / filter · r refresh · ? help · q quit")
}

func (v *View) helpView() string {
	return `
Downsort Dashboard

  tab       Switch between history and rules
  ↑/k ↓/j   Move selection
  /         Fuzzy filter (esc clears)
  r         Refresh from database
  ?         Toggle help
  q         Quit
`
}

func relTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
