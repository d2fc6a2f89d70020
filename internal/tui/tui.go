package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"downsort/internal/store"
)

type tab int

const (
	tabHistory tab = iota
	tabRules
)

type tickMsg time.Time

type errMsg struct{ err error }

// Controller holds the interactive state: active tab, selection, and
// the fuzzy filter input.
type Controller struct {
	model       *Model
	view        *View
	tab         tab
	selected    int
	showHelp    bool
	filterOn    bool
	filterInput textinput.Model
}

func NewController(m *Model, v *View) *Controller {
	input := textinput.New()
	input.Placeholder = "type to filter..."
	return &Controller{model: m, view: v, filterInput: input}
}

func (c *Controller) query() string {
	return strings.TrimSpace(c.filterInput.Value())
}

type program struct {
	model      *Model
	view       *View
	controller *Controller
}

// New wires the dashboard into a tea.Model.
func New(db *store.DB) tea.Model {
	m := NewModel(db)
	v := NewView()
	return &program{model: m, view: v, controller: NewController(m, v)}
}

func (p *program) Init() tea.Cmd {
	if err := p.model.Load(); err != nil {
		return func() tea.Msg { return errMsg{err} }
	}
	return tickCmd()
}

func (p *program) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	c := p.controller
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.view.SetSize(msg.Width, msg.Height)
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)

	case tickMsg:
		if err := p.model.Load(); err != nil {
			return p, func() tea.Msg { return errMsg{err} }
		}
		c.clampSelection()
		return p, tickCmd()

	case errMsg:
		return p, nil
	}
	return p, nil
}

func (p *program) View() string {
	return p.view.View(p.model, p.controller)
}

func (p *program) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := p.controller

	if c.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			c.showHelp = false
		}
		return p, nil
	}

	if c.filterOn {
		switch msg.String() {
		case "esc":
			c.filterOn = false
			c.filterInput.SetValue("")
			c.filterInput.Blur()
			return p, nil
		case "enter":
			c.filterOn = false
			c.filterInput.Blur()
			return p, nil
		}
		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.selected = 0
		return p, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return p, tea.Quit

	case "?":
		c.showHelp = true

	case "tab":
		if c.tab == tabHistory {
			c.tab = tabRules
		} else {
			c.tab = tabHistory
		}
		c.selected = 0

	case "up", "k":
		if c.selected > 0 {
			c.selected--
		}

	case "down", "j":
		if c.selected < c.rowCount()-1 {
			c.selected++
		}

	case "/":
		c.filterOn = true
		c.filterInput.Focus()
		return p, textinput.Blink

	case "r":
		return p, func() tea.Msg {
			if err := p.model.Load(); err != nil {
				return errMsg{err}
			}
			return nil
		}
	}

	return p, nil
}

func (c *Controller) rowCount() int {
	switch c.tab {
	case tabRules:
		return len(c.model.FilteredRules(c.query()))
	default:
		return len(c.model.FilteredHistory(c.query()))
	}
}

func (c *Controller) clampSelection() {
	if n := c.rowCount(); c.selected >= n && n > 0 {
		c.selected = n - 1
	} else if n == 0 {
		c.selected = 0
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}
