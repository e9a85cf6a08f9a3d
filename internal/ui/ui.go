package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mise/internal/shopping"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	ChecklistView
	SkippedView
)

// Generator produces the shopping list displayed by the [Model].
type Generator func(ctx context.Context) (*shopping.List, error)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	generate  Generator
	title     string
	width     int
	height    int
	checklist list.Model
	result    *shopping.List
	checked   map[string]bool
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model titled title that loads its items from generate.
func NewModel(ctx context.Context, title string, generate Generator) *Model {
	checklist := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	checklist.Title = title
	checklist.SetShowHelp(false)

	return &Model{
		ctx:       ctx,
		view:      LoadingView,
		generate:  generate,
		title:     title,
		checklist: checklist,
		checked:   make(map[string]bool),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by generating the shopping list.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.checklist.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if m.err != nil {
			return m.handleErrorKeys(msg)
		}
		switch m.view {
		case LoadingView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ChecklistView:
			return m.handleChecklistKeys(msg)
		case SkippedView:
			return m.handleSkippedKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgListGenerated:
			g := msg.data.(generated)
			if g.err != nil {
				m.err = g.err
				return m, nil
			}
			return m, m.populate(g.list)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.checklist, cmd = m.checklist.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}

	switch m.view {
	case LoadingView:
		return fmt.Sprintf("%s\n\nGenerating shopping list...", styles.title.Render(m.title))
	case ChecklistView:
		return m.renderChecklist()
	case SkippedView:
		return m.renderSkipped()
	default:
		return ""
	}
}

// Checked returns the number of ticked lines and the total number of lines.
func (m *Model) Checked() (int, int) {
	items := m.checklist.Items()
	n := 0
	for _, it := range items {
		if si, ok := it.(shoppingItem); ok && si.checked {
			n++
		}
	}
	return n, len(items)
}

func (m *Model) handleErrorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		m.err = nil
		m.view = LoadingView
		return m, m.load()
	}
	return m, nil
}

func (m *Model) handleChecklistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.checklist.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.checklist, cmd = m.checklist.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggle):
		m.toggle()
		return m, nil
	case key.Matches(msg, m.keys.skipped):
		m.view = SkippedView
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.view = LoadingView
		return m, m.load()
	}

	var cmd tea.Cmd
	m.checklist, cmd = m.checklist.Update(msg)
	return m, cmd
}

func (m *Model) handleSkippedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.skipped):
		m.view = ChecklistView
	}
	return m, nil
}

// toggle flips the selected line. The position is looked up in the unfiltered items so
// toggling works while a filter is applied.
func (m *Model) toggle() {
	selected, ok := m.checklist.SelectedItem().(shoppingItem)
	if !ok {
		return
	}

	k := selected.key()
	for i, it := range m.checklist.Items() {
		if si, ok := it.(shoppingItem); ok && si.key() == k {
			si.checked = !si.checked
			m.checked[k] = si.checked
			m.checklist.SetItem(i, si)
			return
		}
	}
}

func (m *Model) populate(l *shopping.List) tea.Cmd {
	m.result = l
	m.view = ChecklistView

	items := make([]list.Item, len(l.Items))
	for i, it := range l.Items {
		si := shoppingItem{item: it}
		si.checked = m.checked[si.key()]
		items[i] = si
	}
	return m.checklist.SetItems(items)
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		l, err := m.generate(m.ctx)
		return listGeneratedMsg(l, err)
	}
}

func (m *Model) renderChecklist() string {
	helpView := m.help.ShortHelpView(m.keys.ShortHelp())

	if len(m.checklist.Items()) == 0 {
		empty := styles.warn.Render("Nothing is planned in this range.")
		return fmt.Sprintf("%s\n\n%s\n\n%s", styles.title.Render(m.title), empty, helpView)
	}

	done, total := m.Checked()
	status := fmt.Sprintf("%d of %d checked", done, total)
	if done == total {
		status = styles.ok.Render("✓ " + status)
	}
	if m.result != nil && m.result.MissingRecipes > 0 {
		status += styles.warn.Render(fmt.Sprintf(" • %d planned meals reference deleted recipes", m.result.MissingRecipes))
	}

	return fmt.Sprintf("%s\n%s\n\n%s", m.checklist.View(), status, helpView)
}

func (m *Model) renderSkipped() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Skipped ingredients"))
	b.WriteString("\n")

	if m.result == nil || len(m.result.Skipped) == 0 {
		b.WriteString("\nEvery quantity was added to the list.\n")
	} else {
		for _, s := range m.result.Skipped {
			fmt.Fprintf(&b, "\n  • %s %s: %s %q", s.Date, s.Recipe, s.Name, s.Quantity)
		}
		b.WriteString("\n")
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	b.WriteString("\n")
	b.WriteString(styles.help.Render(m.help.ShortHelpView(helpKeys)))
	return b.String()
}
