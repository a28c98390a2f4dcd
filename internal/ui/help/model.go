package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasknest/internal/keys"
	"github.com/nhle/tasknest/internal/theme"
)

type entry struct {
	name, text string
}

type section struct {
	title   string
	entries []entry
}

var views = section{
	title: "Views",
	entries: []entry{
		{"All", "every open task"},
		{"Today", "open tasks due today"},
		{"Upcoming", "open tasks due after today"},
		{"Completed", "finished tasks"},
	},
}

var ordering = section{
	title: "Ordering",
	entries: []entry{
		{"sort", "open first, then urgent to low, then earliest due"},
		{"space", "pick up a task, move with j/k, enter drops it"},
		{"drops", "only land between tasks the sort leaves tied"},
	},
}

var commands = section{
	title: "Commands (:)",
	entries: []entry{
		{"export [file]", "write a JSON backup"},
		{"import <file>", "replace data from a backup"},
		{"reset", "clear everything and reload the samples"},
		{"theme light|dark|system", "switch colours"},
		{"projects, stats, settings", "open a screen"},
		{"quit", "leave TaskNest"},
	},
}

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the key bindings followed by the view, ordering and
// command references.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	m.help.Width = m.width - 4
	m.help.ShowAll = true

	parts := []string{
		titleStyle.Render("Keyboard Shortcuts"),
		m.help.View(m.keys),
	}
	for _, s := range []section{views, ordering, commands} {
		parts = append(parts, "", renderSection(s))
	}
	parts = append(parts, "", theme.HelpStyle.Render(
		fmt.Sprintf("%s clears every notification on the task list, %s only the newest",
			m.keys.Back.Help().Key, m.keys.Dismiss.Help().Key),
	))

	return theme.PanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func renderSection(s section) string {
	width := 0
	for _, e := range s.entries {
		width = max(width, lipgloss.Width(e.name))
	}

	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue)
	name := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	var b strings.Builder
	b.WriteString(heading.Render(s.title))
	for _, e := range s.entries {
		b.WriteString("\n  ")
		b.WriteString(name.Render(e.name + strings.Repeat(" ", width-lipgloss.Width(e.name))))
		b.WriteString("  ")
		b.WriteString(theme.HelpStyle.Render(e.text))
	}
	return b.String()
}

// ShortView renders the one-line key summary for the status bar.
func (m Model) ShortView() string {
	m.help.ShowAll = false
	return m.help.View(m.keys)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
