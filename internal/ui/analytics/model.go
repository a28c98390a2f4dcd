package analytics

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasknest/internal/domain"
	"github.com/nhle/tasknest/internal/keys"
	"github.com/nhle/tasknest/internal/model"
	"github.com/nhle/tasknest/internal/report"
	"github.com/nhle/tasknest/internal/theme"
	"github.com/nhle/tasknest/internal/view"
)

// CloseMsg signals the parent to leave the analytics view.
type CloseMsg struct{}

const barWidth = 24

// Model shows analytics cards above a scrollable markdown report.
type Model struct {
	store    *domain.Store
	keys     *keys.KeyMap
	viewport viewport.Model
	width    int
	height   int
}

// New creates the analytics view.
func New(s *domain.Store, k *keys.KeyMap, width, height int) Model {
	m := Model{
		store:    s,
		keys:     k,
		viewport: viewport.New(width, height),
		width:    width,
		height:   height,
	}
	m.Refresh()
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Refresh recomputes the statistics and re-renders the report.
func (m *Model) Refresh() {
	st := m.store.Stats()
	md := report.Markdown(st, m.store.ProjectSummaries())
	dark := theme.IsDark(m.store.Settings().Theme)

	content := lipgloss.JoinVertical(lipgloss.Left,
		cards(st),
		"",
		priorityBars(st.ByPriority),
		"",
		report.Render(md, m.width-4, dark),
	)
	m.viewport.SetContent(content)
}

// Update handles messages for the analytics view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back) {
		return m, func() tea.Msg { return CloseMsg{} }
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the analytics view.
func (m Model) View() string {
	return m.viewport.View()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Refresh()
}

func cards(st view.Stats) string {
	card := func(label, value string, color lipgloss.TerminalColor) string {
		v := lipgloss.NewStyle().Bold(true).Foreground(color).Render(value)
		l := theme.HelpStyle.Render(label)
		return theme.PanelStyle.Width(18).Render(lipgloss.JoinVertical(lipgloss.Left, v, l))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("total tasks", fmt.Sprint(st.Total), theme.ColorBlue),
		card("completed", fmt.Sprintf("%.0f%%", st.CompletionRate), theme.ColorGreen),
		card("overdue", fmt.Sprint(st.Overdue), theme.ColorRed),
		card("productivity", fmt.Sprintf("%.0f/100", st.ProductivityScore), theme.ColorMagenta),
	)
}

func priorityBars(rows []view.Breakdown) string {
	most := 0
	for _, r := range rows {
		most = max(most, r.Count)
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Render("Tasks by priority")}
	for _, r := range rows {
		n := 0
		if most > 0 {
			n = r.Count * barWidth / most
		}
		bar := theme.PriorityStyle(model.Priority(r.Key)).Render(strings.Repeat("█", n))
		lines = append(lines, fmt.Sprintf("%-7s %s %d", r.Key, bar, r.Count))
	}
	return strings.Join(lines, "\n")
}
