package detail

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
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// Actions a detail view can ask the parent to run.
const (
	ActionEdit   = "edit"
	ActionToggle = "toggle"
	ActionDelete = "delete"
)

// ActionMsg signals the parent to execute an action on the current task.
type ActionMsg struct {
	Action string
	TaskID string
}

// Model is the task detail view component.
type Model struct {
	task     *model.Task
	project  model.Project
	viewport viewport.Model
	store    *domain.Store
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(s *domain.Store, keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		store:    s,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }
		case key.Matches(msg, m.keys.Edit):
			return m, m.action(ActionEdit)
		case key.Matches(msg, m.keys.Toggle):
			return m, m.action(ActionToggle)
		case key.Matches(msg, m.keys.Delete):
			return m, m.action(ActionDelete)
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) action(name string) tea.Cmd {
	if m.task == nil {
		return nil
	}
	id := m.task.ID
	return func() tea.Msg {
		return ActionMsg{Action: name, TaskID: id}
	}
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No task selected")
	}

	return m.viewport.View()
}

// TaskID returns the id of the task on display, or "".
func (m Model) TaskID() string {
	if m.task == nil {
		return ""
	}
	return m.task.ID
}

// SetTask loads the task with the given id and re-renders the content.
// It reports false when the store has no such task.
func (m *Model) SetTask(id string) bool {
	t, ok := m.store.Task(id)
	if !ok {
		m.task = nil
		return false
	}
	m.task = &t
	m.project, _ = m.store.Project(t.ProjectID)
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
	return true
}

// Refresh reloads the current task, keeping the scroll position.
func (m *Model) Refresh() {
	if m.task == nil {
		return
	}
	t, ok := m.store.Task(m.task.ID)
	if !ok {
		m.task = nil
		return
	}
	m.task = &t
	m.project, _ = m.store.Project(t.ProjectID)
	m.viewport.SetContent(m.renderContent())
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	task := m.task
	today := model.DateOf(m.store.Now())
	var sections []string

	// Title
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(task.Title))

	// Badges line: state + priority + overdue
	state := lipgloss.NewStyle().Foreground(theme.ColorBlue).Render("OPEN")
	if task.Completed {
		state = lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("DONE")
	}
	priBadge := theme.PriorityStyle(task.Priority).Render(strings.ToUpper(string(task.Priority)))
	badges := []string{state, "  ", priBadge}
	if task.IsOverdue(today) {
		badges = append(badges, "  ", theme.OverdueStyle.Render("OVERDUE"))
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, badges...))
	sections = append(sections, "")

	// Metadata table
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	label := func(s string) string {
		return metaStyle.Render(fmt.Sprintf("%-11s", s))
	}
	row := func(name, value string) {
		sections = append(sections, label(name)+valStyle.Render(value))
	}

	project := "No project"
	if m.project.ID != "" {
		project = lipgloss.NewStyle().
			Foreground(theme.ProjectColor(m.project.Color)).
			Render("● " + m.project.Name)
	}
	sections = append(sections, label("Project:")+project)
	row("Category:", task.Category)
	row("Due:", task.DueDate.String())
	if len(task.Tags) > 0 {
		sections = append(sections, label("Tags:")+theme.TagStyle.Render("#"+strings.Join(task.Tags, " #")))
	}
	row("Created:", task.CreatedAt.Local().Format("2006-01-02 15:04"))
	row("Updated:", task.UpdatedAt.Local().Format("2006-01-02 15:04"))
	if task.CompletedAt != nil {
		row("Completed:", task.CompletedAt.Local().Format("2006-01-02 15:04"))
	}

	// Separator
	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 0)))
	sections = append(sections, "", separator, "")

	// Description
	descHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)
	sections = append(sections, descHeaderStyle.Render("Description"))

	var body string
	if strings.TrimSpace(task.Description) == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	} else {
		body = report.Render(task.Description, max(m.width-4, 20), theme.IsDark(m.store.Settings().Theme))
	}
	sections = append(sections, body)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.task != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
