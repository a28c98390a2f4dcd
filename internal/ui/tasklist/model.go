package tasklist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasknest/internal/domain"
	"github.com/nhle/tasknest/internal/keys"
	"github.com/nhle/tasknest/internal/model"
	"github.com/nhle/tasknest/internal/reorder"
	"github.com/nhle/tasknest/internal/theme"
)

// ChangedMsg is sent after the list mutated the store.
type ChangedMsg struct{}

// NewTaskMsg asks the parent to open an empty task form.
type NewTaskMsg struct{}

// EditTaskMsg asks the parent to open the task form for TaskID.
type EditTaskMsg struct {
	TaskID string
}

// OpenTaskMsg asks the parent to show the details of TaskID.
type OpenTaskMsg struct {
	TaskID string
}

// Model is the main task list view component.
type Model struct {
	list        list.Model
	store       *domain.Store
	keys        *keys.KeyMap
	logger      *slog.Logger
	gesture     reorder.Gesture
	marks       *dragMarks
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new task list model.
func New(s *domain.Store, k *keys.KeyMap, logger *slog.Logger, width, height int) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	marks := &dragMarks{}
	l := list.New([]list.Item{}, ItemDelegate{marks: marks}, width, height-2)
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.Width = width - 4
	si.SetValue(s.ViewState().Query)

	m := Model{
		list:        l,
		store:       s,
		keys:        k,
		logger:      logger,
		marks:       marks,
		searchInput: si,
		width:       width,
		height:      height,
	}
	m.Refresh()
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Refresh rebuilds the rows from the store's current view, keeping the
// cursor on the same task when it is still visible.
func (m *Model) Refresh() {
	selected := m.SelectedID()

	projects := make(map[string]model.Project)
	for _, p := range m.store.Projects() {
		projects[p.ID] = p
	}

	today := model.DateOf(m.store.Now())
	tasks := m.store.VisibleTasks()
	items := make([]list.Item, len(tasks))
	cursor := 0
	for i, t := range tasks {
		items[i] = TaskItem{Task: t, Project: projects[t.ProjectID], Overdue: t.IsOverdue(today)}
		if t.ID == selected {
			cursor = i
		}
	}
	m.list.SetItems(items)
	m.list.Select(cursor)
	m.list.Title = m.title(projects)
}

func (m Model) title(projects map[string]model.Project) string {
	vs := m.store.ViewState()
	title := vs.Mode.Label()
	if p, ok := projects[vs.ProjectID]; ok {
		title += " · " + p.Name
	}
	if vs.Query != "" {
		title += fmt.Sprintf(" · %q", vs.Query)
	}
	return title
}

// SelectedID returns the id of the task under the cursor, or "".
func (m Model) SelectedID() string {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return ""
	}
	return item.Task.ID
}

// Reordering reports whether a drag is in progress.
func (m Model) Reordering() bool {
	return m.gesture.Active()
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case m.searchMode:
			return m.handleSearchKeys(msg)
		case m.gesture.Active():
			return m.handleDragKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode. The query
// applies as it is typed.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.Reset()
		m.store.SetSearchQuery("")
		m.Refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if q := m.searchInput.Value(); q != m.store.ViewState().Query {
		m.store.SetSearchQuery(q)
		m.Refresh()
	}
	return m, cmd
}

// handleDragKeys moves the drop target while a task is picked up.
func (m Model) handleDragKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.list.CursorDown()
		m.hoverSelected()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.list.CursorUp()
		m.hoverSelected()
		return m, nil

	case key.Matches(msg, m.keys.Drop), key.Matches(msg, m.keys.Pick):
		move, err := m.gesture.Drop("")
		m.clearMarks()
		if err != nil {
			// Dropped back onto itself.
			m.gesture.Cancel()
			return m, nil
		}
		return m, m.reorder(move)

	case key.Matches(msg, m.keys.Back):
		m.gesture.Cancel()
		m.clearMarks()
		return m, nil
	}
	return m, nil
}

func (m *Model) hoverSelected() {
	id := m.SelectedID()
	var err error
	if id == m.gesture.Dragged() {
		if m.gesture.State() == reorder.Hovering {
			err = m.gesture.Leave()
		}
	} else {
		err = m.gesture.Hover(id)
	}
	if err != nil {
		m.logger.Debug("reorder hover", slog.String("error", err.Error()))
	}
	m.marks.dragged = m.gesture.Dragged()
	m.marks.target = m.gesture.Target()
}

func (m *Model) clearMarks() {
	m.marks.dragged = ""
	m.marks.target = ""
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.store.ViewState().Query)
		m.searchInput.CursorEnd()
		cmd := m.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.ViewAll):
		return m.setView(model.ViewAll)
	case key.Matches(msg, m.keys.ViewToday):
		return m.setView(model.ViewToday)
	case key.Matches(msg, m.keys.ViewUpcoming):
		return m.setView(model.ViewUpcoming)
	case key.Matches(msg, m.keys.ViewCompleted):
		return m.setView(model.ViewCompleted)

	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return NewTaskMsg{} }

	case key.Matches(msg, m.keys.Open):
		id := m.SelectedID()
		if id == "" {
			return m, nil
		}
		return m, func() tea.Msg { return OpenTaskMsg{TaskID: id} }

	case key.Matches(msg, m.keys.Edit):
		id := m.SelectedID()
		if id == "" {
			return m, nil
		}
		return m, func() tea.Msg { return EditTaskMsg{TaskID: id} }

	case key.Matches(msg, m.keys.Toggle):
		id := m.SelectedID()
		if id == "" {
			return m, nil
		}
		s := m.store
		return m, func() tea.Msg {
			s.ToggleComplete(context.Background(), id)
			return ChangedMsg{}
		}

	case key.Matches(msg, m.keys.Delete):
		id := m.SelectedID()
		if id == "" {
			return m, nil
		}
		s := m.store
		return m, func() tea.Msg {
			s.DeleteTask(context.Background(), id)
			return ChangedMsg{}
		}

	case key.Matches(msg, m.keys.Pick):
		id := m.SelectedID()
		if id == "" {
			return m, nil
		}
		if err := m.gesture.Start(id); err != nil {
			m.logger.Debug("reorder start", slog.String("error", err.Error()))
			return m, nil
		}
		m.marks.dragged = id
		return m, nil
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) setView(mode model.ViewMode) (Model, tea.Cmd) {
	m.store.SetView(mode)
	m.Refresh()
	return m, nil
}

// reorder writes the move back through the store for the list the user
// was looking at.
func (m Model) reorder(move reorder.Move) tea.Cmd {
	s := m.store
	scope := s.ViewState()
	return func() tea.Msg {
		s.ReorderTasks(context.Background(), scope, move.DraggedID, move.TargetID)
		return ChangedMsg{}
	}
}

// View renders the task list view.
func (m Model) View() string {
	var header string
	switch {
	case m.searchMode:
		header = lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
	case m.gesture.Active():
		header = theme.HelpStyle.Padding(0, 1).
			Render("reordering: j/k choose position · enter drop · esc cancel")
	}

	body := m.list.View()
	if len(m.list.Items()) == 0 {
		body = m.renderEmptyState()
	}
	if header == "" {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// renderEmptyState shows guidance text when no tasks are visible.
func (m Model) renderEmptyState() string {
	vs := m.store.ViewState()
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if vs.Query != "" || vs.ProjectID != "" || vs.Mode != model.ViewAll {
		return style.Render("No matching tasks.\nTry another view or search.")
	}
	return style.Render("No tasks yet.\n\nPress 'n' to create one.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
