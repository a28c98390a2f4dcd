package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasknest/internal/domain"
	"github.com/nhle/tasknest/internal/keys"
	"github.com/nhle/tasknest/internal/model"
	"github.com/nhle/tasknest/internal/notify"
	"github.com/nhle/tasknest/internal/theme"
	"github.com/nhle/tasknest/internal/ui"
	"github.com/nhle/tasknest/internal/ui/analytics"
	"github.com/nhle/tasknest/internal/ui/command"
	"github.com/nhle/tasknest/internal/ui/detail"
	helpview "github.com/nhle/tasknest/internal/ui/help"
	"github.com/nhle/tasknest/internal/ui/projectmgr"
	"github.com/nhle/tasknest/internal/ui/settings"
	"github.com/nhle/tasknest/internal/ui/taskform"
	"github.com/nhle/tasknest/internal/ui/tasklist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewHelp
	ViewCommand
	ViewTaskCreate
	ViewTaskEdit
	ViewProjectList
	ViewAnalytics
	ViewDetail
	ViewSettings
)

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the domain store.
type Model struct {
	currentView   ViewState
	previousView  ViewState
	formReturn    ViewState
	layout        ui.Layout
	store         *domain.Store
	center        *notify.Center
	logger        *slog.Logger
	keys          *keys.KeyMap
	taskList      tasklist.Model
	helpView      helpview.Model
	commandView   command.Model
	taskFormView  taskform.Model
	projectView   projectmgr.Model
	analyticsView analytics.Model
	detailView    detail.Model
	settingsView  settings.Model
	ready         bool
}

// New creates a new root application model.
func New(s *domain.Store, c *notify.Center, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	k := keys.DefaultKeyMap()
	return Model{
		currentView:   ViewList,
		store:         s,
		center:        c,
		logger:        logger,
		keys:          k,
		layout:        ui.NewLayout(80, 24),
		taskList:      tasklist.New(s, k, logger, 80, 22),
		helpView:      helpview.New(k, 80, 22),
		commandView:   command.New(80, 22),
		taskFormView:  taskform.New(80, 22),
		projectView:   projectmgr.New(s, k, 80, 22),
		analyticsView: analytics.New(s, k, 80, 22),
		detailView:    detail.New(s, k, 80, 22),
		settingsView:  settings.New(s, 80, 22),
	}
}

// Init applies the saved theme and subscribes to notification changes.
func (m Model) Init() tea.Cmd {
	theme.Apply(m.store.Settings().Theme)
	return waitForNotifications(m.center)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.taskList.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		m.taskFormView.SetSize(contentWidth, contentHeight)
		m.projectView.SetSize(contentWidth, contentHeight)
		m.analyticsView.SetSize(contentWidth, contentHeight)
		m.detailView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case notificationsChangedMsg:
		return m, waitForNotifications(m.center)

	case tasklist.ChangedMsg, projectmgr.ChangedMsg, dataChangedMsg:
		m.refresh()
		return m, nil

	case tasklist.NewTaskMsg:
		m.previousView = m.currentView
		m.formReturn = m.currentView
		m.currentView = ViewTaskCreate
		m.taskFormView.SetProjects(m.store.Projects())
		vs := m.store.ViewState()
		cmd := m.taskFormView.StartCreate(m.today(), vs.ProjectID)
		return m, cmd

	case tasklist.EditTaskMsg:
		return m.editTask(msg.TaskID)

	case tasklist.OpenTaskMsg:
		if m.detailView.SetTask(msg.TaskID) {
			m.previousView = m.currentView
			m.currentView = ViewDetail
		}
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case detail.ActionMsg:
		return m.detailAction(msg)

	case taskform.CreatedMsg:
		m.currentView = m.formReturn
		return m, m.createTask(msg.Input)

	case taskform.UpdatedMsg:
		m.currentView = m.formReturn
		return m, m.updateTask(msg.TaskID, msg.Patch)

	case taskform.CancelMsg:
		m.currentView = m.formReturn
		return m, nil

	case settings.SavedMsg:
		if msg.Err == nil {
			theme.Apply(msg.Settings.Theme)
		}
		m.currentView = ViewList
		m.refresh()
		return m, nil

	case settings.ResetMsg:
		theme.Apply(m.store.Settings().Theme)
		m.currentView = ViewList
		m.refresh()
		return m, nil

	case settings.DoneMsg:
		m.currentView = ViewList
		return m, nil

	case projectmgr.CloseMsg:
		m.currentView = ViewList
		return m, nil

	case analytics.CloseMsg:
		m.currentView = ViewList
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.capturesKeys() {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.currentView == ViewList {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.Help):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case key.Matches(msg, m.keys.Command):
			if m.currentView == ViewCommand {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewCommand
			cmd := m.commandView.Focus()
			return m, cmd

		case key.Matches(msg, m.keys.Back):
			switch m.currentView {
			case ViewHelp, ViewCommand:
				m.currentView = m.previousView
				return m, nil
			case ViewList:
				m.center.RemoveAll()
				return m, nil
			}

		case key.Matches(msg, m.keys.Dismiss):
			if list := m.center.List(); len(list) > 0 {
				m.center.Remove(list[len(list)-1].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.Projects):
			if m.currentView == ViewList {
				m.previousView = m.currentView
				m.currentView = ViewProjectList
				m.projectView.Refresh()
				return m, m.projectView.Init()
			}

		case key.Matches(msg, m.keys.Analytics):
			if m.currentView == ViewList {
				m.previousView = m.currentView
				m.currentView = ViewAnalytics
				m.analyticsView.Refresh()
				return m, nil
			}

		case key.Matches(msg, m.keys.Settings):
			if m.currentView == ViewList {
				cmd := m.openSettings()
				return m, cmd
			}

		case key.Matches(msg, m.keys.Theme):
			if m.currentView == ViewList {
				return m, m.cycleTheme()
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// capturesKeys reports whether the active view is taking free text or a
// drag, so global shortcuts must not fire.
func (m Model) capturesKeys() bool {
	switch m.currentView {
	case ViewTaskCreate, ViewTaskEdit, ViewCommand:
		return true
	case ViewSettings:
		return m.settingsView.Editing()
	case ViewProjectList:
		return m.projectView.Editing()
	case ViewList:
		return m.taskList.Searching() || m.taskList.Reordering()
	}
	return false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewTaskCreate, ViewTaskEdit:
		m.taskFormView, cmd = m.taskFormView.Update(msg)
	case ViewProjectList:
		m.projectView, cmd = m.projectView.Update(msg)
	case ViewAnalytics:
		m.analyticsView, cmd = m.analyticsView.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}

	return m, cmd
}

// refresh re-derives every view that shows store data.
func (m *Model) refresh() {
	m.taskList.Refresh()
	m.projectView.Refresh()
	switch m.currentView {
	case ViewAnalytics:
		m.analyticsView.Refresh()
	case ViewDetail:
		m.detailView.Refresh()
		if m.detailView.TaskID() == "" {
			m.currentView = ViewList
		}
	}
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("TaskNest", m.headerStatus())
	toasts := m.layout.RenderToasts(m.center.List())
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	avail := m.layout.ContentHeight() - lipgloss.Height(toasts)
	if toasts == "" {
		avail = m.layout.ContentHeight()
	}
	content := lipgloss.NewStyle().MaxHeight(max(avail, 0)).Render(m.renderContent())

	return m.layout.RenderWithFrame(header, content, toasts, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.taskList.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewTaskCreate, ViewTaskEdit:
		return m.taskFormView.View()
	case ViewProjectList:
		return m.projectView.View()
	case ViewAnalytics:
		return m.analyticsView.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewSettings:
		return m.settingsView.View()
	default:
		return ""
	}
}

// headerStatus summarises open work and the active theme.
func (m Model) headerStatus() string {
	st := m.store.Stats()
	open := st.Total - st.Completed
	status := fmt.Sprintf("%d open", open)
	if st.Overdue > 0 {
		status += fmt.Sprintf(" · %d overdue", st.Overdue)
	}
	return status + " · " + string(m.store.Settings().Theme)
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewTaskCreate, ViewTaskEdit:
		return "enter submit | esc cancel"
	case ViewProjectList:
		return "enter show tasks | n new | e edit | d delete | esc back"
	case ViewAnalytics:
		return "j/k scroll | esc back"
	case ViewDetail:
		return "e edit | x toggle done | d delete | j/k scroll | esc back"
	case ViewSettings:
		return "enter next | esc cancel | ctrl+r reset all data"
	default:
		if m.taskList.Reordering() {
			return "j/k move | enter drop | esc cancel"
		}
		return m.helpView.ShortView()
	}
}

func (m Model) today() model.Date {
	return model.DateOf(m.store.Now())
}

func (m Model) cycleTheme() tea.Cmd {
	s := m.store
	next := s.Settings().Theme.Next()
	return func() tea.Msg {
		if err := s.SetTheme(context.Background(), next); err == nil {
			theme.Apply(next)
		}
		return dataChangedMsg{}
	}
}

func (m Model) editTask(id string) (tea.Model, tea.Cmd) {
	task, ok := m.store.Task(id)
	if !ok {
		return m, nil
	}
	m.previousView = m.currentView
	m.formReturn = m.currentView
	m.currentView = ViewTaskEdit
	m.taskFormView.SetProjects(m.store.Projects())
	cmd := m.taskFormView.StartEdit(task)
	return m, cmd
}

func (m Model) detailAction(msg detail.ActionMsg) (tea.Model, tea.Cmd) {
	s := m.store
	switch msg.Action {
	case detail.ActionEdit:
		return m.editTask(msg.TaskID)
	case detail.ActionToggle:
		return m, func() tea.Msg {
			s.ToggleComplete(context.Background(), msg.TaskID)
			return dataChangedMsg{}
		}
	case detail.ActionDelete:
		m.currentView = ViewList
		return m, func() tea.Msg {
			s.DeleteTask(context.Background(), msg.TaskID)
			return dataChangedMsg{}
		}
	}
	return m, nil
}

func (m *Model) openSettings() tea.Cmd {
	m.previousView = m.currentView
	m.currentView = ViewSettings
	return m.settingsView.Start()
}
