package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tasknest/internal/domain"
	"github.com/nhle/tasknest/internal/model"
	"github.com/nhle/tasknest/internal/notify"
	"github.com/nhle/tasknest/internal/theme"
	"github.com/nhle/tasknest/internal/ui/command"
)

// dataChangedMsg is sent after a command changed store data.
type dataChangedMsg struct{}

// createTask persists a new task. Validation failures surface as
// notifications from the store.
func (m Model) createTask(in domain.TaskInput) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_, _ = s.CreateTask(context.Background(), in)
		return dataChangedMsg{}
	}
}

func (m Model) updateTask(id string, patch domain.TaskPatch) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_, _, _ = s.UpdateTask(context.Background(), id, patch)
		return dataChangedMsg{}
	}
}

// executeCommand handles a command from the command palette.
func (m *Model) executeCommand(cmd command.CommandMsg) tea.Cmd {
	switch cmd.Name {
	case "export":
		path := ""
		if len(cmd.Args) > 0 {
			path = cmd.Args[0]
		}
		return m.exportTo(path)
	case "import":
		if len(cmd.Args) == 0 {
			return m.warn("Import Failed", "usage: import <file>")
		}
		return m.importFrom(cmd.Args[0])
	case "reset":
		s := m.store
		return func() tea.Msg {
			_ = s.Reset(context.Background())
			return dataChangedMsg{}
		}
	case "theme":
		if len(cmd.Args) == 0 {
			return m.cycleTheme()
		}
		t := model.Theme(cmd.Args[0])
		s := m.store
		return func() tea.Msg {
			if err := s.SetTheme(context.Background(), t); err == nil {
				theme.Apply(t)
			}
			return dataChangedMsg{}
		}
	case "projects":
		m.previousView = ViewList
		m.currentView = ViewProjectList
		m.projectView.Refresh()
		return nil
	case "stats", "analytics":
		m.previousView = ViewList
		m.currentView = ViewAnalytics
		m.analyticsView.Refresh()
		return nil
	case "settings", "prefs":
		return m.openSettings()
	case "quit", "q":
		return tea.Quit
	default:
		return m.warn("Unknown Command", fmt.Sprintf(`"%s" is not a command`, cmd.Name))
	}
}

// exportTo writes the export document to path, or to the dated backup file
// name in the working directory when path is empty.
func (m Model) exportTo(path string) tea.Cmd {
	s, c, logger := m.store, m.center, m.logger
	return func() tea.Msg {
		name, data, err := s.Export(context.Background())
		if err != nil {
			return dataChangedMsg{}
		}
		if path == "" {
			path = name
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			logger.Error("writing export", slog.String("path", path), slog.String("error", err.Error()))
			c.Add(notify.Input{Type: model.NotifyError, Title: "Export Failed", Message: err.Error()})
			return dataChangedMsg{}
		}
		logger.Info("exported data", slog.String("path", path))
		return dataChangedMsg{}
	}
}

func (m Model) importFrom(path string) tea.Cmd {
	s, c := m.store, m.center
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			c.Add(notify.Input{Type: model.NotifyError, Title: "Import Failed", Message: err.Error()})
			return dataChangedMsg{}
		}
		_ = s.Import(context.Background(), data)
		return dataChangedMsg{}
	}
}

func (m Model) warn(title, message string) tea.Cmd {
	c := m.center
	return func() tea.Msg {
		c.Add(notify.Input{Type: model.NotifyWarning, Title: title, Message: message})
		return nil
	}
}
