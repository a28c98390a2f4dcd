package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nhle/tasknest/internal/model"
	"github.com/nhle/tasknest/internal/store"
)

// SettingsPatch lists settings to change; nil fields are kept.
type SettingsPatch struct {
	Theme              *model.Theme
	DefaultView        *model.ViewMode
	ShowCompletedTasks *bool
	TaskSortBy         *model.SortField
	TaskSortOrder      *model.SortOrder
}

// UpdateSettings applies patch and persists the result.
func (s *Store) UpdateSettings(ctx context.Context, patch SettingsPatch) (model.Settings, error) {
	s.mu.Lock()
	next := s.settings
	if patch.Theme != nil {
		next.Theme = *patch.Theme
	}
	if patch.DefaultView != nil {
		next.DefaultView = *patch.DefaultView
	}
	if patch.ShowCompletedTasks != nil {
		next.ShowCompletedTasks = *patch.ShowCompletedTasks
	}
	if patch.TaskSortBy != nil {
		next.TaskSortBy = *patch.TaskSortBy
	}
	if patch.TaskSortOrder != nil {
		next.TaskSortOrder = *patch.TaskSortOrder
	}
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return s.Settings(), s.rejected(err)
	}

	themeChanged := next.Theme != s.settings.Theme
	s.settings = next
	s.persistSettings(ctx)
	s.mu.Unlock()

	if themeChanged {
		s.notify(model.NotifySuccess, "Theme Updated", fmt.Sprintf("Theme changed to %s", next.Theme))
	} else {
		s.notify(model.NotifySuccess, "Settings Updated", "Your preferences have been saved")
	}
	return next, nil
}

// SetTheme changes the colour theme.
func (s *Store) SetTheme(ctx context.Context, theme model.Theme) error {
	_, err := s.UpdateSettings(ctx, SettingsPatch{Theme: &theme})
	return err
}

// Export returns the suggested backup file name and the export document,
// built from the in-memory collections.
func (s *Store) Export(ctx context.Context) (string, []byte, error) {
	s.mu.RLock()
	doc := store.ExportDocument{
		Projects:   append([]model.Project{}, s.projects...),
		Tasks:      cloneTasks(s.tasks),
		Settings:   s.settings,
		ExportedAt: s.now().UTC(),
	}
	s.mu.RUnlock()

	data, err := doc.Encode()
	if err != nil {
		s.logger.Error("export failed", slog.String("error", err.Error()))
		s.notify(model.NotifyError, "Export Failed", "Failed to export data")
		return "", nil, err
	}
	s.notify(model.NotifySuccess, "Data Exported", "Your data has been exported successfully")
	return store.BackupFilename(s.now()), data, nil
}

// Import replaces the records present in data and reloads the store. A
// malformed document changes nothing.
func (s *Store) Import(ctx context.Context, data []byte) error {
	s.mu.Lock()
	err := s.repo.ImportAll(ctx, data)
	if err == nil {
		s.loadLocked(ctx)
	}
	s.mu.Unlock()

	switch {
	case errors.Is(err, model.ErrImportFormat):
		s.notify(model.NotifyError, "Import Failed", "Invalid data format")
		return err
	case err != nil:
		s.notify(model.NotifyError, "Import Failed", "Failed to import data")
		return err
	}
	s.notify(model.NotifySuccess, "Data Imported", "Your data has been imported successfully")
	return nil
}

// Reset deletes all stored data. The sample data is loaded again, as on
// first run.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	err := s.repo.Clear(ctx)
	if err == nil {
		s.loadLocked(ctx)
		s.view = ViewState{Mode: s.settings.DefaultView}
	}
	s.mu.Unlock()

	if err != nil {
		s.notify(model.NotifyError, "Reset Failed", "Failed to clear data")
		return err
	}
	s.notify(model.NotifyWarning, "Data Reset", "All data has been cleared")
	return nil
}
