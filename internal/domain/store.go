// Package domain holds TaskNest's in-memory state and every operation that
// changes it. Each mutation is applied, persisted, then announced through a
// notification.
package domain

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/tasknest/internal/model"
	"github.com/nhle/tasknest/internal/notify"
	"github.com/nhle/tasknest/internal/view"
)

// Repository is the persistence the store writes through to.
// *store.Adapter implements it.
type Repository interface {
	LoadProjects(ctx context.Context) []model.Project
	LoadTasks(ctx context.Context) []model.Task
	LoadSettings(ctx context.Context) model.Settings
	SaveProjects(ctx context.Context, projects []model.Project) error
	SaveTasks(ctx context.Context, tasks []model.Task) error
	SaveSettings(ctx context.Context, settings model.Settings) error
	ImportAll(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}

// Notifier receives user-facing messages. *notify.Center implements it.
type Notifier interface {
	Add(in notify.Input) model.Notification
	List() []model.Notification
}

// ViewState is the session-only selection that drives the task list.
type ViewState struct {
	Mode      model.ViewMode `json:"mode"`
	Query     string         `json:"query"`
	ProjectID string         `json:"projectId"`
}

// Store is the single owner of projects, tasks and settings. It is safe for
// concurrent use; readers receive copies.
type Store struct {
	mu       sync.RWMutex
	repo     Repository
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string

	projects []model.Project
	tasks    []model.Task
	settings model.Settings
	view     ViewState
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock replaces time.Now for timestamps and date-based views.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUID generator for new projects and tasks.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// New loads all records from repo and returns a ready store. The view
// starts at the saved default view.
func New(ctx context.Context, repo Repository, notifier Notifier, opts ...Option) *Store {
	s := &Store{
		repo:     repo,
		notifier: notifier,
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	s.loadLocked(ctx)
	s.view = ViewState{Mode: s.settings.DefaultView}
	s.mu.Unlock()
	return s
}

func (s *Store) loadLocked(ctx context.Context) {
	s.projects = s.repo.LoadProjects(ctx)
	s.tasks = s.repo.LoadTasks(ctx)
	s.settings = s.repo.LoadSettings(ctx)
	s.logger.Debug("state loaded",
		slog.Int("projects", len(s.projects)),
		slog.Int("tasks", len(s.tasks)),
	)
}

// Now returns the store's clock reading.
func (s *Store) Now() time.Time { return s.now() }

func (s *Store) persistProjects(ctx context.Context) {
	if err := s.repo.SaveProjects(ctx, s.projects); err != nil {
		s.logger.Warn("projects kept in memory only", slog.String("error", err.Error()))
	}
}

func (s *Store) persistTasks(ctx context.Context) {
	if err := s.repo.SaveTasks(ctx, s.tasks); err != nil {
		s.logger.Warn("tasks kept in memory only", slog.String("error", err.Error()))
	}
}

func (s *Store) persistSettings(ctx context.Context) {
	if err := s.repo.SaveSettings(ctx, s.settings); err != nil {
		s.logger.Warn("settings kept in memory only", slog.String("error", err.Error()))
	}
}

func (s *Store) notify(typ model.NotificationType, title, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Add(notify.Input{Type: typ, Title: title, Message: message})
}

// rejected reports a validation failure to the user and returns err.
func (s *Store) rejected(err error) error {
	s.notify(model.NotifyError, "Validation Error", err.Error())
	return err
}

// Projects returns all projects in stored order.
func (s *Store) Projects() []model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Project(nil), s.projects...)
}

// Tasks returns all tasks in stored order.
func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTasks(s.tasks)
}

func (s *Store) Settings() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Project looks up a project by id.
func (s *Store) Project(id string) (model.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.projectIndex(id); i >= 0 {
		return s.projects[i], true
	}
	return model.Project{}, false
}

// Task looks up a task by id.
func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.taskIndex(id); i >= 0 {
		return cloneTask(s.tasks[i]), true
	}
	return model.Task{}, false
}

func (s *Store) ViewState() ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// VisibleTasks returns the task list for the current view state.
func (s *Store) VisibleTasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visibleLocked(s.view)
}

// TasksFor returns the ordered task list a given view state shows.
func (s *Store) TasksFor(vs ViewState) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visibleLocked(vs)
}

func (s *Store) visibleLocked(vs ViewState) []model.Task {
	today := model.DateOf(s.now())
	filtered := view.Filter(s.tasks, vs.Mode, vs.ProjectID, today)
	return cloneTasks(view.Sort(view.Search(filtered, vs.Query)))
}

// Notifications returns the visible notifications, oldest first.
func (s *Store) Notifications() []model.Notification {
	if s.notifier == nil {
		return nil
	}
	return s.notifier.List()
}

// SetView switches the view mode. Session only.
func (s *Store) SetView(mode model.ViewMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Mode = mode
}

// SetSearchQuery sets the free-text filter. Session only.
func (s *Store) SetSearchQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Query = q
}

// SelectProject scopes the view to one project; "" clears the scope.
// Session only.
func (s *Store) SelectProject(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.ProjectID = id
}

func (s *Store) projectIndex(id string) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) taskIndex(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func cloneTask(t model.Task) model.Task {
	t.Tags = append([]string{}, t.Tags...)
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		t.CompletedAt = &at
	}
	return t
}

func cloneTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		out[i] = cloneTask(t)
	}
	return out
}
