package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nhle/tasknest/internal/model"
	"github.com/nhle/tasknest/internal/reorder"
	"github.com/nhle/tasknest/internal/view"
)

// TaskInput holds the fields of a new task.
type TaskInput struct {
	ProjectID   string
	Title       string
	Description string
	DueDate     model.Date
	Priority    model.Priority
	Category    string
	Tags        []string
}

// TaskPatch lists task fields to change; nil fields are kept.
type TaskPatch struct {
	ProjectID   *string
	Title       *string
	Description *string
	DueDate     *model.Date
	Priority    *model.Priority
	Category    *string
	Completed   *bool
	Tags        *[]string
}

// CreateTask adds a task at the end of the collection. Title, due date,
// priority and category are required. An empty project id files the task
// under model.DefaultProjectID.
func (s *Store) CreateTask(ctx context.Context, in TaskInput) (model.Task, error) {
	now := s.now()
	t := model.Task{
		ProjectID:   strings.TrimSpace(in.ProjectID),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Category:    strings.TrimSpace(in.Category),
		Tags:        model.NormalizeTags(in.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.ProjectID == "" {
		t.ProjectID = model.DefaultProjectID
	}
	if err := t.Validate(); err != nil {
		return model.Task{}, s.rejected(err)
	}

	s.mu.Lock()
	t.ID = s.newID()
	s.tasks = append(s.tasks, t)
	s.persistTasks(ctx)
	s.mu.Unlock()

	s.logger.Debug("task created", slog.String("id", t.ID))
	s.notify(model.NotifySuccess, "Task Created", fmt.Sprintf(`"%s" has been added to your tasks`, t.Title))
	return cloneTask(t), nil
}

// UpdateTask merges patch into the task with the given id. Completion
// changes follow the same rules as ToggleComplete. It reports false when
// no task has the id.
func (s *Store) UpdateTask(ctx context.Context, id string, patch TaskPatch) (model.Task, bool, error) {
	s.mu.Lock()
	i := s.taskIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Task{}, false, nil
	}

	now := s.now()
	t := cloneTask(s.tasks[i])
	if patch.ProjectID != nil {
		t.ProjectID = strings.TrimSpace(*patch.ProjectID)
		if t.ProjectID == "" {
			t.ProjectID = model.DefaultProjectID
		}
	}
	if patch.Title != nil {
		t.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		t.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.DueDate != nil {
		t.DueDate = *patch.DueDate
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Category != nil {
		t.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Tags != nil {
		t.Tags = model.NormalizeTags(*patch.Tags)
	}
	if patch.Completed != nil {
		t.SetCompleted(*patch.Completed, now)
	}
	if err := t.Validate(); err != nil {
		s.mu.Unlock()
		return model.Task{}, true, s.rejected(err)
	}

	t.UpdatedAt = now
	s.tasks[i] = t
	s.persistTasks(ctx)
	s.mu.Unlock()

	s.notify(model.NotifySuccess, "Task Updated", "Task has been updated successfully")
	return cloneTask(t), true, nil
}

// ToggleComplete flips a task's completion state. It reports false when no
// task has the id.
func (s *Store) ToggleComplete(ctx context.Context, id string) (model.Task, bool) {
	s.mu.Lock()
	i := s.taskIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Task{}, false
	}

	now := s.now()
	t := &s.tasks[i]
	t.SetCompleted(!t.Completed, now)
	t.UpdatedAt = now
	out := cloneTask(*t)
	s.persistTasks(ctx)
	s.mu.Unlock()

	if out.Completed {
		s.notify(model.NotifySuccess, "Task Completed", fmt.Sprintf(`"%s" has been completed`, out.Title))
	} else {
		s.notify(model.NotifySuccess, "Task Reopened", fmt.Sprintf(`"%s" has been reopened`, out.Title))
	}
	return out, true
}

// DeleteTask removes a task. It reports false when no task has the id.
func (s *Store) DeleteTask(ctx context.Context, id string) bool {
	s.mu.Lock()
	i := s.taskIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}

	title := s.tasks[i].Title
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.persistTasks(ctx)
	s.mu.Unlock()

	s.notify(model.NotifyInfo, "Task Deleted", fmt.Sprintf(`"%s" has been deleted`, title))
	return true
}

// ReorderTasks moves draggedID onto targetID within the list that scope
// shows, then writes the new order back into the task collection. Tasks
// outside the scope keep their places. It reports false when nothing
// moved.
func (s *Store) ReorderTasks(ctx context.Context, scope ViewState, draggedID, targetID string) bool {
	s.mu.Lock()
	working := s.visibleLocked(scope)
	reordered, ok := reorder.Apply(s.tasks, working, draggedID, targetID)
	if !ok {
		s.mu.Unlock()
		return false
	}

	s.tasks = reordered
	title := s.tasks[s.taskIndex(draggedID)].Title
	s.persistTasks(ctx)
	s.mu.Unlock()

	s.notify(model.NotifySuccess, "Task Reordered", fmt.Sprintf(`"%s" has been moved`, title))
	return true
}

// Stats computes analytics over every task.
func (s *Store) Stats() view.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view.Compute(s.tasks, s.now())
}

// ProjectSummaries returns per-project task counts in project order.
func (s *Store) ProjectSummaries() []view.ProjectSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view.ProjectSummaries(s.projects, s.tasks, model.DateOf(s.now()))
}
