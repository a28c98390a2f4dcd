package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nhle/tasknest/internal/model"
)

// ProjectPatch lists project fields to change; nil fields are kept.
type ProjectPatch struct {
	Name        *string
	Description *string
	Color       *model.Color
}

// CreateProject adds a project. The name must be non-blank and the colour
// must come from the palette.
func (s *Store) CreateProject(ctx context.Context, name, description string, color model.Color) (model.Project, error) {
	now := s.now()
	p := model.Project{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Color:       color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.Validate(); err != nil {
		return model.Project{}, s.rejected(err)
	}

	s.mu.Lock()
	p.ID = s.newID()
	s.projects = append(s.projects, p)
	s.persistProjects(ctx)
	s.mu.Unlock()

	s.logger.Debug("project created", slog.String("id", p.ID))
	s.notify(model.NotifySuccess, "Project Created", fmt.Sprintf(`"%s" has been created successfully`, p.Name))
	return p, nil
}

// RenameProject changes a project's name. It reports false when no
// project has the id.
func (s *Store) RenameProject(ctx context.Context, id, name string) (bool, error) {
	_, ok, err := s.UpdateProject(ctx, id, ProjectPatch{Name: &name})
	return ok, err
}

// UpdateProject applies patch to the project with the given id.
func (s *Store) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (model.Project, bool, error) {
	s.mu.Lock()
	i := s.projectIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Project{}, false, nil
	}

	p := s.projects[i]
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Color != nil {
		p.Color = *patch.Color
	}
	if err := p.Validate(); err != nil {
		s.mu.Unlock()
		return model.Project{}, true, s.rejected(err)
	}

	p.UpdatedAt = s.now()
	s.projects[i] = p
	s.persistProjects(ctx)
	s.mu.Unlock()

	s.notify(model.NotifySuccess, "Project Updated", "Project has been updated")
	return p, true, nil
}

// DeleteProject removes a project and every task in it. It reports false
// when no project has the id.
func (s *Store) DeleteProject(ctx context.Context, id string) bool {
	s.mu.Lock()
	i := s.projectIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}

	s.projects = append(s.projects[:i:i], s.projects[i+1:]...)
	kept := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ProjectID != id {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	s.tasks = kept
	if s.view.ProjectID == id {
		s.view.ProjectID = ""
	}
	s.persistProjects(ctx)
	s.persistTasks(ctx)
	s.mu.Unlock()

	s.logger.Debug("project deleted", slog.String("id", id), slog.Int("tasks", removed))
	s.notify(model.NotifySuccess, "Project Deleted", "Project and all its tasks have been deleted")
	return true
}
