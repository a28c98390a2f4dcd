// Package view derives what the UI shows from the task and project
// collections. Every function is pure and returns a new slice.
package view

import (
	"strings"

	"github.com/nhle/tasknest/internal/model"
)

// Scope returns the tasks belonging to projectID, or all tasks when
// projectID is empty. Order is preserved.
func Scope(tasks []model.Task, projectID string) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if projectID == "" || t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}

// Filter applies the project scope and then the view mode:
//
//	completed  completed tasks only
//	today      open tasks due today
//	upcoming   open tasks due after today
//	all        open tasks (also used for unknown modes)
func Filter(tasks []model.Task, mode model.ViewMode, projectID string, today model.Date) []model.Task {
	scoped := Scope(tasks, projectID)
	out := make([]model.Task, 0, len(scoped))
	for _, t := range scoped {
		if matches(t, mode, today) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t model.Task, mode model.ViewMode, today model.Date) bool {
	switch mode {
	case model.ViewCompleted:
		return t.Completed
	case model.ViewToday:
		return !t.Completed && t.DueDate.Equal(today)
	case model.ViewUpcoming:
		return !t.Completed && t.DueDate.After(today)
	default:
		return !t.Completed
	}
}

// Search keeps tasks whose title, description, category or any tag
// contains query, ignoring case. A blank query keeps everything.
func Search(tasks []model.Task, query string) []model.Task {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if q == "" || taskContains(t, q) {
			out = append(out, t)
		}
	}
	return out
}

func taskContains(t model.Task, q string) bool {
	if strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q) ||
		strings.Contains(strings.ToLower(t.Category), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// SearchProjects keeps projects whose name contains query, ignoring case.
func SearchProjects(projects []model.Project, query string) []model.Project {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}
