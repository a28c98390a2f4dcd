package view

import (
	"sort"

	"github.com/nhle/tasknest/internal/model"
)

// Sort orders tasks for the reorderable list: open before completed, then
// by priority (urgent first), then by due date. Ties keep input order.
func Sort(tasks []model.Task) []model.Task {
	out := append([]model.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra < rb
		}
		return a.DueDate.Before(b.DueDate)
	})
	return out
}

// SortBy orders tasks by a single user-selected field. Ties keep input
// order. Ascending priority means urgent first, matching Sort.
func SortBy(tasks []model.Task, field model.SortField, order model.SortOrder) []model.Task {
	out := append([]model.Task(nil), tasks...)
	cmp := compareFunc(field)
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if order == model.SortDesc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareFunc(field model.SortField) func(a, b model.Task) int {
	switch field {
	case model.SortByPriority:
		return func(a, b model.Task) int { return a.Priority.Rank() - b.Priority.Rank() }
	case model.SortByCreated:
		return func(a, b model.Task) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case model.SortByUpdated:
		return func(a, b model.Task) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	default:
		return func(a, b model.Task) int { return a.DueDate.Compare(b.DueDate) }
	}
}
