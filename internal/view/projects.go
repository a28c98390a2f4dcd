package view

import "github.com/nhle/tasknest/internal/model"

// ProjectSummary counts a project's tasks.
type ProjectSummary struct {
	Project   model.Project `json:"project"`
	Total     int           `json:"totalTasks"`
	Completed int           `json:"completedTasks"`
	Overdue   int           `json:"overdueTasks"`
}

// Progress returns the completed share as a percentage.
func (s ProjectSummary) Progress() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total) * 100
}

// ProjectSummaries returns one summary per project, in project order.
func ProjectSummaries(projects []model.Project, tasks []model.Task, today model.Date) []ProjectSummary {
	index := make(map[string]int, len(projects))
	out := make([]ProjectSummary, len(projects))
	for i, p := range projects {
		out[i].Project = p
		index[p.ID] = i
	}
	for _, t := range tasks {
		i, ok := index[t.ProjectID]
		if !ok {
			continue
		}
		out[i].Total++
		if t.Completed {
			out[i].Completed++
		}
		if t.IsOverdue(today) {
			out[i].Overdue++
		}
	}
	return out
}
