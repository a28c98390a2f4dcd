package model

import (
	"strings"
	"time"
)

// DefaultProjectID is the project id carried by tasks that were not
// assigned to a user-created project.
const DefaultProjectID = "default"

// Priority is the urgency of a task.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists priorities from least to most urgent.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Rank orders priorities for sorting: urgent sorts first (0), low last (3).
// Unknown priorities sort after low.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Categories is the suggested category list. Tasks may use any category.
var Categories = []string{
	"Work", "Personal", "Shopping", "Health",
	"Learning", "Travel", "Finance", "Other",
}

// Task is a single actionable item.
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     Date       `json:"dueDate"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`
	Completed   bool       `json:"completed"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Validate checks the fields required on create and update.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return Required("title")
	}
	if t.DueDate.IsZero() {
		return Required("dueDate")
	}
	if t.Priority == "" {
		return Required("priority")
	}
	if !t.Priority.IsValid() {
		return Invalid("priority", t.Priority)
	}
	if strings.TrimSpace(t.Category) == "" {
		return Required("category")
	}
	return nil
}

// SetCompleted flips the completion flag and keeps CompletedAt in step:
// stamped when the task becomes complete, cleared when it is reopened.
func (t *Task) SetCompleted(done bool, now time.Time) {
	if done == t.Completed {
		return
	}
	t.Completed = done
	if done {
		at := now
		t.CompletedAt = &at
	} else {
		t.CompletedAt = nil
	}
}

// IsOverdue reports whether the task is open and due before today.
func (t Task) IsOverdue(today Date) bool {
	return !t.Completed && !t.DueDate.IsZero() && t.DueDate.Before(today)
}

// NormalizeTags trims tags, drops empties and removes duplicates while
// keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// SplitTags parses a comma separated tag list.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(s, ","))
}
