package tasklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasknest/internal/model"
	"github.com/nhle/tasknest/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task    model.Task
	Project model.Project
	Overdue bool
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	parts := []string{
		string(i.Task.Priority),
		i.Task.Category,
		i.Task.DueDate.String(),
	}
	return strings.Join(parts, " | ")
}

// dragMarks is shared by reference between the Model and its delegate so
// the delegate can highlight the dragged row and the drop target.
type dragMarks struct {
	dragged string
	target  string
}

// ItemDelegate implements list.ItemDelegate for rendering task rows.
type ItemDelegate struct {
	marks *dragMarks
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single list item line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	task := ti.Task
	isSelected := index == m.Index()

	var prefix string
	switch {
	case d.marks != nil && d.marks.dragged == task.ID:
		prefix = "≡"
	case task.Completed:
		prefix = "✓"
	default:
		prefix = "○"
	}

	priBadge := theme.PriorityStyle(task.Priority).Render(priorityLabel(task.Priority))

	projectBadge := ""
	if ti.Project.ID != "" {
		projectBadge = lipgloss.NewStyle().
			Foreground(theme.ProjectColor(ti.Project.Color)).
			Render(" ● " + ti.Project.Name)
	}

	dueDateStr := ""
	if !task.DueDate.IsZero() {
		dueDateStr = theme.DueDateStyle.Render(" " + task.DueDate.String())
	}

	overdueStr := ""
	if ti.Overdue {
		overdueStr = theme.OverdueStyle.Render(" OVERDUE")
	}

	tagBadge := ""
	if len(task.Tags) > 0 {
		// Show max 2 tags to avoid overflow
		display := task.Tags
		if len(display) > 2 {
			display = append(append([]string(nil), display[:2]...), "…")
		}
		tagBadge = theme.TagStyle.Render(" #" + strings.Join(display, ","))
	}

	line := fmt.Sprintf(
		"%s %s %s%s%s%s%s",
		prefix, priBadge, task.Title,
		projectBadge, dueDateStr, overdueStr, tagBadge,
	)

	if task.Completed {
		line = theme.DimmedStyle.Render(line)
	}

	switch {
	case d.marks != nil && d.marks.target == task.ID:
		line = theme.DropTargetStyle.Render(line)
	case isSelected:
		line = theme.SelectedItemStyle.Render(line)
	default:
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// priorityLabel returns a short label for the given priority level.
func priorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityUrgent:
		return "P1"
	case model.PriorityHigh:
		return "P2"
	case model.PriorityMedium:
		return "P3"
	case model.PriorityLow:
		return "P4"
	default:
		return "P?"
	}
}
