package model

import "time"

const day = 24 * time.Hour

// SampleProjects returns the demonstration projects written on first run.
func SampleProjects(now time.Time) []Project {
	mk := func(id, name, desc string, color Color, ageDays int) Project {
		at := now.Add(-time.Duration(ageDays) * day)
		return Project{ID: id, Name: name, Description: desc, Color: color, CreatedAt: at, UpdatedAt: at}
	}
	return []Project{
		mk("sample-project-1", "Personal Development", "Self-improvement and learning goals", ColorBlue, 7),
		mk("sample-project-2", "Work Projects", "Professional tasks and deadlines", ColorGreen, 5),
		mk("sample-project-3", "Home & Family", "Household tasks and family activities", ColorPurple, 3),
	}
}

// SampleTasks returns the demonstration tasks written on first run. Due
// dates are relative to now so the views have something to show.
func SampleTasks(now time.Time) []Task {
	ago := func(days int) time.Time { return now.Add(-time.Duration(days) * day) }
	due := func(days int) Date { return DateOf(now.Add(time.Duration(days) * day)) }
	completedAt := ago(1)

	return []Task{
		{
			ID:          "sample-task-1",
			ProjectID:   "sample-project-1",
			Title:       "Complete Qwik.js Tutorial",
			Description: "Learn the fundamentals of Qwik.js framework for building fast web applications",
			DueDate:     due(2),
			Priority:    PriorityHigh,
			Category:    "Learning",
			Tags:        []string{"javascript", "framework", "web-development"},
			CreatedAt:   ago(2),
			UpdatedAt:   ago(2),
		},
		{
			ID:          "sample-task-2",
			ProjectID:   "sample-project-1",
			Title:       `Read "Atomic Habits" Book`,
			Description: "Read and take notes on habit formation strategies",
			DueDate:     due(7),
			Priority:    PriorityMedium,
			Category:    "Learning",
			Completed:   true,
			Tags:        []string{"books", "self-improvement"},
			CreatedAt:   ago(10),
			UpdatedAt:   ago(1),
			CompletedAt: &completedAt,
		},
		{
			ID:          "sample-task-3",
			ProjectID:   "sample-project-2",
			Title:       "Prepare Quarterly Report",
			Description: "Compile data and create presentation for Q4 performance review",
			DueDate:     due(1),
			Priority:    PriorityUrgent,
			Category:    "Work",
			Tags:        []string{"report", "deadline", "presentation"},
			CreatedAt:   ago(5),
			UpdatedAt:   ago(5),
		},
		{
			ID:          "sample-task-4",
			ProjectID:   "sample-project-2",
			Title:       "Team Meeting Preparation",
			Description: "Prepare agenda and materials for weekly team standup",
			DueDate:     due(0),
			Priority:    PriorityMedium,
			Category:    "Work",
			Tags:        []string{"meeting", "team"},
			CreatedAt:   ago(1),
			UpdatedAt:   ago(1),
		},
		{
			ID:          "sample-task-5",
			ProjectID:   "sample-project-3",
			Title:       "Grocery Shopping",
			Description: "Buy weekly groceries and household essentials",
			DueDate:     due(1),
			Priority:    PriorityLow,
			Category:    "Shopping",
			Tags:        []string{"groceries", "weekly"},
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "sample-task-6",
			ProjectID:   "sample-project-3",
			Title:       "Plan Weekend Activity",
			Description: "Research and plan a fun family activity for the weekend",
			DueDate:     due(3),
			Priority:    PriorityLow,
			Category:    "Personal",
			Tags:        []string{"family", "weekend", "fun"},
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}
