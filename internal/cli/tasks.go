package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/tasknest/internal/domain"
	"github.com/nhle/tasknest/internal/model"
	"github.com/nhle/tasknest/internal/view"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksEditCmd(app))
	cmd.AddCommand(newTasksDoneCmd(app))
	cmd.AddCommand(newTasksToggleCmd(app))
	cmd.AddCommand(newTasksRmCmd(app))
	cmd.AddCommand(newTasksMoveCmd(app))
	return cmd
}

// scopeFlags selects the list a command works on, starting from the
// saved default view.
type scopeFlags struct {
	view    string
	project string
	search  string
}

func (f *scopeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.view, "view", "", "View: all|today|upcoming|completed (default: settings default view)")
	cmd.Flags().StringVar(&f.project, "project", "", "Only tasks in this project")
	cmd.Flags().StringVar(&f.search, "search", "", "Case-insensitive text search")
}

func (f *scopeFlags) state(s *domain.Store) (domain.ViewState, error) {
	vs := s.ViewState()
	if f.view != "" {
		mode := model.ViewMode(strings.ToLower(f.view))
		if !mode.IsValid() {
			return vs, model.Invalid("view", f.view)
		}
		vs.Mode = mode
	}
	if f.project != "" {
		if _, ok := s.Project(f.project); !ok {
			return vs, errNotFound("project", f.project)
		}
		vs.ProjectID = f.project
	}
	vs.Query = strings.TrimSpace(f.search)
	return vs, nil
}

func newTasksListCmd(app *App) *cobra.Command {
	var (
		scope         scopeFlags
		settingsOrder bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in a view",
		RunE: func(cmd *cobra.Command, args []string) error {
			vs, err := scope.state(app.store)
			if err != nil {
				return writeErr(cmd, err)
			}
			tasks := app.store.TasksFor(vs)
			if settingsOrder {
				st := app.store.Settings()
				tasks = view.SortBy(tasks, st.TaskSortBy, st.TaskSortOrder)
			}
			return writeOut(cmd, app, map[string]any{"data": tasks})
		},
	}

	scope.register(cmd)
	cmd.Flags().BoolVar(&settingsOrder, "settings-order", false, "Order by the saved sort field and direction")
	return cmd
}

func newTasksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := app.store.Task(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
}

func newTasksAddCmd(app *App) *cobra.Command {
	var (
		title       string
		description string
		due         string
		priority    string
		category    string
		project     string
		tags        string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDate := model.DateOf(app.store.Now())
			if due != "" {
				d, err := model.ParseDate(due)
				if err != nil {
					return writeErr(cmd, model.Invalid("dueDate", due))
				}
				dueDate = d
			}
			if project != "" && project != model.DefaultProjectID {
				if _, ok := app.store.Project(project); !ok {
					return writeErr(cmd, errNotFound("project", project))
				}
			}

			t, err := app.store.CreateTask(cmd.Context(), domain.TaskInput{
				ProjectID:   project,
				Title:       title,
				Description: description,
				DueDate:     dueDate,
				Priority:    model.Priority(strings.ToLower(priority)),
				Category:    category,
				Tags:        model.SplitTags(tags),
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&due, "due", "", "Due date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&priority, "priority", string(model.PriorityMedium), "Priority: low|medium|high|urgent")
	cmd.Flags().StringVar(&category, "category", "", "Category, e.g. "+strings.Join(model.Categories, ", "))
	cmd.Flags().StringVar(&project, "project", "", "Project id")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTasksEditCmd(app *App) *cobra.Command {
	var (
		title       string
		description string
		due         string
		priority    string
		category    string
		project     string
		tags        string
		completed   bool
	)

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Update task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.TaskPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("due") {
				d, err := model.ParseDate(due)
				if err != nil || d.IsZero() {
					return writeErr(cmd, model.Invalid("dueDate", due))
				}
				patch.DueDate = &d
			}
			if flags.Changed("priority") {
				p := model.Priority(strings.ToLower(priority))
				patch.Priority = &p
			}
			if flags.Changed("category") {
				patch.Category = &category
			}
			if flags.Changed("project") {
				if project != model.DefaultProjectID {
					if _, ok := app.store.Project(project); !ok {
						return writeErr(cmd, errNotFound("project", project))
					}
				}
				patch.ProjectID = &project
			}
			if flags.Changed("tags") {
				tt := model.SplitTags(tags)
				patch.Tags = &tt
			}
			if flags.Changed("completed") {
				patch.Completed = &completed
			}

			t, ok, err := app.store.UpdateTask(cmd.Context(), args[0], patch)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&due, "due", "", "New due date YYYY-MM-DD")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority")
	cmd.Flags().StringVar(&category, "category", "", "New category")
	cmd.Flags().StringVar(&project, "project", "", "Move to project id")
	cmd.Flags().StringVar(&tags, "tags", "", "Replace tags (comma-separated)")
	cmd.Flags().BoolVar(&completed, "completed", false, "Set completion")
	return cmd
}

func newTasksDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			done := true
			t, ok, err := app.store.UpdateTask(cmd.Context(), args[0], domain.TaskPatch{Completed: &done})
			if err != nil {
				return writeErr(cmd, err)
			}
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
}

func newTasksToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Flip a task between open and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := app.store.ToggleComplete(cmd.Context(), args[0])
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
}

func newTasksRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.store.DeleteTask(cmd.Context(), args[0]) {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": args[0]}})
		},
	}
}

func newTasksMoveCmd(app *App) *cobra.Command {
	var scope scopeFlags

	cmd := &cobra.Command{
		Use:   "move <dragged-id> <target-id>",
		Short: "Move a task onto another task's position in a view",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dragged, target := args[0], args[1]
			for _, id := range args {
				if _, ok := app.store.Task(id); !ok {
					return writeErr(cmd, errNotFound("task", id))
				}
			}
			vs, err := scope.state(app.store)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !app.store.ReorderTasks(cmd.Context(), vs, dragged, target) {
				return writeErr(cmd, fmt.Errorf("cannot move %s onto %s in the %s view", dragged, target, vs.Mode))
			}
			return writeOut(cmd, app, map[string]any{"data": app.store.TasksFor(vs)})
		},
	}

	scope.register(cmd)
	return cmd
}
