package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/tasknest/internal/domain"
	"github.com/nhle/tasknest/internal/model"
	"github.com/nhle/tasknest/internal/view"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project commands",
	}
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsAddCmd(app))
	cmd.AddCommand(newProjectsEditCmd(app))
	cmd.AddCommand(newProjectsRenameCmd(app))
	cmd.AddCommand(newProjectsRmCmd(app))
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects with task counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := app.store.ProjectSummaries()
			if q := strings.TrimSpace(search); q != "" {
				keep := make(map[string]bool)
				for _, p := range view.SearchProjects(app.store.Projects(), q) {
					keep[p.ID] = true
				}
				filtered := make([]view.ProjectSummary, 0, len(rows))
				for _, r := range rows {
					if keep[r.Project.ID] {
						filtered = append(filtered, r)
					}
				}
				rows = filtered
			}
			return writeOut(cmd, app, map[string]any{"data": rows})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Match project name")
	return cmd
}

func newProjectsAddCmd(app *App) *cobra.Command {
	var (
		name        string
		description string
		color       string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.store.CreateProject(cmd.Context(), name, description, model.Color(strings.ToLower(color)))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&color, "color", string(model.ColorBlue), "Colour: "+paletteNames())
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectsEditCmd(app *App) *cobra.Command {
	var (
		name        string
		description string
		color       string
	)

	cmd := &cobra.Command{
		Use:   "edit <project-id>",
		Short: "Update project fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.ProjectPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("color") {
				c := model.Color(strings.ToLower(color))
				patch.Color = &c
			}
			p, ok, err := app.store.UpdateProject(cmd.Context(), args[0], patch)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !ok {
				return writeErr(cmd, errNotFound("project", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&color, "color", "", "New colour")
	return cmd
}

func newProjectsRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <project-id> <name>",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := app.store.RenameProject(cmd.Context(), args[0], args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			if !ok {
				return writeErr(cmd, errNotFound("project", args[0]))
			}
			p, _ := app.store.Project(args[0])
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
}

func newProjectsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <project-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a project and its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.store.DeleteProject(cmd.Context(), args[0]) {
				return writeErr(cmd, errNotFound("project", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": args[0]}})
		},
	}
}

func paletteNames() string {
	names := make([]string, len(model.Palette))
	for i, c := range model.Palette {
		names[i] = string(c)
	}
	return strings.Join(names, "|")
}
