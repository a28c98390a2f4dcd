package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/tasknest/internal/domain"
	"github.com/nhle/tasknest/internal/model"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change preferences",
	}
	cmd.AddCommand(newSettingsShowCmd(app))
	cmd.AddCommand(newSettingsSetCmd(app))
	return cmd
}

func newSettingsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show saved settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, map[string]any{"data": app.store.Settings()})
		},
	}
}

func newSettingsSetCmd(app *App) *cobra.Command {
	var (
		themeName     string
		defaultView   string
		sortBy        string
		sortOrder     string
		showCompleted bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.SettingsPatch
			flags := cmd.Flags()
			if flags.Changed("theme") {
				t := model.Theme(strings.ToLower(themeName))
				patch.Theme = &t
			}
			if flags.Changed("default-view") {
				v := model.ViewMode(strings.ToLower(defaultView))
				patch.DefaultView = &v
			}
			if flags.Changed("sort-by") {
				f := model.SortField(sortBy)
				patch.TaskSortBy = &f
			}
			if flags.Changed("sort-order") {
				o := model.SortOrder(strings.ToLower(sortOrder))
				patch.TaskSortOrder = &o
			}
			if flags.Changed("show-completed") {
				patch.ShowCompletedTasks = &showCompleted
			}

			st, err := app.store.UpdateSettings(cmd.Context(), patch)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": st})
		},
	}

	cmd.Flags().StringVar(&themeName, "theme", "", "Theme: light|dark|system")
	cmd.Flags().StringVar(&defaultView, "default-view", "", "Default view: all|today|upcoming|completed")
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "Sort field: dueDate|priority|created|updated")
	cmd.Flags().StringVar(&sortOrder, "sort-order", "", "Sort order: asc|desc")
	cmd.Flags().BoolVar(&showCompleted, "show-completed", true, "Show completed tasks")
	return cmd
}
