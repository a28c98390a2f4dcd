package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/tasknest/internal/report"
	"github.com/nhle/tasknest/internal/theme"
)

func newStatsCmd(app *App) *cobra.Command {
	var (
		markdown bool
		asJSON   bool
		width    int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task analytics",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := app.store.Stats()
			projects := app.store.ProjectSummaries()
			if asJSON {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{
					"stats":    stats,
					"projects": projects,
				}})
			}

			md := report.Markdown(stats, projects)
			if !markdown {
				md = report.Render(md, width, theme.IsDark(app.store.Settings().Theme))
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print raw markdown instead of rendering it")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for rendered output")
	cmd.MarkFlagsMutuallyExclusive("markdown", "json")
	return cmd
}
