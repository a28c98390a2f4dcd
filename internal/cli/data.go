package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup document of all data",
		Long:  "Writes the backup document to --out, or to stdout when --out is empty. Pass --out . to use the dated backup file name.",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, data, err := app.store.Export(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if out == "" {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if out == "." {
				out = name
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return writeErr(cmd, fmt.Errorf("writing %s: %w", out, err))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"file":  out,
				"bytes": len(data),
			}})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace data from a backup document (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return writeErr(cmd, fmt.Errorf("reading %s: %w", args[0], err))
			}
			if err := app.store.Import(cmd.Context(), data); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"projects": len(app.store.Projects()),
				"tasks":    len(app.store.Tasks()),
			}})
		},
	}
}

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all data and restore the sample data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errors.New("reset deletes all data; pass --yes to confirm"))
			}
			if err := app.store.Reset(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"projects": len(app.store.Projects()),
				"tasks":    len(app.store.Tasks()),
			}})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}
