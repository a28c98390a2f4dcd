package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	tui "github.com/nhle/tasknest/internal/app"
	"github.com/nhle/tasknest/internal/config"
	"github.com/nhle/tasknest/internal/domain"
	"github.com/nhle/tasknest/internal/logging"
	"github.com/nhle/tasknest/internal/notify"
	"github.com/nhle/tasknest/internal/store"
)

// App carries global flags and the services opened for one invocation.
type App struct {
	ConfigPath string
	DBPath     string
	Backend    string
	LogLevel   string
	LogFile    string
	PrettyJSON bool

	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
	adapter  *store.Adapter
	center   *notify.Center
	store    *domain.Store
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tasknest",
		Short:        "Personal tasks and projects in the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  tasknest

  # Scriptable commands
  tasknest tasks list --view today
  tasknest tasks add --title "Pay rent" --due 2024-07-01 --priority high --category Finance
  tasknest stats
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", config.DefaultPath(), "Path to the YAML config file")
	cmd.PersistentFlags().StringVar(&app.DBPath, "db", "", "SQLite database path (overrides storage.path)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Storage backend: sqlite|keyring|memory (overrides storage.backend)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level: debug|info|warn|error (overrides log.level)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Log file path (overrides log.file)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newStatsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newResetCmd(app))
	cmd.AddCommand(newSettingsCmd(app))

	return cmd
}

// open loads configuration, applies flag overrides and builds the store.
func (a *App) open(cmd *cobra.Command) error {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	if a.DBPath != "" {
		cfg.Storage.Path = a.DBPath
	}
	if a.Backend != "" {
		cfg.Storage.Backend = a.Backend
	}
	if a.LogLevel != "" {
		cfg.Log.Level = a.LogLevel
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = a.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return writeErr(cmd, err)
	}

	logger, closeLog, err := logging.Open(cfg.Log)
	if err != nil {
		return writeErr(cmd, err)
	}

	a.cfg = cfg
	a.logger = logger
	a.closeLog = closeLog
	a.adapter = store.Open(cfg.Storage, logger)
	a.center = notify.NewCenter(
		notify.WithDefaultDuration(time.Duration(cfg.Notifications.DurationMS) * time.Millisecond),
	)
	a.store = domain.New(cmd.Context(), a.adapter, a.center, domain.WithLogger(logger))
	return nil
}

func (a *App) close() error {
	var errs []error
	if a.adapter != nil {
		errs = append(errs, a.adapter.Close())
	}
	if a.closeLog != nil {
		errs = append(errs, a.closeLog())
	}
	return errors.Join(errs...)
}

func runTUI(cmd *cobra.Command, a *App) error {
	return tui.Run(cmd.Context(), a.store, a.center, a.logger)
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if app.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
