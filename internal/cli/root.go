package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/internal/logger"
)

// RootConfig holds the persistent flags shared by every command.
type RootConfig struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
	NoColor    bool
}

// App is what PersistentPreRunE prepares for the subcommands.
type App struct {
	rc  RootConfig
	cfg *config.Config
	log zerolog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "tradejournal",
		Short:         "Multi-broker trade journal and analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&app.rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&app.rc.DBPath, "db", "", "SQLite journal database (overrides config)")
	cmd.PersistentFlags().StringVar(&app.rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")
	cmd.PersistentFlags().BoolVar(&app.rc.NoColor, "no-color", false, "Disable colored output")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup()
	}

	cmd.AddCommand(
		newStatsCmd(app),
		newCompareCmd(app),
		newTimelineCmd(app),
		newSymbolsCmd(app),
		newImportCmd(app),
		newSyncCmd(app),
		newExportCmd(app),
		newJournalCmd(app),
		newServeCmd(app),
		newConfigCmd(app),
		newVersionCmd(),
	)

	return cmd
}

func (a *App) setup() error {
	cfg := config.Default()
	if a.rc.ConfigPath != "" {
		loaded, err := config.LoadFromFile(a.rc.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.rc.DBPath != "" {
		cfg.Journal.DBPath = a.rc.DBPath
	}
	if a.rc.LogLevel != "" {
		cfg.Log.Level = a.rc.LogLevel
	}
	a.cfg = cfg

	a.log = logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Pretty:     cfg.Log.Pretty,
		NoColor:    a.rc.NoColor,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	logger.SetGlobalLogger(a.log)
	return nil
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
