package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/config"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  tradejournal config init --output tradejournal.yaml
  tradejournal config validate --file tradejournal.yaml`,
	}

	var output string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			cfg.Brokers = []config.BrokerConfig{{ID: "journal", Kind: config.KindJournal}}
			if err := cfg.SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created default configuration: %s\n", output)
			fmt.Fprintln(out, "\nEdit the brokers list and run with:")
			fmt.Fprintf(out, "  tradejournal --config %s stats\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "tradejournal.yaml", "Output config file path")

	var path string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Configuration valid: %s\n", path)
			fmt.Fprintf(out, "  Journal: %s\n", cfg.Journal.DBPath)
			fmt.Fprintf(out, "  Server: %s\n", cfg.Server.Addr)
			fmt.Fprintf(out, "  Analytics: rf %.2f%%, VaR %.0f%%, %s timeline\n",
				cfg.Analytics.RiskFreeRate*100, cfg.Analytics.Confidence*100, cfg.Analytics.Period)
			fmt.Fprintf(out, "  Brokers: %d\n", len(cfg.Brokers))
			for _, b := range cfg.Brokers {
				fmt.Fprintf(out, "    - %s (%s)\n", b.ID, b.Kind)
			}
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&path, "file", "f", "", "Path to config file (required)")
	_ = validateCmd.MarkFlagRequired("file")

	cmd.AddCommand(initCmd, validateCmd)
	return cmd
}
