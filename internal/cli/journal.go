package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/broker"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/report"
	"github.com/rustyeddy/tradejournal/trade"
)

func newImportCmd(app *App) *cobra.Command {
	var (
		file     string
		brokerID string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Record trades from a CSV file into the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("missing --file")
			}
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			trades, err := journal.ReadTradesCSV(f)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}

			j, err := app.openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			for _, t := range trades {
				if brokerID != "" {
					t.BrokerID = brokerID
				}
				if err := j.RecordTrade(cmd.Context(), t); err != nil {
					return err
				}
			}

			app.log.Info().Str("file", file).Int("trades", len(trades)).Msg("imported")
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d trades from %s\n", len(trades), file)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file with a header row (required)")
	cmd.Flags().StringVar(&brokerID, "broker", "", "Broker id for every imported trade (overrides the broker_id column)")
	return cmd
}

func newSyncCmd(app *App) *cobra.Command {
	var brokers []string
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Record the trades and balances of live brokers into the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, closeFn, err := app.sources(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			sources, err := broker.Select(all, brokers)
			if err != nil {
				return err
			}

			j, err := app.openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			for _, src := range sources {
				n, err := j.Sync(cmd.Context(), src)
				if err != nil {
					return fmt.Errorf("sync %s: %w", src.Name(), err)
				}
				app.log.Info().Str("broker", src.Name()).Int("trades", n).Msg("synced")
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d trades\n", src.Name(), n)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&brokers, "broker", nil, "Broker id (repeatable; default all)")
	return cmd
}

func newJournalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recorded trades as Org-mode journal entries",
		Long: `Query trade journal records from the SQLite database.

Examples:
  tradejournal journal trade <trade-id>
  tradejournal journal today
  tradejournal journal day 2024-01-15`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "trade <trade-id>",
			Short: "Show one trade",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				j, err := app.openJournal()
				if err != nil {
					return err
				}
				defer j.Close()

				t, err := j.GetTrade(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("get trade: %w", err)
				}
				return report.WriteTradesOrg(cmd.OutOrStdout(), []trade.Trade{t})
			},
		},
		&cobra.Command{
			Use:   "today",
			Short: "Trades closed today",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.printDay(cmd, time.Now().In(time.Local).Format("2006-01-02"))
			},
		},
		&cobra.Command{
			Use:   "day <YYYY-MM-DD>",
			Short: "Trades closed on a specific day",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.printDay(cmd, args[0])
			},
		},
	)
	return cmd
}

// printDay prints the trades closed during day in local time.
func (a *App) printDay(cmd *cobra.Command, day string) error {
	start, end, err := dayBounds(time.Local, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	j, err := a.openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	all, err := j.ListTrades(cmd.Context(), "", broker.Filter{Status: trade.Closed})
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	var closed []trade.Trade
	for _, t := range all {
		if t.ExitTime != nil && !t.ExitTime.Before(start) && t.ExitTime.Before(end) {
			closed = append(closed, t)
		}
	}
	return report.WriteTradesOrg(cmd.OutOrStdout(), closed)
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
