package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/report"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		q      = &queryFlags{}
		out    string
		period string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a report (.xlsx or .org) or the trades (.csv)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("missing --out")
			}
			if period == "" {
				period = app.cfg.Analytics.Period
			}

			data, err := app.fetch(cmd.Context(), q)
			if err != nil {
				return err
			}
			wb := report.Build(app.analyzer(), data, analytics.ParsePeriod(period))

			switch ext := strings.ToLower(filepath.Ext(out)); ext {
			case ".xlsx":
				err = report.WriteWorkbook(out, wb)
			case ".csv", ".org":
				var f *os.File
				if f, err = os.Create(out); err != nil {
					return err
				}
				if ext == ".csv" {
					err = journal.WriteTradesCSV(f, wb.Trades)
				} else {
					err = report.WriteOrg(f, wb)
				}
				if cerr := f.Close(); err == nil {
					err = cerr
				}
			default:
				return fmt.Errorf("unsupported export format %q (want .xlsx, .csv or .org)", ext)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s (%d brokers, %d trades)\n", out, len(wb.Brokers), len(wb.Trades))
			return nil
		},
	}
	q.bind(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file: .xlsx, .csv or .org (required)")
	cmd.Flags().StringVar(&period, "period", "", "Timeline period (default from config)")
	return cmd
}
