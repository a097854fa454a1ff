package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/broker"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/report"
)

// queryFlags select which brokers and trades a command analyzes.
type queryFlags struct {
	brokers []string
	symbol  string
	start   string
	end     string
	asJSON  bool
}

func (q *queryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&q.brokers, "broker", nil, "Broker id (repeatable; default all)")
	cmd.Flags().StringVar(&q.symbol, "symbol", "", "Only trades of this symbol")
	cmd.Flags().StringVar(&q.start, "start", "", "Entered at or after (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&q.end, "end", "", "Entered before (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().BoolVar(&q.asJSON, "json", false, "Print JSON instead of text")
}

func (q *queryFlags) filter() (broker.Filter, error) {
	f := broker.Filter{Symbol: q.symbol}
	for _, p := range []struct {
		flag string
		val  string
		dst  **time.Time
	}{{"--start", q.start, &f.Start}, {"--end", q.end, &f.End}} {
		if p.val == "" {
			continue
		}
		t, err := journal.ParseTime(p.val)
		if err != nil {
			return f, fmt.Errorf("bad %s: %w", p.flag, err)
		}
		*p.dst = &t
	}
	return f, nil
}

// fetch queries the selected brokers concurrently.
func (a *App) fetch(ctx context.Context, q *queryFlags) ([]analytics.BrokerData, error) {
	f, err := q.filter()
	if err != nil {
		return nil, err
	}
	all, closeFn, err := a.sources(ctx)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	sources, err := broker.Select(all, q.brokers)
	if err != nil {
		return nil, err
	}
	ft := &broker.Fetcher{Sources: sources, Log: a.log, TolerateErrors: a.cfg.Fetch.TolerateErrors}
	return ft.Fetch(ctx, f)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newStatsCmd(app *App) *cobra.Command {
	q := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Consolidated statistics across brokers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.fetch(cmd.Context(), q)
			if err != nil {
				return err
			}
			stats := app.analyzer().Consolidate(data)
			if q.asJSON {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			report.PrintConsolidated(cmd.OutOrStdout(), stats)
			return nil
		},
	}
	q.bind(cmd)
	return cmd
}

func newCompareCmd(app *App) *cobra.Command {
	q := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Rank brokers by total P/L",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.fetch(cmd.Context(), q)
			if err != nil {
				return err
			}
			rows := app.analyzer().CompareBrokers(data)
			if q.asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			report.PrintComparison(cmd.OutOrStdout(), rows)
			return nil
		},
	}
	q.bind(cmd)
	return cmd
}

func newTimelineCmd(app *App) *cobra.Command {
	var (
		q      = &queryFlags{}
		period string
	)
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Realized P/L per day, week or month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if period == "" {
				period = app.cfg.Analytics.Period
			}
			p := analytics.ParsePeriod(period)

			data, err := app.fetch(cmd.Context(), q)
			if err != nil {
				return err
			}
			tl := analytics.PerformanceTimeline(data, p)
			if q.asJSON {
				return writeJSON(cmd.OutOrStdout(), tl)
			}
			report.PrintTimeline(cmd.OutOrStdout(), p, tl)
			return nil
		},
	}
	q.bind(cmd)
	cmd.Flags().StringVar(&period, "period", "", "daily|weekly|monthly (default from config)")
	return cmd
}

func newSymbolsCmd(app *App) *cobra.Command {
	q := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "symbols",
		Short: "P/L and win rate per symbol",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.fetch(cmd.Context(), q)
			if err != nil {
				return err
			}
			rows := analytics.SymbolBreakdown(data)
			if q.asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			report.PrintSymbols(cmd.OutOrStdout(), rows)
			return nil
		},
	}
	q.bind(cmd)
	return cmd
}
