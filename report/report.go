// Package report renders analytics results as terminal text, Org-mode
// documents and Excel workbooks.
package report

import (
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/trade"
)

// Workbook is everything one report shows.
type Workbook struct {
	Generated time.Time
	Period    analytics.Period
	Brokers   []string

	Stats      analytics.ConsolidatedStats
	Comparison []analytics.BrokerComparison
	Timeline   analytics.Timeline
	Symbols    []analytics.SymbolPerformance
	Trades     []trade.Trade
}

// Build runs every analytic over data.
func Build(a analytics.Analyzer, data []analytics.BrokerData, period analytics.Period) Workbook {
	wb := Workbook{
		Generated:  time.Now().UTC(),
		Period:     period,
		Stats:      a.Consolidate(data),
		Comparison: a.CompareBrokers(data),
		Timeline:   analytics.PerformanceTimeline(data, period),
		Symbols:    analytics.SymbolBreakdown(data),
		Trades:     analytics.AggregateTrades(data),
	}
	for _, b := range data {
		wb.Brokers = append(wb.Brokers, b.BrokerID)
	}
	return wb
}
