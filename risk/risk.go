// Package risk computes performance and risk statistics over a single
// collection of trades or positions.
//
// Every function is total: empty or degenerate input yields a zero result,
// never an error. Only CLOSED trades contribute; OPEN and CANCELLED trades are
// ignored everywhere.
package risk

import (
	"sort"

	"github.com/rustyeddy/tradejournal/trade"
)

const (
	DefaultRiskFreeRate = 0.02
	DefaultConfidence   = 0.95

	// TradingDays annualizes per-trade Sharpe ratios.
	TradingDays = 252
)

// closedByExit returns the closed trades that have an exit time, sorted by
// exit time. Trades with equal exit times keep their input order.
func closedByExit(trades []trade.Trade) []trade.Trade {
	out := make([]trade.Trade, 0, len(trades))
	for _, t := range trades {
		if t.IsClosed() && t.ExitTime != nil {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExitTime.Before(*out[j].ExitTime)
	})
	return out
}

// closedPnLs returns the realized pnl of every closed trade that has one.
func closedPnLs(trades []trade.Trade) []float64 {
	var out []float64
	for _, t := range trades {
		if t.IsClosed() && t.PnL != nil {
			out = append(out, *t.PnL)
		}
	}
	return out
}
