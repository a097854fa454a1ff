package analytics

import (
	"sort"

	"github.com/rustyeddy/tradejournal/risk"
	"github.com/rustyeddy/tradejournal/trade"
)

type SymbolPerformance struct {
	Symbol     string  `json:"symbol"`
	TotalPnL   float64 `json:"total_pnl"`
	TradeCount int     `json:"trade_count"`

	risk.WinRateStats
}

// SymbolBreakdown groups closed trades by exact symbol and ranks symbols by
// total pnl, best first. Ties keep the order in which symbols first appear.
func SymbolBreakdown(brokers []BrokerData) []SymbolPerformance {
	var order []string
	groups := map[string][]trade.Trade{}
	for _, t := range AggregateTrades(brokers) {
		if !t.IsClosed() {
			continue
		}
		if _, ok := groups[t.Symbol]; !ok {
			order = append(order, t.Symbol)
		}
		groups[t.Symbol] = append(groups[t.Symbol], t)
	}

	out := make([]SymbolPerformance, 0, len(order))
	for _, sym := range order {
		trades := groups[sym]
		sp := SymbolPerformance{
			Symbol:       sym,
			TradeCount:   len(trades),
			WinRateStats: risk.WinRate(trades),
		}
		sp.TotalPnL, _ = realized(trades)
		out = append(out, sp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPnL > out[j].TotalPnL
	})
	return out
}
