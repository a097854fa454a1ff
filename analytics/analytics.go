// Package analytics composes the risk metrics across several brokers:
// consolidated statistics, broker rankings, performance timelines and
// per-symbol breakdowns.
//
// All functions are pure. Each call recomputes everything from its inputs.
package analytics

import (
	"sort"

	"github.com/rustyeddy/tradejournal/risk"
	"github.com/rustyeddy/tradejournal/trade"
)

// BrokerData is everything one broker supplied for a query.
type BrokerData struct {
	BrokerID  string
	Trades    []trade.Trade
	Positions []trade.Position
	Balance   *trade.Balance
}

// Analyzer carries the tunable parameters of the risk metrics.
type Analyzer struct {
	RiskFreeRate float64
	Confidence   float64
}

var Default = Analyzer{
	RiskFreeRate: risk.DefaultRiskFreeRate,
	Confidence:   risk.DefaultConfidence,
}

// FromMaps builds an ordered broker list from per-broker maps. The brokers are
// the keys of trades, in sorted order; positions and balances of brokers
// without a trades entry are dropped.
func FromMaps(
	trades map[string][]trade.Trade,
	positions map[string][]trade.Position,
	balances map[string]*trade.Balance,
) []BrokerData {
	ids := make([]string, 0, len(trades))
	for id := range trades {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]BrokerData, 0, len(ids))
	for _, id := range ids {
		out = append(out, BrokerData{
			BrokerID:  id,
			Trades:    trades[id],
			Positions: positions[id],
			Balance:   balances[id],
		})
	}
	return out
}

// AggregateTrades concatenates every broker's trades in broker order,
// keeping each broker's own order.
func AggregateTrades(brokers []BrokerData) []trade.Trade {
	n := 0
	for _, b := range brokers {
		n += len(b.Trades)
	}
	out := make([]trade.Trade, 0, n)
	for _, b := range brokers {
		out = append(out, b.Trades...)
	}
	return out
}

func aggregatePositions(brokers []BrokerData) []trade.Position {
	var out []trade.Position
	for _, b := range brokers {
		out = append(out, b.Positions...)
	}
	return out
}

// realized sums pnl over closed trades and counts them.
func realized(trades []trade.Trade) (total float64, closed int) {
	for _, t := range trades {
		if t.IsClosed() {
			total += t.RealizedPnL()
			closed++
		}
	}
	return total, closed
}
