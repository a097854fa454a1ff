package analytics

import (
	"sort"

	"github.com/rustyeddy/tradejournal/risk"
)

type BrokerComparison struct {
	BrokerID    string  `json:"broker_id"`
	TotalPnL    float64 `json:"total_pnl"`
	SharpeRatio float64 `json:"sharpe_ratio"`
	Balance     float64 `json:"balance"`

	risk.WinRateStats
	risk.Drawdown
}

func CompareBrokers(brokers []BrokerData) []BrokerComparison {
	return Default.CompareBrokers(brokers)
}

// CompareBrokers computes each broker's statistics over its own trades and
// ranks brokers by total pnl, best first. Ties keep broker order.
func (a Analyzer) CompareBrokers(brokers []BrokerData) []BrokerComparison {
	out := make([]BrokerComparison, 0, len(brokers))
	for _, b := range brokers {
		c := BrokerComparison{
			BrokerID:     b.BrokerID,
			SharpeRatio:  risk.SharpeRatio(b.Trades, a.RiskFreeRate),
			Balance:      b.Balance.SumTotal(),
			WinRateStats: risk.WinRate(b.Trades),
			Drawdown:     risk.MaxDrawdown(b.Trades),
		}
		c.TotalPnL, _ = realized(b.Trades)
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPnL > out[j].TotalPnL
	})
	return out
}
