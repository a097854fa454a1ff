package analytics

import "github.com/rustyeddy/tradejournal/risk"

// ConsolidatedStats is the flat summary of all brokers together. The embedded
// records are flattened when encoded to JSON; TotalTrades here (closed trades)
// shadows the win-rate count of the same name.
type ConsolidatedStats struct {
	TotalPnL      float64 `json:"total_pnl"`
	TotalTrades   int     `json:"total_trades"`
	OpenPositions int     `json:"open_positions"`
	TotalBalance  float64 `json:"total_balance"`
	SharpeRatio   float64 `json:"sharpe_ratio"`
	Expectancy    float64 `json:"expectancy"`
	VaR95         float64 `json:"var_95"`

	// VaR is taken at the analyzer's confidence, which may differ from 95%.
	VaR           float64 `json:"var"`
	VaRConfidence float64 `json:"var_confidence"`

	risk.Drawdown
	risk.WinRateStats
	risk.OpenRisk
}

func Consolidate(brokers []BrokerData) ConsolidatedStats {
	return Default.Consolidate(brokers)
}

// Consolidate merges every broker's trades and positions and runs each risk
// metric once over the combined set. Balances are summed without currency
// conversion.
func (a Analyzer) Consolidate(brokers []BrokerData) ConsolidatedStats {
	trades := AggregateTrades(brokers)
	positions := aggregatePositions(brokers)

	s := ConsolidatedStats{
		OpenPositions: len(positions),
		SharpeRatio:   risk.SharpeRatio(trades, a.RiskFreeRate),
		Expectancy:    risk.Expectancy(trades),
		VaR95:         risk.VaR(trades, risk.DefaultConfidence),
		VaR:           risk.VaR(trades, a.Confidence),
		VaRConfidence: a.Confidence,
		Drawdown:      risk.MaxDrawdown(trades),
		WinRateStats:  risk.WinRate(trades),
		OpenRisk:      risk.CalculateOpenRisk(positions),
	}
	s.TotalPnL, s.TotalTrades = realized(trades)
	for _, b := range brokers {
		s.TotalBalance += b.Balance.SumTotal()
	}
	return s
}
