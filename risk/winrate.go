package risk

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/rustyeddy/tradejournal/trade"
)

type WinRateStats struct {
	WinRate       float64 `json:"win_rate"`
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	AvgWin        float64 `json:"avg_win"`
	AvgLoss       float64 `json:"avg_loss"`
	ProfitFactor  float64 `json:"profit_factor"`
}

// WinRate counts winners (pnl > 0) and losers (pnl < 0) among closed trades.
// Breakeven trades count toward TotalTrades only. AvgLoss is a magnitude.
//
// ProfitFactor is 0 when there are no losses, which callers must read as
// "undefined" rather than "unprofitable".
func WinRate(trades []trade.Trade) WinRateStats {
	pnls := closedPnLs(trades)
	if len(pnls) == 0 {
		return WinRateStats{}
	}

	var wins, losses []float64
	for _, p := range pnls {
		switch {
		case p > 0:
			wins = append(wins, p)
		case p < 0:
			losses = append(losses, math.Abs(p))
		}
	}

	s := WinRateStats{
		TotalTrades:   len(pnls),
		WinningTrades: len(wins),
		LosingTrades:  len(losses),
		WinRate:       float64(len(wins)) / float64(len(pnls)) * 100,
	}

	grossWin := floats.Sum(wins)
	grossLoss := floats.Sum(losses)
	if len(wins) > 0 {
		s.AvgWin = grossWin / float64(len(wins))
	}
	if len(losses) > 0 {
		s.AvgLoss = grossLoss / float64(len(losses))
	}
	if grossLoss > 0 {
		s.ProfitFactor = grossWin / grossLoss
	}
	return s
}

// Expectancy is the probability-weighted average pnl per closed trade.
func Expectancy(trades []trade.Trade) float64 {
	s := WinRate(trades)
	if s.TotalTrades == 0 {
		return 0
	}
	p := s.WinRate / 100
	return p*s.AvgWin - (1-p)*s.AvgLoss
}
