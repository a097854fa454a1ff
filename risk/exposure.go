package risk

import "github.com/rustyeddy/tradejournal/trade"

// OpenRisk summarizes open positions. TotalOpenRisk is notional exposure
// (sum of |size × entry price|), not a bound on the possible loss.
type OpenRisk struct {
	TotalOpenRisk      float64 `json:"total_open_risk"`
	TotalPositions     int     `json:"total_positions"`
	TotalUnrealizedPnL float64 `json:"total_unrealized_pnl"`
}

func CalculateOpenRisk(positions []trade.Position) OpenRisk {
	r := OpenRisk{TotalPositions: len(positions)}
	for _, p := range positions {
		if p.Size != 0 && p.EntryPrice != 0 {
			r.TotalOpenRisk += p.Notional()
		}
		r.TotalUnrealizedPnL += p.UnrealizedPnL
	}
	return r
}
