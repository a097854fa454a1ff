package risk

import (
	"time"

	"github.com/rustyeddy/tradejournal/trade"
)

type Drawdown struct {
	MaxDrawdown        float64 `json:"max_drawdown"`
	MaxDrawdownPercent float64 `json:"max_drawdown_percent"`
	DurationDays       int     `json:"duration_days"`
}

// MaxDrawdown walks the cumulative realized pnl in exit-time order and
// returns the largest peak-to-trough decline.
//
// The percentage is relative to the peak that produced the decline and is 0
// when that peak is not positive. The duration runs from the last time the
// cumulative pnl stood at that peak to the trough, in whole days.
func MaxDrawdown(trades []trade.Trade) Drawdown {
	closed := closedByExit(trades)
	if len(closed) == 0 {
		return Drawdown{}
	}

	cum := make([]float64, len(closed))
	running := 0.0
	for i, t := range closed {
		running += t.RealizedPnL()
		cum[i] = running
	}

	var (
		dd     Drawdown
		peak   = cum[0]
		ddPeak float64
		trough = -1
	)
	for i, v := range cum {
		if v > peak {
			peak = v
		}
		if d := peak - v; d > dd.MaxDrawdown {
			dd.MaxDrawdown = d
			ddPeak = peak
			trough = i
		}
	}
	if trough < 0 {
		return dd
	}

	if ddPeak > 0 {
		dd.MaxDrawdownPercent = dd.MaxDrawdown / ddPeak * 100
	}

	start := -1
	for i := trough; i >= 0; i-- {
		if cum[i] == ddPeak {
			start = i
			break
		}
	}
	if start >= 0 {
		span := closed[trough].ExitTime.Sub(*closed[start].ExitTime)
		dd.DurationDays = int(span / (24 * time.Hour))
	}
	return dd
}
