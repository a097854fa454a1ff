package risk

import (
	"math"

	"github.com/rustyeddy/tradejournal/trade"
)

// PlannedRisk is the loss in quote currency if a position of units entered
// at entry is stopped out at stop.
func PlannedRisk(units, entry, stop float64) float64 {
	return math.Abs(units) * math.Abs(entry-stop)
}

// RR is the reward-to-risk multiple of a trade plan, 0 when the stop sits on
// the entry.
func RR(entry, stop, takeProfit float64) float64 {
	risk := math.Abs(entry - stop)
	if risk == 0 {
		return 0
	}
	return math.Abs(takeProfit-entry) / risk
}

// Plan returns the planned risk and reward-to-risk of a trade's stop and
// target. Missing levels give 0.
func Plan(t trade.Trade) (plannedRisk, rr float64) {
	if t.StopLoss == nil {
		return 0, 0
	}
	plannedRisk = PlannedRisk(t.Quantity, t.EntryPrice, *t.StopLoss)
	if t.TakeProfit != nil {
		rr = RR(t.EntryPrice, *t.StopLoss, *t.TakeProfit)
	}
	return plannedRisk, rr
}
