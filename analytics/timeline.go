package analytics

import (
	"strings"
	"time"
)

type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// DateLayout formats bucket start dates.
const DateLayout = "2006-01-02"

// ParsePeriod maps a period name to a Period. Unknown names are Daily.
func ParsePeriod(s string) Period {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case Weekly, Monthly:
		return p
	default:
		return Daily
	}
}

// Start returns the start of the UTC bucket containing t. Weeks start on
// Monday.
func (p Period) Start(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch p {
	case Weekly:
		back := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -back)
	case Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

// Next returns the start of the bucket after the one starting at start.
func (p Period) Next(start time.Time) time.Time {
	switch p {
	case Weekly:
		return start.AddDate(0, 0, 7)
	case Monthly:
		return start.AddDate(0, 1, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// Timeline is realized pnl per calendar bucket. CumulativePnL[i] is the sum
// of PeriodPnL[0..i].
type Timeline struct {
	Dates         []string  `json:"dates"`
	PeriodPnL     []float64 `json:"period_pnl"`
	CumulativePnL []float64 `json:"cumulative_pnl"`
}

func PerformanceTimeline(brokers []BrokerData, period Period) Timeline {
	tl := Timeline{
		Dates:         []string{},
		PeriodPnL:     []float64{},
		CumulativePnL: []float64{},
	}

	sums := map[time.Time]float64{}
	var first, last time.Time
	for _, t := range AggregateTrades(brokers) {
		if !t.IsClosed() || t.ExitTime == nil {
			continue
		}
		b := period.Start(*t.ExitTime)
		if len(sums) == 0 || b.Before(first) {
			first = b
		}
		if len(sums) == 0 || b.After(last) {
			last = b
		}
		sums[b] += t.RealizedPnL()
	}
	if len(sums) == 0 {
		return tl
	}

	// Buckets with no exits inside the range still appear with zero pnl.
	cum := 0.0
	for b := first; !b.After(last); b = period.Next(b) {
		pnl := sums[b]
		cum += pnl
		tl.Dates = append(tl.Dates, b.Format(DateLayout))
		tl.PeriodPnL = append(tl.PeriodPnL, pnl)
		tl.CumulativePnL = append(tl.CumulativePnL, cum)
	}
	return tl
}
