package risk

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/rustyeddy/tradejournal/trade"
)

// SharpeRatio annualizes the mean excess per-trade percent return over its
// population standard deviation by sqrt(TradingDays). The risk-free rate is
// subtracted as given, in the same units as the percent returns.
//
// Fewer than two returns, or returns with no dispersion, yield 0.
func SharpeRatio(trades []trade.Trade, riskFreeRate float64) float64 {
	var returns []float64
	for _, t := range trades {
		if t.IsClosed() && t.PnLPercent != nil {
			returns = append(returns, *t.PnLPercent)
		}
	}
	if len(returns) < 2 {
		return 0
	}

	mean, std := stat.PopMeanStdDev(returns, nil)
	if std == 0 {
		return 0
	}
	return (mean - riskFreeRate) / std * math.Sqrt(TradingDays)
}

// VaR is the historical value-at-risk of realized pnl: the absolute value of
// the (1 - confidence) quantile of the per-trade pnl distribution.
func VaR(trades []trade.Trade, confidence float64) float64 {
	pnls := closedPnLs(trades)
	if len(pnls) == 0 {
		return 0
	}
	return math.Abs(Quantile(pnls, 1-confidence))
}

// Quantile returns the q-quantile of x (0 <= q <= 1), interpolating linearly
// between the two nearest order statistics at rank q*(n-1). x is not modified.
func Quantile(x []float64, q float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	s := make([]float64, n)
	copy(s, x)
	sort.Float64s(s)

	switch {
	case q <= 0:
		return s[0]
	case q >= 1:
		return s[n-1]
	}

	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	if lo+1 >= n {
		return s[n-1]
	}
	frac := pos - float64(lo)
	return s[lo] + frac*(s[lo+1]-s[lo])
}
