package report

import (
	"fmt"
	"io"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/risk"
)

const rule = "--------------------------------------------------"

func banner(w io.Writer, title string) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " %s\n", title)
	fmt.Fprintln(w, "==================================================")
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, rule)
}

func PrintConsolidated(w io.Writer, s analytics.ConsolidatedStats) {
	banner(w, "Consolidated Statistics")

	fmt.Fprintf(w, "Total P/L:      %.2f\n", s.TotalPnL)
	fmt.Fprintf(w, "Total Balance:  %.2f\n", s.TotalBalance)

	section(w, "Trade Statistics")
	fmt.Fprintf(w, "Closed Trades:  %d\n", s.TotalTrades)
	fmt.Fprintf(w, "Wins:           %d\n", s.WinningTrades)
	fmt.Fprintf(w, "Losses:         %d\n", s.LosingTrades)
	fmt.Fprintf(w, "Win Rate:       %.2f%%\n", s.WinRate)
	fmt.Fprintf(w, "Avg Win:        %.2f\n", s.AvgWin)
	fmt.Fprintf(w, "Avg Loss:       %.2f\n", s.AvgLoss)
	if s.ProfitFactor > 0 {
		fmt.Fprintf(w, "Profit Factor:  %.2f\n", s.ProfitFactor)
	}
	fmt.Fprintf(w, "Expectancy:     %.2f\n", s.Expectancy)

	section(w, "Risk")
	fmt.Fprintf(w, "Sharpe Ratio:   %.2f\n", s.SharpeRatio)
	fmt.Fprintf(w, "Max Drawdown:   %.2f (%.2f%%, %d days)\n", s.MaxDrawdown, s.MaxDrawdownPercent, s.DurationDays)
	fmt.Fprintf(w, "VaR 95:         %.2f\n", s.VaR95)
	if s.VaRConfidence > 0 && s.VaRConfidence != risk.DefaultConfidence {
		fmt.Fprintf(w, "VaR %-11s %.2f\n", fmt.Sprintf("%.4g:", s.VaRConfidence*100), s.VaR)
	}

	section(w, "Open Positions")
	fmt.Fprintf(w, "Positions:      %d\n", s.OpenPositions)
	fmt.Fprintf(w, "Exposure:       %.2f\n", s.TotalOpenRisk)
	fmt.Fprintf(w, "Unrealized P/L: %.2f\n", s.TotalUnrealizedPnL)

	fmt.Fprintln(w)
}

func PrintComparison(w io.Writer, rows []analytics.BrokerComparison) {
	banner(w, "Broker Comparison")
	fmt.Fprintf(w, "%-14s %12s %8s %8s %8s %12s\n", "Broker", "P/L", "Trades", "Win %", "Sharpe", "Max DD")
	fmt.Fprintln(w, rule+"----------")
	for _, r := range rows {
		fmt.Fprintf(w, "%-14s %12.2f %8d %8.2f %8.2f %12.2f\n",
			r.BrokerID, r.TotalPnL, r.TotalTrades, r.WinRate, r.SharpeRatio, r.MaxDrawdown)
	}
	fmt.Fprintln(w)
}

func PrintTimeline(w io.Writer, period analytics.Period, tl analytics.Timeline) {
	banner(w, fmt.Sprintf("Performance Timeline (%s)", period))
	if len(tl.Dates) == 0 {
		fmt.Fprintln(w, "No closed trades.")
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintf(w, "%-12s %14s %14s\n", "Period", "P/L", "Cumulative")
	fmt.Fprintln(w, rule)
	for i, d := range tl.Dates {
		fmt.Fprintf(w, "%-12s %14.2f %14.2f\n", d, tl.PeriodPnL[i], tl.CumulativePnL[i])
	}
	fmt.Fprintln(w)
}

func PrintSymbols(w io.Writer, rows []analytics.SymbolPerformance) {
	banner(w, "Symbol Performance")
	fmt.Fprintf(w, "%-16s %12s %8s %8s\n", "Symbol", "P/L", "Trades", "Win %")
	fmt.Fprintln(w, rule)
	for _, r := range rows {
		fmt.Fprintf(w, "%-16s %12.2f %8d %8.2f\n", r.Symbol, r.TotalPnL, r.TradeCount, r.WinRate)
	}
	fmt.Fprintln(w)
}
