package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rustyeddy/tradejournal/risk"
)

// Sheet names, in workbook order.
const (
	SheetSummary  = "Summary"
	SheetBrokers  = "Brokers"
	SheetTimeline = "Timeline"
	SheetSymbols  = "Symbols"
	SheetTrades   = "Trades"
)

// WriteWorkbook saves wb as an Excel file at path.
func WriteWorkbook(path string, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	for _, name := range []string{SheetBrokers, SheetTimeline, SheetSymbols, SheetTrades} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	s := wb.Stats
	summary := [][]any{
		{"Generated", wb.Generated.Format(time.RFC3339)},
		{"Period", string(wb.Period)},
		{"Total P/L", s.TotalPnL},
		{"Total Balance", s.TotalBalance},
		{"Closed Trades", s.TotalTrades},
		{"Winning Trades", s.WinningTrades},
		{"Losing Trades", s.LosingTrades},
		{"Win Rate %", s.WinRate},
		{"Avg Win", s.AvgWin},
		{"Avg Loss", s.AvgLoss},
		{"Profit Factor", s.ProfitFactor},
		{"Expectancy", s.Expectancy},
		{"Sharpe Ratio", s.SharpeRatio},
		{"Max Drawdown", s.MaxDrawdown},
		{"Max Drawdown %", s.MaxDrawdownPercent},
		{"Drawdown Days", s.DurationDays},
		{"VaR 95", s.VaR95},
		{"VaR", s.VaR},
		{"VaR Confidence", s.VaRConfidence},
		{"Open Positions", s.OpenPositions},
		{"Exposure", s.TotalOpenRisk},
		{"Unrealized P/L", s.TotalUnrealizedPnL},
	}
	if err := writeRows(f, SheetSummary, []string{"Metric", "Value"}, summary); err != nil {
		return err
	}

	var brokers [][]any
	for _, c := range wb.Comparison {
		brokers = append(brokers, []any{
			c.BrokerID, c.TotalPnL, c.TotalTrades, c.WinningTrades, c.LosingTrades,
			c.WinRate, c.ProfitFactor, c.SharpeRatio, c.MaxDrawdown, c.Balance,
		})
	}
	if err := writeRows(f, SheetBrokers, []string{
		"Broker", "P/L", "Trades", "Wins", "Losses", "Win %", "Profit Factor", "Sharpe", "Max DD", "Balance",
	}, brokers); err != nil {
		return err
	}

	var timeline [][]any
	for i, d := range wb.Timeline.Dates {
		timeline = append(timeline, []any{d, wb.Timeline.PeriodPnL[i], wb.Timeline.CumulativePnL[i]})
	}
	if err := writeRows(f, SheetTimeline, []string{"Period", "P/L", "Cumulative"}, timeline); err != nil {
		return err
	}

	var symbols [][]any
	for _, sp := range wb.Symbols {
		symbols = append(symbols, []any{sp.Symbol, sp.TotalPnL, sp.TradeCount, sp.WinRate, sp.AvgWin, sp.AvgLoss})
	}
	if err := writeRows(f, SheetSymbols, []string{"Symbol", "P/L", "Trades", "Win %", "Avg Win", "Avg Loss"}, symbols); err != nil {
		return err
	}

	var trades [][]any
	for _, t := range wb.Trades {
		plannedRisk, rr := risk.Plan(t)
		trades = append(trades, []any{
			t.ID, t.BrokerID, t.Symbol, string(t.Side), string(t.Status),
			t.Quantity, t.EntryPrice, cell(t.ExitPrice),
			t.EntryTime.UTC().Format("2006-01-02 15:04:05"), timeCell(t.ExitTime),
			t.Commission + t.Swap, cell(t.PnL), cell(t.PnLPercent),
			plannedRisk, rr, t.Notes,
		})
	}
	if err := writeRows(f, SheetTrades, []string{
		"ID", "Broker", "Symbol", "Side", "Status", "Quantity", "Entry", "Exit",
		"Entry Time", "Exit Time", "Costs", "P/L", "P/L %", "Planned Risk", "R:R", "Notes",
	}, trades); err != nil {
		return err
	}

	f.SetColWidth(SheetSummary, "A", "A", 18)
	f.SetColWidth(SheetSummary, "B", "B", 22)
	f.SetColWidth(SheetBrokers, "A", "A", 16)
	f.SetColWidth(SheetTimeline, "A", "A", 12)
	f.SetColWidth(SheetSymbols, "A", "A", 16)
	f.SetColWidth(SheetTrades, "A", "A", 28)
	f.SetColWidth(SheetTrades, "I", "J", 20)
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, header []string, rows [][]any) error {
	for i, h := range header {
		c, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, c, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for i, v := range row {
			c, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, c, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// cell leaves absent values blank.
func cell(p *float64) any {
	if p == nil {
		return ""
	}
	return *p
}

func timeCell(t *time.Time) any {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}
