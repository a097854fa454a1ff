package journal

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/internal/id"
	"github.com/rustyeddy/tradejournal/trade"
)

var csvHeader = []string{
	"id", "broker_id", "symbol", "side", "status", "quantity",
	"entry_price", "exit_price", "entry_time", "exit_time",
	"commission", "swap", "pnl", "pnl_percent", "stop_loss", "take_profit",
	"notes", "tags", "metadata",
}

// WriteTradesCSV writes a header row and one row per trade. Absent optional
// values are empty cells; tags are joined with ';'.
func WriteTradesCSV(w io.Writer, trades []trade.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, t := range trades {
		meta := ""
		if len(t.Metadata) > 0 {
			b, err := json.Marshal(t.Metadata)
			if err != nil {
				return fmt.Errorf("trade %s metadata: %w", t.ID, err)
			}
			meta = string(b)
		}
		row := []string{
			t.ID,
			t.BrokerID,
			t.Symbol,
			string(t.Side),
			string(t.Status),
			f(t.Quantity),
			f(t.EntryPrice),
			fp(t.ExitPrice),
			t.EntryTime.UTC().Format(time.RFC3339),
			tp(t.ExitTime),
			f(t.Commission),
			f(t.Swap),
			fp(t.PnL),
			fp(t.PnLPercent),
			fp(t.StopLoss),
			fp(t.TakeProfit),
			t.Notes,
			strings.Join(t.Tags, ";"),
			meta,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadTradesCSV reads trades from CSV with a header row. Columns are matched
// by name, in any order; symbol, side, quantity, entry_price and entry_time
// are required. Missing ids are generated, a missing status is CLOSED when an
// exit price is given, and pnl is derived when absent.
func ReadTradesCSV(r io.Reader) ([]trade.Trade, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range []string{"symbol", "side", "quantity", "entry_price", "entry_time"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var out []trade.Trade
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		t, err := parseRow(col, rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func parseRow(col map[string]int, rec []string) (trade.Trade, error) {
	get := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var (
		t   trade.Trade
		err error
	)
	t.ID = get("id")
	t.BrokerID = get("broker_id")
	t.Symbol = get("symbol")
	t.Side = trade.Side(strings.ToUpper(get("side")))
	t.Status = trade.Status(strings.ToUpper(get("status")))
	t.Notes = get("notes")

	if t.Quantity, err = parseFloat("quantity", get("quantity")); err != nil {
		return t, err
	}
	if t.EntryPrice, err = parseFloat("entry_price", get("entry_price")); err != nil {
		return t, err
	}
	if t.Commission, err = parseFloat("commission", get("commission")); err != nil {
		return t, err
	}
	if t.Swap, err = parseFloat("swap", get("swap")); err != nil {
		return t, err
	}
	for _, opt := range []struct {
		name string
		dst  **float64
	}{
		{"exit_price", &t.ExitPrice},
		{"pnl", &t.PnL},
		{"pnl_percent", &t.PnLPercent},
		{"stop_loss", &t.StopLoss},
		{"take_profit", &t.TakeProfit},
	} {
		if *opt.dst, err = parseOptFloat(opt.name, get(opt.name)); err != nil {
			return t, err
		}
	}

	if t.EntryTime, err = ParseTime(get("entry_time")); err != nil {
		return t, fmt.Errorf("entry_time: %w", err)
	}
	if s := get("exit_time"); s != "" {
		et, err := ParseTime(s)
		if err != nil {
			return t, fmt.Errorf("exit_time: %w", err)
		}
		t.ExitTime = &et
	}

	if s := get("tags"); s != "" {
		for _, tag := range strings.Split(s, ";") {
			if tag = strings.TrimSpace(tag); tag != "" {
				t.Tags = append(t.Tags, tag)
			}
		}
	}
	if s := get("metadata"); s != "" {
		if err := json.Unmarshal([]byte(s), &t.Metadata); err != nil {
			return t, fmt.Errorf("metadata: %w", err)
		}
	}

	if t.Status == "" {
		t.Status = trade.Open
		if t.ExitPrice != nil {
			t.Status = trade.Closed
		}
	}
	if t.ID == "" {
		t.ID = id.NewAt(t.EntryTime)
	}
	if t.PnL == nil {
		t.Recompute()
	}
	return t, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime accepts RFC3339 or a plain date and time. Times without a zone
// are UTC.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func parseFloat(name, s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

func parseOptFloat(name, s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := parseFloat(name, s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func fp(x *float64) string {
	if x == nil {
		return ""
	}
	return f(*x)
}

func tp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
