package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/tradejournal/broker"
	"github.com/rustyeddy/tradejournal/trade"
)

const tradeColumns = `id, broker_id, symbol, side, status, quantity, entry_price, exit_price,
	entry_time, exit_time, commission, swap, pnl, pnl_percent,
	stop_loss, take_profit, notes, tags, metadata`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(row scanner) (trade.Trade, error) {
	var (
		t                                     trade.Trade
		side, status, entry, tags, meta       string
		exitTime                              sql.NullString
		exitPrice, pnl, pct, stop, takeProfit sql.NullFloat64
	)
	err := row.Scan(
		&t.ID, &t.BrokerID, &t.Symbol, &side, &status,
		&t.Quantity, &t.EntryPrice, &exitPrice,
		&entry, &exitTime, &t.Commission, &t.Swap, &pnl, &pct,
		&stop, &takeProfit, &t.Notes, &tags, &meta,
	)
	if err != nil {
		return trade.Trade{}, err
	}

	t.Side = trade.Side(side)
	t.Status = trade.Status(status)
	t.ExitPrice = floatPtr(exitPrice)
	t.PnL = floatPtr(pnl)
	t.PnLPercent = floatPtr(pct)
	t.StopLoss = floatPtr(stop)
	t.TakeProfit = floatPtr(takeProfit)

	if t.EntryTime, err = parseTime(entry); err != nil {
		return trade.Trade{}, fmt.Errorf("trade %s entry_time: %w", t.ID, err)
	}
	if exitTime.Valid {
		et, err := parseTime(exitTime.String)
		if err != nil {
			return trade.Trade{}, fmt.Errorf("trade %s exit_time: %w", t.ID, err)
		}
		t.ExitTime = &et
	}
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		return trade.Trade{}, fmt.Errorf("trade %s tags: %w", t.ID, err)
	}
	if err := json.Unmarshal([]byte(meta), &t.Metadata); err != nil {
		return trade.Trade{}, fmt.Errorf("trade %s metadata: %w", t.ID, err)
	}
	if len(t.Tags) == 0 {
		t.Tags = nil
	}
	if len(t.Metadata) == 0 {
		t.Metadata = nil
	}
	return t, nil
}

// GetTrade returns a single trade by id.
func (j *SQLite) GetTrade(ctx context.Context, id string) (trade.Trade, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = ?`, id)
	t, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return trade.Trade{}, fmt.Errorf("trade %q: %w", id, ErrNotFound)
	}
	return t, err
}

// ListTrades returns the trades of brokerID matching f, ordered by entry
// time. An empty brokerID lists every broker.
func (j *SQLite) ListTrades(ctx context.Context, brokerID string, f broker.Filter) ([]trade.Trade, error) {
	var (
		where []string
		args  []any
	)
	if brokerID != "" {
		where = append(where, "broker_id = ?")
		args = append(args, brokerID)
	}
	if f.Symbol != "" {
		where = append(where, "symbol = ?")
		args = append(args, f.Symbol)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Start != nil {
		where = append(where, "entry_time >= ?")
		args = append(args, formatTime(*f.Start))
	}
	if f.End != nil {
		where = append(where, "entry_time < ?")
		args = append(args, formatTime(*f.End))
	}

	q := `SELECT ` + tradeColumns + ` FROM trades`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY entry_time ASC, id ASC`

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trade.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// BrokerIDs returns every broker with a recorded trade or balance, sorted.
func (j *SQLite) BrokerIDs(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT broker_id FROM trades
		UNION
		SELECT broker_id FROM balances
		ORDER BY broker_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// LatestBalance returns the most recent snapshot recorded for brokerID.
func (j *SQLite) LatestBalance(ctx context.Context, brokerID string) (*trade.Balance, error) {
	var (
		b                 trade.Balance
		at                string
		total, free, used string
		equity, margin    sql.NullFloat64
	)
	err := j.db.QueryRowContext(ctx, `
		SELECT time, total, free, used, equity, margin
		FROM balances
		WHERE broker_id = ?
		ORDER BY time DESC
		LIMIT 1`, brokerID).Scan(&at, &total, &free, &used, &equity, &margin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("balance %q: %w", brokerID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if b.Time, err = parseTime(at); err != nil {
		return nil, fmt.Errorf("balance %q time: %w", brokerID, err)
	}
	for _, bucket := range []struct {
		raw string
		dst *map[string]float64
	}{{total, &b.Total}, {free, &b.Free}, {used, &b.Used}} {
		if err := json.Unmarshal([]byte(bucket.raw), bucket.dst); err != nil {
			return nil, fmt.Errorf("balance %q: %w", brokerID, err)
		}
		if len(*bucket.dst) == 0 {
			*bucket.dst = nil
		}
	}
	b.Equity = floatPtr(equity)
	b.Margin = floatPtr(margin)
	return &b, nil
}

// LastPrice is the most recent price recorded for symbol at brokerID: the
// exit price of the latest closed trade, else the latest entry price.
func (j *SQLite) LastPrice(ctx context.Context, brokerID, symbol string) (float64, error) {
	var price float64
	err := j.db.QueryRowContext(ctx, `
		SELECT COALESCE(exit_price, entry_price)
		FROM trades
		WHERE broker_id = ? AND symbol = ? AND status != ?
		ORDER BY COALESCE(exit_time, entry_time) DESC
		LIMIT 1`, brokerID, symbol, string(trade.Cancelled)).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s %s: %w", brokerID, symbol, broker.ErrNoPrice)
	}
	return price, err
}
