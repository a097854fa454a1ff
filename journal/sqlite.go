package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/tradejournal/trade"
)

type SQLite struct {
	db *sql.DB
}

// Open opens or creates the journal database at path.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// RecordTrade inserts t, or replaces the stored trade with the same id.
func (j *SQLite) RecordTrade(ctx context.Context, t trade.Trade) error {
	if err := t.Validate(); err != nil {
		return err
	}
	tags, err := json.Marshal(nonNilTags(t.Tags))
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	meta, err := json.Marshal(nonNilMeta(t.Metadata))
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO trades
		(id, broker_id, symbol, side, status, quantity, entry_price, exit_price,
		 entry_time, exit_time, commission, swap, pnl, pnl_percent,
		 stop_loss, take_profit, notes, tags, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			broker_id = excluded.broker_id,
			symbol = excluded.symbol,
			side = excluded.side,
			status = excluded.status,
			quantity = excluded.quantity,
			entry_price = excluded.entry_price,
			exit_price = excluded.exit_price,
			entry_time = excluded.entry_time,
			exit_time = excluded.exit_time,
			commission = excluded.commission,
			swap = excluded.swap,
			pnl = excluded.pnl,
			pnl_percent = excluded.pnl_percent,
			stop_loss = excluded.stop_loss,
			take_profit = excluded.take_profit,
			notes = excluded.notes,
			tags = excluded.tags,
			metadata = excluded.metadata`,
		t.ID, t.BrokerID, t.Symbol, string(t.Side), string(t.Status),
		t.Quantity, t.EntryPrice, nullFloat(t.ExitPrice),
		formatTime(t.EntryTime), nullTime(t.ExitTime),
		t.Commission, t.Swap, nullFloat(t.PnL), nullFloat(t.PnLPercent),
		nullFloat(t.StopLoss), nullFloat(t.TakeProfit),
		t.Notes, string(tags), string(meta),
	)
	if err != nil {
		return fmt.Errorf("record trade %s: %w", t.ID, err)
	}
	return nil
}

// RecordBalance stores a snapshot. A zero snapshot time is stamped now.
func (j *SQLite) RecordBalance(ctx context.Context, brokerID string, b trade.Balance) error {
	if brokerID == "" {
		return fmt.Errorf("record balance: broker id is required")
	}
	if b.Time.IsZero() {
		b.Time = time.Now()
	}

	var buckets [3][]byte
	for i, m := range []map[string]float64{b.Total, b.Free, b.Used} {
		if m == nil {
			m = map[string]float64{}
		}
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode balance: %w", err)
		}
		buckets[i] = data
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO balances
		(broker_id, time, total, free, used, equity, margin)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		brokerID, formatTime(b.Time),
		string(buckets[0]), string(buckets[1]), string(buckets[2]),
		nullFloat(b.Equity), nullFloat(b.Margin),
	)
	if err != nil {
		return fmt.Errorf("record balance %s: %w", brokerID, err)
	}
	return nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func nonNilMeta(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
