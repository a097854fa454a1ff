package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/broker"
	"github.com/rustyeddy/tradejournal/internal/fixtures"
	"github.com/rustyeddy/tradejournal/trade"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	j, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	_, path := newTestSQLite(t)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','balances')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["balances"])
}

func TestRecordAndGetTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	ctx := context.Background()

	tr := fixtures.New("A").Closed(25)
	stop := 95.0
	tr.StopLoss = &stop
	tr.Commission = 1.5
	tr.Tags = []string{"breakout", "london"}
	tr.Metadata = map[string]any{"strategy": "ema"}
	tr.Notes = "clean entry"
	tr.Recompute()

	require.NoError(t, j.RecordTrade(ctx, tr))

	got, err := j.GetTrade(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.ID)
	assert.Equal(t, trade.Closed, got.Status)
	assert.Equal(t, trade.Buy, got.Side)
	assert.True(t, tr.EntryTime.Equal(got.EntryTime))
	require.NotNil(t, got.ExitTime)
	assert.True(t, tr.ExitTime.Equal(*got.ExitTime))
	require.NotNil(t, got.PnL)
	assert.InDelta(t, 23.5, *got.PnL, 1e-9)
	assert.Equal(t, &stop, got.StopLoss)
	assert.Nil(t, got.TakeProfit)
	assert.Equal(t, []string{"breakout", "london"}, got.Tags)
	assert.Equal(t, "ema", got.Metadata["strategy"])
	assert.Equal(t, "clean entry", got.Notes)
}

func TestRecordTradeUpserts(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	ctx := context.Background()

	tr := fixtures.New("A").Open()
	require.NoError(t, j.RecordTrade(ctx, tr))

	require.NoError(t, tr.Close(110, tr.EntryTime.Add(time.Hour)))
	require.NoError(t, j.RecordTrade(ctx, tr))

	all, err := j.ListTrades(ctx, "", broker.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, trade.Closed, all[0].Status)
	assert.InDelta(t, 10.0, all[0].RealizedPnL(), 1e-9)
}

func TestRecordTradeRejectsInvalid(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	tr := fixtures.New("").Open()
	err := j.RecordTrade(context.Background(), tr)
	assert.ErrorIs(t, err, trade.ErrInvalid)
}

func TestGetTradeNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	_, err := j.GetTrade(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTradesFilters(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	ctx := context.Background()

	a := fixtures.New("A")
	b := fixtures.New("B")
	for _, tr := range []trade.Trade{
		a.Closed(1),                   // entry 01-01 09:00
		a.WithSymbol("BTC").Closed(2), // entry 01-02 09:00
		a.Closed(3),                   // entry 01-02 09:00
		a.Open(),                      // entry 01-03 10:00
		b.Closed(4),
	} {
		require.NoError(t, j.RecordTrade(ctx, tr))
	}

	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		broker string
		filter broker.Filter
		want   int
	}{
		{"all", "", broker.Filter{}, 5},
		{"broker", "A", broker.Filter{}, 4},
		{"symbol", "A", broker.Filter{Symbol: "BTC"}, 1},
		{"status", "", broker.Filter{Status: trade.Open}, 1},
		{"start", "A", broker.Filter{Start: &start}, 3},
		{"end exclusive", "A", broker.Filter{Start: &start, End: &end}, 2},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := j.ListTrades(ctx, tt.broker, tt.filter)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
			for i := 1; i < len(got); i++ {
				assert.False(t, got[i].EntryTime.Before(got[i-1].EntryTime))
			}
		})
	}
}

func TestBalances(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	ctx := context.Background()

	_, err := j.LatestBalance(ctx, "A")
	assert.ErrorIs(t, err, ErrNotFound)

	equity := 1200.0
	older := trade.Balance{Time: fixtures.Start, Total: map[string]float64{"USD": 1000}}
	newer := trade.Balance{
		Time:   fixtures.Start.Add(time.Hour),
		Total:  map[string]float64{"USD": 1100, "BTC": 0.1},
		Free:   map[string]float64{"USD": 900},
		Equity: &equity,
	}
	require.NoError(t, j.RecordBalance(ctx, "A", newer))
	require.NoError(t, j.RecordBalance(ctx, "A", older))
	require.Error(t, j.RecordBalance(ctx, "", older))

	got, err := j.LatestBalance(ctx, "A")
	require.NoError(t, err)
	assert.True(t, newer.Time.Equal(got.Time))
	assert.InDelta(t, 1100.1, got.SumTotal(), 1e-9)
	assert.Equal(t, 900.0, got.Free["USD"])
	assert.Nil(t, got.Used)
	assert.Equal(t, &equity, got.Equity)
	assert.Nil(t, got.Margin)
}

func TestBrokerIDs(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, j.RecordTrade(ctx, fixtures.New("kraken").Closed(1)))
	require.NoError(t, j.RecordTrade(ctx, fixtures.New("binance").Closed(1)))
	require.NoError(t, j.RecordBalance(ctx, "oanda", trade.Balance{Time: fixtures.Start}))

	ids, err := j.BrokerIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"binance", "kraken", "oanda"}, ids)
}
