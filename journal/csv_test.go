package journal

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/internal/fixtures"
	"github.com/rustyeddy/tradejournal/trade"
)

func TestWriteTradesCSV(t *testing.T) {
	t.Parallel()

	f := fixtures.New("A")
	closed := f.Closed(12.5)
	closed.Tags = []string{"a", "b"}
	open := f.Open()

	var buf bytes.Buffer
	require.NoError(t, WriteTradesCSV(&buf, []trade.Trade{closed, open}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])

	row := map[string]string{}
	for i, h := range rows[1] {
		row[csvHeader[i]] = h
	}
	assert.Equal(t, closed.ID, row["id"])
	assert.Equal(t, "CLOSED", row["status"])
	assert.Equal(t, "112.5", row["exit_price"])
	assert.Equal(t, "2024-01-01T10:00:00Z", row["exit_time"])
	assert.Equal(t, "12.5", row["pnl"])
	assert.Equal(t, "a;b", row["tags"])
	assert.Equal(t, "", row["stop_loss"])

	// open trades have empty exit cells
	assert.Equal(t, "", rows[2][7])
	assert.Equal(t, "", rows[2][9])
	assert.Equal(t, "", rows[2][12])
}

func TestCSVReadBack(t *testing.T) {
	t.Parallel()

	f := fixtures.New("A")
	in := []trade.Trade{f.Closed(-7.25), f.Open(), f.Cancelled()}
	in[0].Metadata = map[string]any{"src": "import"}

	var buf bytes.Buffer
	require.NoError(t, WriteTradesCSV(&buf, in))

	out, err := ReadTradesCSV(&buf)
	require.NoError(t, err)
	require.Len(t, out, 3)

	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
		assert.Equal(t, in[i].Status, out[i].Status)
		assert.Equal(t, in[i].RealizedPnL(), out[i].RealizedPnL())
		assert.True(t, in[i].EntryTime.Equal(out[i].EntryTime))
	}
	assert.Equal(t, "import", out[0].Metadata["src"])
	assert.Nil(t, out[1].ExitPrice)
}

func TestReadTradesCSVMinimal(t *testing.T) {
	t.Parallel()

	data := `symbol,side,quantity,entry_price,exit_price,entry_time,exit_time,commission
BTC/USDT,sell,2,100,90,2024-02-01,2024-02-03 12:00:00,1
ETH/USDT,buy,1,50,,2024-02-02T08:00:00Z,,
`
	out, err := ReadTradesCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, out, 2)

	short := out[0]
	assert.NotEmpty(t, short.ID)
	assert.Equal(t, trade.Sell, short.Side)
	assert.Equal(t, trade.Closed, short.Status)
	require.NotNil(t, short.PnL)
	assert.InDelta(t, 19.0, *short.PnL, 1e-9)
	assert.InDelta(t, 9.5, *short.PnLPercent, 1e-9)
	assert.Equal(t, "2024-02-03T12:00:00Z", short.ExitTime.Format("2006-01-02T15:04:05Z07:00"))

	assert.Equal(t, trade.Open, out[1].Status)
	assert.Nil(t, out[1].PnL)
}

func TestReadTradesCSVPreEpoch(t *testing.T) {
	t.Parallel()

	data := `symbol,side,quantity,entry_price,exit_price,entry_time,exit_time
GC,buy,1,35,36,1965-03-01,1965-03-02
`
	var out []trade.Trade
	var err error
	require.NotPanics(t, func() { out, err = ReadTradesCSV(strings.NewReader(data)) })
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Len(t, out[0].ID, 26)
	assert.Equal(t, 1965, out[0].EntryTime.Year())
}

func TestReadTradesCSVErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want string
	}{
		{"empty", "", "read header"},
		{"missing column", "symbol,side,quantity,entry_price\n", `missing column "entry_time"`},
		{"bad number", "symbol,side,quantity,entry_price,entry_time\nX,BUY,abc,1,2024-01-01\n", "line 2: quantity"},
		{"bad time", "symbol,side,quantity,entry_price,entry_time\nX,BUY,1,1,yesterday\n", "line 2: entry_time"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadTradesCSV(strings.NewReader(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
