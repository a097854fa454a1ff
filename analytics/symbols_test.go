package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/internal/fixtures"
	"github.com/rustyeddy/tradejournal/trade"
)

func TestSymbolBreakdown(t *testing.T) {
	t.Parallel()

	a := fixtures.New("A")
	b := fixtures.New("B")
	eur := a.WithSymbol("EUR_USD")
	btc := a.WithSymbol("btc")
	btcUpper := b.WithSymbol("BTC")

	brokers := []BrokerData{
		{BrokerID: "A", Trades: []trade.Trade{
			eur.Closed(10),
			btc.Closed(40),
			eur.Closed(-30),
			eur.Open(),
		}},
		{BrokerID: "B", Trades: []trade.Trade{
			btcUpper.Closed(40),
			btcUpper.Cancelled(),
		}},
	}

	got := SymbolBreakdown(brokers)
	require.Len(t, got, 3)

	// btc and BTC tie on 40 and keep first-seen order.
	assert.Equal(t, "btc", got[0].Symbol)
	assert.Equal(t, "BTC", got[1].Symbol)
	assert.Equal(t, "EUR_USD", got[2].Symbol)

	assert.Equal(t, 2, got[2].TradeCount)
	assert.InDelta(t, -20.0, got[2].TotalPnL, 1e-9)
	assert.InDelta(t, 50.0, got[2].WinRate, 1e-9)
	assert.Equal(t, 1, got[1].TradeCount)
	assert.Equal(t, 1, got[1].TotalTrades)
}

func TestSymbolBreakdownEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, SymbolBreakdown(nil))
	f := fixtures.New("A")
	assert.Empty(t, SymbolBreakdown([]BrokerData{{BrokerID: "A", Trades: []trade.Trade{f.Open()}}}))
}
