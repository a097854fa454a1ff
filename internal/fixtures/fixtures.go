// Package fixtures builds normalized trades for tests and demos.
package fixtures

import (
	"time"

	"github.com/rustyeddy/tradejournal/trade"
)

// Start is the default clock origin for generated trades.
var Start = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

// Factory produces trades for one broker and symbol. Every closed trade is
// exited one Step after the previous one, so sequences are ordered by exit time.
type Factory struct {
	Broker string
	Symbol string
	Clock  time.Time
	Step   time.Duration
}

func New(broker string) *Factory {
	return &Factory{
		Broker: broker,
		Symbol: "EUR_USD",
		Clock:  Start,
		Step:   24 * time.Hour,
	}
}

// WithSymbol returns a copy of the factory trading symbol. The copy shares
// nothing with f, so its clock advances independently.
func (f *Factory) WithSymbol(symbol string) *Factory {
	c := *f
	c.Symbol = symbol
	return &c
}

// Closed returns a BUY of one unit at 100 closed with exactly pnl profit.
// Its pnl percent equals pnl.
func (f *Factory) Closed(pnl float64) trade.Trade {
	exit := f.Clock
	f.Clock = f.Clock.Add(f.Step)
	return f.ClosedAt(pnl, exit)
}

// ClosedAt is Closed with an explicit exit time; the clock does not move.
func (f *Factory) ClosedAt(pnl float64, exit time.Time) trade.Trade {
	t := trade.New(f.Broker, f.Symbol, trade.Buy, 1, 100, exit.Add(-time.Hour))
	_ = t.Close(100+pnl, exit)
	return t
}

// Series returns one closed trade per pnl, in order.
func (f *Factory) Series(pnls ...float64) []trade.Trade {
	out := make([]trade.Trade, 0, len(pnls))
	for _, p := range pnls {
		out = append(out, f.Closed(p))
	}
	return out
}

func (f *Factory) Open() trade.Trade {
	return trade.New(f.Broker, f.Symbol, trade.Buy, 1, 100, f.Clock)
}

func (f *Factory) Cancelled() trade.Trade {
	t := f.Open()
	_ = t.Cancel()
	return t
}

// Position returns a long position of size at entry, marked at mark.
func (f *Factory) Position(size, entry, mark float64) trade.Position {
	p := trade.Position{
		BrokerID:   f.Broker,
		Symbol:     f.Symbol,
		Side:       trade.Buy,
		Size:       size,
		EntryPrice: entry,
	}
	p.Revalue(mark)
	return p
}

// Balance returns a snapshot whose Total bucket holds the given amounts.
func Balance(total map[string]float64) *trade.Balance {
	return &trade.Balance{Time: Start, Total: total}
}
