// Package broker defines how trades, positions and balances are pulled from
// brokers, and fetches them from several brokers at once.
package broker

import (
	"context"
	"errors"
	"time"

	"github.com/rustyeddy/tradejournal/trade"
)

// ErrNoPrice is returned when a source cannot quote a symbol.
var ErrNoPrice = errors.New("no market price")

// Source is one broker account.
type Source interface {
	Name() string
	GetTrades(ctx context.Context, f Filter) ([]trade.Trade, error)
	GetPositions(ctx context.Context) ([]trade.Position, error)
	GetBalance(ctx context.Context) (*trade.Balance, error)
	GetMarketPrice(ctx context.Context, symbol string) (float64, error)
}

// Filter selects trades. Zero fields match everything. The time window
// applies to the entry time: Start <= t < End.
type Filter struct {
	Symbol string
	Start  *time.Time
	End    *time.Time
	Status trade.Status
}

func (f Filter) Match(t trade.Trade) bool {
	if f.Symbol != "" && t.Symbol != f.Symbol {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Start != nil && t.EntryTime.Before(*f.Start) {
		return false
	}
	if f.End != nil && !t.EntryTime.Before(*f.End) {
		return false
	}
	return true
}

// Apply returns the trades that match f, in order.
func (f Filter) Apply(trades []trade.Trade) []trade.Trade {
	out := make([]trade.Trade, 0, len(trades))
	for _, t := range trades {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
