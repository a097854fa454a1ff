// Package journal persists normalized trades and balance snapshots so that
// analytics can be rerun without the brokers being reachable.
package journal

import (
	"context"
	"errors"

	"github.com/rustyeddy/tradejournal/trade"
)

var ErrNotFound = errors.New("not found")

// Journal records what brokers report.
type Journal interface {
	RecordTrade(ctx context.Context, t trade.Trade) error
	RecordBalance(ctx context.Context, brokerID string, b trade.Balance) error
	Close() error
}

var _ Journal = (*SQLite)(nil)
