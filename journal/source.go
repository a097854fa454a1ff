package journal

import (
	"context"
	"errors"

	"github.com/rustyeddy/tradejournal/broker"
	"github.com/rustyeddy/tradejournal/trade"
)

// Source serves brokerID's recorded history as a broker.Source. It has no
// live positions.
func (j *SQLite) Source(brokerID string) broker.Source {
	return &source{j: j, id: brokerID}
}

type source struct {
	j  *SQLite
	id string
}

func (s *source) Name() string { return s.id }

func (s *source) GetTrades(ctx context.Context, f broker.Filter) ([]trade.Trade, error) {
	return s.j.ListTrades(ctx, s.id, f)
}

func (s *source) GetPositions(context.Context) ([]trade.Position, error) {
	return nil, nil
}

func (s *source) GetBalance(ctx context.Context) (*trade.Balance, error) {
	b, err := s.j.LatestBalance(ctx, s.id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return b, err
}

func (s *source) GetMarketPrice(ctx context.Context, symbol string) (float64, error) {
	return s.j.LastPrice(ctx, s.id, symbol)
}

// Sync records every trade and the balance of src. It returns the number of
// trades recorded.
func (j *SQLite) Sync(ctx context.Context, src broker.Source) (int, error) {
	trades, err := src.GetTrades(ctx, broker.Filter{})
	if err != nil {
		return 0, err
	}
	for i, t := range trades {
		if t.BrokerID == "" {
			t.BrokerID = src.Name()
		}
		if err := j.RecordTrade(ctx, t); err != nil {
			return i, err
		}
	}

	b, err := src.GetBalance(ctx)
	if err != nil {
		return len(trades), err
	}
	if b != nil {
		if err := j.RecordBalance(ctx, src.Name(), *b); err != nil {
			return len(trades), err
		}
	}
	return len(trades), nil
}
