package broker

import (
	"context"
	"fmt"
	"sync"

	"github.com/rustyeddy/tradejournal/trade"
)

// Memory is a Source held in memory. It backs demos and tests.
type Memory struct {
	ID string

	mu        sync.RWMutex
	trades    []trade.Trade
	positions []trade.Position
	balance   *trade.Balance
	prices    map[string]float64
}

func NewMemory(id string) *Memory {
	return &Memory{ID: id, prices: map[string]float64{}}
}

func (m *Memory) Name() string { return m.ID }

// AddTrades appends trades, stamping them with this broker's id.
func (m *Memory) AddTrades(trades ...trade.Trade) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range trades {
		t.BrokerID = m.ID
		m.trades = append(m.trades, t)
	}
}

func (m *Memory) SetPositions(positions ...trade.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions = append([]trade.Position(nil), positions...)
}

func (m *Memory) SetBalance(b *trade.Balance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance = b
}

func (m *Memory) SetPrice(symbol string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[symbol] = price
}

func (m *Memory) GetTrades(ctx context.Context, f Filter) ([]trade.Trade, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return f.Apply(m.trades), nil
}

func (m *Memory) GetPositions(ctx context.Context) ([]trade.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]trade.Position(nil), m.positions...), nil
}

func (m *Memory) GetBalance(ctx context.Context) (*trade.Balance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.balance == nil {
		return nil, nil
	}
	b := *m.balance
	return &b, nil
}

func (m *Memory) GetMarketPrice(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.prices[symbol]
	if !ok {
		return 0, fmt.Errorf("%s %s: %w", m.ID, symbol, ErrNoPrice)
	}
	return p, nil
}
