// Package trade holds the normalized records every broker source produces:
// trades, open positions and account balances.
package trade

import (
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/tradejournal/internal/id"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

type Status string

const (
	Open      Status = "OPEN"
	Closed    Status = "CLOSED"
	Cancelled Status = "CANCELLED"
)

var (
	ErrNotOpen = errors.New("trade is not open")
	ErrInvalid = errors.New("invalid trade")
)

// Trade is a single round trip at one broker. PnL and PnLPercent are nil
// until the trade is closed with an exit price.
type Trade struct {
	ID         string         `json:"id"`
	BrokerID   string         `json:"broker_id"`
	Symbol     string         `json:"symbol"`
	Side       Side           `json:"side"`
	Status     Status         `json:"status"`
	Quantity   float64        `json:"quantity"`
	EntryPrice float64        `json:"entry_price"`
	ExitPrice  *float64       `json:"exit_price,omitempty"`
	EntryTime  time.Time      `json:"entry_time"`
	ExitTime   *time.Time     `json:"exit_time,omitempty"`
	Commission float64        `json:"commission"`
	Swap       float64        `json:"swap"`
	PnL        *float64       `json:"pnl,omitempty"`
	PnLPercent *float64       `json:"pnl_percent,omitempty"`
	StopLoss   *float64       `json:"stop_loss,omitempty"`
	TakeProfit *float64       `json:"take_profit,omitempty"`
	Notes      string         `json:"notes,omitempty"`
	Tags       []string       `json:"tags,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// New returns an open trade with a fresh id stamped at the entry time.
func New(brokerID, symbol string, side Side, qty, entry float64, at time.Time) Trade {
	return Trade{
		ID:         id.NewAt(at),
		BrokerID:   brokerID,
		Symbol:     symbol,
		Side:       side,
		Status:     Open,
		Quantity:   qty,
		EntryPrice: entry,
		EntryTime:  at,
	}
}

func (t Trade) Validate() error {
	switch {
	case t.BrokerID == "":
		return fmt.Errorf("%w: broker_id is required", ErrInvalid)
	case t.Symbol == "":
		return fmt.Errorf("%w: symbol is required", ErrInvalid)
	case t.Side != Buy && t.Side != Sell:
		return fmt.Errorf("%w: unknown side %q", ErrInvalid, t.Side)
	case t.Status != Open && t.Status != Closed && t.Status != Cancelled:
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, t.Status)
	case t.Quantity <= 0:
		return fmt.Errorf("%w: quantity must be positive", ErrInvalid)
	case t.EntryPrice < 0:
		return fmt.Errorf("%w: entry_price must not be negative", ErrInvalid)
	case t.Commission < 0 || t.Swap < 0:
		return fmt.Errorf("%w: costs must not be negative", ErrInvalid)
	}
	return nil
}

// Close moves an open trade to CLOSED and computes its realized pnl.
func (t *Trade) Close(exitPrice float64, at time.Time) error {
	if t.Status != Open {
		return fmt.Errorf("close %s: %w (status %s)", t.ID, ErrNotOpen, t.Status)
	}
	t.Status = Closed
	t.ExitPrice = &exitPrice
	t.ExitTime = &at
	t.Recompute()
	return nil
}

// Cancel moves an open trade to CANCELLED. Cancelled trades never carry pnl.
func (t *Trade) Cancel() error {
	if t.Status != Open {
		return fmt.Errorf("cancel %s: %w (status %s)", t.ID, ErrNotOpen, t.Status)
	}
	t.Status = Cancelled
	t.PnL = nil
	t.PnLPercent = nil
	return nil
}

// Recompute derives PnL and PnLPercent from the prices and costs, clearing
// them unless the trade is closed with an exit price.
func (t *Trade) Recompute() {
	if t.Status != Closed || t.ExitPrice == nil {
		t.PnL = nil
		t.PnLPercent = nil
		return
	}

	move := *t.ExitPrice - t.EntryPrice
	if t.Side == Sell {
		move = -move
	}
	pnl := move*t.Quantity - t.Commission - t.Swap

	pct := 0.0
	if notional := t.EntryPrice * t.Quantity; notional != 0 {
		pct = pnl / notional * 100
	}
	t.PnL = &pnl
	t.PnLPercent = &pct
}

func (t Trade) IsClosed() bool { return t.Status == Closed }

// RealizedPnL returns the pnl, or 0 when it is not set.
func (t Trade) RealizedPnL() float64 {
	if t.PnL == nil {
		return 0
	}
	return *t.PnL
}

// HoldingTime is the time between entry and exit, zero while open.
func (t Trade) HoldingTime() time.Duration {
	if t.ExitTime == nil {
		return 0
	}
	return t.ExitTime.Sub(t.EntryTime)
}
