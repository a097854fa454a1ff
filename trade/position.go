package trade

// Position is an open-exposure snapshot supplied fresh by a broker.
type Position struct {
	BrokerID      string  `json:"broker_id"`
	Symbol        string  `json:"symbol"`
	Side          Side    `json:"side"`
	Size          float64 `json:"size"`
	EntryPrice    float64 `json:"entry_price"`
	MarkPrice     float64 `json:"mark_price"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
}

// Revalue marks the position at price and recomputes its unrealized pnl.
// Longs gain when the mark rises, shorts when it falls.
func (p *Position) Revalue(mark float64) {
	p.MarkPrice = mark
	move := mark - p.EntryPrice
	if p.Side == Sell {
		move = -move
	}
	p.UnrealizedPnL = move * p.Size
}

// Notional is |size × entry price|.
func (p Position) Notional() float64 {
	n := p.Size * p.EntryPrice
	if n < 0 {
		return -n
	}
	return n
}
