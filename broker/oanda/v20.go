package oanda

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rustyeddy/tradejournal/trade"
)

// v20 sends decimals as strings.

type tradesResponse struct {
	Trades            []v20Trade `json:"trades"`
	LastTransactionID string     `json:"lastTransactionID"`
}

type v20Trade struct {
	ID                string    `json:"id"`
	Instrument        string    `json:"instrument"`
	Price             string    `json:"price"`
	OpenTime          string    `json:"openTime"`
	State             string    `json:"state"` // OPEN, CLOSED or CLOSE_WHEN_TRADEABLE
	InitialUnits      string    `json:"initialUnits"`
	CurrentUnits      string    `json:"currentUnits"`
	RealizedPL        string    `json:"realizedPL"`
	Financing         string    `json:"financing"`
	AverageClosePrice string    `json:"averageClosePrice,omitempty"`
	CloseTime         string    `json:"closeTime,omitempty"`
	StopLossOrder     *v20Order `json:"stopLossOrder,omitempty"`
	TakeProfitOrder   *v20Order `json:"takeProfitOrder,omitempty"`
}

type v20Order struct {
	Price string `json:"price"`
}

type positionsResponse struct {
	Positions []v20Position `json:"positions"`
}

type v20Position struct {
	Instrument string       `json:"instrument"`
	Long       positionSide `json:"long"`
	Short      positionSide `json:"short"`
}

type positionSide struct {
	Units        string `json:"units"`
	AveragePrice string `json:"averagePrice,omitempty"`
	UnrealizedPL string `json:"unrealizedPL"`
}

type summaryResponse struct {
	Account struct {
		Currency        string `json:"currency"`
		Balance         string `json:"balance"`
		NAV             string `json:"NAV"`
		MarginUsed      string `json:"marginUsed"`
		MarginAvailable string `json:"marginAvailable"`
	} `json:"account"`
}

type pricingResponse struct {
	Prices []struct {
		Instrument  string `json:"instrument"`
		CloseoutBid string `json:"closeoutBid"`
		CloseoutAsk string `json:"closeoutAsk"`
	} `json:"prices"`
}

// toTrade normalizes a v20 trade. Short trades have negative units. A closed
// trade's pnl is the realized P/L plus financing; financing paid is recorded
// as swap.
func (ot v20Trade) toTrade(brokerID string) (trade.Trade, error) {
	var p parser
	units := p.float("initialUnits", ot.InitialUnits)

	t := trade.Trade{
		ID:         brokerID + "-" + ot.ID,
		BrokerID:   brokerID,
		Symbol:     ot.Instrument,
		Side:       trade.Buy,
		Status:     trade.Open,
		Quantity:   abs(units),
		EntryPrice: p.float("price", ot.Price),
		EntryTime:  p.time("openTime", ot.OpenTime),
		Metadata:   map[string]any{"oanda_trade_id": ot.ID},
	}
	if units < 0 {
		t.Side = trade.Sell
	}
	if ot.StopLossOrder != nil {
		v := p.float("stopLossOrder.price", ot.StopLossOrder.Price)
		t.StopLoss = &v
	}
	if ot.TakeProfitOrder != nil {
		v := p.float("takeProfitOrder.price", ot.TakeProfitOrder.Price)
		t.TakeProfit = &v
	}

	if ot.State == "CLOSED" {
		exit := p.float("averageClosePrice", ot.AverageClosePrice)
		closed := p.time("closeTime", ot.CloseTime)
		realized := p.float("realizedPL", ot.RealizedPL)
		financing := p.float("financing", ot.Financing)

		pnl := realized + financing
		t.Status = trade.Closed
		t.ExitPrice = &exit
		t.ExitTime = &closed
		t.PnL = &pnl
		if financing < 0 {
			t.Swap = -financing
		}
		pct := 0.0
		if n := t.EntryPrice * t.Quantity; n != 0 {
			pct = pnl / n * 100
		}
		t.PnLPercent = &pct
		if financing != 0 {
			t.Metadata["financing"] = financing
		}
	}
	return t, p.err
}

// parser keeps the first conversion error so a record can be read field by
// field and checked once.
type parser struct {
	err error
}

func (p *parser) float(name, s string) float64 {
	if p.err != nil || s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", name, err)
	}
	return v
}

func (p *parser) time(name, s string) time.Time {
	if p.err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", name, err)
	}
	return t.UTC()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
