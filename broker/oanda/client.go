// Package oanda is a Source for an OANDA v20 account. It reads the trade
// history, open positions, account summary and prices over the REST API.
package oanda

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/broker"
	"github.com/rustyeddy/tradejournal/broker/rest"
	"github.com/rustyeddy/tradejournal/trade"
)

const (
	// PracticeURL is the URL for OANDA's practice/demo environment
	PracticeURL = "https://api-fxpractice.oanda.com"
	// LiveURL is the URL for OANDA's live trading environment
	LiveURL = "https://api-fxtrade.oanda.com"

	// TokenEnv is read when no token is configured.
	TokenEnv = "OANDA_TOKEN"

	// pageSize is the largest count the trades endpoint accepts.
	pageSize = 500
)

// BaseURL maps an environment name to its API host. Empty means practice.
func BaseURL(env string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "", "practice", "demo":
		return PracticeURL, nil
	case "live":
		return LiveURL, nil
	default:
		return "", fmt.Errorf("unknown OANDA env %q (want practice|live)", env)
	}
}

// Token returns token, or $OANDA_TOKEN when token is empty.
func Token(token string) string {
	if token != "" {
		return token
	}
	return os.Getenv(TokenEnv)
}

// Client reads one account. Requests go through API, which carries the base
// url, token, timeout and retry policy.
type Client struct {
	ID        string
	AccountID string
	API       *rest.Client
}

var _ broker.Source = (*Client)(nil)

func New(id, accountID string, api *rest.Client) *Client {
	if api.ID == "" {
		api.ID = id
	}
	return &Client{ID: id, AccountID: accountID, API: api}
}

func (c *Client) Name() string { return c.ID }

func (c *Client) path(suffix string) string {
	return "/v3/accounts/" + url.PathEscape(c.AccountID) + suffix
}

// GetTrades pages backwards through the account's trades and returns them
// oldest first. Time bounds are applied locally.
func (c *Client) GetTrades(ctx context.Context, f broker.Filter) ([]trade.Trade, error) {
	q := url.Values{}
	q.Set("count", strconv.Itoa(pageSize))
	switch f.Status {
	case trade.Open:
		q.Set("state", "OPEN")
	case trade.Closed:
		q.Set("state", "CLOSED")
	default:
		q.Set("state", "ALL")
	}
	if f.Symbol != "" {
		q.Set("instrument", f.Symbol)
	}

	var out []trade.Trade
	for {
		var page tradesResponse
		if err := c.API.GetJSON(ctx, c.path("/trades"), q, &page); err != nil {
			return nil, err
		}
		for _, ot := range page.Trades {
			t, err := ot.toTrade(c.ID)
			if err != nil {
				return nil, fmt.Errorf("oanda %s trade %s: %w", c.ID, ot.ID, err)
			}
			out = append(out, t)
		}
		if len(page.Trades) < pageSize {
			break
		}
		last := page.Trades[len(page.Trades)-1].ID
		if last == q.Get("beforeID") {
			break
		}
		q.Set("beforeID", last)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].EntryTime.Before(out[j].EntryTime) })
	return f.Apply(out), nil
}

// GetPositions splits each open instrument into its long and short legs.
// Marks are left zero so the fetcher prices them.
func (c *Client) GetPositions(ctx context.Context) ([]trade.Position, error) {
	var resp positionsResponse
	if err := c.API.GetJSON(ctx, c.path("/openPositions"), nil, &resp); err != nil {
		return nil, err
	}

	var out []trade.Position
	for _, op := range resp.Positions {
		for _, leg := range []struct {
			side trade.Side
			v    positionSide
		}{{trade.Buy, op.Long}, {trade.Sell, op.Short}} {
			var p parser
			units := p.float("units", leg.v.Units)
			if units == 0 && p.err == nil {
				continue
			}
			pos := trade.Position{
				BrokerID:      c.ID,
				Symbol:        op.Instrument,
				Side:          leg.side,
				Size:          abs(units),
				EntryPrice:    p.float("averagePrice", leg.v.AveragePrice),
				UnrealizedPnL: p.float("unrealizedPL", leg.v.UnrealizedPL),
			}
			if p.err != nil {
				return nil, fmt.Errorf("oanda %s position %s: %w", c.ID, op.Instrument, p.err)
			}
			out = append(out, pos)
		}
	}
	return out, nil
}

// GetBalance reads the account summary. All amounts are in the account's
// home currency.
func (c *Client) GetBalance(ctx context.Context) (*trade.Balance, error) {
	var resp summaryResponse
	if err := c.API.GetJSON(ctx, c.path("/summary"), nil, &resp); err != nil {
		return nil, err
	}

	a := resp.Account
	var p parser
	total := p.float("balance", a.Balance)
	nav := p.float("NAV", a.NAV)
	used := p.float("marginUsed", a.MarginUsed)
	free := p.float("marginAvailable", a.MarginAvailable)
	if p.err != nil {
		return nil, fmt.Errorf("oanda %s summary: %w", c.ID, p.err)
	}

	return &trade.Balance{
		Time:   time.Now().UTC(),
		Total:  map[string]float64{a.Currency: total},
		Free:   map[string]float64{a.Currency: free},
		Used:   map[string]float64{a.Currency: used},
		Equity: &nav,
		Margin: &used,
	}, nil
}

// GetMarketPrice returns the closeout mid price of symbol.
func (c *Client) GetMarketPrice(ctx context.Context, symbol string) (float64, error) {
	q := url.Values{}
	q.Set("instruments", symbol)

	var resp pricingResponse
	err := c.API.GetJSON(ctx, c.path("/pricing"), q, &resp)
	var se *rest.StatusError
	if errors.As(err, &se) && (se.Code == http.StatusBadRequest || se.Code == http.StatusNotFound) {
		return 0, fmt.Errorf("%s %s: %w", c.ID, symbol, broker.ErrNoPrice)
	}
	if err != nil {
		return 0, err
	}

	for _, pr := range resp.Prices {
		if pr.Instrument != symbol {
			continue
		}
		var p parser
		bid := p.float("closeoutBid", pr.CloseoutBid)
		ask := p.float("closeoutAsk", pr.CloseoutAsk)
		if p.err != nil {
			return 0, fmt.Errorf("oanda %s price %s: %w", c.ID, symbol, p.err)
		}
		return (bid + ask) / 2, nil
	}
	return 0, fmt.Errorf("%s %s: %w", c.ID, symbol, broker.ErrNoPrice)
}
