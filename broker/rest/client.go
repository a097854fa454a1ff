// Package rest is a Source backed by a broker bridge that serves trades,
// positions, balances and prices as JSON over HTTP.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradejournal/broker"
	"github.com/rustyeddy/tradejournal/trade"
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultRetries = 3
)

type Client struct {
	ID      string
	BaseURL string // e.g. http://localhost:8081/bridge/binance
	Token   string
	HTTP    *http.Client

	// Timeout bounds each attempt. Retries is the number of attempts after
	// the first one.
	Timeout time.Duration
	Retries int

	// InitialInterval is the first retry delay; it grows exponentially.
	InitialInterval time.Duration

	Log zerolog.Logger
}

var _ broker.Source = (*Client)(nil)

// StatusError is a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Code, e.Body)
}

func (c *Client) Name() string { return c.ID }

func (c *Client) GetTrades(ctx context.Context, f broker.Filter) ([]trade.Trade, error) {
	q := url.Values{}
	if f.Symbol != "" {
		q.Set("symbol", f.Symbol)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Start != nil {
		q.Set("start", f.Start.UTC().Format(time.RFC3339))
	}
	if f.End != nil {
		q.Set("end", f.End.UTC().Format(time.RFC3339))
	}

	var trades []trade.Trade
	if err := c.GetJSON(ctx, "/trades", q, &trades); err != nil {
		return nil, err
	}
	for i := range trades {
		if trades[i].BrokerID == "" {
			trades[i].BrokerID = c.ID
		}
	}
	return trades, nil
}

func (c *Client) GetPositions(ctx context.Context) ([]trade.Position, error) {
	var positions []trade.Position
	if err := c.GetJSON(ctx, "/positions", nil, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

func (c *Client) GetBalance(ctx context.Context) (*trade.Balance, error) {
	var b trade.Balance
	if err := c.GetJSON(ctx, "/balance", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

type priceResp struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

func (c *Client) GetMarketPrice(ctx context.Context, symbol string) (float64, error) {
	var p priceResp
	err := c.GetJSON(ctx, "/price/"+url.PathEscape(symbol), nil, &p)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return 0, fmt.Errorf("%s %s: %w", c.ID, symbol, broker.ErrNoPrice)
	}
	if err != nil {
		return 0, err
	}
	return p.Price, nil
}

// GetJSON decodes the JSON body of path into out, retrying network errors
// and 5xx responses with exponential backoff. Other failures are returned at
// once as a *StatusError.
func (c *Client) GetJSON(ctx context.Context, path string, q url.Values, out any) error {
	if c.BaseURL == "" {
		return fmt.Errorf("rest %s: missing base url", c.ID)
	}

	// path is already escaped
	u, err := url.Parse(strings.TrimRight(c.BaseURL, "/") + path)
	if err != nil {
		return err
	}
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	endpoint := u.String()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.InitialInterval
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = 200 * time.Millisecond
	}
	policy.MaxInterval = 5 * time.Second

	retries := c.Retries
	if retries < 0 {
		retries = 0
	}

	operation := func() ([]byte, error) {
		return c.do(ctx, endpoint)
	}
	notify := func(err error, d time.Duration) {
		c.Log.Warn().Err(err).Str("broker", c.ID).Str("path", path).Dur("retry_in", d).Msg("request failed")
	}

	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(retries)+1),
		backoff.WithNotify(notify))
	if err != nil {
		return fmt.Errorf("rest %s %s: %w", c.ID, path, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("rest %s %s: decode: %w", c.ID, path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint string) ([]byte, error) {
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		se := &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
		if resp.StatusCode >= 500 {
			return nil, se
		}
		return nil, backoff.Permanent(se)
	}
	return io.ReadAll(resp.Body)
}
