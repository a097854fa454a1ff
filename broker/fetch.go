package broker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/tradejournal/analytics"
)

// Fetcher pulls data from several sources concurrently.
type Fetcher struct {
	Sources []Source
	Log     zerolog.Logger

	// TolerateErrors skips a failing source instead of failing the fetch.
	TolerateErrors bool
}

// Fetch returns one BrokerData per source, in source order. Trades are
// filtered by f even when the source already filtered them. Positions with no
// mark price are marked with the source's market price when it has one.
func (ft *Fetcher) Fetch(ctx context.Context, f Filter) ([]analytics.BrokerData, error) {
	results := make([]*analytics.BrokerData, len(ft.Sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range ft.Sources {
		g.Go(func() error {
			bd, err := ft.fetchOne(gctx, src, f)
			if err != nil {
				if ft.TolerateErrors && ctx.Err() == nil {
					ft.Log.Warn().Err(err).Str("broker", src.Name()).Msg("skipping broker")
					return nil
				}
				return err
			}
			results[i] = bd
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]analytics.BrokerData, 0, len(results))
	for _, bd := range results {
		if bd != nil {
			out = append(out, *bd)
		}
	}
	return out, nil
}

func (ft *Fetcher) fetchOne(ctx context.Context, src Source, f Filter) (*analytics.BrokerData, error) {
	name := src.Name()

	trades, err := src.GetTrades(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s trades: %w", name, err)
	}
	positions, err := src.GetPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s positions: %w", name, err)
	}
	balance, err := src.GetBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s balance: %w", name, err)
	}

	for i := range positions {
		p := &positions[i]
		if p.BrokerID == "" {
			p.BrokerID = name
		}
		if p.MarkPrice != 0 {
			continue
		}
		mark, err := src.GetMarketPrice(ctx, p.Symbol)
		if err != nil {
			ft.Log.Debug().Err(err).Str("broker", name).Str("symbol", p.Symbol).Msg("no mark price")
			continue
		}
		p.Revalue(mark)
	}

	trades = f.Apply(trades)
	ft.Log.Debug().
		Str("broker", name).
		Int("trades", len(trades)).
		Int("positions", len(positions)).
		Msg("fetched")

	return &analytics.BrokerData{
		BrokerID:  name,
		Trades:    trades,
		Positions: positions,
		Balance:   balance,
	}, nil
}

// Select returns the sources named by ids, in the order of ids. No ids
// selects every source.
func Select(sources []Source, ids []string) ([]Source, error) {
	if len(ids) == 0 {
		return sources, nil
	}
	byName := make(map[string]Source, len(sources))
	for _, s := range sources {
		byName[s.Name()] = s
	}
	out := make([]Source, 0, len(ids))
	for _, id := range ids {
		s, ok := byName[id]
		if !ok {
			return nil, fmt.Errorf("unknown broker %q", id)
		}
		out = append(out, s)
	}
	return out, nil
}
