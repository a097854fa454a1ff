package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/broker"
	"github.com/rustyeddy/tradejournal/broker/oanda"
	"github.com/rustyeddy/tradejournal/broker/rest"
	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/journal"
)

func (a *App) analyzer() analytics.Analyzer {
	return analytics.Analyzer{
		RiskFreeRate: a.cfg.Analytics.RiskFreeRate,
		Confidence:   a.cfg.Analytics.Confidence,
	}
}

func (a *App) openJournal() (*journal.SQLite, error) {
	j, err := journal.Open(a.cfg.Journal.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", a.cfg.Journal.DBPath, err)
	}
	return j, nil
}

// sources builds the configured brokers. The journal stays open until the
// returned close func is called.
func (a *App) sources(ctx context.Context) ([]broker.Source, func(), error) {
	var j *journal.SQLite
	closeFn := func() {
		if j != nil {
			_ = j.Close()
		}
	}
	needJournal := len(a.cfg.Brokers) == 0
	for _, b := range a.cfg.Brokers {
		if b.Kind == config.KindJournal {
			needJournal = true
		}
	}
	if needJournal {
		var err error
		if j, err = a.openJournal(); err != nil {
			return nil, nil, err
		}
	}

	if len(a.cfg.Brokers) == 0 {
		ids, err := j.BrokerIDs(ctx)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		out := make([]broker.Source, 0, len(ids))
		for _, id := range ids {
			out = append(out, j.Source(id))
		}
		return out, closeFn, nil
	}

	out := make([]broker.Source, 0, len(a.cfg.Brokers))
	for _, b := range a.cfg.Brokers {
		src, err := a.buildSource(b, j)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		out = append(out, src)
	}
	return out, closeFn, nil
}

func (a *App) buildSource(b config.BrokerConfig, j *journal.SQLite) (broker.Source, error) {
	switch b.Kind {
	case config.KindJournal:
		return j.Source(b.ID), nil

	case config.KindREST:
		return a.restClient(b)

	case config.KindOANDA:
		if b.URL == "" {
			u, err := oanda.BaseURL(b.Env)
			if err != nil {
				return nil, fmt.Errorf("broker %s: %w", b.ID, err)
			}
			b.URL = u
		}
		b.Token = oanda.Token(b.ResolveToken())
		api, err := a.restClient(b)
		if err != nil {
			return nil, err
		}
		return oanda.New(b.ID, b.AccountID, api), nil

	case config.KindMemory:
		m := broker.NewMemory(b.ID)
		if b.File == "" {
			return m, nil
		}
		f, err := os.Open(b.File)
		if err != nil {
			return nil, fmt.Errorf("broker %s: %w", b.ID, err)
		}
		defer f.Close()
		trades, err := journal.ReadTradesCSV(f)
		if err != nil {
			return nil, fmt.Errorf("broker %s: %s: %w", b.ID, b.File, err)
		}
		m.AddTrades(trades...)
		return m, nil

	default:
		return nil, fmt.Errorf("broker %s: unknown kind %q", b.ID, b.Kind)
	}
}

func (a *App) restClient(b config.BrokerConfig) (*rest.Client, error) {
	timeout, err := b.ParseTimeout()
	if err != nil {
		return nil, err
	}
	retries := b.Retries
	if retries == 0 {
		retries = rest.DefaultRetries
	}
	return &rest.Client{
		ID:      b.ID,
		BaseURL: b.URL,
		Token:   b.ResolveToken(),
		Timeout: timeout,
		Retries: retries,
		Log:     a.log,
	}, nil
}
