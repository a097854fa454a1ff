package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/broker"
	"github.com/rustyeddy/tradejournal/trade"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "tradejournal",
		"brokers": len(s.cfg.Sources),
	})
}

func (s *Server) handleBrokers(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.cfg.Sources))
	for _, src := range s.cfg.Sources {
		names = append(names, src.Name())
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"brokers": names})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	data, ok := s.fetch(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.cfg.Analyzer.Consolidate(data))
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	data, ok := s.fetch(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.cfg.Analyzer.CompareBrokers(data))
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	period := s.cfg.Period
	if p := r.URL.Query().Get("period"); p != "" {
		period = analytics.ParsePeriod(p)
	}
	data, ok := s.fetch(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, analytics.PerformanceTimeline(data, period))
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	data, ok := s.fetch(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, analytics.SymbolBreakdown(data))
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	data, ok := s.fetch(w, r)
	if !ok {
		return
	}
	trades := analytics.AggregateTrades(data)
	if trades == nil {
		trades = []trade.Trade{}
	}
	s.writeJSON(w, http.StatusOK, trades)
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	data, ok := s.fetch(w, r)
	if !ok {
		return
	}
	positions := []trade.Position{}
	for _, b := range data {
		positions = append(positions, b.Positions...)
	}
	s.writeJSON(w, http.StatusOK, positions)
}

// fetch pulls data from the brokers named in the request. It writes the
// error response itself and reports whether the handler should continue.
func (s *Server) fetch(w http.ResponseWriter, r *http.Request) ([]analytics.BrokerData, bool) {
	q := r.URL.Query()
	f, err := parseFilter(q)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	sources, err := broker.Select(s.cfg.Sources, q["broker"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	ft := &broker.Fetcher{Sources: sources, Log: s.log, TolerateErrors: s.cfg.TolerateErrors}
	data, err := ft.Fetch(r.Context(), f)
	if err != nil {
		s.log.Error().Err(err).Msg("fetch failed")
		s.writeError(w, http.StatusBadGateway, err.Error())
		return nil, false
	}
	return data, true
}

func parseFilter(q url.Values) (broker.Filter, error) {
	f := broker.Filter{Symbol: q.Get("symbol")}
	if st := q.Get("status"); st != "" {
		f.Status = trade.Status(strings.ToUpper(st))
		switch f.Status {
		case trade.Open, trade.Closed, trade.Cancelled:
		default:
			return f, fmt.Errorf("unknown status %q", st)
		}
	}
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"start", &f.Start}, {"end", &f.End}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		t, err := parseTime(v)
		if err != nil {
			return f, fmt.Errorf("bad %s: %w", p.name, err)
		}
		*p.dst = &t
	}
	if f.Start != nil && f.End != nil && !f.Start.Before(*f.End) {
		return f, fmt.Errorf("start must be before end")
	}
	return f, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(analytics.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("want RFC3339 or %s, got %q", analytics.DateLayout, s)
	}
	return t, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
