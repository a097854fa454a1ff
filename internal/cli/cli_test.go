package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/broker"
	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/journal"
)

const tradesCSV = `symbol,side,quantity,entry_price,exit_price,entry_time,exit_time
EURUSD,BUY,10,100,110,2024-03-04T09:00:00Z,2024-03-04T12:00:00Z
EURUSD,SELL,5,50,60,2024-03-04T10:00:00Z,2024-03-04T12:30:00Z
AAPL,buy,2,100,125,2024-03-05T09:00:00Z,2024-03-06T12:00:00Z
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error", "--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// seed imports tradesCSV under each broker id and returns the db path.
func seed(t *testing.T, brokers ...string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	db := filepath.Join(dir, "journal.db")
	csvPath := filepath.Join(dir, "trades.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(tradesCSV), 0644))

	for _, b := range brokers {
		out, err := run(t, "--db", db, "import", "--file", csvPath, "--broker", b)
		require.NoError(t, err)
		assert.Contains(t, out, "Imported 3 trades")
	}
	return db, csvPath
}

func TestImportAndStats(t *testing.T) {
	db, _ := seed(t, "alpha")

	out, err := run(t, "--db", db, "stats", "--json")
	require.NoError(t, err)

	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.InDelta(t, 100.0, stats["total_pnl"], 1e-9)
	assert.EqualValues(t, 3, stats["total_trades"])

	out, err = run(t, "--db", db, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "100.00")
}

func TestImportErrors(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "journal.db")

	_, err := run(t, "--db", db, "import")
	assert.ErrorContains(t, err, "--file")

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("symbol,side\nEURUSD,BUY\n"), 0644))
	_, err = run(t, "--db", db, "import", "--file", bad)
	assert.ErrorContains(t, err, "missing column")

	// Rows without a broker id fail validation unless --broker is given.
	good := filepath.Join(dir, "good.csv")
	require.NoError(t, os.WriteFile(good, []byte(tradesCSV), 0644))
	_, err = run(t, "--db", db, "import", "--file", good)
	assert.ErrorContains(t, err, "broker_id")
}

func TestCompareAndFilters(t *testing.T) {
	db, _ := seed(t, "alpha", "beta")

	out, err := run(t, "--db", db, "compare", "--json")
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	// equal totals keep journal order
	assert.Equal(t, "alpha", rows[0]["broker_id"])
	assert.Equal(t, "beta", rows[1]["broker_id"])

	out, err = run(t, "--db", db, "stats", "--json", "--broker", "beta", "--symbol", "AAPL")
	require.NoError(t, err)
	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.InDelta(t, 50.0, stats["total_pnl"], 1e-9)
	assert.EqualValues(t, 1, stats["total_trades"])

	out, err = run(t, "--db", db, "symbols", "--json", "--end", "2024-03-05")
	require.NoError(t, err)
	var syms []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &syms))
	require.Len(t, syms, 1)
	assert.Equal(t, "EURUSD", syms[0]["symbol"])
	assert.InDelta(t, 100.0, syms[0]["total_pnl"], 1e-9)

	_, err = run(t, "--db", db, "stats", "--broker", "nope")
	assert.ErrorContains(t, err, "unknown broker")

	_, err = run(t, "--db", db, "stats", "--start", "yesterday")
	assert.ErrorContains(t, err, "--start")
}

func TestTimeline(t *testing.T) {
	db, _ := seed(t, "alpha")

	out, err := run(t, "--db", db, "timeline", "--json", "--period", "daily")
	require.NoError(t, err)

	var tl map[string][]any
	require.NoError(t, json.Unmarshal([]byte(out), &tl))
	assert.Equal(t, []any{"2024-03-04", "2024-03-05", "2024-03-06"}, tl["dates"])
	assert.Equal(t, []any{50.0, 0.0, 50.0}, tl["period_pnl"])
	assert.Equal(t, []any{50.0, 50.0, 100.0}, tl["cumulative_pnl"])

	out, err = run(t, "--db", db, "timeline", "--period", "monthly")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03-01")
}

func TestExport(t *testing.T) {
	db, _ := seed(t, "alpha")
	dir := t.TempDir()

	for _, name := range []string{"report.xlsx", "report.org", "trades.csv"} {
		path := filepath.Join(dir, name)
		out, err := run(t, "--db", db, "export", "--out", path)
		require.NoError(t, err, name)
		assert.Contains(t, out, "3 trades")
		assert.FileExists(t, path)
	}

	f, err := os.Open(filepath.Join(dir, "trades.csv"))
	require.NoError(t, err)
	defer f.Close()
	trades, err := journal.ReadTradesCSV(f)
	require.NoError(t, err)
	assert.Len(t, trades, 3)
	for _, tr := range trades {
		assert.Equal(t, "alpha", tr.BrokerID)
	}

	org, err := os.ReadFile(filepath.Join(dir, "report.org"))
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(org), "*** Trade:"))

	_, err = run(t, "--db", db, "export", "--out", filepath.Join(dir, "report.pdf"))
	assert.ErrorContains(t, err, "unsupported export format")
	_, err = run(t, "--db", db, "export")
	assert.ErrorContains(t, err, "--out")
}

func TestJournalCommands(t *testing.T) {
	db, _ := seed(t, "alpha")

	exit := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC).In(time.Local).Format("2006-01-02")
	out, err := run(t, "--db", db, "journal", "day", exit)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "*** Trade:"))
	assert.Contains(t, out, ":BROKER:      alpha")

	j, err := journal.Open(db)
	require.NoError(t, err)
	trades, err := j.ListTrades(t.Context(), "alpha", broker.Filter{Symbol: "AAPL"})
	require.NoError(t, err)
	require.NoError(t, j.Close())
	require.Len(t, trades, 1)

	out, err = run(t, "--db", db, "journal", "trade", trades[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "*** Trade: AAPL BUY")

	_, err = run(t, "--db", db, "journal", "trade", "missing")
	assert.ErrorIs(t, err, journal.ErrNotFound)

	_, err = run(t, "--db", db, "journal", "day", "04/03/2024")
	assert.ErrorContains(t, err, "date")
}

func TestConfiguredBrokers(t *testing.T) {
	db, csvPath := seed(t, "alpha")
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Journal.DBPath = db
	cfg.Brokers = []config.BrokerConfig{
		{ID: "alpha", Kind: config.KindJournal},
		{ID: "paper", Kind: config.KindMemory, File: csvPath},
	}
	cfgPath := filepath.Join(dir, "tradejournal.yaml")
	require.NoError(t, cfg.SaveToFile(cfgPath))

	out, err := run(t, "--config", cfgPath, "compare", "--json")
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "alpha", rows[0]["broker_id"])
	assert.Equal(t, "paper", rows[1]["broker_id"])

	// sync copies the paper broker's trades into the journal
	out, err = run(t, "--config", cfgPath, "sync", "--broker", "paper")
	require.NoError(t, err)
	assert.Contains(t, out, "paper: 3 trades")

	out, err = run(t, "--db", db, "compare", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Len(t, rows, 2)
}

func TestOANDABroker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/v3/accounts/001/trades":
			fmt.Fprint(w, `{"trades":[{"id":"7","instrument":"EUR_USD","price":"1.1000","openTime":"2024-03-04T09:00:00Z",`+
				`"state":"CLOSED","initialUnits":"-1000","realizedPL":"20.0000","financing":"0",`+
				`"averageClosePrice":"1.0800","closeTime":"2024-03-04T11:00:00Z"}]}`)
		case "/v3/accounts/001/openPositions":
			fmt.Fprint(w, `{"positions":[]}`)
		case "/v3/accounts/001/summary":
			fmt.Fprint(w, `{"account":{"currency":"USD","balance":"5000","NAV":"5000","marginUsed":"0","marginAvailable":"5000"}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	t.Setenv("OANDA_TOKEN", "secret")

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Journal.DBPath = filepath.Join(dir, "journal.db")
	cfg.Brokers = []config.BrokerConfig{{ID: "fx", Kind: config.KindOANDA, URL: srv.URL, AccountID: "001"}}
	cfgPath := filepath.Join(dir, "tradejournal.json")
	require.NoError(t, cfg.SaveToFile(cfgPath))

	out, err := run(t, "--config", cfgPath, "stats", "--json")
	require.NoError(t, err)
	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.InDelta(t, 20.0, stats["total_pnl"], 1e-9)
	assert.InDelta(t, 5000.0, stats["total_balance"], 1e-9)

	out, err = run(t, "--config", cfgPath, "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "fx: 1 trades")

	j, err := journal.Open(cfg.Journal.DBPath)
	require.NoError(t, err)
	defer j.Close()
	tr, err := j.GetTrade(t.Context(), "fx-7")
	require.NoError(t, err)
	assert.Equal(t, "SELL", string(tr.Side))
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tj.yaml")

	out, err := run(t, "config", "init", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, err = run(t, "config", "validate", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "journal (journal)")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("analytics:\n  period: hourly\n"), 0644))
	_, err = run(t, "config", "validate", "--file", bad)
	assert.ErrorContains(t, err, "validation failed")

	_, err = run(t, "--config", bad, "stats")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tradejournal version "+version)
}
