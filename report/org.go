package report

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/rustyeddy/tradejournal/risk"
	"github.com/rustyeddy/tradejournal/trade"
)

var orgFuncs = template.FuncMap{
	"f2":      func(x float64) string { return fmt.Sprintf("%.2f", x) },
	"join":    strings.Join,
	"shortID": shortID,
	"stamp":   func(t time.Time) string { return t.Format("2006-01-02 Mon 15:04") },
	"rfc":     func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
	"opt": func(p *float64) string {
		if p == nil {
			return "-"
		}
		return fmt.Sprintf("%.5f", *p)
	},
	"optTime": func(p *time.Time) string {
		if p == nil {
			return "-"
		}
		return p.UTC().Format(time.RFC3339)
	},
	"plan": func(t trade.Trade) string {
		pr, rr := risk.Plan(t)
		if pr == 0 {
			return "-"
		}
		return fmt.Sprintf("%.2f (R:R %.2f)", pr, rr)
	},
}

var orgTemplate = template.Must(template.Must(
	template.New("report").Funcs(orgFuncs).Parse(OrgTemplate)).Parse(tradeOrgTemplate))

// WriteOrg renders wb as an Org-mode document. Each closed trade gets its own
// heading with Thesis/Execution/Review placeholders for journaling.
func WriteOrg(w io.Writer, wb Workbook) error {
	return orgTemplate.Execute(w, wb)
}

// WriteTradesOrg renders only the closed trades, one heading each.
func WriteTradesOrg(w io.Writer, trades []trade.Trade) error {
	return orgTemplate.ExecuteTemplate(w, "trades", trades)
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

const OrgTemplate = `* JOURNAL: {{if .Brokers}}{{join .Brokers ", "}}{{else}}(no brokers){{end}}
:PROPERTIES:
:CREATED:     [{{stamp .Generated}}]
:PERIOD:      {{.Period}}
:NET_PL:      {{f2 .Stats.TotalPnL}}
:BALANCE:     {{f2 .Stats.TotalBalance}}
:TRADES:      {{.Stats.TotalTrades}}
:WINS:        {{.Stats.WinningTrades}}
:LOSSES:      {{.Stats.LosingTrades}}
:WIN_RATE:    {{f2 .Stats.WinRate}}
:PROFIT_FAC:  {{if ne .Stats.ProfitFactor 0.0}}{{f2 .Stats.ProfitFactor}}{{else}}(no losses){{end}}
:SHARPE:      {{f2 .Stats.SharpeRatio}}
:MAX_DD:      {{f2 .Stats.MaxDrawdown}}
:MAX_DD_PCT:  {{f2 .Stats.MaxDrawdownPercent}}
:VAR_95:      {{f2 .Stats.VaR95}}
:END:

** Performance Summary
- Net P/L:          *{{f2 .Stats.TotalPnL}}*
- Win Rate:         *{{f2 .Stats.WinRate}}%*
- Expectancy:       *{{f2 .Stats.Expectancy}}*
- Max Drawdown:     *{{f2 .Stats.MaxDrawdown}}* over {{.Stats.DurationDays}} days
- Open Positions:   *{{.Stats.OpenPositions}}* (exposure {{f2 .Stats.TotalOpenRisk}}, unrealized {{f2 .Stats.TotalUnrealizedPnL}})

** Brokers
| Broker | P/L | Trades | Win % | Sharpe | Max DD | Balance |
|--------+-----+--------+-------+--------+--------+---------|
{{- range .Comparison }}
| {{.BrokerID}} | {{f2 .TotalPnL}} | {{.TotalTrades}} | {{f2 .WinRate}} | {{f2 .SharpeRatio}} | {{f2 .MaxDrawdown}} | {{f2 .Balance}} |
{{- end }}

** Symbols
| Symbol | P/L | Trades | Win % |
|--------+-----+--------+-------|
{{- range .Symbols }}
| {{.Symbol}} | {{f2 .TotalPnL}} | {{.TradeCount}} | {{f2 .WinRate}} |
{{- end }}

** Timeline
| Period | P/L | Cumulative |
|--------+-----+------------|
{{- range $i, $d := .Timeline.Dates }}
| {{$d}} | {{f2 (index $.Timeline.PeriodPnL $i)}} | {{f2 (index $.Timeline.CumulativePnL $i)}} |
{{- end }}

** Trades
{{- template "trades" .Trades }}
`

// tradeOrgTemplate renders closed trades as journal headings.
const tradeOrgTemplate = `{{define "trades"}}
{{- range . }}
{{- if .IsClosed }}
*** Trade: {{.Symbol}} {{.Side}} ({{shortID .ID}})
:PROPERTIES:
:ID:          {{.ID}}
:BROKER:      {{.BrokerID}}
:SYMBOL:      {{.Symbol}}
:SIDE:        {{.Side}}
:QUANTITY:    {{.Quantity}}
:ENTRY_PRICE: {{printf "%.5f" .EntryPrice}}
:EXIT_PRICE:  {{opt .ExitPrice}}
:ENTRY_TIME:  {{rfc .EntryTime}}
:EXIT_TIME:   {{optTime .ExitTime}}
:PNL:         {{f2 .RealizedPnL}}
:PLANNED:     {{plan .}}
{{- if .Tags }}
:TAGS:        {{join .Tags " "}}
{{- end }}
:END:
**** Thesis
- {{.Notes}}
**** Execution
- 
**** Review
- 
{{- end }}
{{- end }}
{{end}}`
