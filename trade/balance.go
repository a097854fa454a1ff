package trade

import (
	"sort"
	"time"
)

// Balance is a per-broker account snapshot. Each bucket maps a currency code
// to an amount. Amounts in different currencies are never converted.
type Balance struct {
	Time   time.Time          `json:"time"`
	Total  map[string]float64 `json:"total,omitempty"`
	Free   map[string]float64 `json:"free,omitempty"`
	Used   map[string]float64 `json:"used,omitempty"`
	Equity *float64           `json:"equity,omitempty"`
	Margin *float64           `json:"margin,omitempty"`
}

// SumTotal adds up the Total bucket across currencies. A nil balance or a
// missing Total bucket contributes nothing.
func (b *Balance) SumTotal() float64 {
	if b == nil {
		return 0
	}
	sum := 0.0
	for _, amt := range b.Total {
		sum += amt
	}
	return sum
}

// Currencies lists the currencies present in any bucket, sorted.
func (b *Balance) Currencies() []string {
	if b == nil {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, bucket := range []map[string]float64{b.Total, b.Free, b.Used} {
		for ccy := range bucket {
			if !seen[ccy] {
				seen[ccy] = true
				out = append(out, ccy)
			}
		}
	}
	sort.Strings(out)
	return out
}
