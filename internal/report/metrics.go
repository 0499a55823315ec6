package report

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"

	"payment-report-service/internal/model"
)

var minorUnitFactor = decimal.NewFromInt(100)

// MetricValues holds one record's contribution per summable metric.
type MetricValues map[Metric]float64

// ComputeMetrics derives the per-record contribution for every metric in the
// requested set. Margin is never computed here: it is a post-aggregation
// ratio, derived once per group and once for the grand totals.
func ComputeMetrics(p model.Payment, metrics []Metric) MetricValues {
	adjusted := p.Amount
	raw, hasRaw := rawTotal(p.RawPayload)
	if !hasRaw {
		// No derivable upstream total: the settlement amount stands in.
		raw = adjusted
	}

	values := make(MetricValues, len(metrics))
	for _, m := range metrics {
		switch m {
		case MetricPayments:
			values[m] = 1
		case MetricTickets:
			values[m] = float64(itemCount(p.RawPayload))
		case MetricRevenue, MetricAdjusted:
			values[m] = adjusted.InexactFloat64()
		case MetricBusbudRaw:
			values[m] = raw.InexactFloat64()
		case MetricProfit:
			values[m] = adjusted.Sub(raw).InexactFloat64()
		}
	}
	return values
}

// rawTotal digs the upstream charge total out of the nested payload. The
// stored figure is in minor currency units.
func rawTotal(doc map[string]any) (decimal.Decimal, bool) {
	if doc == nil {
		return decimal.Zero, false
	}
	for _, path := range [][]any{
		{"summary", "charge", "total"},
		{"charge", "total_cents"},
	} {
		if cents, ok := decimalAt(doc, path...); ok {
			return cents.Div(minorUnitFactor), true
		}
	}
	return decimal.Zero, false
}

func itemCount(doc map[string]any) int {
	if doc == nil {
		return 0
	}
	items, _ := doc["items"].([]any)
	return len(items)
}

// decimalAt resolves a nested numeric value, accepting the shapes a decoded
// JSON document can carry a number in.
func decimalAt(doc map[string]any, path ...any) (decimal.Decimal, bool) {
	var cur any = doc
	for _, step := range path {
		switch key := step.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return decimal.Zero, false
			}
			cur = m[key]
		case int:
			list, ok := cur.([]any)
			if !ok || key < 0 || key >= len(list) {
				return decimal.Zero, false
			}
			cur = list[key]
		default:
			return decimal.Zero, false
		}
	}
	return toDecimal(cur)
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		if _, err := strconv.ParseFloat(n, 64); err != nil {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(n)
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}
