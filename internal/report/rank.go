package report

import (
	"sort"
	"strings"
)

// Rank orders the aggregated rows and truncates to the limit. Truncation
// happens strictly after sorting and after totals are finalized, so totals
// always reflect the full matched population.
//
// With no sort keys, rows fall back to descending revenue when revenue was
// requested, otherwise first-seen order is preserved.
func Rank(rows []Row, keys []SortKey, metrics []Metric, limit int) []Row {
	if len(keys) == 0 {
		keys = defaultSort(metrics)
	}

	if len(keys) > 0 {
		sort.SliceStable(rows, func(i, j int) bool {
			return lessRows(rows[i], rows[j], keys)
		})
	}

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func defaultSort(metrics []Metric) []SortKey {
	for _, m := range metrics {
		if m == MetricRevenue {
			return []SortKey{{Field: string(MetricRevenue), Direction: SortDesc}}
		}
	}
	return nil
}

func lessRows(a, b Row, keys []SortKey) bool {
	for _, key := range keys {
		cmp := compareKey(a, b, key)
		if cmp != 0 {
			return cmp < 0
		}
	}
	return false
}

// compareKey orders two rows on one key: metrics numerically, dimensions
// lexically. Null values sort last ascending and first descending.
func compareKey(a, b Row, key SortKey) int {
	var cmp int
	if isMetric(key.Field) {
		av, aok := a.Metrics[Metric(key.Field)]
		bv, bok := b.Metrics[Metric(key.Field)]
		cmp = compareWithNulls(aok, bok, func() int {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			default:
				return 0
			}
		})
	} else {
		av := a.Dimensions[Dimension(key.Field)]
		bv := b.Dimensions[Dimension(key.Field)]
		cmp = compareWithNulls(av != nil, bv != nil, func() int {
			return strings.Compare(*av, *bv)
		})
	}

	if key.Direction == SortDesc {
		cmp = -cmp
	}
	return cmp
}

// compareWithNulls treats a missing value as greater than any present value,
// which combined with direction inversion yields nulls-last ascending and
// nulls-first descending.
func compareWithNulls(aok, bok bool, compare func() int) int {
	switch {
	case aok && bok:
		return compare()
	case aok:
		return -1
	case bok:
		return 1
	default:
		return 0
	}
}
