package report

import "strings"

// Row is one aggregated group of the report result.
type Row struct {
	Dimensions map[Dimension]*string `json:"dimensions"`
	Metrics    MetricValues          `json:"metrics"`
}

// Aggregator folds per-record contributions into groups keyed by the
// requested dimension tuple, while accumulating grand totals independently
// of any grouping. One aggregator belongs to exactly one query execution.
type Aggregator struct {
	dims      []Dimension
	requested []Metric
	summables []Metric

	groups map[string]*group
	order  []string
	totals MetricValues
}

type group struct {
	dims DimensionValues
	sums MetricValues
}

const (
	keySeparator = "\x1f"
	keyNull      = "\x00"
)

// NewAggregator prepares an aggregator for the validated query. The fold set
// is the requested summable metrics plus, when margin is requested, the
// revenue and profit sums margin is derived from.
func NewAggregator(q Query) *Aggregator {
	a := &Aggregator{
		dims:      q.Dimensions,
		requested: q.Metrics,
		groups:    make(map[string]*group),
		totals:    MetricValues{},
	}

	seen := make(map[Metric]bool)
	add := func(m Metric) {
		if m != MetricMargin && !seen[m] {
			seen[m] = true
			a.summables = append(a.summables, m)
		}
	}
	for _, m := range q.Metrics {
		if m == MetricMargin {
			add(MetricRevenue)
			add(MetricProfit)
			continue
		}
		add(m)
	}

	for _, m := range a.summables {
		a.totals[m] = 0
	}
	return a
}

// Summables is the set of metrics the calculator must produce per record.
func (a *Aggregator) Summables() []Metric {
	return a.summables
}

// Add folds one filtered record's contribution into its group and into the
// grand totals.
func (a *Aggregator) Add(dims DimensionValues, contrib MetricValues) {
	key := a.groupKey(dims)

	g, ok := a.groups[key]
	if !ok {
		g = &group{
			dims: a.tuple(dims),
			sums: make(MetricValues, len(a.summables)),
		}
		for _, m := range a.summables {
			g.sums[m] = 0
		}
		a.groups[key] = g
		a.order = append(a.order, key)
	}

	for _, m := range a.summables {
		g.sums[m] += contrib[m]
		a.totals[m] += contrib[m]
	}
}

// Finalize derives margin from the summed revenue and profit, per group and
// globally, and returns groups in first-seen order plus the totals bag.
// Summing margins directly would be wrong; only the two-phase sum-then-derive
// form aggregates correctly.
func (a *Aggregator) Finalize() ([]Row, MetricValues) {
	rows := make([]Row, 0, len(a.order))
	for _, key := range a.order {
		g := a.groups[key]
		rows = append(rows, Row{
			Dimensions: g.dims,
			Metrics:    a.finalBag(g.sums),
		})
	}
	return rows, a.finalBag(a.totals)
}

func (a *Aggregator) finalBag(sums MetricValues) MetricValues {
	bag := make(MetricValues, len(a.requested))
	for _, m := range a.requested {
		if m == MetricMargin {
			bag[m] = deriveMargin(sums)
			continue
		}
		bag[m] = sums[m]
	}
	return bag
}

func deriveMargin(sums MetricValues) float64 {
	revenue := sums[MetricRevenue]
	if revenue <= 0 {
		return 0
	}
	return sums[MetricProfit] / revenue
}

// groupKey serializes the requested dimension values in request order so the
// composite key is stable across records.
func (a *Aggregator) groupKey(dims DimensionValues) string {
	parts := make([]string, len(a.dims))
	for i, d := range a.dims {
		if v := dims[d]; v != nil {
			parts[i] = *v
		} else {
			parts[i] = keyNull
		}
	}
	return strings.Join(parts, keySeparator)
}

// tuple copies only the requested dimensions out of the extracted values, so
// filter- or sort-only dimensions never leak into the response.
func (a *Aggregator) tuple(dims DimensionValues) DimensionValues {
	t := make(DimensionValues, len(a.dims))
	for _, d := range a.dims {
		t[d] = dims[d]
	}
	return t
}
