// Package report implements the dynamic payment reporting engine: a
// declarative query (time range, dimensions, metrics, filters, sort, limits)
// is validated against a closed vocabulary, a bounded window of payment
// records is scanned once, and grouped aggregates plus global totals are
// returned.
package report

import "time"

// Dimension is a categorical attribute records can be grouped by.
type Dimension string

const (
	DimOperator    Dimension = "operator"
	DimBranch      Dimension = "branch"
	DimPaymentType Dimension = "paymentType"
	DimStatus      Dimension = "status"
	DimDay         Dimension = "day"
)

// Metric is a numeric quantity computed per record and summed per group.
// Margin is derived after aggregation and is never summed directly.
type Metric string

const (
	MetricPayments  Metric = "payments"
	MetricTickets   Metric = "tickets"
	MetricRevenue   Metric = "revenue"
	MetricBusbudRaw Metric = "busbudRaw"
	MetricAdjusted  Metric = "adjusted"
	MetricProfit    Metric = "profit"
	MetricMargin    Metric = "margin"
)

// FilterOp is a per-record predicate operator.
type FilterOp string

const (
	OpEq       FilterOp = "eq"
	OpIn       FilterOp = "in"
	OpContains FilterOp = "contains"
)

// SortDirection orders a sort key ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// RangeKey names a supported time window.
type RangeKey string

const (
	RangeAll    RangeKey = "all"
	RangeToday  RangeKey = "today"
	Range7d     RangeKey = "7d"
	Range30d    RangeKey = "30d"
	RangeCustom RangeKey = "custom"
)

// Filter is one predicate of a report request. Value is used by eq and
// contains, Values by in.
type Filter struct {
	Field  string   `json:"field"`
	Op     FilterOp `json:"op"`
	Value  string   `json:"value,omitempty"`
	Values []string `json:"values,omitempty"`
}

// SortKey is one key of a multi-key sort specification.
type SortKey struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction,omitempty"`
}

// Request is the raw, unvalidated report query as received on the wire.
type Request struct {
	Range       string    `json:"range"`
	DateFrom    string    `json:"dateFrom,omitempty"`
	DateTo      string    `json:"dateTo,omitempty"`
	Dimensions  []string  `json:"dimensions,omitempty"`
	Metrics     []string  `json:"metrics,omitempty"`
	Filters     []Filter  `json:"filters,omitempty"`
	Sort        []SortKey `json:"sort,omitempty"`
	Limit       int       `json:"limit,omitempty"`
	SourceLimit int       `json:"sourceLimit,omitempty"`
}

// Query is the validated, strongly-typed form of a Request. Everything
// downstream of the validator operates on a Query and performs no further
// vocabulary checks.
type Query struct {
	Range       RangeKey
	From        time.Time // zero means unbounded
	To          time.Time // zero means unbounded
	Dimensions  []Dimension
	Metrics     []Metric
	Filters     []Filter
	Sort        []SortKey
	Limit       int
	SourceLimit int
}

// neededDimensions is the set of dimensions that must be extracted per
// record: the requested grouping dimensions plus any dimension referenced by
// a filter or a sort key. Order follows the grouping request.
func (q Query) neededDimensions() []Dimension {
	seen := make(map[Dimension]bool, len(q.Dimensions))
	var dims []Dimension

	add := func(d Dimension) {
		if !seen[d] {
			seen[d] = true
			dims = append(dims, d)
		}
	}

	for _, d := range q.Dimensions {
		add(d)
	}
	for _, f := range q.Filters {
		add(Dimension(f.Field))
	}
	for _, s := range q.Sort {
		if isDimension(s.Field) {
			add(Dimension(s.Field))
		}
	}
	return dims
}

func isDimension(field string) bool {
	switch Dimension(field) {
	case DimOperator, DimBranch, DimPaymentType, DimStatus, DimDay:
		return true
	default:
		return false
	}
}

func isMetric(field string) bool {
	switch Metric(field) {
	case MetricPayments, MetricTickets, MetricRevenue, MetricBusbudRaw, MetricAdjusted, MetricProfit, MetricMargin:
		return true
	default:
		return false
	}
}
