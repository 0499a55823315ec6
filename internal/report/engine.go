package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"payment-report-service/internal/model"
)

// RecordSource supplies the bounded, time-ordered payment window a report
// aggregates over. Zero from/to mean an unbounded side.
type RecordSource interface {
	FetchWindow(ctx context.Context, from, to time.Time, limit int) ([]model.Payment, error)
}

// RangeEcho reports the resolved time window back to the caller.
type RangeEcho struct {
	Key      RangeKey `json:"key"`
	DateFrom string   `json:"dateFrom,omitempty"`
	DateTo   string   `json:"dateTo,omitempty"`
}

// Result is the payload of a successful report query.
type Result struct {
	Range       RangeEcho    `json:"range"`
	Dimensions  []Dimension  `json:"dimensions"`
	Metrics     []Metric     `json:"metrics"`
	Filters     []Filter     `json:"filters"`
	Sort        []SortKey    `json:"sort"`
	TotalGroups int          `json:"totalGroups"`
	Totals      MetricValues `json:"totals"`
	Rows        []Row        `json:"rows"`
}

// Engine runs declarative report queries over a record source. Each query
// execution owns its aggregation state; the engine itself is stateless and
// safe for concurrent use.
type Engine struct {
	source RecordSource
	log    zerolog.Logger
	now    func() time.Time
}

// NewEngine builds a report engine over the given record source.
func NewEngine(source RecordSource, log zerolog.Logger) *Engine {
	return &Engine{
		source: source,
		log:    log,
		now:    time.Now,
	}
}

// Run validates the request, scans the record window once, folds filtered
// records into groups and grand totals, derives post-aggregation metrics,
// sorts and truncates. A source read failure aborts the whole query; no
// partial aggregate is ever returned.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	q, err := ValidateRequest(req, e.now())
	if err != nil {
		return nil, err
	}

	records, err := e.source.FetchWindow(ctx, q.From, q.To, q.SourceLimit)
	if err != nil {
		e.log.Error().
			Err(err).
			Str("range", string(q.Range)).
			Time("from", q.From).
			Time("to", q.To).
			Int("source_limit", q.SourceLimit).
			Msg("record source read failed")
		return nil, fmt.Errorf("fetch report window: %w", err)
	}

	needed := q.neededDimensions()
	agg := NewAggregator(q)
	summables := agg.Summables()

	for _, record := range records {
		dims := ExtractDimensions(record, needed)
		if !MatchFilters(dims, q.Filters) {
			continue
		}
		agg.Add(dims, ComputeMetrics(record, summables))
	}

	rows, totals := agg.Finalize()
	totalGroups := len(rows)
	rows = Rank(rows, q.Sort, q.Metrics, q.Limit)

	return &Result{
		Range:       rangeEcho(q),
		Dimensions:  orEmptyDims(q.Dimensions),
		Metrics:     q.Metrics,
		Filters:     orEmptyFilters(q.Filters),
		Sort:        orEmptySort(q.Sort),
		TotalGroups: totalGroups,
		Totals:      totals,
		Rows:        rows,
	}, nil
}

func rangeEcho(q Query) RangeEcho {
	echo := RangeEcho{Key: q.Range}
	if !q.From.IsZero() {
		echo.DateFrom = q.From.UTC().Format(dayFormat)
	}
	if !q.To.IsZero() {
		echo.DateTo = q.To.UTC().Format(dayFormat)
	}
	return echo
}

// JSON should carry [] rather than null for omitted lists.
func orEmptyDims(dims []Dimension) []Dimension {
	if dims == nil {
		return []Dimension{}
	}
	return dims
}

func orEmptyFilters(filters []Filter) []Filter {
	if filters == nil {
		return []Filter{}
	}
	return filters
}

func orEmptySort(sort []SortKey) []SortKey {
	if sort == nil {
		return []SortKey{}
	}
	return sort
}
