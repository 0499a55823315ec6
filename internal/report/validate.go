package report

import (
	"fmt"
	"strings"
	"time"
)

// Validation error codes returned to clients.
const (
	CodeInvalidDimension     = "INVALID_DIMENSION"
	CodeInvalidMetric        = "INVALID_METRIC"
	CodeInvalidFilterField   = "INVALID_FILTER_FIELD"
	CodeInvalidFilterOp      = "INVALID_FILTER_OP"
	CodeInvalidSortField     = "INVALID_SORT_FIELD"
	CodeInvalidSortDirection = "INVALID_SORT_DIRECTION"
	CodeInvalidRange         = "INVALID_RANGE"
)

// Limits applied to every query regardless of what the caller asks for.
const (
	DefaultLimit       = 100
	MaxLimit           = 5000
	DefaultSourceLimit = 5000
	MaxSourceLimit     = 20000
)

// ValidationError rejects a query referencing anything outside the closed
// vocabulary. Code identifies the offending part of the request.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var defaultMetrics = []Metric{MetricPayments, MetricRevenue}

// ValidateRequest checks every enum-valued field of the request against its
// allow-list, applies defaults and caps, and resolves the time range. It
// fails on the first violation; no record is ever read for an invalid query.
func ValidateRequest(req Request, now time.Time) (Query, error) {
	q := Query{
		Filters: req.Filters,
	}

	for _, d := range req.Dimensions {
		if !isDimension(d) {
			return Query{}, &ValidationError{
				Code:    CodeInvalidDimension,
				Message: fmt.Sprintf("unknown dimension %q, allowed: operator branch paymentType status day", d),
			}
		}
		q.Dimensions = append(q.Dimensions, Dimension(d))
	}

	if len(req.Metrics) == 0 {
		q.Metrics = append(q.Metrics, defaultMetrics...)
	}
	for _, m := range req.Metrics {
		if !isMetric(m) {
			return Query{}, &ValidationError{
				Code:    CodeInvalidMetric,
				Message: fmt.Sprintf("unknown metric %q, allowed: payments tickets revenue busbudRaw adjusted profit margin", m),
			}
		}
		q.Metrics = append(q.Metrics, Metric(m))
	}

	for _, f := range req.Filters {
		if !isDimension(f.Field) {
			return Query{}, &ValidationError{
				Code:    CodeInvalidFilterField,
				Message: fmt.Sprintf("unknown filter field %q, allowed: operator branch paymentType status day", f.Field),
			}
		}
		switch f.Op {
		case OpEq, OpIn, OpContains:
		default:
			return Query{}, &ValidationError{
				Code:    CodeInvalidFilterOp,
				Message: fmt.Sprintf("unknown filter op %q, allowed: eq in contains", f.Op),
			}
		}
	}

	for _, s := range req.Sort {
		if !isDimension(s.Field) && !isMetric(s.Field) {
			return Query{}, &ValidationError{
				Code:    CodeInvalidSortField,
				Message: fmt.Sprintf("unknown sort field %q, allowed: any dimension or metric name", s.Field),
			}
		}
		direction := s.Direction
		if direction == "" {
			direction = SortDesc
		}
		if direction != SortAsc && direction != SortDesc {
			return Query{}, &ValidationError{
				Code:    CodeInvalidSortDirection,
				Message: fmt.Sprintf("unknown sort direction %q, allowed: asc desc", s.Direction),
			}
		}
		q.Sort = append(q.Sort, SortKey{Field: s.Field, Direction: direction})
	}

	q.Limit = capped(req.Limit, DefaultLimit, MaxLimit)
	q.SourceLimit = capped(req.SourceLimit, DefaultSourceLimit, MaxSourceLimit)

	if err := resolveRange(req, now, &q); err != nil {
		return Query{}, err
	}

	return q, nil
}

func capped(requested, fallback, max int) int {
	if requested <= 0 {
		return fallback
	}
	if requested > max {
		return max
	}
	return requested
}

func resolveRange(req Request, now time.Time, q *Query) error {
	now = now.UTC()
	key := RangeKey(strings.TrimSpace(req.Range))
	if key == "" {
		key = RangeAll
	}

	switch key {
	case RangeAll:
	case RangeToday:
		q.From = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		q.To = now
	case Range7d:
		q.From = now.Add(-7 * 24 * time.Hour)
		q.To = now
	case Range30d:
		q.From = now.Add(-30 * 24 * time.Hour)
		q.To = now
	case RangeCustom:
		from, err := time.ParseInLocation("2006-01-02", req.DateFrom, time.UTC)
		if err != nil {
			return &ValidationError{Code: CodeInvalidRange, Message: "custom range requires dateFrom as YYYY-MM-DD"}
		}
		to, err := time.ParseInLocation("2006-01-02", req.DateTo, time.UTC)
		if err != nil {
			return &ValidationError{Code: CodeInvalidRange, Message: "custom range requires dateTo as YYYY-MM-DD"}
		}
		if to.Before(from) {
			return &ValidationError{Code: CodeInvalidRange, Message: "dateTo must not be before dateFrom"}
		}
		q.From = from
		// dateTo is inclusive on the wire, exclusive at the next midnight.
		q.To = to.Add(24 * time.Hour)
	default:
		return &ValidationError{
			Code:    CodeInvalidRange,
			Message: fmt.Sprintf("unknown range %q, allowed: all today 7d 30d custom", req.Range),
		}
	}

	q.Range = key
	return nil
}
