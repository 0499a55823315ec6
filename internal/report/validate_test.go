package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var frozenNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func TestValidateRequest_Defaults(t *testing.T) {
	q, err := ValidateRequest(Request{}, frozenNow)
	require.NoError(t, err)

	require.Equal(t, RangeAll, q.Range)
	require.True(t, q.From.IsZero())
	require.True(t, q.To.IsZero())
	require.Empty(t, q.Dimensions)
	require.Equal(t, []Metric{MetricPayments, MetricRevenue}, q.Metrics)
	require.Equal(t, DefaultLimit, q.Limit)
	require.Equal(t, DefaultSourceLimit, q.SourceLimit)
}

func TestValidateRequest_Caps(t *testing.T) {
	q, err := ValidateRequest(Request{Limit: 999999, SourceLimit: 999999}, frozenNow)
	require.NoError(t, err)
	require.Equal(t, MaxLimit, q.Limit)
	require.Equal(t, MaxSourceLimit, q.SourceLimit)

	q, err = ValidateRequest(Request{Limit: 7, SourceLimit: 300}, frozenNow)
	require.NoError(t, err)
	require.Equal(t, 7, q.Limit)
	require.Equal(t, 300, q.SourceLimit)
}

func TestValidateRequest_ClosedVocabulary(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		code string
	}{
		{
			name: "unknown dimension",
			req:  Request{Dimensions: []string{"foo"}},
			code: CodeInvalidDimension,
		},
		{
			name: "unknown metric",
			req:  Request{Metrics: []string{"velocity"}},
			code: CodeInvalidMetric,
		},
		{
			name: "unknown filter field",
			req:  Request{Filters: []Filter{{Field: "city", Op: OpEq, Value: "x"}}},
			code: CodeInvalidFilterField,
		},
		{
			name: "unknown filter op",
			req:  Request{Filters: []Filter{{Field: "status", Op: "like", Value: "x"}}},
			code: CodeInvalidFilterOp,
		},
		{
			name: "unknown sort field",
			req:  Request{Sort: []SortKey{{Field: "popularity"}}},
			code: CodeInvalidSortField,
		},
		{
			name: "unknown sort direction",
			req:  Request{Sort: []SortKey{{Field: "revenue", Direction: "sideways"}}},
			code: CodeInvalidSortDirection,
		},
		{
			name: "unknown range",
			req:  Request{Range: "90d"},
			code: CodeInvalidRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateRequest(tt.req, frozenNow)
			require.Error(t, err)

			verr, ok := err.(*ValidationError)
			require.True(t, ok, "expected *ValidationError, got %T", err)
			require.Equal(t, tt.code, verr.Code)
			require.NotEmpty(t, verr.Message)
		})
	}
}

func TestValidateRequest_SortDirectionDefaultsDesc(t *testing.T) {
	q, err := ValidateRequest(Request{Sort: []SortKey{{Field: "revenue"}}}, frozenNow)
	require.NoError(t, err)
	require.Equal(t, []SortKey{{Field: "revenue", Direction: SortDesc}}, q.Sort)
}

func TestValidateRequest_Ranges(t *testing.T) {
	q, err := ValidateRequest(Request{Range: "today"}, frozenNow)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), q.From)
	require.Equal(t, frozenNow, q.To)

	q, err = ValidateRequest(Request{Range: "7d"}, frozenNow)
	require.NoError(t, err)
	require.Equal(t, frozenNow.Add(-7*24*time.Hour), q.From)
	require.Equal(t, frozenNow, q.To)

	q, err = ValidateRequest(Request{Range: "30d"}, frozenNow)
	require.NoError(t, err)
	require.Equal(t, frozenNow.Add(-30*24*time.Hour), q.From)
}

func TestValidateRequest_CustomRange(t *testing.T) {
	q, err := ValidateRequest(Request{Range: "custom", DateFrom: "2025-01-01", DateTo: "2025-01-31"}, frozenNow)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), q.From)
	// dateTo is inclusive, so the bound is the following midnight.
	require.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), q.To)

	_, err = ValidateRequest(Request{Range: "custom"}, frozenNow)
	require.Error(t, err)
	require.Equal(t, CodeInvalidRange, err.(*ValidationError).Code)

	_, err = ValidateRequest(Request{Range: "custom", DateFrom: "2025-02-01", DateTo: "2025-01-01"}, frozenNow)
	require.Error(t, err)
	require.Equal(t, CodeInvalidRange, err.(*ValidationError).Code)
}

func TestNeededDimensions(t *testing.T) {
	q := Query{
		Dimensions: []Dimension{DimBranch},
		Filters:    []Filter{{Field: "status", Op: OpEq, Value: "paid"}},
		Sort:       []SortKey{{Field: "day", Direction: SortAsc}, {Field: "revenue", Direction: SortDesc}},
	}

	require.Equal(t, []Dimension{DimBranch, DimStatus, DimDay}, q.neededDimensions())
}
