package report

import (
	"regexp"
	"strings"

	"payment-report-service/internal/model"
)

// UnknownValue is the sentinel for dimension values that cannot be resolved
// from a record.
const UnknownValue = "unknown"

// dayFormat is the calendar bucket layout, anchored to UTC midnight.
const dayFormat = "2006-01-02"

// DimensionValues maps a dimension to its extracted value for one record.
// A nil entry means the value is null (an unparseable day bucket); absent
// entries were simply not requested.
type DimensionValues map[Dimension]*string

// ExtractDimensions derives the requested dimension values from one payment
// record. It is a pure function of the record: malformed or missing fields
// degrade to the unknown sentinel, never an error.
func ExtractDimensions(p model.Payment, dims []Dimension) DimensionValues {
	values := make(DimensionValues, len(dims))
	for _, d := range dims {
		switch d {
		case DimOperator:
			values[d] = strPtr(extractOperator(p.RawPayload))
		case DimBranch:
			values[d] = strPtr(branchFromReference(p.Reference))
		case DimPaymentType:
			method := p.Method
			if method == "" {
				method = "online"
			}
			values[d] = strPtr(method)
		case DimStatus:
			values[d] = strPtr(p.Status)
		case DimDay:
			if p.Timestamp.IsZero() {
				values[d] = nil
			} else {
				values[d] = strPtr(p.Timestamp.UTC().Format(dayFormat))
			}
		}
	}
	return values
}

// Branch derivation rules over the payment reference, tried in priority
// order with the first match winning. The rule order is load-bearing:
// downstream branch reporting depends on consistent bucketing, so do not
// reorder or "improve" these.
var branchRules = []struct {
	pattern *regexp.Regexp
	pick    func(ref string) string
}{
	// 9+ digit reference led by a routing digit: branch is chars 2-3.
	{regexp.MustCompile(`^[123][0-9]{8,}$`), func(ref string) string { return ref[1:3] }},
	// Letter-prefixed numeric reference: branch is the first two digits.
	{regexp.MustCompile(`^[A-Za-z][0-9]{8,}$`), func(ref string) string { return ref[1:3] }},
	// Bare 8-digit reference: branch is the leading two digits.
	{regexp.MustCompile(`^[0-9]{8}$`), func(ref string) string { return ref[0:2] }},
}

func branchFromReference(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return UnknownValue
	}
	for _, rule := range branchRules {
		if rule.pattern.MatchString(ref) {
			return rule.pick(ref)
		}
	}
	return UnknownValue
}

// Candidate locations of the operator name inside the raw purchase payload,
// tried in priority order; the first non-empty trimmed string wins.
var operatorPaths = []func(doc map[string]any) string{
	func(doc map[string]any) string {
		return stringAt(doc, "trips", 0, "segments", 0, "operator", "name")
	},
	func(doc map[string]any) string {
		return stringAt(doc, "items", 0, "operator_name")
	},
	func(doc map[string]any) string {
		return stringAt(doc, "booking", "operator")
	},
	func(doc map[string]any) string {
		return stringAt(doc, "purchase", "operator_name")
	},
}

func extractOperator(doc map[string]any) string {
	if doc == nil {
		return UnknownValue
	}
	for _, path := range operatorPaths {
		if name := strings.TrimSpace(path(doc)); name != "" {
			return name
		}
	}
	return UnknownValue
}

// stringAt walks a nested document through string keys and integer indexes,
// returning "" as soon as any step does not fit the expected shape.
func stringAt(doc map[string]any, path ...any) string {
	var cur any = doc
	for _, step := range path {
		switch key := step.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return ""
			}
			cur = m[key]
		case int:
			list, ok := cur.([]any)
			if !ok || key < 0 || key >= len(list) {
				return ""
			}
			cur = list[key]
		default:
			return ""
		}
	}
	s, _ := cur.(string)
	return s
}

func strPtr(s string) *string {
	return &s
}
