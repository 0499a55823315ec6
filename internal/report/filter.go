package report

import "strings"

// MatchFilters evaluates every filter against the record's extracted
// dimension values; all filters must pass. A null dimension value never
// matches any predicate.
func MatchFilters(dims DimensionValues, filters []Filter) bool {
	for _, f := range filters {
		val, ok := dims[Dimension(f.Field)]
		if !ok || val == nil {
			return false
		}
		if !matchFilter(*val, f) {
			return false
		}
	}
	return true
}

func matchFilter(val string, f Filter) bool {
	switch f.Op {
	case OpEq:
		return strings.EqualFold(val, strings.TrimSpace(f.Value))
	case OpIn:
		for _, candidate := range f.Values {
			if strings.EqualFold(val, strings.TrimSpace(candidate)) {
				return true
			}
		}
		return false
	case OpContains:
		return strings.Contains(strings.ToLower(val), strings.ToLower(strings.TrimSpace(f.Value)))
	default:
		// The validator guarantees a known op; unknowns match nothing.
		return false
	}
}
