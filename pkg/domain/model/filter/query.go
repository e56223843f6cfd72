package filter

import (
	"strings"
	"time"
)

// Query expression grammar, shared with the remote store's search
// endpoint:
//
//	expr   := clause (" AND " clause)*
//	clause := keyword-text
//	        | field:"value"
//	        | (field:"v1" OR field:"v2" ...)
//	        | field:[from TO to]
//
// Range bounds are RFC3339 with fractional seconds kept, so the
// 23:59:59.999 upper bound of a full-day filter survives the round
// trip. An open bound renders as "*".
const (
	rangeOpenBound = "*"
	rangeTimeFmt   = time.RFC3339Nano
)

func quote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `\"`) + `"`
}

// render serializes one active facet. Dispatch is purely on Kind; the
// only field-aware special case is the keyword facet, which contributes
// its raw text.
func render(field string, v Value) string {
	switch v.Kind {
	case KindList:
		if len(v.List) == 0 {
			return ""
		}
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = field + ":" + quote(item.Text)
		}
		return "(" + strings.Join(parts, " OR ") + ")"

	case KindDate:
		if v.Range == nil || (v.Range.From == nil && v.Range.To == nil) {
			return ""
		}
		from, to := rangeOpenBound, rangeOpenBound
		if v.Range.From != nil {
			from = v.Range.From.Format(rangeTimeFmt)
		}
		if v.Range.To != nil {
			to = v.Range.To.Format(rangeTimeFmt)
		}
		return field + ":[" + from + " TO " + to + "]"

	default:
		if v.String == "" {
			return ""
		}
		if field == FieldKeyword {
			return v.String
		}
		return field + ":" + quote(v.String)
	}
}

// buildQuery conjoins the rendered sub-expressions of all active facets
// in registry order. Identical active-filter maps yield byte-identical
// strings regardless of the order the filters were added in.
func buildQuery(registry *Registry, active map[string]Value) string {
	var clauses []string
	for _, field := range registry.Fields() {
		v, ok := active[field]
		if !ok {
			continue
		}
		if clause := render(field, v); clause != "" {
			clauses = append(clauses, clause)
		}
	}
	return strings.Join(clauses, " AND ")
}
