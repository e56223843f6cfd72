package filter

import (
	"strconv"

	"github.com/secmon-lab/triage/pkg/domain/types"
)

// Kind is the value-type discriminant of a facet. The query serializer
// dispatches purely on Kind; no facet-specific logic belongs there.
type Kind string

const (
	KindString Kind = "string"
	KindList   Kind = "list"
	KindDate   Kind = "date"
)

// FieldKeyword is the free-text facet. Its value is rendered as-is into
// the query expression instead of a field:"value" clause.
const FieldKeyword = "keyword"

// Definition describes one facet of the triage queue. Definitions are
// immutable and declared once per facet.
//
// Convert, when set, maps a raw display value to its persisted form
// (e.g. a severity label to its numeric code). It must be pure. A false
// return means the raw value has no mapping; the caller drops the value
// silently rather than failing.
type Definition struct {
	Field   string
	Kind    Kind
	Label   string
	Convert func(string) (string, bool)
}

// Registry is the ordered, static catalogue of facet definitions. The
// declaration order fixes the serialization order of the query
// expression, which keeps BuildQuery deterministic.
type Registry struct {
	defs  []Definition
	index map[string]int
}

func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{
		defs:  defs,
		index: make(map[string]int, len(defs)),
	}
	for i, def := range defs {
		r.index[def.Field] = i
	}
	return r
}

func (r *Registry) Get(field string) (*Definition, bool) {
	i, ok := r.index[field]
	if !ok {
		return nil, false
	}
	return &r.defs[i], true
}

// Fields returns the facet fields in declaration order.
func (r *Registry) Fields() []string {
	fields := make([]string, len(r.defs))
	for i, def := range r.defs {
		fields[i] = def.Field
	}
	return fields
}

// DefaultRegistry is the facet catalogue of the alert triage queue.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Definition{Field: FieldKeyword, Kind: KindString},
		Definition{Field: "status", Kind: KindList, Label: "Status"},
		Definition{Field: "tags", Kind: KindList, Label: "Tags"},
		Definition{Field: "source", Kind: KindList, Label: "Source"},
		Definition{Field: "type", Kind: KindList, Label: "Type"},
		Definition{
			Field: "severity",
			Kind:  KindList,
			Label: "Severity",
			Convert: func(label string) (string, bool) {
				sev, ok := types.SeverityFromLabel(label)
				if !ok {
					return "", false
				}
				return strconv.Itoa(int(sev)), true
			},
		},
		Definition{Field: "title", Kind: KindString, Label: "Title"},
		Definition{Field: "sourceRef", Kind: KindString, Label: "Reference"},
		Definition{Field: "date", Kind: KindDate, Label: "Date"},
	)
}

// DefaultFilters is the default filter set of the alert triage queue: a
// status filter of New and Updated. Clear restores this set, not an
// empty map.
func DefaultFilters() map[string]Value {
	return map[string]Value{
		"status": {
			Kind: KindList,
			List: []Item{
				{Text: string(types.AlertStatusNew)},
				{Text: string(types.AlertStatusUpdated)},
			},
		},
	}
}
