package filter

import (
	"time"
)

// Item is one labeled value of a list facet. Items within a facet are
// ordered and distinct by Text.
type Item struct {
	Text string `json:"text"`
}

// Range is a bounded date interval. A nil bound is open.
type Range struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

// Value is the active value of one facet, a tagged variant discriminated
// by Kind. Exactly the member matching Kind is meaningful.
type Value struct {
	Kind   Kind   `json:"kind"`
	String string `json:"string,omitempty"`
	List   []Item `json:"list,omitempty"`
	Range  *Range `json:"range,omitempty"`
}

func (v Value) clone() Value {
	out := Value{Kind: v.Kind, String: v.String}
	if v.List != nil {
		out.List = make([]Item, len(v.List))
		copy(out.List, v.List)
	}
	if v.Range != nil {
		r := *v.Range
		out.Range = &r
	}
	return out
}

func cloneFilters(src map[string]Value) map[string]Value {
	dst := make(map[string]Value, len(src))
	for k, v := range src {
		dst[k] = v.clone()
	}
	return dst
}

// FullDay returns the range spanning the whole calendar day containing t
// in the given location: 00:00:00.000 to 23:59:59.999.
func FullDay(t time.Time, loc *time.Location) Range {
	local := t.In(loc)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	to := time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
	return Range{From: &from, To: &to}
}
