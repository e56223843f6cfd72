package filter

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/triage/pkg/utils/clock"
)

const (
	DefaultPageSize = 15
)

// DefaultSort orders the queue by newest alert first.
var DefaultSort = []string{"-date"}

// Model holds the active facet filters of one list view and serializes
// them into a single query expression. Every mutating operation persists
// the filter context through the Store before returning, so callers can
// safely re-derive and re-fetch once the call completes.
type Model struct {
	registry *Registry
	store    Store
	key      string

	defaults map[string]Value

	active      map[string]Value
	showFilters bool
	showStats   bool
	pageSize    int
	sort        []string
}

type ModelOption func(*Model)

// WithDefaults replaces the default filter set restored by Clear.
func WithDefaults(filters map[string]Value) ModelOption {
	return func(m *Model) {
		m.defaults = cloneFilters(filters)
	}
}

// NewModel builds a filter model for the given registry and restores its
// saved context from the store, falling back to the defaults (page size
// 15, sort by newest, default filter set) when none has been saved yet.
func NewModel(ctx context.Context, registry *Registry, store Store, key string, opts ...ModelOption) (*Model, error) {
	m := &Model{
		registry: registry,
		store:    store,
		key:      key,
		defaults: DefaultFilters(),
		pageSize: DefaultPageSize,
		sort:     append([]string{}, DefaultSort...),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.active = cloneFilters(m.defaults)

	saved, err := store.GetContext(ctx, key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to restore filter context", goerr.V("key", key))
	}
	if saved != nil {
		m.showFilters = saved.ShowFilters
		m.showStats = saved.ShowStats
		if saved.PageSize > 0 {
			m.pageSize = saved.PageSize
		}
		if len(saved.Sort) > 0 {
			m.sort = append([]string{}, saved.Sort...)
		}
		if saved.Filters != nil {
			m.active = cloneFilters(saved.Filters)
		}
	}

	return m, nil
}

func (m *Model) persist(ctx context.Context) error {
	fctx := &Context{
		ShowFilters: m.showFilters,
		ShowStats:   m.showStats,
		PageSize:    m.pageSize,
		Sort:        append([]string{}, m.sort...),
		Filters:     cloneFilters(m.active),
	}
	if err := m.store.PutContext(ctx, m.key, fctx); err != nil {
		return goerr.Wrap(err, "failed to persist filter context", goerr.V("key", m.key))
	}
	return nil
}

// AddValue adds a raw value to the facet's active filter. List facets
// get an idempotent append (exact, case-sensitive match on the item
// text); date facets are replaced by the full calendar day containing
// the value; string facets are replaced by the scalar. A Convert rule on
// the definition is applied first, and a value it cannot map is dropped
// silently.
func (m *Model) AddValue(ctx context.Context, field, raw string) error {
	def, ok := m.registry.Get(field)
	if !ok {
		return goerr.New("unknown filter field", goerr.V("field", field))
	}

	if def.Convert != nil {
		converted, ok := def.Convert(raw)
		if !ok {
			return nil
		}
		raw = converted
	}

	switch def.Kind {
	case KindList:
		v := m.active[field]
		v.Kind = KindList
		exists := false
		for _, item := range v.List {
			if item.Text == raw {
				exists = true
				break
			}
		}
		if !exists {
			v.List = append(v.List, Item{Text: raw})
		}
		m.active[field] = v

	case KindDate:
		t, err := parseDate(raw, clock.Timezone(ctx))
		if err != nil {
			return goerr.Wrap(err, "invalid date filter value", goerr.V("field", field), goerr.V("value", raw))
		}
		day := FullDay(t, clock.Timezone(ctx))
		m.active[field] = Value{Kind: KindDate, Range: &day}

	default:
		m.active[field] = Value{Kind: KindString, String: raw}
	}

	return m.persist(ctx)
}

func parseDate(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// Remove deletes the facet's active filter. Removing an absent facet is
// a no-op but still persists the context.
func (m *Model) Remove(ctx context.Context, field string) error {
	delete(m.active, field)
	return m.persist(ctx)
}

// Clear resets the active filters to the registry's default filter set.
func (m *Model) Clear(ctx context.Context) error {
	m.active = cloneFilters(m.defaults)
	return m.persist(ctx)
}

// BuildQuery serializes the active filters into one query expression.
// It returns the empty string when no filter is active.
func (m *Model) BuildQuery() string {
	return buildQuery(m.registry, m.active)
}

// Active returns a copy of the active filter map.
func (m *Model) Active() map[string]Value {
	return cloneFilters(m.active)
}

func (m *Model) Sort() []string {
	return append([]string{}, m.sort...)
}

func (m *Model) SetSort(ctx context.Context, sort []string) error {
	m.sort = append([]string{}, sort...)
	return m.persist(ctx)
}

func (m *Model) PageSize() int {
	return m.pageSize
}

func (m *Model) SetPageSize(ctx context.Context, size int) error {
	if size <= 0 {
		return goerr.New("page size must be positive", goerr.V("size", size))
	}
	m.pageSize = size
	return m.persist(ctx)
}

func (m *Model) ShowFilters() bool { return m.showFilters }
func (m *Model) ShowStats() bool   { return m.showStats }

func (m *Model) ToggleFilters(ctx context.Context) error {
	m.showFilters = !m.showFilters
	return m.persist(ctx)
}

func (m *Model) ToggleStats(ctx context.Context) error {
	m.showStats = !m.showStats
	return m.persist(ctx)
}
