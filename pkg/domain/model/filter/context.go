package filter

import (
	"context"
)

// ContextKey is the key under which the triage queue persists its filter
// context.
const ContextKey = "alert-section"

// Context is the persisted filter state of one list view. It is read on
// view activation and written back on every filter mutation.
type Context struct {
	ShowFilters bool             `json:"show_filters"`
	ShowStats   bool             `json:"show_stats"`
	PageSize    int              `json:"page_size"`
	Sort        []string         `json:"sort"`
	Filters     map[string]Value `json:"filters"`
}

// Store persists filter contexts across navigation. Get returns nil
// without error when no context has been saved under the key yet.
type Store interface {
	GetContext(ctx context.Context, key string) (*Context, error)
	PutContext(ctx context.Context, key string, fctx *Context) error
}
