package listview

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/triage/pkg/domain/interfaces"
	"github.com/secmon-lab/triage/pkg/domain/model/alert"
	"github.com/secmon-lab/triage/pkg/domain/model/errs"
	"github.com/secmon-lab/triage/pkg/utils/logging"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
)

// List owns the fetched page of the triage queue: the visible alerts,
// the total match count, the current sort keys and page size. A refresh
// replaces the page wholesale; a failed refresh reports its error but
// never blanks the last good page.
//
// Every outgoing fetch carries a monotonically increasing token. When a
// response arrives after a newer fetch has been issued, it is discarded
// with errs.ErrStaleQuery so a slow stale response can never overwrite
// newer results.
type List struct {
	client interfaces.AlertClient

	mu            sync.Mutex
	seq           atomic.Uint64
	filter        string
	lastSubmitted string
	submitted     bool
	sort          []string
	pageSize      int
	values        alert.Alerts
	total         int
	status        Status

	onReplace func()
}

type Option func(*List)

func WithSort(sort []string) Option {
	return func(l *List) {
		l.sort = append([]string{}, sort...)
	}
}

func WithPageSize(size int) Option {
	return func(l *List) {
		l.pageSize = size
	}
}

// WithOnReplace registers a callback fired after each successful page
// replacement, e.g. to reset the selection. The callback runs with the
// list unlocked and may read it back.
func WithOnReplace(fn func()) Option {
	return func(l *List) {
		l.onReplace = fn
	}
}

func New(client interfaces.AlertClient, opts ...Option) *List {
	l := &List{
		client:   client,
		sort:     []string{"-date"},
		pageSize: 15,
		status:   StatusIdle,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Refresh fetches the current page from the store and replaces the
// visible values wholesale. A response superseded by a newer refresh is
// discarded and reported as errs.ErrStaleQuery; callers treat that as a
// no-op, never as a fault.
func (l *List) Refresh(ctx context.Context) error {
	token := l.seq.Add(1)

	l.mu.Lock()
	l.status = StatusLoading
	req := interfaces.SearchRequest{
		Filter:   l.filter,
		Sort:     append([]string{}, l.sort...),
		PageSize: l.pageSize,
		LoadAll:  false,
	}
	l.mu.Unlock()

	result, err := l.client.Search(ctx, req)

	l.mu.Lock()

	if token != l.seq.Load() {
		l.mu.Unlock()
		logging.From(ctx).Debug("discarding stale search response",
			"token", token, "current", l.seq.Load())
		return errs.ErrStaleQuery
	}

	if err != nil {
		// keep the last good page visible
		if len(l.values) > 0 {
			l.status = StatusReady
		} else {
			l.status = StatusIdle
		}
		l.mu.Unlock()
		return goerr.Wrap(err, "failed to refresh alert list", goerr.V("filter", req.Filter))
	}

	l.values = result.Values
	l.total = result.Total
	l.status = StatusReady
	l.mu.Unlock()

	// the callback runs outside the lock so it can read the list
	if l.onReplace != nil {
		l.onReplace()
	}

	return nil
}

// ApplyQuery submits a new serialized query. The query is diffed against
// the last submitted one: an edit that re-serializes to the same string
// does not trigger a fetch.
func (l *List) ApplyQuery(ctx context.Context, query string) error {
	l.mu.Lock()
	if l.submitted && l.lastSubmitted == query {
		l.mu.Unlock()
		return nil
	}
	l.filter = query
	l.lastSubmitted = query
	l.submitted = true
	l.mu.Unlock()

	return l.Refresh(ctx)
}

func (l *List) SetPageSize(ctx context.Context, size int) error {
	if size <= 0 {
		return goerr.New("page size must be positive", goerr.V("size", size))
	}
	l.mu.Lock()
	l.pageSize = size
	l.mu.Unlock()
	return l.Refresh(ctx)
}

func (l *List) SetSort(ctx context.Context, sort []string) error {
	l.mu.Lock()
	l.sort = append([]string{}, sort...)
	l.mu.Unlock()
	return l.Refresh(ctx)
}

// ToggleSort computes the next sort key for a column click: clicking the
// currently ascending column flips it to descending and vice versa;
// clicking a different column always starts ascending.
func ToggleSort(current []string, field string) []string {
	var cur string
	if len(current) > 0 {
		cur = current[0]
	}

	if strings.TrimPrefix(strings.TrimPrefix(cur, "+"), "-") != field {
		return []string{"+" + field}
	}
	if cur == "+"+field {
		return []string{"-" + field}
	}
	return []string{"+" + field}
}

// SortByField applies the column-click toggle and refreshes. The new
// sort is returned so callers can persist it in the filter context.
func (l *List) SortByField(ctx context.Context, field string) ([]string, error) {
	l.mu.Lock()
	next := ToggleSort(l.sort, field)
	l.sort = next
	l.mu.Unlock()

	if err := l.Refresh(ctx); err != nil {
		return next, err
	}
	return next, nil
}

// Values returns the visible page. The returned slice is owned by the
// list and replaced wholesale on refresh; selection toggling mutates the
// alerts in place.
func (l *List) Values() alert.Alerts {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.values
}

func (l *List) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

func (l *List) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

func (l *List) Sort() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.sort...)
}

func (l *List) PageSize() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pageSize
}
