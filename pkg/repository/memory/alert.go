package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/triage/pkg/domain/interfaces"
	"github.com/secmon-lab/triage/pkg/domain/model/alert"
	"github.com/secmon-lab/triage/pkg/domain/model/cases"
	"github.com/secmon-lab/triage/pkg/domain/model/errs"
	"github.com/secmon-lab/triage/pkg/domain/types"
)

var _ interfaces.AlertClient = &Repository{}

func (r *Repository) Search(ctx context.Context, req interfaces.SearchRequest) (*interfaces.SearchResult, error) {
	matchers, err := parseQuery(req.Filter)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid search filter", goerr.V("filter", req.Filter))
	}

	r.mu.RLock()
	var matched alert.Alerts
	for _, a := range r.alerts {
		ok := true
		for _, m := range matchers {
			if !m(a) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, copyAlert(a))
		}
	}
	r.mu.RUnlock()

	sortAlerts(matched, req.Sort)

	total := len(matched)
	if !req.LoadAll && req.PageSize > 0 && len(matched) > req.PageSize {
		matched = matched[:req.PageSize]
	}

	return &interfaces.SearchResult{Values: matched, Total: total}, nil
}

func sortAlerts(values alert.Alerts, keys []string) {
	// later keys are subordinate; apply them first so the stable sort
	// keeps their order within equal primary keys
	for i := len(keys) - 1; i >= 0; i-- {
		key := keys[i]
		desc := strings.HasPrefix(key, "-")
		field := strings.TrimPrefix(strings.TrimPrefix(key, "+"), "-")

		less := lessFunc(field)
		if less == nil {
			continue
		}
		sort.SliceStable(values, func(a, b int) bool {
			if desc {
				return less(values[b], values[a])
			}
			return less(values[a], values[b])
		})
	}
}

func lessFunc(field string) func(a, b *alert.Alert) bool {
	switch field {
	case "date":
		return func(a, b *alert.Alert) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "title":
		return func(a, b *alert.Alert) bool { return a.Title < b.Title }
	case "severity":
		return func(a, b *alert.Alert) bool { return a.Severity < b.Severity }
	case "status":
		return func(a, b *alert.Alert) bool { return a.Status < b.Status }
	case "source":
		return func(a, b *alert.Alert) bool { return a.Source < b.Source }
	case "sourceRef":
		return func(a, b *alert.Alert) bool { return a.SourceRef < b.SourceRef }
	default:
		return nil
	}
}

func (r *Repository) getAlert(id types.AlertID) (*alert.Alert, error) {
	a, ok := r.alerts[id]
	if !ok {
		return nil, goerr.New("alert not found",
			goerr.T(errs.TagNotFound), goerr.V("alert_id", id))
	}
	return a, nil
}

func (r *Repository) Follow(ctx context.Context, id types.AlertID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.getAlert(id)
	if err != nil {
		return err
	}
	a.Follow = true
	return nil
}

func (r *Repository) Unfollow(ctx context.Context, id types.AlertID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.getAlert(id)
	if err != nil {
		return err
	}
	a.Follow = false
	return nil
}

func (r *Repository) MarkAsRead(ctx context.Context, id types.AlertID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.getAlert(id)
	if err != nil {
		return err
	}
	a.Status = types.AlertStatusIgnored
	return nil
}

func (r *Repository) MarkAsUnread(ctx context.Context, id types.AlertID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.getAlert(id)
	if err != nil {
		return err
	}
	a.Status = types.AlertStatusNew
	return nil
}

// BulkRemove deletes the full ID list in one call. All IDs are checked
// before anything is deleted, so the call is all-or-nothing.
func (r *Repository) BulkRemove(ctx context.Context, ids []types.AlertID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if _, err := r.getAlert(id); err != nil {
			return err
		}
	}
	for _, id := range ids {
		delete(r.alerts, id)
	}
	return nil
}

// BulkMergeInto attaches the alerts to the case, marks them Imported
// and returns the updated case.
func (r *Repository) BulkMergeInto(ctx context.Context, ids []types.AlertID, caseID types.CaseID) (*cases.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.casesByID[caseID]
	if !ok {
		return nil, goerr.New("case not found",
			goerr.T(errs.TagNotFound), goerr.V("case_id", caseID))
	}

	for _, id := range ids {
		if _, err := r.getAlert(id); err != nil {
			return nil, err
		}
	}

	for _, id := range ids {
		a := r.alerts[id]
		a.CaseID = caseID
		a.Status = types.AlertStatusImported
		c.AlertIDs = append(c.AlertIDs, id)
	}

	return copyCase(c), nil
}
