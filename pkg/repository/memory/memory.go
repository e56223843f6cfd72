package memory

import (
	"context"
	"sync"

	"github.com/secmon-lab/triage/pkg/domain/model/alert"
	"github.com/secmon-lab/triage/pkg/domain/model/cases"
	"github.com/secmon-lab/triage/pkg/domain/model/filter"
	"github.com/secmon-lab/triage/pkg/domain/types"
)

// Repository is an in-memory implementation of the remote alert/case
// store and the filter-context store. It backs tests and the local demo
// mode; a deployment substitutes the real store behind the same client
// interfaces.
type Repository struct {
	mu sync.RWMutex

	alerts    map[types.AlertID]*alert.Alert
	casesByID map[types.CaseID]*cases.Case
	caseSeq   int
	templates []*cases.Template
	contexts  map[string]*filter.Context
}

func New() *Repository {
	return &Repository{
		alerts:    make(map[types.AlertID]*alert.Alert),
		casesByID: make(map[types.CaseID]*cases.Case),
		contexts:  make(map[string]*filter.Context),
	}
}

// PutAlert stores a copy of the alert, replacing any previous version.
func (r *Repository) PutAlert(ctx context.Context, a *alert.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.alerts[a.ID] = copyAlert(a)
	return nil
}

// PutTemplate registers a case template.
func (r *Repository) PutTemplate(ctx context.Context, tmpl *cases.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *tmpl
	r.templates = append(r.templates, &cp)
	return nil
}

func (r *Repository) GetContext(ctx context.Context, key string) (*filter.Context, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	saved, ok := r.contexts[key]
	if !ok {
		return nil, nil
	}
	cp := *saved
	return &cp, nil
}

func (r *Repository) PutContext(ctx context.Context, key string, fctx *filter.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *fctx
	r.contexts[key] = &cp
	return nil
}

func copyAlert(a *alert.Alert) *alert.Alert {
	cp := *a
	cp.Selected = false
	if a.Tags != nil {
		cp.Tags = append([]string{}, a.Tags...)
	}
	return &cp
}

func copyCase(c *cases.Case) *cases.Case {
	cp := *c
	if c.AlertIDs != nil {
		cp.AlertIDs = append([]types.AlertID{}, c.AlertIDs...)
	}
	return &cp
}
