package memory

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/triage/pkg/domain/interfaces"
	"github.com/secmon-lab/triage/pkg/domain/model/cases"
	"github.com/secmon-lab/triage/pkg/domain/model/errs"
	"github.com/secmon-lab/triage/pkg/domain/types"
)

var _ interfaces.CaseClient = &Repository{}

func (r *Repository) GetCase(ctx context.Context, id types.CaseID) (*cases.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.casesByID[id]
	if !ok {
		return nil, goerr.New("case not found",
			goerr.T(errs.TagNotFound), goerr.V("case_id", id))
	}
	return copyCase(c), nil
}

// CreateCase stores the case and assigns its sequential number.
func (r *Repository) CreateCase(ctx context.Context, newCase *cases.Case) (*cases.Case, error) {
	if newCase.Title == "" {
		return nil, goerr.New("case title is required", goerr.T(errs.TagValidation))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cp := copyCase(newCase)
	if cp.ID == types.EmptyCaseID {
		cp.ID = types.NewCaseID()
	}
	r.caseSeq++
	cp.Number = types.CaseNumber(r.caseSeq)
	r.casesByID[cp.ID] = cp

	return copyCase(cp), nil
}

func (r *Repository) SearchCasesByTitle(ctx context.Context, title string) ([]*cases.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(title)
	var found []*cases.Case
	for _, c := range r.casesByID {
		if strings.Contains(strings.ToLower(c.Title), needle) {
			found = append(found, copyCase(c))
		}
	}
	return found, nil
}

func (r *Repository) GetCaseByNumber(ctx context.Context, number types.CaseNumber) (*cases.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.casesByID {
		if c.Number == number {
			return copyCase(c), nil
		}
	}
	return nil, goerr.New("case not found",
		goerr.T(errs.TagNotFound), goerr.V("case_number", int(number)))
}

func (r *Repository) ListTemplates(ctx context.Context) ([]*cases.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	templates := make([]*cases.Template, len(r.templates))
	for i, tmpl := range r.templates {
		cp := *tmpl
		templates[i] = &cp
	}
	return templates, nil
}
