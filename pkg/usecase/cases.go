package usecase

import (
	"context"

	"github.com/secmon-lab/triage/pkg/domain/model/cases"
)

// ListCaseTemplates returns the case templates offered at case
// creation time.
func (uc *UseCases) ListCaseTemplates(ctx context.Context) ([]*cases.Template, error) {
	return uc.cases.ListTemplates(ctx)
}

// CreateCase creates a case in the remote store.
func (uc *UseCases) CreateCase(ctx context.Context, newCase *cases.Case) (*cases.Case, error) {
	created, err := uc.cases.CreateCase(ctx, newCase)
	if err != nil {
		uc.notifier.Error(ctx, "CreateCase", err)
		return nil, err
	}
	return created, nil
}
