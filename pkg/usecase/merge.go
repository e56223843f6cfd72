package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/triage/pkg/domain/event"
	"github.com/secmon-lab/triage/pkg/domain/model/cases"
	"github.com/secmon-lab/triage/pkg/domain/model/errs"
	"github.com/secmon-lab/triage/pkg/domain/types"
)

// CreateNewCase escalates the selected alerts into a new case: choose a
// template (skipped when none exist), create the case, then merge the
// selection into it. Dismissing any step aborts the rest of the
// pipeline silently, except that a case created before a failed or
// cancelled merge is not rolled back; it simply holds no merged alerts.
func (uc *UseCases) CreateNewCase(ctx context.Context) error {
	if uc.prompter == nil {
		return ErrPrompterNotConfigured
	}

	// The selection is captured up front; a refresh racing the modal
	// steps must not change which alerts get merged.
	ids := uc.Selection().IDs()
	if len(ids) == 0 {
		return nil
	}

	templates, err := uc.cases.ListTemplates(ctx)
	if err != nil {
		uc.notifier.Error(ctx, "CreateNewCase", err)
		return err
	}

	var tmpl *cases.Template
	if len(templates) > 0 {
		tmpl, err = uc.prompter.ChooseTemplate(ctx, templates)
		if err != nil {
			if errs.IsCancelled(err) {
				return nil
			}
			uc.notifier.Error(ctx, "CreateNewCase", err)
			return err
		}
	}

	created, err := uc.prompter.CreateCase(ctx, tmpl)
	if err != nil {
		if errs.IsCancelled(err) {
			return nil
		}
		uc.notifier.Error(ctx, "CreateNewCase", err)
		return err
	}
	uc.notifier.Success(ctx, "New case has been created")

	_, err = uc.MergeAlertsInto(ctx, ids, created.ID)
	return err
}

// MergeInCase merges the selected alerts into an existing case chosen
// through the case search/select step.
func (uc *UseCases) MergeInCase(ctx context.Context) error {
	if uc.prompter == nil {
		return ErrPrompterNotConfigured
	}

	selection := uc.Selection()
	if len(selection) == 0 {
		return nil
	}
	ids := selection.IDs()

	chosen, err := uc.prompter.SelectCase(ctx, fmt.Sprintf("the %d selected alerts", len(ids)))
	if err != nil {
		if errs.IsCancelled(err) {
			return nil
		}
		uc.notifier.Error(ctx, "MergeInCase", err)
		return err
	}

	_, err = uc.MergeAlertsInto(ctx, ids, chosen.ID)
	return err
}

// MergeAlertsInto is the terminal merge step shared by both workflow
// paths: bulk-merge the alerts into the case, broadcast the domain
// event and navigate to the case.
func (uc *UseCases) MergeAlertsInto(ctx context.Context, ids []types.AlertID, caseID types.CaseID) (*cases.Case, error) {
	merged, err := uc.alerts.BulkMergeInto(ctx, ids, caseID)
	if err != nil {
		uc.notifier.Error(ctx, "CaseMerge", err)
		return nil, err
	}

	if len(ids) == 1 {
		uc.notifier.Success(ctx, "1 alert has been merged into the case")
	} else {
		uc.notifier.Success(ctx, fmt.Sprintf("%d alerts have been merged into the case", len(ids)))
	}

	uc.bus.Publish(ctx, &event.AlertsMerged{CaseID: merged.ID, Count: len(ids)})
	uc.refresh(ctx)
	uc.navigator.GoToCase(ctx, merged.ID)

	return merged, nil
}

// CaseSearchKind selects how the merge target is looked up.
type CaseSearchKind string

const (
	CaseSearchByTitle  CaseSearchKind = "title"
	CaseSearchByNumber CaseSearchKind = "number"
)

const (
	minTitleSearchLen  = 3
	minNumberSearchLen = 1
)

// SearchCases resolves merge-target candidates for the case-select
// step: by title (at least 3 characters) or by case number (at least 1
// character).
func (uc *UseCases) SearchCases(ctx context.Context, kind CaseSearchKind, input string) ([]*cases.Case, error) {
	switch kind {
	case CaseSearchByTitle:
		if len(input) < minTitleSearchLen {
			return nil, goerr.New("title search needs at least 3 characters",
				goerr.T(errs.TagValidation), goerr.V("input", input))
		}
		return uc.cases.SearchCasesByTitle(ctx, input)

	case CaseSearchByNumber:
		if len(input) < minNumberSearchLen {
			return nil, goerr.New("number search needs at least 1 character",
				goerr.T(errs.TagValidation))
		}
		number, err := strconv.Atoi(input)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid case number",
				goerr.T(errs.TagValidation), goerr.V("input", input))
		}
		found, err := uc.cases.GetCaseByNumber(ctx, types.CaseNumber(number))
		if err != nil {
			return nil, err
		}
		return []*cases.Case{found}, nil

	default:
		return nil, goerr.New("unknown case search kind",
			goerr.T(errs.TagValidation), goerr.V("kind", kind))
	}
}
