package interfaces

import (
	"context"

	"github.com/secmon-lab/triage/pkg/domain/model/cases"
	"github.com/secmon-lab/triage/pkg/domain/types"
)

// Notifier renders user-facing notifications. Error names the
// originating action so the user can tell which operation failed.
type Notifier interface {
	Success(ctx context.Context, msg string)
	Error(ctx context.Context, origin string, err error)
}

// Prompter is the modal-dialog boundary of the triage workflows. Every
// method blocks until the user completes or dismisses the step; a
// dismissal returns errs.ErrCancelled, which aborts the remainder of the
// pipeline without reporting.
type Prompter interface {
	// Confirm asks a yes/no question (e.g. before a bulk delete).
	Confirm(ctx context.Context, title, message string) error

	// ChooseTemplate presents the template-choice step. A nil template
	// with nil error means the user explicitly chose "no template".
	ChooseTemplate(ctx context.Context, templates []*cases.Template) (*cases.Template, error)

	// CreateCase presents the case-creation step. The returned case has
	// already been created in the remote store when the step completes.
	CreateCase(ctx context.Context, tmpl *cases.Template) (*cases.Case, error)

	// SelectCase presents the case search/select step of the
	// merge-into-existing-case path.
	SelectCase(ctx context.Context, prompt string) (*cases.Case, error)
}

// Navigator moves the user to another view.
type Navigator interface {
	GoToCase(ctx context.Context, id types.CaseID)
}
