package cases

import (
	"context"
	"time"

	"github.com/secmon-lab/triage/pkg/domain/types"
	"github.com/secmon-lab/triage/pkg/utils/clock"
)

// Case is an investigation that alerts are escalated into. Only the
// attributes needed at the triage boundary are modeled here; the full
// case lifecycle belongs to the case view.
type Case struct {
	ID          types.CaseID     `json:"id"`
	Number      types.CaseNumber `json:"number"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Severity    types.Severity   `json:"severity"`
	TLP         types.TLP        `json:"tlp"`
	AlertIDs    []types.AlertID  `json:"alert_ids"`
	CreatedAt   time.Time        `json:"created_at"`
}

func New(ctx context.Context, title, description string) *Case {
	return &Case{
		ID:          types.NewCaseID(),
		Title:       title,
		Description: description,
		Severity:    types.SeverityMedium,
		TLP:         types.TLPAmber,
		CreatedAt:   clock.Now(ctx),
	}
}

// NewFromTemplate creates a case pre-filled from a template. A nil
// template behaves as New.
func NewFromTemplate(ctx context.Context, tmpl *Template, title, description string) *Case {
	c := New(ctx, title, description)
	if tmpl == nil {
		return c
	}

	if c.Title == "" {
		c.Title = tmpl.TitlePrefix
	} else if tmpl.TitlePrefix != "" {
		c.Title = tmpl.TitlePrefix + " " + c.Title
	}
	if c.Description == "" {
		c.Description = tmpl.Description
	}
	if tmpl.Severity != 0 {
		c.Severity = tmpl.Severity
	}
	if tmpl.TLP != "" {
		c.TLP = tmpl.TLP
	}

	return c
}

// Template is a case template offered at case creation time.
type Template struct {
	ID          types.TemplateID `json:"id"`
	Name        string           `json:"name"`
	TitlePrefix string           `json:"title_prefix"`
	Description string           `json:"description"`
	Severity    types.Severity   `json:"severity"`
	TLP         types.TLP        `json:"tlp"`
}
