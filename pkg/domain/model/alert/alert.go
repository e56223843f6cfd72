package alert

import (
	"context"
	"time"

	"github.com/secmon-lab/triage/pkg/domain/types"
	"github.com/secmon-lab/triage/pkg/utils/clock"
)

const (
	DefaultAlertTitle = "(no title)"
)

// Alert is one row of the triage queue. The whole page of alerts is
// replaced wholesale on every refresh; Selected is the only field that
// is mutated in place between refreshes.
type Alert struct {
	ID        types.AlertID     `json:"id"`
	CaseID    types.CaseID      `json:"case_id"`
	Title     string            `json:"title"`
	Status    types.AlertStatus `json:"status"`
	Severity  types.Severity    `json:"severity"`
	Follow    bool              `json:"follow"`
	TLP       types.TLP         `json:"tlp"`
	Source    string            `json:"source"`
	Type      string            `json:"type"`
	SourceRef string            `json:"source_ref"`
	Tags      []string          `json:"tags"`
	CreatedAt time.Time         `json:"created_at"`

	Selected bool `json:"-"`
}

type Alerts []*Alert

func New(ctx context.Context, title string, status types.AlertStatus, severity types.Severity) *Alert {
	newAlert := &Alert{
		ID:        types.NewAlertID(),
		CaseID:    types.EmptyCaseID,
		Title:     title,
		Status:    status,
		Severity:  severity,
		TLP:       types.TLPAmber,
		CreatedAt: clock.Now(ctx),
	}

	if newAlert.Title == "" {
		newAlert.Title = DefaultAlertTitle
	}

	return newAlert
}

func (x Alerts) IDs() []types.AlertID {
	ids := make([]types.AlertID, len(x))
	for i, a := range x {
		ids[i] = a.ID
	}
	return ids
}

// Selected returns the subsequence of alerts with Selected set. It is
// recomputed from the full page every time; the selection is never
// stored independently.
func (x Alerts) Selected() Alerts {
	var selected Alerts
	for _, a := range x {
		if a.Selected {
			selected = append(selected, a)
		}
	}
	return selected
}

// HasCase returns true if the alert is already attached to a case.
func (x *Alert) HasCase() bool {
	return x.CaseID != types.EmptyCaseID
}

// CanMarkAsRead reports whether the alert is still unread, i.e. its
// status is New or Updated.
func (x *Alert) CanMarkAsRead() bool {
	return x.Status == types.AlertStatusNew || x.Status == types.AlertStatusUpdated
}
