package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type AlertID string

func (x AlertID) String() string {
	return string(x)
}

func NewAlertID() AlertID {
	return AlertID(uuid.New().String())
}

func (x AlertID) Validate() error {
	if x == EmptyAlertID {
		return goerr.New("empty alert ID")
	}
	if _, err := uuid.Parse(string(x)); err != nil {
		return goerr.Wrap(err, "invalid alert ID format", goerr.V("id", x))
	}
	return nil
}

const (
	EmptyAlertID AlertID = ""
)

// AlertStatus is the triage state of an alert. An alert starts as New,
// becomes Updated when its source re-emits it, Ignored when marked as
// read, and Imported once it has been merged into a case.
type AlertStatus string

const (
	AlertStatusNew      AlertStatus = "New"
	AlertStatusUpdated  AlertStatus = "Updated"
	AlertStatusIgnored  AlertStatus = "Ignored"
	AlertStatusImported AlertStatus = "Imported"
)

func (s AlertStatus) String() string {
	return string(s)
}

func (s AlertStatus) Validate() error {
	switch s {
	case AlertStatusNew, AlertStatusUpdated, AlertStatusIgnored, AlertStatusImported:
		return nil
	}
	return goerr.New("invalid alert status", goerr.V("status", s))
}

// Severity is the numeric severity of an alert, 1 (low) to 4 (critical).
// The numeric code is what the remote store persists; the label is what
// users see and click on. Both directions of the mapping are needed:
// label to numeric when a severity filter is submitted, numeric to label
// when filtering by click on a rendered alert.
type Severity int

const (
	SeverityLow      Severity = 1
	SeverityMedium   Severity = 2
	SeverityHigh     Severity = 3
	SeverityCritical Severity = 4
)

var severityLabels = map[Severity]string{
	SeverityLow:      "low",
	SeverityMedium:   "medium",
	SeverityHigh:     "high",
	SeverityCritical: "critical",
}

var severityValues = func() map[string]Severity {
	m := make(map[string]Severity, len(severityLabels))
	for k, v := range severityLabels {
		m[v] = k
	}
	return m
}()

func (s Severity) Label() string {
	return severityLabels[s]
}

func (s Severity) Validate() error {
	if _, ok := severityLabels[s]; !ok {
		return goerr.New("invalid severity", goerr.V("severity", int(s)))
	}
	return nil
}

// SeverityFromLabel resolves a display label to its numeric severity. The
// second return value is false when the label is unknown; callers are
// expected to drop the value rather than fail.
func SeverityFromLabel(label string) (Severity, bool) {
	s, ok := severityValues[label]
	return s, ok
}

// TLP is the traffic-light protocol marker of an alert. It is carried
// through downstream actions unchanged.
type TLP string

const (
	TLPWhite TLP = "white"
	TLPGreen TLP = "green"
	TLPAmber TLP = "amber"
	TLPRed   TLP = "red"
)

func (t TLP) String() string {
	return string(t)
}
