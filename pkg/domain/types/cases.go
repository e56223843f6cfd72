package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type CaseID string

func (x CaseID) String() string {
	return string(x)
}

func NewCaseID() CaseID {
	return CaseID(uuid.New().String())
}

func (x CaseID) Validate() error {
	if x == EmptyCaseID {
		return goerr.New("empty case ID")
	}
	if _, err := uuid.Parse(string(x)); err != nil {
		return goerr.Wrap(err, "invalid case ID format", goerr.V("id", x))
	}
	return nil
}

const (
	EmptyCaseID CaseID = ""
)

// CaseNumber is the human-facing sequential number of a case. It is
// assigned by the remote store and used for case lookup by number.
type CaseNumber int

type TemplateID string

func (x TemplateID) String() string {
	return string(x)
}

func NewTemplateID() TemplateID {
	return TemplateID(uuid.New().String())
}

const (
	EmptyTemplateID TemplateID = ""
)
