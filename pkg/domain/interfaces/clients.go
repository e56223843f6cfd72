package interfaces

import (
	"context"

	"github.com/secmon-lab/triage/pkg/domain/model/alert"
	"github.com/secmon-lab/triage/pkg/domain/model/cases"
	"github.com/secmon-lab/triage/pkg/domain/types"
)

// SearchRequest is the query contract of the remote alert store. Filter
// is the serialized query expression ("" matches everything), Sort is an
// ordered list of "+field"/"-field" keys.
type SearchRequest struct {
	Filter   string
	Sort     []string
	PageSize int
	LoadAll  bool
}

type SearchResult struct {
	Values alert.Alerts
	Total  int
}

// AlertClient is the boundary to the remote alert store. Follow,
// Unfollow, MarkAsRead and MarkAsUnread act on a single alert each;
// deletion and merge are bulk endpoints carrying the full ID list. The
// asymmetry mirrors the store's capabilities.
type AlertClient interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)

	Follow(ctx context.Context, id types.AlertID) error
	Unfollow(ctx context.Context, id types.AlertID) error
	MarkAsRead(ctx context.Context, id types.AlertID) error
	MarkAsUnread(ctx context.Context, id types.AlertID) error

	BulkRemove(ctx context.Context, ids []types.AlertID) error
	BulkMergeInto(ctx context.Context, ids []types.AlertID, caseID types.CaseID) (*cases.Case, error)
}

// CaseClient is the boundary to the remote case store.
type CaseClient interface {
	GetCase(ctx context.Context, id types.CaseID) (*cases.Case, error)
	CreateCase(ctx context.Context, newCase *cases.Case) (*cases.Case, error)
	SearchCasesByTitle(ctx context.Context, title string) ([]*cases.Case, error)
	GetCaseByNumber(ctx context.Context, number types.CaseNumber) (*cases.Case, error)
	ListTemplates(ctx context.Context) ([]*cases.Template, error)
}
