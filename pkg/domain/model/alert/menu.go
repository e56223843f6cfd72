package alert

import (
	"github.com/secmon-lab/triage/pkg/domain/types"
)

// Menu is the set of bulk actions that are legal for the current
// selection. It is a pure projection of the selection and is recomputed
// wholesale after every selection change; it must never be cached across
// mutations.
type Menu struct {
	Follow        bool `json:"follow"`
	Unfollow      bool `json:"unfollow"`
	MarkAsRead    bool `json:"mark_as_read"`
	MarkAsUnread  bool `json:"mark_as_unread"`
	CreateNewCase bool `json:"create_new_case"`
	MergeInCase   bool `json:"merge_in_case"`
	Delete        bool `json:"delete"`
	SelectAll     bool `json:"select_all"`
}

// DeriveMenu computes the legal bulk actions for a selection:
//   - Follow/Unfollow require the selection to be homogeneous in Follow.
//   - MarkAsRead is off as soon as one Ignored or Imported alert is in.
//   - MarkAsUnread is off as soon as one New or Updated alert is in.
//   - CreateNewCase/MergeInCase are off when any alert is Imported.
//   - Delete is off when any alert is already attached to a case.
//
// An empty selection enables nothing. O(len(selection)), no I/O.
func DeriveMenu(selection Alerts) Menu {
	if len(selection) == 0 {
		return Menu{}
	}

	var anyFollowed, anyUnfollowed bool
	var anyIgnored, anyImported, anyUnread, anyCased bool

	for _, a := range selection {
		if a.Follow {
			anyFollowed = true
		} else {
			anyUnfollowed = true
		}

		switch a.Status {
		case types.AlertStatusIgnored:
			anyIgnored = true
		case types.AlertStatusImported:
			anyImported = true
		case types.AlertStatusNew, types.AlertStatusUpdated:
			anyUnread = true
		}

		if a.HasCase() {
			anyCased = true
		}
	}

	return Menu{
		Follow:        !anyFollowed,
		Unfollow:      !anyUnfollowed,
		MarkAsRead:    !anyIgnored && !anyImported,
		MarkAsUnread:  !anyUnread,
		CreateNewCase: !anyImported,
		MergeInCase:   !anyImported,
		Delete:        !anyCased,
	}
}
