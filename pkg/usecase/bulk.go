package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/triage/pkg/domain/model/alert"
	"github.com/secmon-lab/triage/pkg/domain/model/errs"
	"github.com/secmon-lab/triage/pkg/domain/types"
	"golang.org/x/sync/errgroup"
)

// fanOut issues one independent request per alert ID and waits for all
// of them to settle, in no particular order. The aggregate fails when
// any request fails, carrying that request's error; effects of requests
// that already succeeded are not rolled back.
func fanOut(ctx context.Context, ids []types.AlertID, fn func(context.Context, types.AlertID) error) error {
	g := new(errgroup.Group)
	for _, id := range ids {
		g.Go(func() error {
			if err := fn(ctx, id); err != nil {
				return goerr.Wrap(err, "bulk sub-request failed", goerr.V("alert_id", id))
			}
			return nil
		})
	}
	return g.Wait()
}

// BulkFollow follows (or unfollows) every selected alert.
func (uc *UseCases) BulkFollow(ctx context.Context, follow bool) error {
	return uc.BulkFollowIDs(ctx, uc.Selection().IDs(), follow)
}

// BulkFollowIDs follows (or unfollows) the given alerts with one
// request per alert.
func (uc *UseCases) BulkFollowIDs(ctx context.Context, ids []types.AlertID, follow bool) error {
	if len(ids) == 0 {
		return nil
	}

	fn := uc.alerts.Follow
	wording := "followed"
	if !follow {
		fn = uc.alerts.Unfollow
		wording = "unfollowed"
	}

	if err := fanOut(ctx, ids, fn); err != nil {
		uc.notifier.Error(ctx, "BulkFollow", err)
		return err
	}

	uc.refresh(ctx)
	uc.notifier.Success(ctx, "The selected alerts have been "+wording)
	return nil
}

// BulkMarkAsRead marks the whole selection as read or unread. The
// direction of the batch is decided from the first selected alert's
// eligibility only; with a heterogeneous selection this can mark
// ineligible alerts. That shortcut is long-standing behavior and kept
// as-is pending a product decision.
func (uc *UseCases) BulkMarkAsRead(ctx context.Context, markAsRead bool) error {
	selection := uc.Selection()
	if len(selection) == 0 {
		return nil
	}

	markAsRead = markAsRead && selection[0].CanMarkAsRead()
	return uc.BulkMarkAsReadIDs(ctx, selection.IDs(), markAsRead)
}

// BulkMarkAsReadIDs marks the given alerts as read or unread with one
// request per alert.
func (uc *UseCases) BulkMarkAsReadIDs(ctx context.Context, ids []types.AlertID, markAsRead bool) error {
	if len(ids) == 0 {
		return nil
	}

	fn := uc.alerts.MarkAsRead
	wording := "marked as read"
	if !markAsRead {
		fn = uc.alerts.MarkAsUnread
		wording = "marked as unread"
	}

	if err := fanOut(ctx, ids, fn); err != nil {
		uc.notifier.Error(ctx, "BulkMarkAsRead", err)
		return err
	}

	uc.refresh(ctx)
	uc.notifier.Success(ctx, "The selected alerts have been "+wording)
	return nil
}

// BulkDelete removes every selected alert after user confirmation.
// Dismissing the confirmation aborts silently.
func (uc *UseCases) BulkDelete(ctx context.Context) error {
	ids := uc.Selection().IDs()
	if len(ids) == 0 {
		return nil
	}
	if uc.prompter == nil {
		return ErrPrompterNotConfigured
	}

	if err := uc.prompter.Confirm(ctx, "Remove Alerts", "Are you sure you want to delete the selected alerts?"); err != nil {
		if errs.IsCancelled(err) {
			return nil
		}
		return err
	}

	return uc.BulkDeleteIDs(ctx, ids)
}

// BulkDeleteIDs removes the given alerts with a single bulk request,
// unlike the per-alert fan-out of the other bulk actions. The remote
// store only offers deletion as a bulk endpoint.
func (uc *UseCases) BulkDeleteIDs(ctx context.Context, ids []types.AlertID) error {
	if len(ids) == 0 {
		return nil
	}

	if err := uc.alerts.BulkRemove(ctx, ids); err != nil {
		uc.notifier.Error(ctx, "BulkDelete", err)
		return err
	}

	uc.refresh(ctx)
	uc.notifier.Success(ctx, "The selected alerts have been deleted")
	return nil
}

// ToggleFollow flips the follow flag of a single alert.
func (uc *UseCases) ToggleFollow(ctx context.Context, a *alert.Alert) error {
	fn := uc.alerts.Follow
	if a.Follow {
		fn = uc.alerts.Unfollow
	}

	if err := fn(ctx, a.ID); err != nil {
		uc.notifier.Error(ctx, "ToggleFollow", err)
		return err
	}
	uc.refresh(ctx)
	return nil
}

// ToggleRead marks a single alert as read when it is unread, and as
// unread otherwise.
func (uc *UseCases) ToggleRead(ctx context.Context, a *alert.Alert) error {
	fn := uc.alerts.MarkAsUnread
	if a.CanMarkAsRead() {
		fn = uc.alerts.MarkAsRead
	}

	if err := fn(ctx, a.ID); err != nil {
		uc.notifier.Error(ctx, "ToggleRead", err)
		return err
	}
	uc.refresh(ctx)
	return nil
}
