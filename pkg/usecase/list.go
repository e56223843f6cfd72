package usecase

import (
	"context"
	"errors"

	"github.com/secmon-lab/triage/pkg/domain/model/errs"
	"github.com/secmon-lab/triage/pkg/domain/types"
)

// Search fetches the queue with the current filters, sort and page
// size. This is also the initial load of the view.
func (uc *UseCases) Search(ctx context.Context) error {
	if err := uc.list.ApplyQuery(ctx, uc.filtering.BuildQuery()); err != nil {
		if errors.Is(err, errs.ErrStaleQuery) {
			return nil
		}
		uc.notifier.Error(ctx, "Search", err)
		return err
	}
	return nil
}

// applyFilters re-serializes the active filters and refetches only when
// the query string actually changed. The diff itself lives in the list
// model.
func (uc *UseCases) applyFilters(ctx context.Context) error {
	return uc.Search(ctx)
}

// AddFilterValue adds one raw value to a facet and refetches if the
// resulting query differs from the submitted one.
func (uc *UseCases) AddFilterValue(ctx context.Context, field, value string) error {
	if err := uc.filtering.AddValue(ctx, field, value); err != nil {
		uc.notifier.Error(ctx, "AddFilterValue", err)
		return err
	}
	return uc.applyFilters(ctx)
}

// RemoveFilter drops a facet filter entirely.
func (uc *UseCases) RemoveFilter(ctx context.Context, field string) error {
	if err := uc.filtering.Remove(ctx, field); err != nil {
		uc.notifier.Error(ctx, "RemoveFilter", err)
		return err
	}
	return uc.applyFilters(ctx)
}

// ClearFilters restores the default filter set (not an empty one).
func (uc *UseCases) ClearFilters(ctx context.Context) error {
	if err := uc.filtering.Clear(ctx); err != nil {
		uc.notifier.Error(ctx, "ClearFilters", err)
		return err
	}
	return uc.applyFilters(ctx)
}

// FilterByStatus replaces all filters by a single status filter, e.g.
// when clicking a status chip on a rendered alert.
func (uc *UseCases) FilterByStatus(ctx context.Context, status types.AlertStatus) error {
	if err := uc.filtering.Clear(ctx); err != nil {
		return err
	}
	return uc.AddFilterValue(ctx, "status", status.String())
}

// FilterByNewAndUpdated shows only unread alerts.
func (uc *UseCases) FilterByNewAndUpdated(ctx context.Context) error {
	if err := uc.filtering.Clear(ctx); err != nil {
		return err
	}
	if err := uc.filtering.AddValue(ctx, "status", types.AlertStatusNew.String()); err != nil {
		return err
	}
	return uc.AddFilterValue(ctx, "status", types.AlertStatusUpdated.String())
}

// FilterBySeverity filters by a clicked numeric severity. The numeric
// value is mapped back to its display label before submission; the
// severity facet's conversion rule turns it into the persisted code
// again.
func (uc *UseCases) FilterBySeverity(ctx context.Context, severity types.Severity) error {
	return uc.AddFilterValue(ctx, "severity", severity.Label())
}

// SortByField toggles the sort direction of a clicked column and
// persists the new sort in the filter context.
func (uc *UseCases) SortByField(ctx context.Context, field string) error {
	sort, err := uc.list.SortByField(ctx, field)
	if err != nil && !errors.Is(err, errs.ErrStaleQuery) {
		uc.notifier.Error(ctx, "SortByField", err)
		return err
	}
	return uc.filtering.SetSort(ctx, sort)
}

// SetSort replaces the sort keys wholesale, persists them in the filter
// context and refetches.
func (uc *UseCases) SetSort(ctx context.Context, sort []string) error {
	if err := uc.filtering.SetSort(ctx, sort); err != nil {
		return err
	}
	if err := uc.list.SetSort(ctx, sort); err != nil {
		if errors.Is(err, errs.ErrStaleQuery) {
			return nil
		}
		uc.notifier.Error(ctx, "SetSort", err)
		return err
	}
	return nil
}

// SetPageSize persists a new page size and refetches.
func (uc *UseCases) SetPageSize(ctx context.Context, size int) error {
	if err := uc.filtering.SetPageSize(ctx, size); err != nil {
		return err
	}
	if err := uc.list.SetPageSize(ctx, size); err != nil {
		if errors.Is(err, errs.ErrStaleQuery) {
			return nil
		}
		uc.notifier.Error(ctx, "SetPageSize", err)
		return err
	}
	return nil
}

// refresh refetches the current page after a mutation. Stale responses
// are silent no-ops; other failures are reported but leave the last good
// page visible.
func (uc *UseCases) refresh(ctx context.Context) {
	if err := uc.list.Refresh(ctx); err != nil && !errors.Is(err, errs.ErrStaleQuery) {
		errs.Handle(ctx, err)
	}
}
