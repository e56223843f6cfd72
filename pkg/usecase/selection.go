package usecase

import (
	"github.com/secmon-lab/triage/pkg/domain/model/alert"
)

// Selection returns the currently selected alerts, recomputed from the
// visible page on every call. The selection is never stored separately
// from the page.
func (uc *UseCases) Selection() alert.Alerts {
	return uc.list.Values().Selected()
}

// Menu returns the bulk-action menu for the current selection.
func (uc *UseCases) Menu() alert.Menu {
	uc.menuMu.Lock()
	defer uc.menuMu.Unlock()
	return uc.menu
}

// Select toggles one alert's selection and recomputes the menu.
func (uc *UseCases) Select(a *alert.Alert, selected bool) {
	a.Selected = selected
	uc.updateMenu()
}

// SelectAll selects or deselects every alert on the currently loaded
// page. Selection is page-scoped: alerts outside the loaded page are
// never affected.
func (uc *UseCases) SelectAll(on bool) {
	for _, a := range uc.list.Values() {
		a.Selected = on
	}

	uc.menuMu.Lock()
	uc.menu.SelectAll = on
	uc.menuMu.Unlock()

	uc.updateMenu()
}

// resetSelection runs after every page replacement. When select-all is
// latched the fresh page is selected again; otherwise the selection is
// cleared.
func (uc *UseCases) resetSelection() {
	uc.menuMu.Lock()
	selectAll := uc.menu.SelectAll
	uc.menuMu.Unlock()

	for _, a := range uc.list.Values() {
		a.Selected = selectAll
	}
	uc.updateMenu()
}

func (uc *UseCases) updateMenu() {
	derived := alert.DeriveMenu(uc.Selection())

	uc.menuMu.Lock()
	derived.SelectAll = uc.menu.SelectAll
	uc.menu = derived
	uc.menuMu.Unlock()
}
