package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/triage/pkg/domain/event"
	"github.com/secmon-lab/triage/pkg/domain/interfaces"
	"github.com/secmon-lab/triage/pkg/domain/model/alert"
	"github.com/secmon-lab/triage/pkg/domain/model/filter"
	"github.com/secmon-lab/triage/pkg/domain/types"
	"github.com/secmon-lab/triage/pkg/service/listview"
	"github.com/secmon-lab/triage/pkg/service/notifier"
)

var (
	ErrPrompterNotConfigured = goerr.New("prompter is not configured")
)

// UseCases wires the triage workspace together: the filter model, the
// paged list, the selection menu and the bulk/merge workflows over the
// remote alert and case stores.
type UseCases struct {
	alerts    interfaces.AlertClient
	cases     interfaces.CaseClient
	notifier  interfaces.Notifier
	prompter  interfaces.Prompter
	navigator interfaces.Navigator
	bus       *event.Bus

	filtering *filter.Model
	list      *listview.List

	menuMu sync.Mutex
	menu   alert.Menu
}

type Option func(*UseCases)

func WithNotifier(n interfaces.Notifier) Option {
	return func(u *UseCases) {
		u.notifier = n
	}
}

func WithPrompter(p interfaces.Prompter) Option {
	return func(u *UseCases) {
		u.prompter = p
	}
}

func WithNavigator(n interfaces.Navigator) Option {
	return func(u *UseCases) {
		u.navigator = n
	}
}

func WithEventBus(b *event.Bus) Option {
	return func(u *UseCases) {
		u.bus = b
	}
}

// New restores the saved filter context from the store and builds the
// list view on top of it. The list is not fetched yet; call Search for
// the initial load.
func New(ctx context.Context, alerts interfaces.AlertClient, cases interfaces.CaseClient, store filter.Store, opts ...Option) (*UseCases, error) {
	uc := &UseCases{
		alerts:    alerts,
		cases:     cases,
		notifier:  notifier.New(),
		bus:       event.NewBus(),
		navigator: nopNavigator{},
	}
	for _, opt := range opts {
		opt(uc)
	}

	filtering, err := filter.NewModel(ctx, filter.DefaultRegistry(), store, filter.ContextKey)
	if err != nil {
		return nil, err
	}
	uc.filtering = filtering

	uc.list = listview.New(alerts,
		listview.WithSort(filtering.Sort()),
		listview.WithPageSize(filtering.PageSize()),
		listview.WithOnReplace(uc.resetSelection),
	)

	return uc, nil
}

// List exposes the paged list model, e.g. for rendering.
func (uc *UseCases) List() *listview.List {
	return uc.list
}

// Filtering exposes the filter model.
func (uc *UseCases) Filtering() *filter.Model {
	return uc.filtering
}

// Bus exposes the domain event bus.
func (uc *UseCases) Bus() *event.Bus {
	return uc.bus
}

type nopNavigator struct{}

func (nopNavigator) GoToCase(ctx context.Context, id types.CaseID) {}
