package event

import (
	"context"
	"sync"

	"github.com/secmon-lab/triage/pkg/domain/types"
	"github.com/secmon-lab/triage/pkg/utils/async"
)

// Event is a domain event observable by sibling views.
type Event interface {
	isEvent()
}

// AlertsMerged is broadcast after selected alerts were merged into a
// case, so that other views (e.g. the case list) can refresh.
type AlertsMerged struct {
	CaseID types.CaseID
	Count  int
}

func (e *AlertsMerged) isEvent() {}

// Handler receives published events.
type Handler func(ctx context.Context, ev Event)

// Bus is an in-process broadcast channel for domain events. Delivery is
// asynchronous and panic-safe; publishers never block on subscribers.
type Bus struct {
	mu   sync.RWMutex
	subs []Handler
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, h)
}

func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.RLock()
	subs := make([]Handler, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, h := range subs {
		h := h
		async.Dispatch(ctx, func(ctx context.Context) error {
			h(ctx, ev)
			return nil
		})
	}
}
