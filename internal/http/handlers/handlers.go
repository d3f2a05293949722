// Handler wiring for the back-in-stock API.
//
// Handlers are transport-thin: they validate input shape, delegate to the
// store and services, and translate results into HTTP responses. They depend
// on narrow interfaces so tests can substitute stubs.
package handlers

import (
	"context"
	"time"

	"github.com/tbourn/go-restock-backend/internal/domain"
	"github.com/tbourn/go-restock-backend/internal/store"
)

// RequestStore is the subset of the store contract the HTTP layer needs.
//
// Implementations must be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RequestStore interface {
	// Create registers a new stock-interest request.
	Create(ctx context.Context, in store.CreateInput) (*domain.StockRequest, error)
	// ListAll returns the full snapshot of stored requests.
	ListAll(ctx context.Context) ([]domain.StockRequest, error)
	// Stats returns point-in-time counts.
	Stats(ctx context.Context) (store.Stats, error)
}

// Matcher applies an inventory event and returns the requests claimed for
// notification by that event.
type Matcher interface {
	Match(ctx context.Context, ev domain.InventoryEvent) ([]domain.StockRequest, error)
}

// Dispatcher schedules notification delivery for a claimed batch and exposes
// the recent delivery outcomes. Dispatch must not block on delivery.
type Dispatcher interface {
	Dispatch(requests []domain.StockRequest, ev domain.InventoryEvent)
	Outcomes() []domain.DeliveryOutcome
}

// Handlers groups the HTTP endpoints for stock requests, inventory webhooks,
// and the health/admin surface.
type Handlers struct {
	store      RequestStore
	matcher    Matcher
	dispatcher Dispatcher
	startedAt  time.Time
}

// New constructs a Handlers instance bound to the given collaborators.
func New(st RequestStore, m Matcher, d Dispatcher) *Handlers {
	return &Handlers{store: st, matcher: m, dispatcher: d, startedAt: time.Now()}
}
