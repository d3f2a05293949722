// Package services implements the business logic of the back-in-stock
// notifier: matching inventory events against pending interest requests and
// dispatching notifications for the matched set.
package services

import (
	"context"

	"github.com/tbourn/go-restock-backend/internal/domain"
	"github.com/tbourn/go-restock-backend/internal/store"
)

// MatchingService applies inventory events to the request store.
//
// Match is the single transition point of the request lifecycle: it is the
// only code path that moves requests from pending to notified. The
// at-most-once guarantee comes from the store's ClaimPending, which performs
// selection and transition in one atomic step, so duplicate or concurrent
// events for the same variant cannot hand out the same request twice.
type MatchingService struct {
	// Store holds the shared collection of stock-interest requests.
	Store store.RequestStore
}

// NewMatchingService returns a MatchingService bound to the given store.
func NewMatchingService(st store.RequestStore) *MatchingService {
	return &MatchingService{Store: st}
}

// Match processes one inventory event and returns the set of requests that
// were transitioned to notified by this call.
//
// Semantics:
//   - Quantity <= 0 (still out of stock) is a no-op: empty result, no state
//     change, no error.
//   - An event without a variant id is likewise a no-op; nothing could match.
//   - A repeated event for a variant whose requests are all notified returns
//     an empty result. That is normal operation, not an error.
func (s *MatchingService) Match(ctx context.Context, ev domain.InventoryEvent) ([]domain.StockRequest, error) {
	if ev.Quantity <= 0 {
		return nil, nil
	}
	if ev.VariantID.IsZero() {
		return nil, nil
	}
	return s.Store.ClaimPending(ctx, ev.VariantID.String())
}
