// Package notifier provides the outbound notification capability consumed by
// the dispatcher: an abstract Notifier interface, an SMTP implementation
// backed by go-mail, and the restock email rendering.
package notifier

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-restock-backend/internal/domain"
)

// Notifier delivers a back-in-stock notification for one request. Send may
// fail; callers record the failure as a DeliveryOutcome and must not treat it
// as fatal. Implementations must honor ctx for cancellation and timeouts.
type Notifier interface {
	Send(ctx context.Context, req domain.StockRequest, ev domain.InventoryEvent) error
}

// LogNotifier is the fallback used when no SMTP transport is configured.
// It logs what would have been sent and reports success, which keeps local
// development and tests free of mail infrastructure.
type LogNotifier struct{}

// Send implements Notifier.
func (LogNotifier) Send(ctx context.Context, req domain.StockRequest, ev domain.InventoryEvent) error {
	log.Info().
		Int64("request_id", req.ID).
		Str("variant_id", req.VariantID).
		Str("email", req.Email).
		Str("product_title", req.ProductTitle).
		Msg("smtp not configured, logging notification instead")
	return nil
}
