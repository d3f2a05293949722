// Inventory webhook handler.
//
// The storefront posts here whenever a variant's inventory level changes.
// The endpoint acknowledges fast and never reports downstream problems to
// the caller: webhook senders retry on non-2xx, and a retried event is
// harmless (matching is at-most-once) but pointless. Matching runs inline
// (an in-memory claim under the store lock), delivery is handed off to the
// dispatcher and completes in the background.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-restock-backend/internal/domain"
	"github.com/tbourn/go-restock-backend/internal/http/middleware"
)

// InventoryWebhook is the JSON payload of an inventory-change event.
//
// Shopify-style payloads carry the variant id under "id" and the level under
// "inventory_quantity"; generic senders use "variant_id" and "quantity".
// Both spellings are accepted; any other fields are ignored.
type InventoryWebhook struct {
	VariantID         domain.VariantID `json:"variant_id"`
	ID                domain.VariantID `json:"id"`
	Quantity          *int             `json:"quantity"`
	InventoryQuantity *int             `json:"inventory_quantity"`
}

// Event normalizes the accepted payload spellings into a domain event.
// inventory_quantity wins over quantity when both are present, matching the
// storefront's own field.
func (w InventoryWebhook) Event() domain.InventoryEvent {
	ev := domain.InventoryEvent{VariantID: w.VariantID}
	if ev.VariantID.IsZero() {
		ev.VariantID = w.ID
	}
	switch {
	case w.InventoryQuantity != nil:
		ev.Quantity = *w.InventoryQuantity
	case w.Quantity != nil:
		ev.Quantity = *w.Quantity
	}
	return ev
}

// InventoryWebhookResponse acknowledges an inventory event.
type InventoryWebhookResponse struct {
	Status string `json:"status" example:"ok"`
}

// HandleInventory godoc
// @ID          inventoryWebhook
// @Summary     Ingest an inventory-change event
// @Description Matches pending stock-interest requests for the restocked variant and schedules notification emails. Always acknowledges with 200 once the payload parses; matching and delivery outcomes are not reported to the webhook sender.
// @Tags        Webhooks
// @Accept      json
// @Produce     json
// @Param       body body handlers.InventoryWebhook true "Inventory event (extra fields ignored)"
// @Success     200 {object} handlers.InventoryWebhookResponse
// @Failure     400 {object} handlers.ErrorResponse "Malformed payload"
// @Router      /webhooks/inventory [post]
func (h *Handlers) HandleInventory(c *gin.Context) {
	var payload InventoryWebhook
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "malformed inventory event")
		return
	}

	ev := payload.Event()
	lg := middleware.LoggerFrom(c)

	matched, err := h.matcher.Match(c.Request.Context(), ev)
	if err != nil {
		// Acknowledge anyway: a webhook retry would not help, and the error
		// is already on the server side.
		lg.Error().
			Err(err).
			Str("variant_id", ev.VariantID.String()).
			Int("quantity", ev.Quantity).
			Msg("inventory match failed")
		ok(c, http.StatusOK, InventoryWebhookResponse{Status: "ok"})
		return
	}

	if len(matched) > 0 {
		h.dispatcher.Dispatch(matched, ev)
	}

	lg.Info().
		Str("variant_id", ev.VariantID.String()).
		Int("quantity", ev.Quantity).
		Int("matched", len(matched)).
		Msg("inventory event processed")

	ok(c, http.StatusOK, InventoryWebhookResponse{Status: "ok"})
}
