// Stock-request HTTP handlers.
//
// This file exposes the customer-facing ingest endpoint for registering
// interest in an out-of-stock variant, plus the administrative listing:
//   - POST /stock-requests  (create)
//   - GET  /stock-requests  (debug/admin snapshot)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-restock-backend/internal/domain"
	"github.com/tbourn/go-restock-backend/internal/http/middleware"
	"github.com/tbourn/go-restock-backend/internal/store"
)

// CreateStockRequest is the JSON payload for registering stock interest.
//
// Required: email, variant_id, product_id, product_title. The variant id may
// arrive as a JSON string or number; it is normalized to a string.
type CreateStockRequest struct {
	Email        string           `json:"email" binding:"required,email" example:"jane.doe@example.com"`
	VariantID    domain.VariantID `json:"variant_id" binding:"required" example:"44723818070234"`
	ProductID    string           `json:"product_id" binding:"required" example:"wool-sweater"`
	ProductTitle string           `json:"product_title" binding:"required" example:"Wool Sweater"`
	CustomerName string           `json:"customer_name" example:"Jane Doe"`
	OptionLabel  string           `json:"option_label" example:"Size M"`
}

// CreateStockRequestResponse returns the id assigned to a new request.
type CreateStockRequestResponse struct {
	ID int64 `json:"id" example:"42"`
}

// CreateRequest godoc
// @ID          createStockRequest
// @Summary     Register interest in an out-of-stock variant
// @Description Stores a pending stock-interest request. The customer is emailed once when the variant restocks.
// @Tags        StockRequests
// @Accept      json
// @Produce     json
// @Param       body body handlers.CreateStockRequest true "Stock-interest payload"
// @Success     201 {object} handlers.CreateStockRequestResponse
// @Failure     400 {object} handlers.ErrorResponse "Missing or invalid fields"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /stock-requests [post]
func (h *Handlers) CreateRequest(c *gin.Context) {
	var req CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email, variant_id, product_id and product_title are required")
		return
	}

	created, err := h.store.Create(c.Request.Context(), store.CreateInput{
		VariantID:    req.VariantID.String(),
		ProductID:    req.ProductID,
		ProductTitle: req.ProductTitle,
		OptionLabel:  req.OptionLabel,
		Email:        req.Email,
		CustomerName: req.CustomerName,
	})
	if err != nil {
		// Store-level validation is authoritative even though binding already
		// checked shape; both map to the same client error.
		if errors.Is(err, store.ErrEmailRequired) || errors.Is(err, store.ErrVariantRequired) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not store stock request")
		return
	}

	lg := middleware.LoggerFrom(c)
	lg.Info().
		Int64("request_id_assigned", created.ID).
		Str("variant_id", created.VariantID).
		Msg("stock request created")

	ok(c, http.StatusCreated, CreateStockRequestResponse{ID: created.ID})
}

// ListRequests godoc
// @ID          listStockRequests
// @Summary     List all stock-interest requests
// @Description Returns the full current snapshot, pending and notified alike. Debug/administrative endpoint, no pagination.
// @Tags        StockRequests
// @Produce     json
// @Success     200 {array}  domain.StockRequest
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /stock-requests [get]
func (h *Handlers) ListRequests(c *gin.Context) {
	all, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list stock requests")
		return
	}
	if all == nil {
		all = []domain.StockRequest{}
	}
	ok(c, http.StatusOK, all)
}
