// Health and admin handlers.
//
//   - GET /health      (status, store counts, uptime)
//   - GET /deliveries  (recent notification outcomes)
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-restock-backend/internal/domain"
)

// HealthResponse reports liveness plus store counters.
type HealthResponse struct {
	Status        string  `json:"status" example:"ok"`
	Total         int64   `json:"total_requests" example:"12"`
	Pending       int64   `json:"pending_requests" example:"4"`
	Notified      int64   `json:"notified_requests" example:"8"`
	UptimeSeconds float64 `json:"uptime_seconds" example:"3612.4"`
}

// Health godoc
// @ID          health
// @Summary     Health and stats
// @Description Read-only liveness probe with request counts and process uptime.
// @Tags        Admin
// @Produce     json
// @Success     200 {object} handlers.HealthResponse
// @Failure     500 {object} handlers.ErrorResponse "Store unavailable"
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	st, err := h.store.Stats(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "store unavailable")
		return
	}

	ok(c, http.StatusOK, HealthResponse{
		Status:        "ok",
		Total:         st.Total,
		Pending:       st.Pending,
		Notified:      st.Notified,
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
	})
}

// ListDeliveries godoc
// @ID          listDeliveries
// @Summary     List recent delivery outcomes
// @Description Returns the bounded journal of notification delivery attempts, oldest first. Failed deliveries stay visible here; they are never retried automatically.
// @Tags        Admin
// @Produce     json
// @Success     200 {array} domain.DeliveryOutcome
// @Router      /deliveries [get]
func (h *Handlers) ListDeliveries(c *gin.Context) {
	out := h.dispatcher.Outcomes()
	if out == nil {
		out = []domain.DeliveryOutcome{}
	}
	ok(c, http.StatusOK, out)
}
