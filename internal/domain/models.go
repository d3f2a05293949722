// Package domain defines the persistence models for stock-interest requests
// and the value types that flow through the matching pipeline. StockRequest
// is mapped with GORM so the same model serves both the volatile in-memory
// store and the SQLite-backed store.
package domain

import "time"

// StockRequest represents a customer's registered intent to be notified when
// a specific product variant becomes available again.
//
// Fields:
//   - ID: monotonically assigned numeric identifier (autoincrement PK).
//   - VariantID: canonical (string) identifier of the awaited variant; indexed
//     together with NotifiedAt so pending lookups stay cheap.
//   - ProductID / ProductTitle / OptionLabel: display metadata; the engine
//     never interprets these, they are only forwarded to the email renderer.
//   - Email: contact address, required.
//   - CustomerName: optional display name used in the email greeting.
//   - CreatedAt: set once at creation.
//   - NotifiedAt: nil while the request is pending; set exactly once when the
//     request is claimed for notification, never cleared afterwards.
type StockRequest struct {
	ID           int64      `json:"id"            gorm:"primaryKey;autoIncrement"`
	VariantID    string     `json:"variant_id"    gorm:"type:varchar(64);not null;index:idx_variant_pending,priority:1"`
	ProductID    string     `json:"product_id"    gorm:"type:varchar(64);not null"`
	ProductTitle string     `json:"product_title" gorm:"type:varchar(255);not null"`
	OptionLabel  string     `json:"option_label,omitempty" gorm:"type:varchar(128)"`
	Email        string     `json:"email"         gorm:"type:varchar(255);not null"`
	CustomerName string     `json:"customer_name,omitempty" gorm:"type:varchar(128)"`
	CreatedAt    time.Time  `json:"created_at"`
	NotifiedAt   *time.Time `json:"notified_at,omitempty" gorm:"index:idx_variant_pending,priority:2"`
}

// TableName returns the database table name for StockRequest.
func (StockRequest) TableName() string { return "stock_requests" }

// Pending reports whether the request has not yet been claimed for
// notification.
func (r *StockRequest) Pending() bool { return r.NotifiedAt == nil }

// InventoryEvent is a report from the storefront that a variant's available
// quantity changed. Only events with Quantity > 0 trigger matching; zero and
// negative quantities mean the variant is still out of stock.
type InventoryEvent struct {
	VariantID VariantID `json:"variant_id"`
	Quantity  int       `json:"quantity"`
}

// DeliveryOutcome records the result of one notification delivery attempt.
// A failed delivery never transitions the request back to pending; the
// outcome exists so operators can see which addresses were missed.
type DeliveryOutcome struct {
	RequestID int64     `json:"request_id"`
	VariantID string    `json:"variant_id"`
	Email     string    `json:"email"`
	Sent      bool      `json:"sent"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}
