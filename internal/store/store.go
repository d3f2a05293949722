// Package store defines the RequestStore contract for stock-interest records
// and provides the volatile in-memory implementation used by default. A
// durable SQLite-backed implementation of the same interface lives in
// internal/repo; the two are interchangeable behind this interface.
package store

import (
	"context"
	"errors"

	"github.com/tbourn/go-restock-backend/internal/domain"
)

// Validation errors returned by Create. Handlers translate these into
// HTTP 400 responses; they are never partially applied (a rejected create
// leaves the store untouched).
var (
	// ErrEmailRequired is returned when the contact email is missing or blank.
	ErrEmailRequired = errors.New("email is required")

	// ErrVariantRequired is returned when the variant id is missing or blank.
	ErrVariantRequired = errors.New("variant id is required")
)

// CreateInput carries the caller-supplied fields for a new stock-interest
// request. ID, CreatedAt, and NotifiedAt are assigned by the store.
type CreateInput struct {
	VariantID    string
	ProductID    string
	ProductTitle string
	OptionLabel  string
	Email        string
	CustomerName string
}

// Stats is a point-in-time snapshot of record counts.
type Stats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Notified int64 `json:"notified"`
}

// RequestStore owns the collection of StockRequest records. All access goes
// through these operations; no caller holds a mutable reference into the
// store's own records (methods return detached copies).
//
// Implementations must be safe for concurrent use. The critical contract is
// ClaimPending: selecting the pending set for a variant and transitioning it
// to notified must be indivisible with respect to other ClaimPending and
// MarkNotified calls, so that a request id is handed out at most once.
type RequestStore interface {
	// Create validates the input, assigns a fresh id and CreatedAt, and adds
	// the record in the pending state. Returns ErrEmailRequired or
	// ErrVariantRequired when required fields are blank.
	Create(ctx context.Context, in CreateInput) (*domain.StockRequest, error)

	// FindPendingByVariant returns a consistent snapshot of all pending
	// requests for the given variant.
	FindPendingByVariant(ctx context.Context, variantID string) ([]domain.StockRequest, error)

	// MarkNotified transitions each id that is currently pending to notified
	// and returns exactly those records. Ids already notified or unknown are
	// skipped, which makes overlapping calls idempotent: an id is returned by
	// at most one call across the lifetime of the store.
	MarkNotified(ctx context.Context, ids []int64) ([]domain.StockRequest, error)

	// ClaimPending atomically selects all pending requests for the variant,
	// transitions them to notified, and returns the claimed set. Two
	// concurrent claims for the same variant partition the pending set
	// disjointly.
	ClaimPending(ctx context.Context, variantID string) ([]domain.StockRequest, error)

	// ListAll returns a snapshot of every record in creation order.
	ListAll(ctx context.Context) ([]domain.StockRequest, error)

	// Stats returns point-in-time counts.
	Stats(ctx context.Context) (Stats, error)
}
