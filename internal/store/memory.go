package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tbourn/go-restock-backend/internal/domain"
)

// Memory is the volatile in-memory RequestStore. A single mutex guards the
// whole collection; write volume is low (one record per customer interest,
// one transition per restock) so per-variant locking buys nothing here.
//
// Records handed out by any method are copies. The only path that mutates a
// stored record is the pending -> notified transition inside MarkNotified and
// ClaimPending, both of which run under the lock.
type Memory struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.StockRequest
	order  []int64

	// now is a seam for tests; defaults to time.Now().UTC.
	now func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		byID: make(map[int64]*domain.StockRequest),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Create implements RequestStore.
func (m *Memory) Create(ctx context.Context, in CreateInput) (*domain.StockRequest, error) {
	if strings.TrimSpace(in.Email) == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(in.VariantID) == "" {
		return nil, ErrVariantRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	r := &domain.StockRequest{
		ID:           m.nextID,
		VariantID:    strings.TrimSpace(in.VariantID),
		ProductID:    in.ProductID,
		ProductTitle: in.ProductTitle,
		OptionLabel:  in.OptionLabel,
		Email:        strings.TrimSpace(in.Email),
		CustomerName: in.CustomerName,
		CreatedAt:    m.now(),
	}
	m.byID[r.ID] = r
	m.order = append(m.order, r.ID)

	out := *r
	return &out, nil
}

// FindPendingByVariant implements RequestStore.
func (m *Memory) FindPendingByVariant(ctx context.Context, variantID string) ([]domain.StockRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.StockRequest
	for _, id := range m.order {
		r := m.byID[id]
		if r.VariantID == variantID && r.Pending() {
			out = append(out, *r)
		}
	}
	return out, nil
}

// MarkNotified implements RequestStore. Ids that are unknown or already
// notified are skipped, so an id is returned by at most one call ever.
func (m *Memory) MarkNotified(ctx context.Context, ids []int64) ([]domain.StockRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.markLocked(ids), nil
}

// ClaimPending implements RequestStore. Selection and transition happen in
// one critical section, which is what makes concurrent duplicate events for
// the same variant safe.
func (m *Memory) ClaimPending(ctx context.Context, variantID string) ([]domain.StockRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []int64
	for _, id := range m.order {
		r := m.byID[id]
		if r.VariantID == variantID && r.Pending() {
			ids = append(ids, id)
		}
	}
	return m.markLocked(ids), nil
}

// markLocked transitions each still-pending id and returns copies of the
// transitioned records. Callers must hold m.mu.
func (m *Memory) markLocked(ids []int64) []domain.StockRequest {
	ts := m.now()

	var out []domain.StockRequest
	for _, id := range ids {
		r, ok := m.byID[id]
		if !ok || !r.Pending() {
			continue
		}
		at := ts
		r.NotifiedAt = &at
		out = append(out, *r)
	}
	return out
}

// ListAll implements RequestStore.
func (m *Memory) ListAll(ctx context.Context) ([]domain.StockRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.StockRequest, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.byID[id])
	}
	return out, nil
}

// Stats implements RequestStore.
func (m *Memory) Stats(ctx context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Stats{Total: int64(len(m.order))}
	for _, r := range m.byID {
		if r.Pending() {
			st.Pending++
		} else {
			st.Notified++
		}
	}
	return st, nil
}
