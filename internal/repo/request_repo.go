package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-restock-backend/internal/domain"
	"github.com/tbourn/go-restock-backend/internal/store"
)

// GormStore implements store.RequestStore on top of GORM/SQLite.
//
// Atomicity of the select-then-transition step comes from running both inside
// one transaction and guarding the UPDATE with "notified_at IS NULL": a row
// already claimed by a concurrent transaction is simply not updated again, so
// an id is still handed out at most once.
type GormStore struct {
	DB *gorm.DB
}

// NewGormStore returns a RequestStore backed by the given database handle.
func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{DB: db} }

// Create implements store.RequestStore.
func (s *GormStore) Create(ctx context.Context, in store.CreateInput) (*domain.StockRequest, error) {
	if strings.TrimSpace(in.Email) == "" {
		return nil, store.ErrEmailRequired
	}
	if strings.TrimSpace(in.VariantID) == "" {
		return nil, store.ErrVariantRequired
	}

	r := &domain.StockRequest{
		VariantID:    strings.TrimSpace(in.VariantID),
		ProductID:    in.ProductID,
		ProductTitle: in.ProductTitle,
		OptionLabel:  in.OptionLabel,
		Email:        strings.TrimSpace(in.Email),
		CustomerName: in.CustomerName,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.DB.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// FindPendingByVariant implements store.RequestStore.
func (s *GormStore) FindPendingByVariant(ctx context.Context, variantID string) ([]domain.StockRequest, error) {
	var out []domain.StockRequest
	err := s.DB.WithContext(ctx).
		Where("variant_id = ? AND notified_at IS NULL", variantID).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkNotified implements store.RequestStore.
func (s *GormStore) MarkNotified(ctx context.Context, ids []int64) ([]domain.StockRequest, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var out []domain.StockRequest
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claimed, err := markPending(tx, ids)
		if err != nil {
			return err
		}
		out = claimed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ClaimPending implements store.RequestStore.
func (s *GormStore) ClaimPending(ctx context.Context, variantID string) ([]domain.StockRequest, error) {
	var out []domain.StockRequest
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []int64
		if err := tx.Model(&domain.StockRequest{}).
			Where("variant_id = ? AND notified_at IS NULL", variantID).
			Order("id ASC").
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		claimed, err := markPending(tx, ids)
		if err != nil {
			return err
		}
		out = claimed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// markPending transitions the still-pending subset of ids inside tx and
// returns the transitioned rows. The transaction isolates the select from the
// update; the "notified_at IS NULL" guard on the UPDATE keeps the transition
// one-way even if a concurrent writer slipped a commit in between.
func markPending(tx *gorm.DB, ids []int64) ([]domain.StockRequest, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []domain.StockRequest
	if err := tx.
		Where("id IN ? AND notified_at IS NULL", ids).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	pending := make([]int64, len(rows))
	for i, r := range rows {
		pending[i] = r.ID
	}

	now := time.Now().UTC()
	res := tx.Model(&domain.StockRequest{}).
		Where("id IN ? AND notified_at IS NULL", pending).
		Update("notified_at", now)
	if res.Error != nil {
		return nil, res.Error
	}

	for i := range rows {
		at := now
		rows[i].NotifiedAt = &at
	}
	return rows, nil
}

// ListAll implements store.RequestStore.
func (s *GormStore) ListAll(ctx context.Context) ([]domain.StockRequest, error) {
	var out []domain.StockRequest
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Stats implements store.RequestStore.
func (s *GormStore) Stats(ctx context.Context) (store.Stats, error) {
	var st store.Stats
	db := s.DB.WithContext(ctx).Model(&domain.StockRequest{})

	if err := db.Session(&gorm.Session{}).Count(&st.Total).Error; err != nil {
		return store.Stats{}, err
	}
	if err := db.Session(&gorm.Session{}).Where("notified_at IS NULL").Count(&st.Pending).Error; err != nil {
		return store.Stats{}, err
	}
	st.Notified = st.Total - st.Pending
	return st, nil
}
