package persistence

import (
	"context"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormQuoteRepository implements billing.QuoteRepository using GORM
type GormQuoteRepository struct {
	documentRepository[billing.Quote]
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{documentRepository: newDocumentRepository[billing.Quote](db)}
}

// Save persists the quote and replaces its line items
func (r *GormQuoteRepository) Save(ctx context.Context, q *billing.Quote) error {
	return r.saveWithItems(ctx, q, q.ID)
}

// Delete removes the quote and its line items
func (r *GormQuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.deleteWithItems(ctx, id)
}

// FindByStatus finds quotes in the given status for an organization
func (r *GormQuoteRepository) FindByStatus(ctx context.Context, organizationID uuid.UUID, status billing.QuoteStatus, filter shared.Filter) ([]billing.Quote, error) {
	var quotes []billing.Quote
	query := r.applyFilter(
		r.query(ctx).Model(&billing.Quote{}).
			Where("organization_id = ? AND status = ?", organizationID, status),
		filter,
	)
	if err := query.Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}
