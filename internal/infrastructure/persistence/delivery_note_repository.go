package persistence

import (
	"context"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDeliveryNoteRepository implements billing.DeliveryNoteRepository using GORM
type GormDeliveryNoteRepository struct {
	documentRepository[billing.DeliveryNote]
}

// NewGormDeliveryNoteRepository creates a new GormDeliveryNoteRepository
func NewGormDeliveryNoteRepository(db *gorm.DB) *GormDeliveryNoteRepository {
	return &GormDeliveryNoteRepository{documentRepository: newDocumentRepository[billing.DeliveryNote](db)}
}

// Save persists the delivery note and replaces its line items
func (r *GormDeliveryNoteRepository) Save(ctx context.Context, dn *billing.DeliveryNote) error {
	return r.saveWithItems(ctx, dn, dn.ID)
}

// Delete removes the delivery note and its line items
func (r *GormDeliveryNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.deleteWithItems(ctx, id)
}

// FindByStatus finds delivery notes in the given status for an organization
func (r *GormDeliveryNoteRepository) FindByStatus(ctx context.Context, organizationID uuid.UUID, status billing.DeliveryNoteStatus, filter shared.Filter) ([]billing.DeliveryNote, error) {
	var notes []billing.DeliveryNote
	query := r.applyFilter(
		r.query(ctx).Model(&billing.DeliveryNote{}).
			Where("organization_id = ? AND status = ?", organizationID, status),
		filter,
	)
	if err := query.Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}
