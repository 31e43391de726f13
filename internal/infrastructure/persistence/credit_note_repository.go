package persistence

import (
	"context"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCreditNoteRepository implements billing.CreditNoteRepository using GORM
type GormCreditNoteRepository struct {
	documentRepository[billing.CreditNote]
}

// NewGormCreditNoteRepository creates a new GormCreditNoteRepository
func NewGormCreditNoteRepository(db *gorm.DB) *GormCreditNoteRepository {
	return &GormCreditNoteRepository{documentRepository: newDocumentRepository[billing.CreditNote](db)}
}

// Save persists the credit note and replaces its line items
func (r *GormCreditNoteRepository) Save(ctx context.Context, cn *billing.CreditNote) error {
	return r.saveWithItems(ctx, cn, cn.ID)
}

// Delete removes the credit note and its line items
func (r *GormCreditNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.deleteWithItems(ctx, id)
}

// FindByInvoice finds the credit notes applied against an invoice
func (r *GormCreditNoteRepository) FindByInvoice(ctx context.Context, organizationID, invoiceID uuid.UUID) ([]billing.CreditNote, error) {
	var notes []billing.CreditNote
	if err := r.query(ctx).
		Where("organization_id = ? AND applied_invoice_id = ?", organizationID, invoiceID).
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}
