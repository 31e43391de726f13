package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	documentRepository[billing.Invoice]
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{documentRepository: newDocumentRepository[billing.Invoice](db)}
}

// Save persists the invoice and replaces its line items
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	return r.saveWithItems(ctx, inv, inv.ID)
}

// Delete removes the invoice and its line items
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.deleteWithItems(ctx, id)
}

// FindByNumber finds an invoice by its document number within an organization
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, organizationID uuid.UUID, number string) (*billing.Invoice, error) {
	var inv billing.Invoice
	if err := r.query(ctx).
		Where("organization_id = ? AND number = ?", organizationID, number).
		First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByStatus finds invoices in the given status for an organization
func (r *GormInvoiceRepository) FindByStatus(ctx context.Context, organizationID uuid.UUID, status billing.InvoiceStatus, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := r.applyFilter(
		r.query(ctx).Model(&billing.Invoice{}).
			Where("organization_id = ? AND status = ?", organizationID, status),
		filter,
	)
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindOverdue finds unpaid invoices whose due date has elapsed
func (r *GormInvoiceRepository) FindOverdue(ctx context.Context, organizationID uuid.UUID) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	if err := r.query(ctx).
		Where("organization_id = ? AND due_date IS NOT NULL AND due_date < ? AND status IN ?",
			organizationID, time.Now(),
			[]billing.InvoiceStatus{
				billing.InvoiceStatusSent,
				billing.InvoiceStatusValidated,
				billing.InvoiceStatusPartiallyPaid,
			}).
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}
