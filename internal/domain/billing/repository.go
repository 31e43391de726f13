package billing

import (
	"context"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository persists invoices
type InvoiceRepository interface {
	shared.OrganizationRepository[Invoice]
	FindByNumber(ctx context.Context, organizationID uuid.UUID, number string) (*Invoice, error)
	ExistsByNumber(ctx context.Context, organizationID uuid.UUID, number string) (bool, error)
	FindByStatus(ctx context.Context, organizationID uuid.UUID, status InvoiceStatus, filter shared.Filter) ([]Invoice, error)
	FindOverdue(ctx context.Context, organizationID uuid.UUID) ([]Invoice, error)
}

// QuoteRepository persists quotes
type QuoteRepository interface {
	shared.OrganizationRepository[Quote]
	ExistsByNumber(ctx context.Context, organizationID uuid.UUID, number string) (bool, error)
	FindByStatus(ctx context.Context, organizationID uuid.UUID, status QuoteStatus, filter shared.Filter) ([]Quote, error)
}

// DeliveryNoteRepository persists delivery notes
type DeliveryNoteRepository interface {
	shared.OrganizationRepository[DeliveryNote]
	ExistsByNumber(ctx context.Context, organizationID uuid.UUID, number string) (bool, error)
	FindByStatus(ctx context.Context, organizationID uuid.UUID, status DeliveryNoteStatus, filter shared.Filter) ([]DeliveryNote, error)
}

// CreditNoteRepository persists credit notes
type CreditNoteRepository interface {
	shared.OrganizationRepository[CreditNote]
	ExistsByNumber(ctx context.Context, organizationID uuid.UUID, number string) (bool, error)
	FindByInvoice(ctx context.Context, organizationID, invoiceID uuid.UUID) ([]CreditNote, error)
}

// PurchaseOrderRepository persists purchase orders
type PurchaseOrderRepository interface {
	shared.OrganizationRepository[PurchaseOrder]
	ExistsByNumber(ctx context.Context, organizationID uuid.UUID, number string) (bool, error)
	FindBySupplier(ctx context.Context, organizationID, supplierID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)
	FindByStatus(ctx context.Context, organizationID uuid.UUID, status PurchaseOrderStatus, filter shared.Filter) ([]PurchaseOrder, error)
}
