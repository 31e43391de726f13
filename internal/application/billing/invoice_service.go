package billing

import (
	"context"
	"time"

	appnumbering "github.com/facturio/backend/internal/application/numbering"
	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/numbering"
	"github.com/facturio/backend/internal/domain/partner"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LineItemRequest is one document line as submitted by a form
type LineItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Discount    decimal.Decimal `json:"discount"`
}

// CreateInvoiceRequest carries the data needed to open a draft invoice
type CreateInvoiceRequest struct {
	ClientID uuid.UUID         `json:"client_id" binding:"required"`
	Date     time.Time         `json:"date"`
	DueDate  *time.Time        `json:"due_date"`
	Notes    string            `json:"notes"`
	Items    []LineItemRequest `json:"items"`
}

// RecordPaymentRequest carries a payment against an invoice
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// InvoiceService orchestrates the invoice lifecycle
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
	clientRepo  partner.ClientRepository
	resolver    *appnumbering.Resolver
	notifier    DocumentNotifier
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	clientRepo partner.ClientRepository,
	resolver *appnumbering.Resolver,
	notifier DocumentNotifier,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		resolver:    resolver,
		notifier:    notifier,
		publisher:   publisher,
		logger:      logger,
	}
}

// CreateInvoice opens a draft invoice with a freshly issued number.
// Fallback numbers are suggestions, not reservations, so the save still
// rejects a duplicate instead of silently reusing it.
func (s *InvoiceService) CreateInvoice(ctx context.Context, organizationID uuid.UUID, req CreateInvoiceRequest) (*billing.Invoice, error) {
	client, err := s.clientRepo.FindByIDForOrganization(ctx, organizationID, req.ClientID)
	if err != nil {
		return nil, err
	}

	number := s.resolver.NextDocumentNumber(ctx, &organizationID, numbering.DocumentTypeInvoice)
	if number == "" {
		return nil, shared.ErrInvalidInput
	}

	exists, err := s.invoiceRepo.ExistsByNumber(ctx, organizationID, number)
	if err != nil {
		return nil, err
	}
	if exists {
		s.logger.Warn("generated invoice number already taken",
			zap.String("organization_id", organizationID.String()),
			zap.String("number", number))
		return nil, shared.ErrDuplicateNumber
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	inv, err := billing.NewInvoice(organizationID, number, client.ID, client.Name, date)
	if err != nil {
		return nil, err
	}
	if req.DueDate != nil {
		if err := inv.SetDueDate(*req.DueDate); err != nil {
			return nil, err
		}
	}
	inv.SetNotes(req.Notes)

	for _, line := range req.Items {
		if _, err := inv.AddItem(line.Description, line.Quantity, line.UnitPrice, line.TaxRate, line.Discount); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, inv)
	s.logger.Info("invoice created",
		zap.String("organization_id", organizationID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("number", inv.Number))
	return inv, nil
}

// GetInvoice fetches one invoice within the organization boundary
func (s *InvoiceService) GetInvoice(ctx context.Context, organizationID, invoiceID uuid.UUID) (*billing.Invoice, error) {
	return s.invoiceRepo.FindByIDForOrganization(ctx, organizationID, invoiceID)
}

// ListInvoices returns a page of the organization's invoices
func (s *InvoiceService) ListInvoices(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (shared.Paginated[billing.Invoice], error) {
	invoices, err := s.invoiceRepo.FindAllForOrganization(ctx, organizationID, filter)
	if err != nil {
		return shared.Paginated[billing.Invoice]{}, err
	}
	total, err := s.invoiceRepo.CountForOrganization(ctx, organizationID, filter)
	if err != nil {
		return shared.Paginated[billing.Invoice]{}, err
	}
	return shared.NewPaginated(invoices, total, filter.Page, filter.PageSize), nil
}

// AddItem appends a line to a draft invoice
func (s *InvoiceService) AddItem(ctx context.Context, organizationID, invoiceID uuid.UUID, req LineItemRequest) (*billing.Invoice, error) {
	inv, err := s.invoiceRepo.FindByIDForOrganization(ctx, organizationID, invoiceID)
	if err != nil {
		return nil, err
	}
	if _, err := inv.AddItem(req.Description, req.Quantity, req.UnitPrice, req.TaxRate, req.Discount); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// RemoveItem deletes a line from a draft invoice
func (s *InvoiceService) RemoveItem(ctx context.Context, organizationID, invoiceID, itemID uuid.UUID) (*billing.Invoice, error) {
	inv, err := s.invoiceRepo.FindByIDForOrganization(ctx, organizationID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := inv.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// SendInvoice transitions the invoice to sent and dispatches the rendered
// document to the client. A notification failure does not roll back the
// status change; it surfaces to the caller as a warning.
func (s *InvoiceService) SendInvoice(ctx context.Context, organizationID, invoiceID uuid.UUID) (*billing.Invoice, error) {
	inv, err := s.invoiceRepo.FindByIDForOrganization(ctx, organizationID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := inv.Send(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, inv)

	if s.notifier != nil {
		if err := s.notifier.SendDocument(ctx, DocumentRef{
			OrganizationID: organizationID,
			DocumentID:     inv.ID,
			DocumentType:   numbering.DocumentTypeInvoice,
			Number:         inv.Number,
			RecipientID:    inv.ClientID,
			Printable:      PrintableFromInvoice(inv),
		}); err != nil {
			s.logger.Warn("invoice notification failed",
				zap.String("invoice_id", inv.ID.String()),
				zap.Error(err))
		}
	}
	return inv, nil
}

// ValidateInvoice confirms a sent invoice as final
func (s *InvoiceService) ValidateInvoice(ctx context.Context, organizationID, invoiceID uuid.UUID) (*billing.Invoice, error) {
	inv, err := s.invoiceRepo.FindByIDForOrganization(ctx, organizationID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// RecordPayment registers a payment received against the invoice
func (s *InvoiceService) RecordPayment(ctx context.Context, organizationID, invoiceID uuid.UUID, req RecordPaymentRequest) (*billing.Invoice, error) {
	inv, err := s.invoiceRepo.FindByIDForOrganization(ctx, organizationID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := inv.RecordPayment(req.Amount); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, inv)
	return inv, nil
}

// MarkOverdueInvoices sweeps the organization's invoices whose due date
// elapsed and flags them overdue. Returns how many were flagged.
func (s *InvoiceService) MarkOverdueInvoices(ctx context.Context, organizationID uuid.UUID) (int, error) {
	overdue, err := s.invoiceRepo.FindOverdue(ctx, organizationID)
	if err != nil {
		return 0, err
	}

	flagged := 0
	now := time.Now()
	for idx := range overdue {
		inv := &overdue[idx]
		if !inv.IsPastDue(now) {
			continue
		}
		if err := inv.MarkOverdue(); err != nil {
			continue
		}
		if err := s.invoiceRepo.Save(ctx, inv); err != nil {
			s.logger.Warn("failed to persist overdue flag",
				zap.String("invoice_id", inv.ID.String()),
				zap.Error(err))
			continue
		}
		flagged++
	}
	return flagged, nil
}

// DeleteInvoice removes a draft invoice. Anything past draft is immutable
// history and cannot be deleted.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, organizationID, invoiceID uuid.UUID) error {
	inv, err := s.invoiceRepo.FindByIDForOrganization(ctx, organizationID, invoiceID)
	if err != nil {
		return err
	}
	if !inv.Permissions().CanDelete {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be deleted")
	}
	return s.invoiceRepo.Delete(ctx, invoiceID)
}

func (s *InvoiceService) publishEvents(ctx context.Context, inv *billing.Invoice) {
	if s.publisher == nil {
		return
	}
	for _, event := range inv.GetDomainEvents() {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	inv.ClearDomainEvents()
}
