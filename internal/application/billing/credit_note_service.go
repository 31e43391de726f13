package billing

import (
	"context"
	"time"

	appnumbering "github.com/facturio/backend/internal/application/numbering"
	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/numbering"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateCreditNoteRequest carries the data for an avoir issued against an
// existing invoice
type CreateCreditNoteRequest struct {
	InvoiceID uuid.UUID         `json:"invoice_id" binding:"required"`
	Date      time.Time         `json:"date"`
	Reason    string            `json:"reason"`
	Items     []LineItemRequest `json:"items"`
}

// CreditNoteService orchestrates the credit note lifecycle
type CreditNoteService struct {
	creditRepo  billing.CreditNoteRepository
	invoiceRepo billing.InvoiceRepository
	resolver    *appnumbering.Resolver
	notifier    DocumentNotifier
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewCreditNoteService creates a new CreditNoteService
func NewCreditNoteService(
	creditRepo billing.CreditNoteRepository,
	invoiceRepo billing.InvoiceRepository,
	resolver *appnumbering.Resolver,
	notifier DocumentNotifier,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *CreditNoteService {
	return &CreditNoteService{
		creditRepo:  creditRepo,
		invoiceRepo: invoiceRepo,
		resolver:    resolver,
		notifier:    notifier,
		publisher:   publisher,
		logger:      logger,
	}
}

// CreateCreditNote opens a draft avoir against an invoice of the same
// organization, carrying the invoice's client
func (s *CreditNoteService) CreateCreditNote(ctx context.Context, organizationID uuid.UUID, req CreateCreditNoteRequest) (*billing.CreditNote, error) {
	inv, err := s.invoiceRepo.FindByIDForOrganization(ctx, organizationID, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	number := s.resolver.NextDocumentNumber(ctx, &organizationID, numbering.DocumentTypeCreditNote)
	if number == "" {
		return nil, shared.ErrInvalidInput
	}
	exists, err := s.creditRepo.ExistsByNumber(ctx, organizationID, number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrDuplicateNumber
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	cn, err := billing.NewCreditNote(organizationID, number, inv.ClientID, inv.ClientName, date)
	if err != nil {
		return nil, err
	}
	cn.SetReason(req.Reason)

	for _, line := range req.Items {
		if _, err := cn.AddItem(line.Description, line.Quantity, line.UnitPrice, line.TaxRate, line.Discount); err != nil {
			return nil, err
		}
	}

	if err := s.creditRepo.Save(ctx, cn); err != nil {
		return nil, err
	}
	s.logger.Info("credit note created",
		zap.String("organization_id", organizationID.String()),
		zap.String("number", cn.Number),
		zap.String("invoice_number", inv.Number))
	return cn, nil
}

// GetCreditNote fetches one credit note within the organization boundary
func (s *CreditNoteService) GetCreditNote(ctx context.Context, organizationID, creditNoteID uuid.UUID) (*billing.CreditNote, error) {
	return s.creditRepo.FindByIDForOrganization(ctx, organizationID, creditNoteID)
}

// ListCreditNotes returns a page of the organization's credit notes
func (s *CreditNoteService) ListCreditNotes(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (shared.Paginated[billing.CreditNote], error) {
	notes, err := s.creditRepo.FindAllForOrganization(ctx, organizationID, filter)
	if err != nil {
		return shared.Paginated[billing.CreditNote]{}, err
	}
	total, err := s.creditRepo.CountForOrganization(ctx, organizationID, filter)
	if err != nil {
		return shared.Paginated[billing.CreditNote]{}, err
	}
	return shared.NewPaginated(notes, total, filter.Page, filter.PageSize), nil
}

// SendCreditNote marks the avoir as sent to the client
func (s *CreditNoteService) SendCreditNote(ctx context.Context, organizationID, creditNoteID uuid.UUID) (*billing.CreditNote, error) {
	cn, err := s.creditRepo.FindByIDForOrganization(ctx, organizationID, creditNoteID)
	if err != nil {
		return nil, err
	}
	if err := cn.Send(); err != nil {
		return nil, err
	}
	if err := s.creditRepo.Save(ctx, cn); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.SendDocument(ctx, DocumentRef{
			OrganizationID: organizationID,
			DocumentID:     cn.ID,
			DocumentType:   numbering.DocumentTypeCreditNote,
			Number:         cn.Number,
			RecipientID:    cn.ClientID,
			Printable:      PrintableFromCreditNote(cn),
		}); err != nil {
			s.logger.Warn("credit note notification failed",
				zap.String("credit_note_id", cn.ID.String()),
				zap.Error(err))
		}
	}
	return cn, nil
}

// ApplyCreditNote applies the avoir against its invoice, reducing the
// invoice's outstanding balance by the credit total
func (s *CreditNoteService) ApplyCreditNote(ctx context.Context, organizationID, creditNoteID, invoiceID uuid.UUID) (*billing.CreditNote, error) {
	cn, err := s.creditRepo.FindByIDForOrganization(ctx, organizationID, creditNoteID)
	if err != nil {
		return nil, err
	}
	inv, err := s.invoiceRepo.FindByIDForOrganization(ctx, organizationID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := cn.ApplyToInvoice(inv.ID); err != nil {
		return nil, err
	}

	// the credit reduces the invoice balance like a payment, capped at
	// what is still owed
	amount := cn.Total
	if remaining := inv.RemainingBalance(); amount.GreaterThan(remaining) {
		amount = remaining
	}
	if amount.IsPositive() {
		if err := inv.RecordPayment(amount); err != nil {
			return nil, err
		}
	}

	if err := s.creditRepo.Save(ctx, cn); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if pubErr := s.publisher.Publish(ctx, cn.GetDomainEvents()...); pubErr != nil {
			s.logger.Warn("failed to publish credit note events", zap.Error(pubErr))
		}
		cn.ClearDomainEvents()
	}

	s.logger.Info("credit note applied",
		zap.String("organization_id", organizationID.String()),
		zap.String("credit_note_number", cn.Number),
		zap.String("invoice_number", inv.Number))
	return cn, nil
}

// CancelCreditNote cancels a draft or sent avoir
func (s *CreditNoteService) CancelCreditNote(ctx context.Context, organizationID, creditNoteID uuid.UUID) (*billing.CreditNote, error) {
	cn, err := s.creditRepo.FindByIDForOrganization(ctx, organizationID, creditNoteID)
	if err != nil {
		return nil, err
	}
	if err := cn.Cancel(); err != nil {
		return nil, err
	}
	if err := s.creditRepo.Save(ctx, cn); err != nil {
		return nil, err
	}
	return cn, nil
}

// DeleteCreditNote removes an avoir unless it was applied
func (s *CreditNoteService) DeleteCreditNote(ctx context.Context, organizationID, creditNoteID uuid.UUID) error {
	cn, err := s.creditRepo.FindByIDForOrganization(ctx, organizationID, creditNoteID)
	if err != nil {
		return err
	}
	if !cn.Permissions().CanDelete {
		return shared.NewDomainError("INVALID_STATE", "An applied credit note cannot be deleted")
	}
	return s.creditRepo.Delete(ctx, creditNoteID)
}
