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
	"go.uber.org/zap"
)

// CreateQuoteRequest carries the data needed to open a draft quote
type CreateQuoteRequest struct {
	ClientID   uuid.UUID         `json:"client_id" binding:"required"`
	Date       time.Time         `json:"date"`
	ValidUntil *time.Time        `json:"valid_until"`
	Notes      string            `json:"notes"`
	Items      []LineItemRequest `json:"items"`
}

// QuoteService orchestrates the quote lifecycle, including conversion of
// accepted quotes into invoices
type QuoteService struct {
	quoteRepo   billing.QuoteRepository
	invoiceRepo billing.InvoiceRepository
	clientRepo  partner.ClientRepository
	resolver    *appnumbering.Resolver
	notifier    DocumentNotifier
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	quoteRepo billing.QuoteRepository,
	invoiceRepo billing.InvoiceRepository,
	clientRepo partner.ClientRepository,
	resolver *appnumbering.Resolver,
	notifier DocumentNotifier,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		quoteRepo:   quoteRepo,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		resolver:    resolver,
		notifier:    notifier,
		publisher:   publisher,
		logger:      logger,
	}
}

// CreateQuote opens a draft quote with a freshly issued number
func (s *QuoteService) CreateQuote(ctx context.Context, organizationID uuid.UUID, req CreateQuoteRequest) (*billing.Quote, error) {
	client, err := s.clientRepo.FindByIDForOrganization(ctx, organizationID, req.ClientID)
	if err != nil {
		return nil, err
	}

	number := s.resolver.NextDocumentNumber(ctx, &organizationID, numbering.DocumentTypeQuote)
	if number == "" {
		return nil, shared.ErrInvalidInput
	}
	exists, err := s.quoteRepo.ExistsByNumber(ctx, organizationID, number)
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

	q, err := billing.NewQuote(organizationID, number, client.ID, client.Name, date)
	if err != nil {
		return nil, err
	}
	q.ValidUntil = req.ValidUntil
	q.Notes = req.Notes

	for _, line := range req.Items {
		if _, err := q.AddItem(line.Description, line.Quantity, line.UnitPrice, line.TaxRate, line.Discount); err != nil {
			return nil, err
		}
	}

	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}
	s.logger.Info("quote created",
		zap.String("organization_id", organizationID.String()),
		zap.String("number", q.Number))
	return q, nil
}

// GetQuote fetches one quote within the organization boundary
func (s *QuoteService) GetQuote(ctx context.Context, organizationID, quoteID uuid.UUID) (*billing.Quote, error) {
	return s.quoteRepo.FindByIDForOrganization(ctx, organizationID, quoteID)
}

// ListQuotes returns a page of the organization's quotes
func (s *QuoteService) ListQuotes(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (shared.Paginated[billing.Quote], error) {
	quotes, err := s.quoteRepo.FindAllForOrganization(ctx, organizationID, filter)
	if err != nil {
		return shared.Paginated[billing.Quote]{}, err
	}
	total, err := s.quoteRepo.CountForOrganization(ctx, organizationID, filter)
	if err != nil {
		return shared.Paginated[billing.Quote]{}, err
	}
	return shared.NewPaginated(quotes, total, filter.Page, filter.PageSize), nil
}

// SendQuote submits the quote to the client
func (s *QuoteService) SendQuote(ctx context.Context, organizationID, quoteID uuid.UUID) (*billing.Quote, error) {
	q, err := s.quoteRepo.FindByIDForOrganization(ctx, organizationID, quoteID)
	if err != nil {
		return nil, err
	}
	if err := q.Send(); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.SendDocument(ctx, DocumentRef{
			OrganizationID: organizationID,
			DocumentID:     q.ID,
			DocumentType:   numbering.DocumentTypeQuote,
			Number:         q.Number,
			RecipientID:    q.ClientID,
			Printable:      PrintableFromQuote(q),
		}); err != nil {
			s.logger.Warn("quote notification failed",
				zap.String("quote_id", q.ID.String()),
				zap.Error(err))
		}
	}
	return q, nil
}

// ApproveQuote marks the pending quote as internally approved
func (s *QuoteService) ApproveQuote(ctx context.Context, organizationID, quoteID uuid.UUID) (*billing.Quote, error) {
	return s.transition(ctx, organizationID, quoteID, (*billing.Quote).Approve)
}

// AcceptQuote records client acceptance
func (s *QuoteService) AcceptQuote(ctx context.Context, organizationID, quoteID uuid.UUID) (*billing.Quote, error) {
	q, err := s.transition(ctx, organizationID, quoteID, (*billing.Quote).Accept)
	if err != nil {
		return nil, err
	}
	if s.publisher != nil {
		if pubErr := s.publisher.Publish(ctx, q.GetDomainEvents()...); pubErr != nil {
			s.logger.Warn("failed to publish quote events", zap.Error(pubErr))
		}
		q.ClearDomainEvents()
	}
	return q, nil
}

// RejectQuote records client rejection
func (s *QuoteService) RejectQuote(ctx context.Context, organizationID, quoteID uuid.UUID) (*billing.Quote, error) {
	return s.transition(ctx, organizationID, quoteID, (*billing.Quote).Reject)
}

// CancelQuote cancels the quote
func (s *QuoteService) CancelQuote(ctx context.Context, organizationID, quoteID uuid.UUID) (*billing.Quote, error) {
	return s.transition(ctx, organizationID, quoteID, (*billing.Quote).Cancel)
}

// ConvertQuoteToInvoice duplicates an accepted quote into a draft invoice
// carrying a freshly issued invoice number
func (s *QuoteService) ConvertQuoteToInvoice(ctx context.Context, organizationID, quoteID uuid.UUID) (*billing.Invoice, error) {
	q, err := s.quoteRepo.FindByIDForOrganization(ctx, organizationID, quoteID)
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
		return nil, shared.ErrDuplicateNumber
	}

	inv, err := q.ConvertToInvoice(number, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("quote converted to invoice",
		zap.String("organization_id", organizationID.String()),
		zap.String("quote_number", q.Number),
		zap.String("invoice_number", inv.Number))
	return inv, nil
}

// DeleteQuote removes a quote unless it was accepted
func (s *QuoteService) DeleteQuote(ctx context.Context, organizationID, quoteID uuid.UUID) error {
	q, err := s.quoteRepo.FindByIDForOrganization(ctx, organizationID, quoteID)
	if err != nil {
		return err
	}
	if !q.Permissions().CanDelete {
		return shared.NewDomainError("INVALID_STATE", "An accepted quote cannot be deleted")
	}
	return s.quoteRepo.Delete(ctx, quoteID)
}

func (s *QuoteService) transition(ctx context.Context, organizationID, quoteID uuid.UUID, action func(*billing.Quote) error) (*billing.Quote, error) {
	q, err := s.quoteRepo.FindByIDForOrganization(ctx, organizationID, quoteID)
	if err != nil {
		return nil, err
	}
	if err := action(q); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}
