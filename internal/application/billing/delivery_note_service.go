package billing

import (
	"context"
	"time"

	appnumbering "github.com/facturio/backend/internal/application/numbering"
	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/inventory"
	"github.com/facturio/backend/internal/domain/numbering"
	"github.com/facturio/backend/internal/domain/partner"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateDeliveryNoteRequest carries the data for a new delivery note.
// Lines referencing a stock item are validated against available stock
// before anything is written.
type CreateDeliveryNoteRequest struct {
	ClientID uuid.UUID                 `json:"client_id" binding:"required"`
	Date     time.Time                 `json:"date"`
	Notes    string                    `json:"notes"`
	Items    []DeliveryLineItemRequest `json:"items"`
}

// DeliveryLineItemRequest is a delivery line, optionally tied to stock
type DeliveryLineItemRequest struct {
	LineItemRequest
	StockItemID *uuid.UUID `json:"stock_item_id"`
}

// DeliveryNoteService orchestrates the delivery note lifecycle
type DeliveryNoteService struct {
	noteRepo  billing.DeliveryNoteRepository
	clientRepo partner.ClientRepository
	stockRepo inventory.StockItemRepository
	resolver  *appnumbering.Resolver
	notifier  DocumentNotifier
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewDeliveryNoteService creates a new DeliveryNoteService
func NewDeliveryNoteService(
	noteRepo billing.DeliveryNoteRepository,
	clientRepo partner.ClientRepository,
	stockRepo inventory.StockItemRepository,
	resolver *appnumbering.Resolver,
	notifier DocumentNotifier,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *DeliveryNoteService {
	return &DeliveryNoteService{
		noteRepo:   noteRepo,
		clientRepo: clientRepo,
		stockRepo:  stockRepo,
		resolver:   resolver,
		notifier:   notifier,
		publisher:  publisher,
		logger:     logger,
	}
}

// CreateDeliveryNote opens a pending delivery note with a fresh number.
// Stock-backed lines that exceed available quantity fail before any
// repository write.
func (s *DeliveryNoteService) CreateDeliveryNote(ctx context.Context, organizationID uuid.UUID, req CreateDeliveryNoteRequest) (*billing.DeliveryNote, error) {
	client, err := s.clientRepo.FindByIDForOrganization(ctx, organizationID, req.ClientID)
	if err != nil {
		return nil, err
	}

	// validate stock first so the failure surfaces inline
	reserved := make(map[uuid.UUID]*inventory.StockItem)
	for _, line := range req.Items {
		if line.StockItemID == nil {
			continue
		}
		item, err := s.stockRepo.FindByIDForOrganization(ctx, organizationID, *line.StockItemID)
		if err != nil {
			return nil, err
		}
		if !item.CanFulfill(line.Quantity) {
			return nil, shared.ErrInsufficientStock
		}
		reserved[item.ID] = item
	}

	number := s.resolver.NextDocumentNumber(ctx, &organizationID, numbering.DocumentTypeDeliveryNote)
	if number == "" {
		return nil, shared.ErrInvalidInput
	}
	exists, err := s.noteRepo.ExistsByNumber(ctx, organizationID, number)
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

	note, err := billing.NewDeliveryNote(organizationID, number, client.ID, client.Name, date)
	if err != nil {
		return nil, err
	}
	note.Notes = req.Notes

	for _, line := range req.Items {
		if _, err := note.AddItem(line.Description, line.Quantity, line.UnitPrice, line.TaxRate, line.Discount); err != nil {
			return nil, err
		}
		if line.StockItemID != nil {
			if err := reserved[*line.StockItemID].Reserve(line.Quantity); err != nil {
				return nil, err
			}
		}
	}

	if err := s.noteRepo.Save(ctx, note); err != nil {
		return nil, err
	}
	for _, item := range reserved {
		if err := s.stockRepo.Save(ctx, item); err != nil {
			s.logger.Warn("failed to persist stock reservation",
				zap.String("stock_item_id", item.ID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("delivery note created",
		zap.String("organization_id", organizationID.String()),
		zap.String("number", note.Number))
	return note, nil
}

// GetDeliveryNote fetches one delivery note within the organization boundary
func (s *DeliveryNoteService) GetDeliveryNote(ctx context.Context, organizationID, noteID uuid.UUID) (*billing.DeliveryNote, error) {
	return s.noteRepo.FindByIDForOrganization(ctx, organizationID, noteID)
}

// ListDeliveryNotes returns a page of the organization's delivery notes
func (s *DeliveryNoteService) ListDeliveryNotes(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (shared.Paginated[billing.DeliveryNote], error) {
	notes, err := s.noteRepo.FindAllForOrganization(ctx, organizationID, filter)
	if err != nil {
		return shared.Paginated[billing.DeliveryNote]{}, err
	}
	total, err := s.noteRepo.CountForOrganization(ctx, organizationID, filter)
	if err != nil {
		return shared.Paginated[billing.DeliveryNote]{}, err
	}
	return shared.NewPaginated(notes, total, filter.Page, filter.PageSize), nil
}

// SendDeliveryNote dispatches the note alongside the shipment
func (s *DeliveryNoteService) SendDeliveryNote(ctx context.Context, organizationID, noteID uuid.UUID) (*billing.DeliveryNote, error) {
	note, err := s.noteRepo.FindByIDForOrganization(ctx, organizationID, noteID)
	if err != nil {
		return nil, err
	}
	if err := note.Send(); err != nil {
		return nil, err
	}
	if err := s.noteRepo.Save(ctx, note); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.SendDocument(ctx, DocumentRef{
			OrganizationID: organizationID,
			DocumentID:     note.ID,
			DocumentType:   numbering.DocumentTypeDeliveryNote,
			Number:         note.Number,
			RecipientID:    note.ClientID,
			Printable:      PrintableFromDeliveryNote(note),
		}); err != nil {
			s.logger.Warn("delivery note notification failed",
				zap.String("delivery_note_id", note.ID.String()),
				zap.Error(err))
		}
	}
	return note, nil
}

// MarkDelivered records that the goods reached the client
func (s *DeliveryNoteService) MarkDelivered(ctx context.Context, organizationID, noteID uuid.UUID) (*billing.DeliveryNote, error) {
	note, err := s.noteRepo.FindByIDForOrganization(ctx, organizationID, noteID)
	if err != nil {
		return nil, err
	}
	if err := note.MarkDelivered(); err != nil {
		return nil, err
	}
	if err := s.noteRepo.Save(ctx, note); err != nil {
		return nil, err
	}
	if s.publisher != nil {
		if pubErr := s.publisher.Publish(ctx, note.GetDomainEvents()...); pubErr != nil {
			s.logger.Warn("failed to publish delivery events", zap.Error(pubErr))
		}
		note.ClearDomainEvents()
	}
	return note, nil
}

// MarkSigned records the client signature on the delivered note
func (s *DeliveryNoteService) MarkSigned(ctx context.Context, organizationID, noteID uuid.UUID, signedBy string) (*billing.DeliveryNote, error) {
	note, err := s.noteRepo.FindByIDForOrganization(ctx, organizationID, noteID)
	if err != nil {
		return nil, err
	}
	if err := note.MarkSigned(signedBy); err != nil {
		return nil, err
	}
	if err := s.noteRepo.Save(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// DeleteDeliveryNote removes a note that has not been delivered yet
func (s *DeliveryNoteService) DeleteDeliveryNote(ctx context.Context, organizationID, noteID uuid.UUID) error {
	note, err := s.noteRepo.FindByIDForOrganization(ctx, organizationID, noteID)
	if err != nil {
		return err
	}
	if !note.Permissions().CanDelete {
		return shared.NewDomainError("INVALID_STATE", "Delivered goods cannot be deleted")
	}
	return s.noteRepo.Delete(ctx, noteID)
}
