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

// CreatePurchaseOrderRequest carries the data for a new purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID uuid.UUID                 `json:"supplier_id" binding:"required"`
	Date       time.Time                 `json:"date"`
	Notes      string                    `json:"notes"`
	Items      []PurchaseLineItemRequest `json:"items"`
}

// PurchaseLineItemRequest is a purchase line, optionally tied to stock so
// receiving the order restocks the item
type PurchaseLineItemRequest struct {
	LineItemRequest
	StockItemID *uuid.UUID `json:"stock_item_id"`
}

// PurchaseOrderService orchestrates the purchase order lifecycle
type PurchaseOrderService struct {
	orderRepo    billing.PurchaseOrderRepository
	supplierRepo partner.SupplierRepository
	stockRepo    inventory.StockItemRepository
	resolver     *appnumbering.Resolver
	notifier     DocumentNotifier
	publisher    shared.EventPublisher
	logger       *zap.Logger

	// stock links per order, keyed by line item ID
	stockLinks StockLinkStore
}

// StockLinkStore records which purchase order lines restock which items
type StockLinkStore interface {
	SaveLinks(ctx context.Context, orderID uuid.UUID, links map[uuid.UUID]uuid.UUID) error
	FindLinks(ctx context.Context, orderID uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo billing.PurchaseOrderRepository,
	supplierRepo partner.SupplierRepository,
	stockRepo inventory.StockItemRepository,
	stockLinks StockLinkStore,
	resolver *appnumbering.Resolver,
	notifier DocumentNotifier,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		stockRepo:    stockRepo,
		stockLinks:   stockLinks,
		resolver:     resolver,
		notifier:     notifier,
		publisher:    publisher,
		logger:       logger,
	}
}

// CreatePurchaseOrder opens a draft order with a fresh number
func (s *PurchaseOrderService) CreatePurchaseOrder(ctx context.Context, organizationID uuid.UUID, req CreatePurchaseOrderRequest) (*billing.PurchaseOrder, error) {
	supplier, err := s.supplierRepo.FindByIDForOrganization(ctx, organizationID, req.SupplierID)
	if err != nil {
		return nil, err
	}

	number := s.resolver.NextDocumentNumber(ctx, &organizationID, numbering.DocumentTypePurchaseOrder)
	if number == "" {
		return nil, shared.ErrInvalidInput
	}
	exists, err := s.orderRepo.ExistsByNumber(ctx, organizationID, number)
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

	po, err := billing.NewPurchaseOrder(organizationID, number, supplier.ID, supplier.Name, date)
	if err != nil {
		return nil, err
	}
	po.Notes = req.Notes

	links := make(map[uuid.UUID]uuid.UUID)
	for _, line := range req.Items {
		item, err := po.AddItem(line.Description, line.Quantity, line.UnitPrice, line.TaxRate, line.Discount)
		if err != nil {
			return nil, err
		}
		if line.StockItemID != nil {
			links[item.ID] = *line.StockItemID
		}
	}

	if err := s.orderRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	if len(links) > 0 && s.stockLinks != nil {
		if err := s.stockLinks.SaveLinks(ctx, po.ID, links); err != nil {
			s.logger.Warn("failed to persist stock links",
				zap.String("purchase_order_id", po.ID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("purchase order created",
		zap.String("organization_id", organizationID.String()),
		zap.String("number", po.Number))
	return po, nil
}

// GetPurchaseOrder fetches one order within the organization boundary
func (s *PurchaseOrderService) GetPurchaseOrder(ctx context.Context, organizationID, orderID uuid.UUID) (*billing.PurchaseOrder, error) {
	return s.orderRepo.FindByIDForOrganization(ctx, organizationID, orderID)
}

// ListPurchaseOrders returns a page of the organization's purchase orders
func (s *PurchaseOrderService) ListPurchaseOrders(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (shared.Paginated[billing.PurchaseOrder], error) {
	orders, err := s.orderRepo.FindAllForOrganization(ctx, organizationID, filter)
	if err != nil {
		return shared.Paginated[billing.PurchaseOrder]{}, err
	}
	total, err := s.orderRepo.CountForOrganization(ctx, organizationID, filter)
	if err != nil {
		return shared.Paginated[billing.PurchaseOrder]{}, err
	}
	return shared.NewPaginated(orders, total, filter.Page, filter.PageSize), nil
}

// SubmitPurchaseOrder moves the draft to en_attente
func (s *PurchaseOrderService) SubmitPurchaseOrder(ctx context.Context, organizationID, orderID uuid.UUID) (*billing.PurchaseOrder, error) {
	return s.transition(ctx, organizationID, orderID, (*billing.PurchaseOrder).Submit)
}

// ValidatePurchaseOrder approves the order for sending to the supplier
func (s *PurchaseOrderService) ValidatePurchaseOrder(ctx context.Context, organizationID, orderID uuid.UUID) (*billing.PurchaseOrder, error) {
	return s.transition(ctx, organizationID, orderID, (*billing.PurchaseOrder).Validate)
}

// SendPurchaseOrderEmail emails the order to the supplier. Status is
// unchanged; terminal orders refuse the action.
func (s *PurchaseOrderService) SendPurchaseOrderEmail(ctx context.Context, organizationID, orderID uuid.UUID) error {
	po, err := s.orderRepo.FindByIDForOrganization(ctx, organizationID, orderID)
	if err != nil {
		return err
	}
	if !po.Permissions().CanSendEmail {
		return shared.NewDomainError("INVALID_STATE", "Cannot email a received or cancelled purchase order")
	}
	if s.notifier == nil {
		return nil
	}
	return s.notifier.SendDocument(ctx, DocumentRef{
		OrganizationID: organizationID,
		DocumentID:     po.ID,
		DocumentType:   numbering.DocumentTypePurchaseOrder,
		Number:         po.Number,
		RecipientID:    po.SupplierID,
		Printable:      PrintableFromPurchaseOrder(po),
	})
}

// ReceivePurchaseOrder marks the order livree and restocks every line
// linked to a stock item
func (s *PurchaseOrderService) ReceivePurchaseOrder(ctx context.Context, organizationID, orderID uuid.UUID) (*billing.PurchaseOrder, error) {
	po, err := s.orderRepo.FindByIDForOrganization(ctx, organizationID, orderID)
	if err != nil {
		return nil, err
	}
	if err := po.MarkReceived(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, po); err != nil {
		return nil, err
	}

	s.restockLinkedItems(ctx, organizationID, po)

	if s.publisher != nil {
		if pubErr := s.publisher.Publish(ctx, po.GetDomainEvents()...); pubErr != nil {
			s.logger.Warn("failed to publish purchase order events", zap.Error(pubErr))
		}
		po.ClearDomainEvents()
	}
	return po, nil
}

// CancelPurchaseOrder cancels a not-yet-received order
func (s *PurchaseOrderService) CancelPurchaseOrder(ctx context.Context, organizationID, orderID uuid.UUID) (*billing.PurchaseOrder, error) {
	return s.transition(ctx, organizationID, orderID, (*billing.PurchaseOrder).Cancel)
}

// DeletePurchaseOrder removes an order unless its goods were received
func (s *PurchaseOrderService) DeletePurchaseOrder(ctx context.Context, organizationID, orderID uuid.UUID) error {
	po, err := s.orderRepo.FindByIDForOrganization(ctx, organizationID, orderID)
	if err != nil {
		return err
	}
	if !po.Permissions().CanDelete {
		return shared.NewDomainError("INVALID_STATE", "A received purchase order cannot be deleted")
	}
	return s.orderRepo.Delete(ctx, orderID)
}

func (s *PurchaseOrderService) restockLinkedItems(ctx context.Context, organizationID uuid.UUID, po *billing.PurchaseOrder) {
	if s.stockLinks == nil {
		return
	}
	links, err := s.stockLinks.FindLinks(ctx, po.ID)
	if err != nil || len(links) == 0 {
		return
	}
	for idx := range po.Items {
		line := &po.Items[idx]
		stockID, ok := links[line.ID]
		if !ok {
			continue
		}
		item, err := s.stockRepo.FindByIDForOrganization(ctx, organizationID, stockID)
		if err != nil {
			s.logger.Warn("linked stock item not found on receive",
				zap.String("stock_item_id", stockID.String()),
				zap.Error(err))
			continue
		}
		if err := item.Restock(line.Quantity); err != nil {
			continue
		}
		if err := s.stockRepo.Save(ctx, item); err != nil {
			s.logger.Warn("failed to persist restock",
				zap.String("stock_item_id", item.ID.String()),
				zap.Error(err))
		}
	}
}

func (s *PurchaseOrderService) transition(ctx context.Context, organizationID, orderID uuid.UUID, action func(*billing.PurchaseOrder) error) (*billing.PurchaseOrder, error) {
	po, err := s.orderRepo.FindByIDForOrganization(ctx, organizationID, orderID)
	if err != nil {
		return nil, err
	}
	if err := action(po); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}
