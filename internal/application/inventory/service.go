package inventory

import (
	"context"
	"errors"

	"github.com/facturio/backend/internal/domain/inventory"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateStockItemRequest carries the fields for a new tracked product
type CreateStockItemRequest struct {
	SKU         string          `json:"sku" binding:"required,max=50"`
	Name        string          `json:"name" binding:"required,max=200"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	Unit        string          `json:"unit"`
}

// AdjustStockRequest moves stock in or out of an item
type AdjustStockRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Reason   string          `json:"reason"`
}

// StockService manages the stock item catalog and manual adjustments.
// Document-driven movements (delivery reservations, purchase receipts)
// go through the billing services instead.
type StockService struct {
	stockRepo inventory.StockItemRepository
	logger    *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(stockRepo inventory.StockItemRepository, logger *zap.Logger) *StockService {
	return &StockService{stockRepo: stockRepo, logger: logger}
}

// CreateStockItem registers a new tracked product. The SKU must be
// unique within the organization.
func (s *StockService) CreateStockItem(ctx context.Context, organizationID uuid.UUID, req CreateStockItemRequest) (*inventory.StockItem, error) {
	existing, err := s.stockRepo.FindBySKU(ctx, organizationID, req.SKU)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	item, err := inventory.NewStockItem(organizationID, req.SKU, req.Name, req.Quantity, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	item.Description = req.Description
	if req.Unit != "" {
		item.Unit = req.Unit
	}
	if req.MinQuantity.GreaterThan(decimal.Zero) {
		if err := item.SetMinQuantity(req.MinQuantity); err != nil {
			return nil, err
		}
	}

	if err := s.stockRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("stock item created",
		zap.String("organization_id", organizationID.String()),
		zap.String("sku", item.SKU))
	return item, nil
}

// GetStockItem fetches one item within the organization boundary
func (s *StockService) GetStockItem(ctx context.Context, organizationID, itemID uuid.UUID) (*inventory.StockItem, error) {
	return s.stockRepo.FindByIDForOrganization(ctx, organizationID, itemID)
}

// ListStockItems returns the organization's stock items
func (s *StockService) ListStockItems(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]inventory.StockItem, error) {
	return s.stockRepo.FindAllForOrganization(ctx, organizationID, filter)
}

// ListLowStock returns items at or below their alert threshold
func (s *StockService) ListLowStock(ctx context.Context, organizationID uuid.UUID) ([]inventory.StockItem, error) {
	return s.stockRepo.FindLowStock(ctx, organizationID)
}

// ReceiveStock adds quantity to an item outside of a purchase order
func (s *StockService) ReceiveStock(ctx context.Context, organizationID, itemID uuid.UUID, req AdjustStockRequest) (*inventory.StockItem, error) {
	item, err := s.stockRepo.FindByIDForOrganization(ctx, organizationID, itemID)
	if err != nil {
		return nil, err
	}
	if err := item.Restock(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.stockRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("stock received",
		zap.String("organization_id", organizationID.String()),
		zap.String("sku", item.SKU),
		zap.String("quantity", req.Quantity.String()),
		zap.String("reason", req.Reason))
	return item, nil
}

// WithdrawStock removes quantity from an item outside of a delivery note
func (s *StockService) WithdrawStock(ctx context.Context, organizationID, itemID uuid.UUID, req AdjustStockRequest) (*inventory.StockItem, error) {
	item, err := s.stockRepo.FindByIDForOrganization(ctx, organizationID, itemID)
	if err != nil {
		return nil, err
	}
	if err := item.Reserve(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.stockRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	if item.IsLowStock() {
		s.logger.Warn("stock item below minimum quantity",
			zap.String("organization_id", organizationID.String()),
			zap.String("sku", item.SKU),
			zap.String("quantity", item.Quantity.String()))
	}
	return item, nil
}

// SetMinQuantity updates the low-stock alert threshold
func (s *StockService) SetMinQuantity(ctx context.Context, organizationID, itemID uuid.UUID, min decimal.Decimal) (*inventory.StockItem, error) {
	item, err := s.stockRepo.FindByIDForOrganization(ctx, organizationID, itemID)
	if err != nil {
		return nil, err
	}
	if err := item.SetMinQuantity(min); err != nil {
		return nil, err
	}
	if err := s.stockRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteStockItem removes an item from the catalog
func (s *StockService) DeleteStockItem(ctx context.Context, organizationID, itemID uuid.UUID) error {
	item, err := s.stockRepo.FindByIDForOrganization(ctx, organizationID, itemID)
	if err != nil {
		return err
	}
	return s.stockRepo.Delete(ctx, item.ID)
}
