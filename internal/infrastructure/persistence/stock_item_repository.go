package persistence

import (
	"context"
	"errors"

	"github.com/facturio/backend/internal/domain/inventory"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockItemRepository implements inventory.StockItemRepository using GORM
type GormStockItemRepository struct {
	gormRepository[inventory.StockItem]
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{
		gormRepository: newGormRepository[inventory.StockItem](db, []string{"sku", "name"}, StockItemSortFields),
	}
}

// FindBySKU finds a stock item by SKU within an organization
func (r *GormStockItemRepository) FindBySKU(ctx context.Context, organizationID uuid.UUID, sku string) (*inventory.StockItem, error) {
	var item inventory.StockItem
	if err := r.query(ctx).
		Where("organization_id = ? AND sku = ?", organizationID, sku).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindLowStock finds items at or below their alert threshold
func (r *GormStockItemRepository) FindLowStock(ctx context.Context, organizationID uuid.UUID) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	if err := r.query(ctx).
		Where("organization_id = ? AND min_quantity > 0 AND quantity <= min_quantity", organizationID).
		Order("quantity ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
