package persistence

import (
	"context"
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements billing.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	documentRepository[billing.PurchaseOrder]
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	repo := &GormPurchaseOrderRepository{
		documentRepository: newDocumentRepository[billing.PurchaseOrder](db),
	}
	repo.searchColumns = []string{"number", "supplier_name"}
	return repo
}

// Save persists the purchase order and replaces its line items
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, po *billing.PurchaseOrder) error {
	return r.saveWithItems(ctx, po, po.ID)
}

// Delete removes the purchase order and its line items
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.deleteWithItems(ctx, id)
}

// FindBySupplier finds purchase orders placed with a supplier
func (r *GormPurchaseOrderRepository) FindBySupplier(ctx context.Context, organizationID, supplierID uuid.UUID, filter shared.Filter) ([]billing.PurchaseOrder, error) {
	var orders []billing.PurchaseOrder
	query := r.applyFilter(
		r.query(ctx).Model(&billing.PurchaseOrder{}).
			Where("organization_id = ? AND supplier_id = ?", organizationID, supplierID),
		filter,
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds purchase orders in the given status for an organization
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, organizationID uuid.UUID, status billing.PurchaseOrderStatus, filter shared.Filter) ([]billing.PurchaseOrder, error) {
	var orders []billing.PurchaseOrder
	query := r.applyFilter(
		r.query(ctx).Model(&billing.PurchaseOrder{}).
			Where("organization_id = ? AND status = ?", organizationID, status),
		filter,
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// PurchaseOrderStockLink maps a purchase order line to the stock item it
// restocks on receipt.
type PurchaseOrderStockLink struct {
	OrderID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	LineItemID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	StockItemID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrderStockLink) TableName() string {
	return "purchase_order_stock_links"
}

// GormStockLinkStore persists purchase order stock links
type GormStockLinkStore struct {
	db *gorm.DB
}

// NewGormStockLinkStore creates a new GormStockLinkStore
func NewGormStockLinkStore(db *gorm.DB) *GormStockLinkStore {
	return &GormStockLinkStore{db: db}
}

// SaveLinks replaces the link set for a purchase order
func (s *GormStockLinkStore) SaveLinks(ctx context.Context, orderID uuid.UUID, links map[uuid.UUID]uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&PurchaseOrderStockLink{}).Error; err != nil {
			return err
		}
		if len(links) == 0 {
			return nil
		}
		rows := make([]PurchaseOrderStockLink, 0, len(links))
		for lineID, stockID := range links {
			rows = append(rows, PurchaseOrderStockLink{
				OrderID:     orderID,
				LineItemID:  lineID,
				StockItemID: stockID,
			})
		}
		return tx.Create(&rows).Error
	})
}

// FindLinks returns the line-to-stock-item links for a purchase order
func (s *GormStockLinkStore) FindLinks(ctx context.Context, orderID uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	var rows []PurchaseOrderStockLink
	if err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	links := make(map[uuid.UUID]uuid.UUID, len(rows))
	for _, row := range rows {
		links[row.LineItemID] = row.StockItemID
	}
	return links, nil
}
