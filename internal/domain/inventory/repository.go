package inventory

import (
	"context"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockItemRepository persists stock items
type StockItemRepository interface {
	shared.OrganizationRepository[StockItem]
	FindBySKU(ctx context.Context, organizationID uuid.UUID, sku string) (*StockItem, error)
	FindLowStock(ctx context.Context, organizationID uuid.UUID) ([]StockItem, error)
}
