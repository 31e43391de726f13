package partner

import (
	"context"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientRepository persists clients
type ClientRepository interface {
	shared.OrganizationRepository[Client]
	FindActive(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]Client, error)
}

// SupplierRepository persists suppliers
type SupplierRepository interface {
	shared.OrganizationRepository[Supplier]
	FindActive(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]Supplier, error)
}
