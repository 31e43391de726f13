package tax

import (
	"context"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TaxRepository persists custom taxes
type TaxRepository interface {
	shared.OrganizationRepository[Tax]
	FindApplicable(ctx context.Context, organizationID uuid.UUID) ([]Tax, error)
}
