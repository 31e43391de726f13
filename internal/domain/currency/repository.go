package currency

import (
	"context"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ExchangeRateRepository persists exchange rates
type ExchangeRateRepository interface {
	shared.OrganizationRepository[ExchangeRate]
	FindByPair(ctx context.Context, organizationID uuid.UUID, from, to valueobject.Currency) (*ExchangeRate, error)
}
