package identity

import (
	"context"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository persists users
type UserRepository interface {
	shared.OrganizationRepository[User]
	FindByEmail(ctx context.Context, organizationID uuid.UUID, email string) (*User, error)
}
