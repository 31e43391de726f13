package organization

import (
	"context"

	"github.com/facturio/backend/internal/domain/shared"
)

// OrganizationRepository persists organizations
type OrganizationRepository interface {
	shared.Repository[Organization]
	FindBySlug(ctx context.Context, slug string) (*Organization, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}
