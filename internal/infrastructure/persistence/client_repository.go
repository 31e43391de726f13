package persistence

import (
	"context"

	"github.com/facturio/backend/internal/domain/partner"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientRepository implements partner.ClientRepository using GORM
type GormClientRepository struct {
	gormRepository[partner.Client]
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{
		gormRepository: newGormRepository[partner.Client](db, []string{"name", "email", "vat_number"}, PartnerSortFields),
	}
}

// FindActive finds the organization's non-archived clients
func (r *GormClientRepository) FindActive(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]partner.Client, error) {
	var clients []partner.Client
	query := r.applyFilter(
		r.query(ctx).Model(&partner.Client{}).
			Where("organization_id = ? AND archived = ?", organizationID, false),
		filter,
	)
	if err := query.Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}
