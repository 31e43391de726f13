package persistence

import (
	"context"

	"github.com/facturio/backend/internal/domain/partner"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	gormRepository[partner.Supplier]
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{
		gormRepository: newGormRepository[partner.Supplier](db, []string{"name", "email", "vat_number"}, PartnerSortFields),
	}
}

// FindActive finds the organization's non-archived suppliers
func (r *GormSupplierRepository) FindActive(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]partner.Supplier, error) {
	var suppliers []partner.Supplier
	query := r.applyFilter(
		r.query(ctx).Model(&partner.Supplier{}).
			Where("organization_id = ? AND archived = ?", organizationID, false),
		filter,
	)
	if err := query.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}
