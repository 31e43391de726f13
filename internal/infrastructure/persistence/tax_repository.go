package persistence

import (
	"context"

	"github.com/facturio/backend/internal/domain/tax"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTaxRepository implements tax.TaxRepository using GORM
type GormTaxRepository struct {
	gormRepository[tax.Tax]
}

// NewGormTaxRepository creates a new GormTaxRepository
func NewGormTaxRepository(db *gorm.DB) *GormTaxRepository {
	return &GormTaxRepository{
		gormRepository: newGormRepository[tax.Tax](db, []string{"name"}, nil),
	}
}

// FindApplicable finds the organization's active taxes. Per-document
// applicability is decided in the domain from ApplicableDocuments.
func (r *GormTaxRepository) FindApplicable(ctx context.Context, organizationID uuid.UUID) ([]tax.Tax, error) {
	var taxes []tax.Tax
	if err := r.query(ctx).
		Where("organization_id = ? AND active = ?", organizationID, true).
		Order("name ASC").
		Find(&taxes).Error; err != nil {
		return nil, err
	}
	return taxes, nil
}
