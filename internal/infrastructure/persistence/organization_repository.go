package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/facturio/backend/internal/domain/organization"
	"github.com/facturio/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOrganizationRepository implements organization.OrganizationRepository
// using GORM. Organizations are the tenancy root and are not themselves
// organization-scoped.
type GormOrganizationRepository struct {
	gormRepository[organization.Organization]
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{
		gormRepository: newGormRepository[organization.Organization](db, []string{"name", "slug"}, OrganizationSortFields),
	}
}

// FindBySlug finds an organization by its URL slug
func (r *GormOrganizationRepository) FindBySlug(ctx context.Context, slug string) (*organization.Organization, error) {
	var org organization.Organization
	if err := r.db.WithContext(ctx).
		Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).
		First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// ExistsBySlug reports whether an organization with the slug exists
func (r *GormOrganizationRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&organization.Organization{}).
		Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
