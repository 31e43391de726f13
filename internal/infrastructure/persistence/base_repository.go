package persistence

import (
	"context"
	"errors"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/infrastructure/persistence/orgscope"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormRepository is the generic GORM implementation of
// shared.OrganizationRepository. Concrete repositories embed it and add
// their entity-specific queries.
type gormRepository[T any] struct {
	db            *gorm.DB
	searchColumns []string
	sortFields    map[string]bool
	preloads      []string
}

func newGormRepository[T any](db *gorm.DB, searchColumns []string, sortFields map[string]bool, preloads ...string) gormRepository[T] {
	if sortFields == nil {
		sortFields = CommonSortFields
	}
	return gormRepository[T]{
		db:            db,
		searchColumns: searchColumns,
		sortFields:    sortFields,
		preloads:      preloads,
	}
}

func (r *gormRepository[T]) query(ctx context.Context) *gorm.DB {
	query := r.db.WithContext(ctx)
	for _, preload := range r.preloads {
		query = query.Preload(preload)
	}
	return query
}

// FindByID finds an entity by its ID
func (r *gormRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	if err := r.query(ctx).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// FindAll finds all entities matching the filter
func (r *gormRepository[T]) FindAll(ctx context.Context, filter shared.Filter) ([]T, error) {
	var entities []T
	query := r.applyFilter(r.query(ctx).Model(new(T)), filter)
	if err := query.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Save persists an entity, inserting or updating as needed
func (r *gormRepository[T]) Save(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

// Delete removes an entity by its ID
func (r *gormRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts entities matching the filter
func (r *gormRepository[T]) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(new(T)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByIDForOrganization finds an entity by ID within an organization
func (r *gormRepository[T]) FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*T, error) {
	var entity T
	if err := r.query(ctx).
		Scopes(orgscope.Scope(organizationID)).
		First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// FindAllForOrganization finds all entities for an organization
func (r *gormRepository[T]) FindAllForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]T, error) {
	var entities []T
	query := r.applyFilter(
		r.query(ctx).Model(new(T)).Scopes(orgscope.Scope(organizationID)),
		filter,
	)
	if err := query.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// CountForOrganization counts the organization's entities matching the
// filter. Pagination totals must come from here, never from Count, or a
// tenant's page would report other tenants' rows.
func (r *gormRepository[T]) CountForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(
		r.db.WithContext(ctx).Model(new(T)).Scopes(orgscope.Scope(organizationID)),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// existsByColumn reports whether a row with the given column value exists
// within the organization.
func (r *gormRepository[T]) existsByColumn(ctx context.Context, organizationID uuid.UUID, column, value string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).
		Scopes(orgscope.Scope(organizationID)).
		Where(column+" = ?", value).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormRepository[T]) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, r.sortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

func (r *gormRepository[T]) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" && len(r.searchColumns) > 0 {
		pattern := "%" + filter.Search + "%"
		clause := ""
		args := make([]interface{}, 0, len(r.searchColumns))
		for idx, column := range r.searchColumns {
			if idx > 0 {
				clause += " OR "
			}
			clause += column + " ILIKE ?"
			args = append(args, pattern)
		}
		query = query.Where(clause, args...)
	}

	for key, value := range filter.Filters {
		if r.sortFields[key] {
			query = query.Where(key+" = ?", value)
		}
	}

	return query
}
