package persistence

import (
	"context"
	"errors"

	"github.com/facturio/backend/internal/domain/currency"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormExchangeRateRepository implements currency.ExchangeRateRepository using GORM
type GormExchangeRateRepository struct {
	gormRepository[currency.ExchangeRate]
}

// NewGormExchangeRateRepository creates a new GormExchangeRateRepository
func NewGormExchangeRateRepository(db *gorm.DB) *GormExchangeRateRepository {
	return &GormExchangeRateRepository{
		gormRepository: newGormRepository[currency.ExchangeRate](db, nil, nil),
	}
}

// FindByPair finds the stored rate for a currency pair within an organization
func (r *GormExchangeRateRepository) FindByPair(ctx context.Context, organizationID uuid.UUID, from, to valueobject.Currency) (*currency.ExchangeRate, error) {
	var rate currency.ExchangeRate
	if err := r.query(ctx).
		Where("organization_id = ? AND from_currency = ? AND to_currency = ?", organizationID, from, to).
		First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}
