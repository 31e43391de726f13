package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/facturio/backend/internal/domain/currency"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const rateKeyPrefix = "rates:"

// CachedExchangeRateRepository decorates an ExchangeRateRepository with
// a Redis read-through cache on the hot FindByPair lookup. Writes go
// straight to the underlying store and invalidate the cached pair, so
// currency conversion never sees a stale rate for longer than a write
// takes to land.
//
// Cache failures degrade to the underlying repository; Redis being down
// must never break a conversion.
type CachedExchangeRateRepository struct {
	currency.ExchangeRateRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedExchangeRateRepository wraps inner with a Redis cache.
func NewCachedExchangeRateRepository(inner currency.ExchangeRateRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedExchangeRateRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedExchangeRateRepository{
		ExchangeRateRepository: inner,
		client:                 client,
		ttl:                    ttl,
		logger:                 logger,
	}
}

func rateKey(organizationID uuid.UUID, from, to valueobject.Currency) string {
	return fmt.Sprintf("%s%s:%s:%s", rateKeyPrefix, organizationID, from, to)
}

// FindByPair returns the cached rate when present, otherwise loads it
// from the underlying repository and caches the result. Missing pairs
// are not cached so that a freshly configured rate is visible at once.
func (r *CachedExchangeRateRepository) FindByPair(ctx context.Context, organizationID uuid.UUID, from, to valueobject.Currency) (*currency.ExchangeRate, error) {
	key := rateKey(organizationID, from, to)

	payload, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var rate currency.ExchangeRate
		if err := json.Unmarshal(payload, &rate); err == nil {
			return &rate, nil
		}
		// Corrupt entry, drop it and fall through to the store.
		r.client.Del(ctx, key)
	} else if err != redis.Nil {
		r.logger.Warn("exchange rate cache read failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}

	rate, err := r.ExchangeRateRepository.FindByPair(ctx, organizationID, from, to)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(rate); err == nil {
		if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			r.logger.Warn("exchange rate cache write failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
	return rate, nil
}

// Save persists the rate and invalidates both directions of the pair.
func (r *CachedExchangeRateRepository) Save(ctx context.Context, rate *currency.ExchangeRate) error {
	if err := r.ExchangeRateRepository.Save(ctx, rate); err != nil {
		return err
	}
	r.invalidate(ctx, rate.OrganizationID, rate.From, rate.To)
	return nil
}

// Delete removes the rate and invalidates its cached pair. The pair is
// not recoverable from the id alone, so the rate is looked up first;
// a lookup failure still lets the delete proceed.
func (r *CachedExchangeRateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	rate, err := r.ExchangeRateRepository.FindByID(ctx, id)
	if err == nil {
		r.invalidate(ctx, rate.OrganizationID, rate.From, rate.To)
	}
	return r.ExchangeRateRepository.Delete(ctx, id)
}

func (r *CachedExchangeRateRepository) invalidate(ctx context.Context, organizationID uuid.UUID, from, to valueobject.Currency) {
	keys := []string{
		rateKey(organizationID, from, to),
		rateKey(organizationID, to, from),
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warn("exchange rate cache invalidation failed",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}
}

var _ currency.ExchangeRateRepository = (*CachedExchangeRateRepository)(nil)
