package cache

import (
	"context"
	"testing"
	"time"

	"github.com/facturio/backend/internal/domain/currency"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubRateRepository records calls; cache tests only need FindByID,
// Save and Delete from the embedded contract.
type stubRateRepository struct {
	currency.ExchangeRateRepository
	rate      *currency.ExchangeRate
	saved     *currency.ExchangeRate
	deletedID uuid.UUID
}

func (s *stubRateRepository) FindByID(ctx context.Context, id uuid.UUID) (*currency.ExchangeRate, error) {
	if s.rate != nil && s.rate.ID == id {
		return s.rate, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubRateRepository) Save(ctx context.Context, rate *currency.ExchangeRate) error {
	s.saved = rate
	return nil
}

func (s *stubRateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	s.deletedID = id
	return nil
}

// deadRedisClient points at a closed port; cache failures must degrade
// to the underlying repository, so these tests pass without a server.
func deadRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func buildRate(t *testing.T) *currency.ExchangeRate {
	t.Helper()
	rate, err := currency.NewExchangeRate(uuid.New(), valueobject.EUR, valueobject.USD, decimal.NewFromFloat(1.08))
	require.NoError(t, err)
	return rate
}

func TestCachedExchangeRateRepositoryDelete(t *testing.T) {
	t.Run("delegates to the underlying repository by id", func(t *testing.T) {
		inner := &stubRateRepository{rate: buildRate(t)}
		repo := NewCachedExchangeRateRepository(inner, deadRedisClient(), time.Minute, zap.NewNop())

		require.NoError(t, repo.Delete(context.Background(), inner.rate.ID))
		assert.Equal(t, inner.rate.ID, inner.deletedID)
	})

	t.Run("deletes even when the rate lookup fails", func(t *testing.T) {
		inner := &stubRateRepository{}
		repo := NewCachedExchangeRateRepository(inner, deadRedisClient(), time.Minute, zap.NewNop())

		id := uuid.New()
		require.NoError(t, repo.Delete(context.Background(), id))
		assert.Equal(t, id, inner.deletedID)
	})
}

func TestCachedExchangeRateRepositorySave(t *testing.T) {
	inner := &stubRateRepository{}
	repo := NewCachedExchangeRateRepository(inner, deadRedisClient(), time.Minute, zap.NewNop())

	rate := buildRate(t)
	require.NoError(t, repo.Save(context.Background(), rate))
	assert.Same(t, rate, inner.saved)
}
