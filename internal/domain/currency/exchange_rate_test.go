package currency

import (
	"testing"

	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustRate(t *testing.T, from, to valueobject.Currency, rate string) ExchangeRate {
	t.Helper()
	r, err := NewExchangeRate(uuid.New(), from, to, d(rate))
	require.NoError(t, err)
	return *r
}

func TestNewExchangeRate_Validation(t *testing.T) {
	orgID := uuid.New()

	_, err := NewExchangeRate(orgID, "ZZZ", valueobject.EUR, d("1.1"))
	assert.Error(t, err)

	_, err = NewExchangeRate(orgID, valueobject.EUR, valueobject.EUR, d("1"))
	assert.Error(t, err)

	_, err = NewExchangeRate(orgID, valueobject.EUR, valueobject.USD, d("0"))
	assert.Error(t, err)

	_, err = NewExchangeRate(orgID, valueobject.EUR, valueobject.USD, d("-2"))
	assert.Error(t, err)

	r, err := NewExchangeRate(orgID, valueobject.EUR, valueobject.USD, d("1.08"))
	require.NoError(t, err)
	assert.True(t, r.Rate.Equal(d("1.08")))
}

func TestRateTable_Convert(t *testing.T) {
	table := NewRateTable([]ExchangeRate{
		mustRate(t, valueobject.EUR, valueobject.USD, "2.0"),
		mustRate(t, valueobject.GBP, valueobject.EUR, "1.2"),
	})

	t.Run("direct rate multiplies", func(t *testing.T) {
		got, ok := table.Convert(d("10"), valueobject.EUR, valueobject.USD)
		assert.True(t, ok)
		assert.True(t, got.Equal(d("20.00")))
	})

	t.Run("inverse rate divides", func(t *testing.T) {
		got, ok := table.Convert(d("10"), valueobject.USD, valueobject.EUR)
		assert.True(t, ok)
		assert.True(t, got.Equal(d("5.00")))
	})

	t.Run("same currency passes through", func(t *testing.T) {
		got, ok := table.Convert(d("10"), valueobject.EUR, valueobject.EUR)
		assert.True(t, ok)
		assert.True(t, got.Equal(d("10")))
	})

	t.Run("missing pair returns amount unchanged", func(t *testing.T) {
		got, ok := table.Convert(d("10"), valueobject.EUR, valueobject.CHF)
		assert.False(t, ok)
		assert.True(t, got.Equal(d("10")))
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		got, ok := table.Convert(d("10"), valueobject.GBP, valueobject.EUR)
		assert.True(t, ok)
		assert.True(t, got.Equal(d("12.00")))

		got, ok = table.Convert(d("10"), valueobject.EUR, valueobject.GBP)
		assert.True(t, ok)
		assert.True(t, got.Equal(d("8.33")))
	})
}

func TestExchangeRate_UpdateRate(t *testing.T) {
	r := mustRate(t, valueobject.EUR, valueobject.USD, "1.05")
	require.NoError(t, r.UpdateRate(d("1.10")))
	assert.True(t, r.Rate.Equal(d("1.10")))
	assert.Error(t, r.UpdateRate(d("0")))
}
