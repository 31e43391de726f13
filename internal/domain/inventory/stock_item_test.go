package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestItem(t *testing.T, quantity string) *StockItem {
	t.Helper()
	item, err := NewStockItem(uuid.New(), "WID-001", "Widget", d(quantity), d("9.99"))
	require.NoError(t, err)
	return item
}

func TestNewStockItem_Validation(t *testing.T) {
	orgID := uuid.New()

	_, err := NewStockItem(orgID, "", "Widget", d("10"), d("1"))
	assert.Error(t, err)

	_, err = NewStockItem(orgID, "WID-001", "", d("10"), d("1"))
	assert.Error(t, err)

	_, err = NewStockItem(orgID, "WID-001", "Widget", d("-1"), d("1"))
	assert.Error(t, err)

	_, err = NewStockItem(orgID, "WID-001", "Widget", d("10"), d("-1"))
	assert.Error(t, err)
}

func TestStockItem_CanFulfill(t *testing.T) {
	item := newTestItem(t, "10")

	assert.True(t, item.CanFulfill(d("10")))
	assert.True(t, item.CanFulfill(d("1")))
	assert.False(t, item.CanFulfill(d("11")))
	assert.False(t, item.CanFulfill(d("0")))
	assert.False(t, item.CanFulfill(d("-5")))
}

func TestStockItem_ReserveAndRestock(t *testing.T) {
	item := newTestItem(t, "10")

	require.NoError(t, item.Reserve(d("4")))
	assert.True(t, item.Quantity.Equal(d("6")))

	// over-reservation is rejected before any write happens
	assert.Error(t, item.Reserve(d("7")))
	assert.True(t, item.Quantity.Equal(d("6")))

	assert.Error(t, item.Reserve(d("0")))

	require.NoError(t, item.Restock(d("14")))
	assert.True(t, item.Quantity.Equal(d("20")))
	assert.Error(t, item.Restock(d("-1")))
}

func TestStockItem_LowStock(t *testing.T) {
	item := newTestItem(t, "10")

	// no threshold set, never low
	assert.False(t, item.IsLowStock())

	require.NoError(t, item.SetMinQuantity(d("5")))
	assert.False(t, item.IsLowStock())

	require.NoError(t, item.Reserve(d("5")))
	assert.True(t, item.IsLowStock())

	assert.Error(t, item.SetMinQuantity(d("-1")))
}
