package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("first claim succeeds, replay is rejected", func(t *testing.T) {
		acquired, err := store.Acquire(ctx, "invoice-create-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)

		acquired, err = store.Acquire(ctx, "invoice-create-1", time.Minute)
		require.NoError(t, err)
		assert.False(t, acquired)
	})

	t.Run("distinct keys do not interfere", func(t *testing.T) {
		acquired, err := store.Acquire(ctx, "invoice-create-2", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("expired claim can be re-acquired", func(t *testing.T) {
		acquired, err := store.Acquire(ctx, "short-lived", time.Millisecond)
		require.NoError(t, err)
		assert.True(t, acquired)

		time.Sleep(5 * time.Millisecond)

		acquired, err = store.Acquire(ctx, "short-lived", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("close is safe to call twice", func(t *testing.T) {
		s := NewInMemoryIdempotencyStore()
		require.NoError(t, s.Close())
		require.NoError(t, s.Close())
	})
}
