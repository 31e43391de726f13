package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubStoragePutAndPresign(t *testing.T) {
	ctx := context.Background()
	store := NewStubStorage()

	require.NoError(t, store.Put(ctx, "org/invoice/FAC-2026-0001.pdf", []byte("pdf-bytes"), "application/pdf"))

	data, ok := store.Get("org/invoice/FAC-2026-0001.pdf")
	require.True(t, ok)
	assert.Equal(t, []byte("pdf-bytes"), data)

	url, err := store.PresignedURL(ctx, "org/invoice/FAC-2026-0001.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.invalid/org/invoice/FAC-2026-0001.pdf", url)
}

func TestStubStorageRejectsEmptyKey(t *testing.T) {
	ctx := context.Background()
	store := NewStubStorage()

	assert.Error(t, store.Put(ctx, "", nil, "application/pdf"))
	_, err := store.PresignedURL(ctx, "")
	assert.Error(t, err)
}

func TestStubStoragePresignUnknownKey(t *testing.T) {
	store := NewStubStorage()
	_, err := store.PresignedURL(context.Background(), "missing.pdf")
	assert.Error(t, err)
}
