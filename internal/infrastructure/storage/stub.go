package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/facturio/backend/internal/application/notification"
)

// StubStorage keeps objects in memory. Used in development and tests;
// nothing survives a restart.
type StubStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
}

// NewStubStorage creates an empty in-memory store.
func NewStubStorage() *StubStorage {
	return &StubStorage{
		objects: make(map[string][]byte),
		baseURL: "https://storage.invalid",
	}
}

// Put stores a copy of the data under the key.
func (s *StubStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

// PresignedURL returns a fake URL for a stored key.
func (s *StubStorage) PresignedURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[key]; !ok {
		return "", errors.New("object not found: " + key)
	}
	return s.baseURL + "/" + key, nil
}

// Get returns a stored object, for tests.
func (s *StubStorage) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

var _ notification.ObjectStorage = (*StubStorage)(nil)
