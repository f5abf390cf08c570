// Package memstore provides a memory-resident implementation of the
// blobstore.Backend contract.
//
// Records and payloads live in two maps keyed by the logical path, so
// ListPaths reconstruction is trivially lossless. All state is dropped when
// the Store is garbage collected; there is no durability.
package memstore

import (
	"context"
	"sync"

	"github.com/samber/lo"

	"github.com/rise-and-shine/storesim/blobstore"
)

const defaultProviderID = "memory"

// Store is a memory-resident blobstore.Backend.
// Safe for concurrent use.
type Store struct {
	providerID string

	mu    sync.RWMutex
	items map[string]blobstore.Item
	blobs map[string][]byte
}

// Option customizes a Store instance.
type Option func(*Store)

// WithProviderID overrides the provider id reported by the store.
// Default: "memory".
func WithProviderID(id string) Option {
	return func(s *Store) {
		s.providerID = id
	}
}

// New creates an empty memory store.
func New(opts ...Option) *Store {
	s := &Store{
		providerID: defaultProviderID,
		items:      make(map[string]blobstore.Item),
		blobs:      make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProviderID identifies this store instance.
func (s *Store) ProviderID() string {
	return s.providerID
}

// StoreItem upserts the record at path. Overwrites silently.
func (s *Store) StoreItem(_ context.Context, path string, item *blobstore.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[path] = *item
	return nil
}

// StoreRawData upserts the payload at path. The bytes are copied so later
// mutation of the caller's slice cannot alter stored state.
func (s *Store) StoreRawData(_ context.Context, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[path] = append([]byte(nil), data...)
	return nil
}

// GetItem returns the record at path.
func (s *Store) GetItem(_ context.Context, path string) (*blobstore.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[path]
	if !ok {
		return nil, blobstore.NewNotFound(path)
	}
	return &item, nil
}

// GetRawData returns a copy of the payload at path.
func (s *Store) GetRawData(_ context.Context, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[path]
	if !ok {
		return nil, blobstore.NewNotFound(path)
	}
	return append([]byte(nil), data...), nil
}

// Exists reports whether both the record and the payload are present.
func (s *Store) Exists(_ context.Context, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, hasItem := s.items[path]
	_, hasBlob := s.blobs[path]
	return hasItem && hasBlob, nil
}

// Delete removes the record and payload at path. No-op if absent.
func (s *Store) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, path)
	delete(s.blobs, path)
	return nil
}

// Clear removes all records and payloads.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]blobstore.Item)
	s.blobs = make(map[string][]byte)
	return nil
}

// ListPaths enumerates all stored logical paths in unspecified order.
func (s *Store) ListPaths(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Keys(s.items), nil
}
