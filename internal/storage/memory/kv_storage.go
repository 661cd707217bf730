// Package memory provides a process-local key/value backend for ephemeral
// sessions and tests. Nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ternarybob/docqa/internal/interfaces"
)

// KVStorage implements the KeyValueStorage interface over a map
type KVStorage struct {
	mu    sync.RWMutex
	pairs map[string]interfaces.KeyValuePair
}

// NewKVStorage creates an empty in-memory store
func NewKVStorage() *KVStorage {
	return &KVStorage{pairs: make(map[string]interfaces.KeyValuePair)}
}

// Get retrieves a value by key
func (s *KVStorage) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pair, ok := s.pairs[key]
	if !ok {
		return "", interfaces.ErrKeyNotFound
	}
	return pair.Value, nil
}

// GetPair retrieves a full KeyValuePair by key
func (s *KVStorage) GetPair(ctx context.Context, key string) (*interfaces.KeyValuePair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pair, ok := s.pairs[key]
	if !ok {
		return nil, interfaces.ErrKeyNotFound
	}
	return &pair, nil
}

// Set inserts or updates a key/value pair
func (s *KVStorage) Set(ctx context.Context, key string, value string, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	pair := interfaces.KeyValuePair{
		Key:         key,
		Value:       value,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if existing, ok := s.pairs[key]; ok {
		pair.CreatedAt = existing.CreatedAt
	}
	s.pairs[key] = pair
	return nil
}

// Delete removes a key/value pair
func (s *KVStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pairs[key]; !ok {
		return interfaces.ErrKeyNotFound
	}
	delete(s.pairs, key)
	return nil
}

// List returns all key/value pairs ordered by updated_at DESC
func (s *KVStorage) List(ctx context.Context) ([]interfaces.KeyValuePair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pairs := make([]interfaces.KeyValuePair, 0, len(s.pairs))
	for _, pair := range s.pairs {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].UpdatedAt.After(pairs[j].UpdatedAt)
	})
	return pairs, nil
}

// GetAll returns all key/value pairs as a map
func (s *KVStorage) GetAll(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]string, len(s.pairs))
	for key, pair := range s.pairs {
		result[key] = pair.Value
	}
	return result, nil
}

// Manager implements the StorageManager interface for the in-memory backend
type Manager struct {
	kv *KVStorage
}

// NewManager creates a new in-memory storage manager
func NewManager() interfaces.StorageManager {
	return &Manager{kv: NewKVStorage()}
}

// KeyValueStorage returns the KeyValue storage interface
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// Maintain is a no-op for the in-memory backend
func (m *Manager) Maintain(ctx context.Context) error {
	return nil
}

// Backend returns the backend name
func (m *Manager) Backend() string {
	return "memory"
}

// Close is a no-op for the in-memory backend
func (m *Manager) Close() error {
	return nil
}
