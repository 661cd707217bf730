package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/interfaces"
	"github.com/timshannon/badgerhold/v4"
)

// KVStorage implements the KeyValueStorage interface for Badger
type KVStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewKVStorage creates a new KVStorage instance
func NewKVStorage(db *BadgerDB, logger arbor.ILogger) interfaces.KeyValueStorage {
	return &KVStorage{
		db:     db,
		logger: logger,
	}
}

// Get retrieves a value by key
func (s *KVStorage) Get(ctx context.Context, key string) (string, error) {
	pair, err := s.GetPair(ctx, key)
	if err != nil {
		return "", err
	}
	return pair.Value, nil
}

// GetPair retrieves a full KeyValuePair by key
func (s *KVStorage) GetPair(ctx context.Context, key string) (*interfaces.KeyValuePair, error) {
	var pair interfaces.KeyValuePair
	err := s.db.Store().Get(key, &pair)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, interfaces.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key/value pair: %w", err)
	}

	return &pair, nil
}

// Set inserts or updates a key/value pair, preserving CreatedAt of an existing key
func (s *KVStorage) Set(ctx context.Context, key string, value string, description string) error {
	now := time.Now()

	pair := interfaces.KeyValuePair{
		Key:         key,
		Value:       value,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var existing interfaces.KeyValuePair
	if err := s.db.Store().Get(key, &existing); err == nil {
		pair.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to check key existence: %w", err)
	}

	if err := s.db.Store().Upsert(key, &pair); err != nil {
		return fmt.Errorf("failed to set key/value: %w", err)
	}

	return nil
}

// Delete removes a key/value pair
func (s *KVStorage) Delete(ctx context.Context, key string) error {
	err := s.db.Store().Delete(key, &interfaces.KeyValuePair{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return interfaces.ErrKeyNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

// List returns all key/value pairs ordered by updated_at DESC
func (s *KVStorage) List(ctx context.Context) ([]interfaces.KeyValuePair, error) {
	var pairs []interfaces.KeyValuePair
	query := badgerhold.Where("Key").Ne("").SortBy("UpdatedAt").Reverse()
	if err := s.db.Store().Find(&pairs, query); err != nil {
		return nil, fmt.Errorf("failed to list key/value pairs: %w", err)
	}
	return pairs, nil
}

// GetAll returns all key/value pairs as a map
func (s *KVStorage) GetAll(ctx context.Context) (map[string]string, error) {
	var pairs []interfaces.KeyValuePair
	if err := s.db.Store().Find(&pairs, nil); err != nil {
		return nil, fmt.Errorf("failed to get all key/value pairs: %w", err)
	}

	result := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		result[pair.Key] = pair.Value
	}
	return result, nil
}
