// Package kv provides the persistent JSON store used by the document registry
// and the Q&A session manager. Failures are logged and reported as a boolean;
// nothing here returns an error to the caller.
package kv

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/interfaces"
)

// Store wraps a key/value backend with JSON load/save
type Store struct {
	storage interfaces.KeyValueStorage
	logger  arbor.ILogger
}

// NewStore creates a new persistent store
func NewStore(storage interfaces.KeyValueStorage, logger arbor.ILogger) *Store {
	return &Store{
		storage: storage,
		logger:  logger,
	}
}

// Load parses the JSON value stored under key into out.
// Returns false when the key is absent, the read fails, or the value is malformed;
// out is left for the caller to replace with a default in each of those cases.
func (s *Store) Load(ctx context.Context, key string, out any) bool {
	raw, err := s.storage.Get(ctx, key)
	if errors.Is(err, interfaces.ErrKeyNotFound) {
		s.logger.Debug().Str("key", key).Msg("No stored value")
		return false
	}
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to read stored value")
		return false
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.logger.Error().Err(err).Str("key", key).Int("bytes", len(raw)).Msg("Stored value is not valid JSON")
		return false
	}

	s.logger.Debug().Str("key", key).Int("bytes", len(raw)).Msg("Loaded stored value")
	return true
}

// Save serializes value as JSON and writes it under key, overwriting any previous value.
// Returns false when serialization or the write fails; the write is dropped, not retried.
func (s *Store) Save(ctx context.Context, key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to serialize value")
		return false
	}

	if err := s.storage.Set(ctx, key, string(data), ""); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to save value")
		return false
	}

	s.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("Saved value")
	return true
}

// Storage returns the underlying backend
func (s *Store) Storage() interfaces.KeyValueStorage {
	return s.storage
}
