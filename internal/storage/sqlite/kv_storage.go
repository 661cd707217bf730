package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/interfaces"
)

// KVStorage implements the KeyValueStorage interface for SQLite
type KVStorage struct {
	db     *SQLiteDB
	logger arbor.ILogger
}

// NewKVStorage creates a new KVStorage instance
func NewKVStorage(db *SQLiteDB, logger arbor.ILogger) interfaces.KeyValueStorage {
	return &KVStorage{
		db:     db,
		logger: logger,
	}
}

// Get retrieves a value by key
func (s *KVStorage) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.db.QueryRowContext(ctx, `SELECT value FROM key_value_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", interfaces.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key: %w", err)
	}

	return value, nil
}

// GetPair retrieves a full KeyValuePair by key
func (s *KVStorage) GetPair(ctx context.Context, key string) (*interfaces.KeyValuePair, error) {
	row := s.db.db.QueryRowContext(ctx,
		`SELECT key, value, description, created_at, updated_at FROM key_value_store WHERE key = ?`, key)

	pair, err := scanPair(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key/value pair: %w", err)
	}
	return pair, nil
}

// Set inserts or updates a key/value pair
func (s *KVStorage) Set(ctx context.Context, key string, value string, description string) error {
	now := time.Now().UnixNano()
	query := `
		INSERT INTO key_value_store (key, value, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			description = excluded.description,
			updated_at = excluded.updated_at
	`

	if _, err := s.db.db.ExecContext(ctx, query, key, value, description, now, now); err != nil {
		return fmt.Errorf("failed to set key/value: %w", err)
	}

	return nil
}

// Delete removes a key/value pair
func (s *KVStorage) Delete(ctx context.Context, key string) error {
	result, err := s.db.db.ExecContext(ctx, `DELETE FROM key_value_store WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return interfaces.ErrKeyNotFound
	}

	return nil
}

// List returns all key/value pairs ordered by updated_at DESC
func (s *KVStorage) List(ctx context.Context) ([]interfaces.KeyValuePair, error) {
	rows, err := s.db.db.QueryContext(ctx,
		`SELECT key, value, description, created_at, updated_at FROM key_value_store ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list key/value pairs: %w", err)
	}
	defer rows.Close()

	var pairs []interfaces.KeyValuePair
	for rows.Next() {
		pair, err := scanPair(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan key/value pair: %w", err)
		}
		pairs = append(pairs, *pair)
	}

	return pairs, rows.Err()
}

// GetAll returns all key/value pairs as a map
func (s *KVStorage) GetAll(ctx context.Context) (map[string]string, error) {
	pairs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		result[pair.Key] = pair.Value
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPair(row scanner) (*interfaces.KeyValuePair, error) {
	var pair interfaces.KeyValuePair
	var createdAt, updatedAt int64
	if err := row.Scan(&pair.Key, &pair.Value, &pair.Description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	pair.CreatedAt = time.Unix(0, createdAt)
	pair.UpdatedAt = time.Unix(0, updatedAt)
	return &pair, nil
}
