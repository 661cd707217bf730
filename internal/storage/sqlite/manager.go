package sqlite

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/common"
	"github.com/ternarybob/docqa/internal/interfaces"
)

// Manager implements the StorageManager interface for SQLite
type Manager struct {
	db     *SQLiteDB
	kv     interfaces.KeyValueStorage
	logger arbor.ILogger
}

// NewManager creates a new SQLite storage manager
func NewManager(logger arbor.ILogger, config *common.SQLiteConfig) (interfaces.StorageManager, error) {
	db, err := NewSQLiteDB(logger, config)
	if err != nil {
		return nil, err
	}

	return &Manager{
		db:     db,
		kv:     NewKVStorage(db, logger),
		logger: logger,
	}, nil
}

// KeyValueStorage returns the KeyValue storage interface
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// Maintain refreshes planner statistics
func (m *Manager) Maintain(ctx context.Context) error {
	return m.db.Optimize(ctx)
}

// Backend returns the backend name
func (m *Manager) Backend() string {
	return "sqlite"
}

// Close closes the database
func (m *Manager) Close() error {
	return m.db.Close()
}
