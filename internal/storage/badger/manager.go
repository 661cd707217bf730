package badger

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/common"
	"github.com/ternarybob/docqa/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db     *BadgerDB
	kv     interfaces.KeyValueStorage
	logger arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:     db,
		kv:     NewKVStorage(db, logger),
		logger: logger,
	}

	logger.Info().Str("path", config.Path).Msg("Badger storage manager initialized")

	return manager, nil
}

// KeyValueStorage returns the KeyValue storage interface
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// Maintain runs value-log garbage collection
func (m *Manager) Maintain(ctx context.Context) error {
	rewritten, err := m.db.RunGC()
	if err != nil {
		return err
	}
	m.logger.Debug().Int("files_rewritten", rewritten).Msg("Badger value log GC complete")
	return nil
}

// Backend returns the backend name
func (m *Manager) Backend() string {
	return "badger"
}

// Close closes the database
func (m *Manager) Close() error {
	return m.db.Close()
}
