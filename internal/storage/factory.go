package storage

import (
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/common"
	"github.com/ternarybob/docqa/internal/interfaces"
	"github.com/ternarybob/docqa/internal/storage/badger"
	"github.com/ternarybob/docqa/internal/storage/memory"
	"github.com/ternarybob/docqa/internal/storage/sqlite"
)

// NewStorageManager creates a new storage manager based on config
func NewStorageManager(logger arbor.ILogger, config *common.Config) (interfaces.StorageManager, error) {
	switch strings.ToLower(config.Storage.Type) {
	case "", "badger":
		return badger.NewManager(logger, &config.Storage.Badger)
	case "sqlite":
		return sqlite.NewManager(logger, &config.Storage.SQLite)
	case "memory":
		logger.Warn().Msg("Using in-memory storage - documents and history will not survive a restart")
		return memory.NewManager(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s (expected badger, sqlite or memory)", config.Storage.Type)
	}
}
