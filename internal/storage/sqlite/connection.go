package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/common"
	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS key_value_store (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_kv_updated_at ON key_value_store(updated_at DESC);
`

// SQLiteDB manages the SQLite database connection
type SQLiteDB struct {
	db     *sql.DB
	logger arbor.ILogger
	config *common.SQLiteConfig
}

// NewSQLiteDB creates a new SQLite database connection
func NewSQLiteDB(logger arbor.ILogger, config *common.SQLiteConfig) (*SQLiteDB, error) {
	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// modernc.org/sqlite uses "sqlite" driver name (not "sqlite3")
	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serialises writers and keeps pragmas applied
	db.SetMaxOpenConns(1)

	s := &SQLiteDB{
		db:     db,
		logger: logger,
		config: config,
	}

	if err := s.configure(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info().Str("path", config.Path).Msg("SQLite database initialized")
	return s, nil
}

// configure sets up SQLite pragmas and settings
func (s *SQLiteDB) configure() error {
	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", s.config.BusyTimeoutMS),
		"PRAGMA synchronous = NORMAL",
	}

	if s.config.WALMode {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}

	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}

func (s *SQLiteDB) migrate() error {
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create key_value_store: %w", err)
	}
	return nil
}

// Optimize refreshes query planner statistics
func (s *SQLiteDB) Optimize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize"); err != nil {
		return fmt.Errorf("failed to optimize database: %w", err)
	}
	return nil
}

// DB returns the underlying database connection
func (s *SQLiteDB) DB() *sql.DB {
	return s.db
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
