package database

import (
	"fmt"
	"os"
	"path/filepath"

	"scrapbook-go/internal/config"
	"scrapbook-go/internal/scrapbook"
)

// DBFileName is the SQLite file created under data_dir.
const DBFileName = "scrapbook.db"

// NewStoreFromConfig opens the store selected by cfg. In-memory stores are
// migrated immediately since they start empty on every run; file stores are
// left for CheckMigrations and the "db migrate" command.
func NewStoreFromConfig(cfg config.DatabaseConfig, clock scrapbook.Clock) (*SQLiteStore, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		return NewSQLiteStore(filepath.Join(cfg.DataDir, DBFileName), clock)
	case "memory":
		s, err := NewSQLiteStore(":memory:", clock)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
