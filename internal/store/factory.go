package store

import (
	"fmt"

	"diskbot/internal/bot"
	"diskbot/internal/config"
	"diskbot/internal/store/migrations"
)

// NewStoreFromConfig creates a Store implementation based on the database config type.
// Schema migrations are applied before the store is returned; migration
// is idempotent and safe to run on every startup.
func NewStoreFromConfig(cfg config.DatabaseConfig) (bot.Store, error) {
	var path string
	switch cfg.Type {
	case "sqlite":
		if cfg.Path == "" {
			return nil, fmt.Errorf("path required for sqlite database")
		}
		path = cfg.Path
	case "memory":
		path = ":memory:"
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}

	st, err := NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(st.db); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return st, nil
}
