package store

import (
	"database/sql"
	"fmt"
)

// NewTestStore opens a migrated in-memory database for tests
func NewTestStore() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// each connection to :memory: would get its own empty database
	sqlDB.SetMaxOpenConns(1)

	if err := migrate(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &DB{DB: sqlDB}, nil
}
