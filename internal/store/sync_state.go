package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// GetSyncState returns the value stored under key, or "" when unset
func (db *DB) GetSyncState(key string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM sync_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading sync state %q: %w", key, err)
	}
	return value, nil
}

// SetSyncState stores value under key
func (db *DB) SetSyncState(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO sync_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("writing sync state %q: %w", key, err)
	}
	return nil
}

// ClearSyncState removes key; clearing an unset key is not an error
func (db *DB) ClearSyncState(key string) error {
	if _, err := db.Exec(`DELETE FROM sync_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("clearing sync state %q: %w", key, err)
	}
	return nil
}
