package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const profileKey = "profile"

// LoadProfile returns the saved profile, or ErrNoProfile if none was saved
func (db *DB) LoadProfile() (Profile, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, profileKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNoProfile
	}
	if err != nil {
		return Profile{}, err
	}

	var p Profile
	if err := json.Unmarshal([]byte(value), &p); err != nil {
		return Profile{}, fmt.Errorf("decoding profile: %w", err)
	}
	return p, nil
}

// SaveProfile stores the profile
func (db *DB) SaveProfile(p Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, profileKey, string(data))
	return err
}
