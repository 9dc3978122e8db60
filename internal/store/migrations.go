package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Authentication for the remote provider (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Raw samples as reported by the provider (times are unix nanoseconds)
		`CREATE TABLE IF NOT EXISTS samples (
			kind TEXT NOT NULL,
			start_at INTEGER NOT NULL,
			end_at INTEGER NOT NULL,
			value REAL NOT NULL,
			unit TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (kind, start_at, end_at, source, category)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_samples_window ON samples(kind, start_at, end_at)`,

		// Aggregated days, cached for charting
		`CREATE TABLE IF NOT EXISTS daily_metrics (
			date TEXT PRIMARY KEY,
			hrv REAL,
			resting_hr REAL,
			avg_hr REAL,
			sleep_hours REAL,
			steps INTEGER,
			active_calories REAL,
			readiness INTEGER,
			computed_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Journal entries; position 0 is the newest entry
		`CREATE TABLE IF NOT EXISTS journal_entries (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			mood INTEGER NOT NULL CHECK (mood BETWEEN 1 AND 5),
			notes TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE INDEX IF NOT EXISTS idx_journal_position ON journal_entries(position)`,

		// Settings (key-value store for the profile)
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Sync State (key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
