package store

import (
	"fmt"
	"time"
)

// LoadJournal returns every journal entry, newest first
func (db *DB) LoadJournal() ([]JournalEntry, error) {
	rows, err := db.Query(`
		SELECT id, created_at, mood, notes
		FROM journal_entries
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		var createdAt int64
		if err := rows.Scan(&e.ID, &createdAt, &e.Mood, &e.Notes); err != nil {
			return nil, err
		}
		e.Date = time.Unix(0, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SaveJournal replaces the stored journal with entries, preserving their order
func (db *DB) SaveJournal(entries []JournalEntry) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM journal_entries`); err != nil {
		return fmt.Errorf("clearing journal: %w", err)
	}

	for i, e := range entries {
		_, err := tx.Exec(`
			INSERT INTO journal_entries (id, position, created_at, mood, notes)
			VALUES (?, ?, ?, ?, ?)
		`, e.ID, i, e.Date.UnixNano(), e.Mood, e.Notes)
		if err != nil {
			return fmt.Errorf("saving journal entry %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}
