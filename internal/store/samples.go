package store

import (
	"context"
	"fmt"
	"time"
)

// SaveSamples stores raw samples, replacing exact duplicates
func (db *DB) SaveSamples(samples []RawSample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO samples (kind, start_at, end_at, value, unit, category, source)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(kind, start_at, end_at, source, category) DO UPDATE SET
			value = excluded.value,
			unit = excluded.unit
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range samples {
		end := s.End
		if end.IsZero() {
			end = s.Start
		}
		_, err := stmt.Exec(string(s.Kind), s.Start.UnixNano(), end.UnixNano(), s.Value, s.Unit, string(s.Category), s.Source)
		if err != nil {
			return fmt.Errorf("inserting %s sample at %s: %w", s.Kind, s.Start.Format(time.RFC3339), err)
		}
	}

	return tx.Commit()
}

// FetchSamples returns the samples of one kind whose interval intersects
// the half-open window [start, end). It satisfies the provider contract
// used by the trend builder, so the local store can act as the data source.
func (db *DB) FetchSamples(ctx context.Context, kind SampleKind, start, end time.Time) ([]RawSample, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT kind, start_at, end_at, value, unit, category, source
		FROM samples
		WHERE kind = ?
			AND start_at < ?
			AND (end_at > ? OR start_at >= ?)
		ORDER BY start_at
	`, string(kind), end.UnixNano(), start.UnixNano(), start.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("querying %s samples: %w", kind, err)
	}
	defer rows.Close()

	var samples []RawSample
	for rows.Next() {
		var s RawSample
		var k, category string
		var startNs, endNs int64
		if err := rows.Scan(&k, &startNs, &endNs, &s.Value, &s.Unit, &category, &s.Source); err != nil {
			return nil, fmt.Errorf("scanning sample: %w", err)
		}
		s.Kind = SampleKind(k)
		s.Category = SleepCategory(category)
		s.Start = time.Unix(0, startNs)
		s.End = time.Unix(0, endNs)
		samples = append(samples, s)
	}

	return samples, rows.Err()
}

// CountSamples returns the number of stored samples per kind
func (db *DB) CountSamples() (map[SampleKind]int, error) {
	rows, err := db.Query(`SELECT kind, COUNT(*) FROM samples GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[SampleKind]int)
	for rows.Next() {
		var k string
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return nil, err
		}
		counts[SampleKind(k)] = n
	}
	return counts, rows.Err()
}
