package store

import (
	"fmt"
	"time"
)

// SaveDailyMetrics upserts aggregated days keyed by date
func (db *DB) SaveDailyMetrics(days []DailyMetrics) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range days {
		_, err := tx.Exec(`
			INSERT INTO daily_metrics (
				date, hrv, resting_hr, avg_hr, sleep_hours, steps, active_calories, readiness, computed_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(date) DO UPDATE SET
				hrv = excluded.hrv,
				resting_hr = excluded.resting_hr,
				avg_hr = excluded.avg_hr,
				sleep_hours = excluded.sleep_hours,
				steps = excluded.steps,
				active_calories = excluded.active_calories,
				readiness = excluded.readiness,
				computed_at = CURRENT_TIMESTAMP
		`,
			m.DateKey(), m.HRV, m.RestingHR, m.AvgHR, m.SleepHours, m.Steps, m.ActiveCalories, m.Readiness,
		)
		if err != nil {
			return fmt.Errorf("saving metrics for %s: %w", m.DateKey(), err)
		}
	}

	return tx.Commit()
}

// ListDailyMetrics returns cached days between from and to (inclusive),
// ascending by date. Dates are interpreted in loc.
func (db *DB) ListDailyMetrics(from, to time.Time, loc *time.Location) ([]DailyMetrics, error) {
	rows, err := db.Query(`
		SELECT date, hrv, resting_hr, avg_hr, sleep_hours, steps, active_calories, readiness
		FROM daily_metrics
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC
	`, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []DailyMetrics
	for rows.Next() {
		var m DailyMetrics
		var date string
		if err := rows.Scan(&date, &m.HRV, &m.RestingHR, &m.AvgHR, &m.SleepHours, &m.Steps, &m.ActiveCalories, &m.Readiness); err != nil {
			return nil, err
		}
		m.Date, err = time.ParseInLocation("2006-01-02", date, loc)
		if err != nil {
			return nil, fmt.Errorf("parsing date %q: %w", date, err)
		}
		days = append(days, m)
	}
	return days, rows.Err()
}
