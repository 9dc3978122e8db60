package analysis

import "peak/internal/store"

// DefaultBaselineDays is the minimum number of days with HRV data needed
// before a rolling baseline replaces the configured one
const DefaultBaselineDays = 5

// RollingBaselineHRV returns the mean daily HRV across days that have HRV.
// It returns nil when fewer than minDays days carry HRV data.
func RollingBaselineHRV(days []store.DailyMetrics, minDays int) *float64 {
	var values []float64
	for _, d := range days {
		if d.HRV != nil && isFinite(*d.HRV) {
			values = append(values, *d.HRV)
		}
	}
	if minDays < 1 {
		minDays = 1
	}
	if len(values) < minDays {
		return nil
	}
	return mean(values)
}
