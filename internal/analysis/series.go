package analysis

import (
	"time"

	"peak/internal/store"
)

// Field selects one optional metric from a day
type Field func(store.DailyMetrics) *float64

// Selectors for the charted metrics
var (
	FieldHRV        Field = func(m store.DailyMetrics) *float64 { return m.HRV }
	FieldRestingHR  Field = func(m store.DailyMetrics) *float64 { return m.RestingHR }
	FieldSleepHours Field = func(m store.DailyMetrics) *float64 { return m.SleepHours }
	FieldSteps      Field = func(m store.DailyMetrics) *float64 {
		if m.Steps == nil {
			return nil
		}
		v := float64(*m.Steps)
		return &v
	}
	FieldReadiness Field = func(m store.DailyMetrics) *float64 {
		if m.Readiness == nil {
			return nil
		}
		v := float64(*m.Readiness)
		return &v
	}
)

// Series extracts the points of one metric for charting, skipping days
// where the metric is absent
func Series(days []store.DailyMetrics, field Field) (dates []time.Time, values []float64) {
	for _, d := range days {
		if v := field(d); v != nil {
			dates = append(dates, d.Date)
			values = append(values, *v)
		}
	}
	return dates, values
}
