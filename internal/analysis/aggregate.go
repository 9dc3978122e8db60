package analysis

import (
	"sort"
	"time"

	"peak/internal/store"
)

// Aggregate reduces raw samples to one DailyMetrics record for day.
//
// Only samples intersecting [windowStart, windowEnd) are considered and
// values are normalised to canonical units first. HRV, resting HR and heart
// rate are averaged and stay nil when no sample exists. Steps and active
// energy are summed and are 0 when no sample exists. Sleep is the total
// duration of asleep segments in hours, nil when there are none.
// Readiness is left for the scorer.
func Aggregate(samples []store.RawSample, windowStart, windowEnd time.Time, day time.Time) store.DailyMetrics {
	w := Window{Start: windowStart, End: windowEnd}

	values := make(map[store.SampleKind][]float64)
	var sleepSeconds float64
	var asleepSegments int

	for _, s := range samples {
		if !w.Intersects(s) {
			continue
		}

		if s.Kind == store.KindSleep {
			if !s.Category.Asleep() {
				continue
			}
			if d := s.End.Sub(s.Start); d > 0 {
				sleepSeconds += d.Seconds()
			}
			asleepSegments++
			continue
		}

		v, ok := Normalize(s)
		if !ok {
			continue
		}
		values[s.Kind] = append(values[s.Kind], v)
	}

	steps := int(sum(values[store.KindSteps]))
	calories := sum(values[store.KindActiveEnergy])

	m := store.DailyMetrics{
		Date:           day,
		HRV:            mean(values[store.KindHRV]),
		RestingHR:      mean(values[store.KindRestingHR]),
		AvgHR:          mean(values[store.KindHeartRate]),
		Steps:          &steps,
		ActiveCalories: &calories,
	}

	if asleepSegments > 0 {
		hours := sleepSeconds / 3600.0
		m.SleepHours = &hours
	}

	return m
}

// mean returns the arithmetic mean, or nil for no values.
// Values are summed in sorted order so the result does not depend on input order.
func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	avg := sum(values) / float64(len(values))
	return &avg
}

func sum(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var total float64
	for _, v := range sorted {
		total += v
	}
	return total
}
