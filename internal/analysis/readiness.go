package analysis

import (
	"math"

	"peak/internal/store"
)

const (
	// BaseReadiness is the score of a day with no usable data
	BaseReadiness = 50

	// MinBaselineHRV guards the HRV ratio against a misconfigured baseline
	MinBaselineHRV = 20.0

	// RestingHRCenter is the resting heart rate that contributes nothing
	RestingHRCenter = 60.0

	maxHRVRatio  = 2.0
	maxSleepTerm = 20.0
)

// ReadinessBreakdown holds the additive terms of a readiness score.
// A term is 0 when its metric is absent.
type ReadinessBreakdown struct {
	HRV       int
	RestingHR int
	Sleep     int
	Score     int
}

// Readiness computes the 0-100 readiness score for a day.
//
// Starting from 50 it adds an HRV term in [-25, 25] relative to the
// baseline, an unclamped resting HR term centred on 60 bpm and a sleep term
// in [-20, 20] relative to the sleep target. Each term is truncated toward
// zero before it is added. Absent metrics add nothing.
func Readiness(m store.DailyMetrics, p store.Profile) int {
	return ReadinessDetail(m, p).Score
}

// ReadinessDetail is Readiness with the individual contributions
func ReadinessDetail(m store.DailyMetrics, p store.Profile) ReadinessBreakdown {
	var b ReadinessBreakdown
	total := float64(BaseReadiness)

	if m.HRV != nil {
		baseline := p.BaselineHRV
		if !(baseline >= MinBaselineHRV) { // also catches NaN
			baseline = MinBaselineHRV
		}
		ratio := clamp(*m.HRV/baseline, 0, maxHRVRatio)
		if term := math.Trunc((ratio - 1.0) * 25.0); isFinite(term) {
			total += term
			b.HRV = int(term)
		}
	}

	if m.RestingHR != nil {
		if term := math.Trunc((RestingHRCenter - *m.RestingHR) * 0.5); isFinite(term) {
			total += term
			b.RestingHR = saturatingInt(term)
		}
	}

	if m.SleepHours != nil {
		delta := *m.SleepHours - p.SleepTargetHours
		if term := clamp(math.Trunc(delta*5.0), -maxSleepTerm, maxSleepTerm); isFinite(term) {
			total += term
			b.Sleep = int(term)
		}
	}

	b.Score = int(clamp(total, 0, 100))
	return b
}

// ScoreDays returns a copy of days with Readiness filled in for each day
func ScoreDays(days []store.DailyMetrics, p store.Profile) []store.DailyMetrics {
	scored := make([]store.DailyMetrics, len(days))
	for i, d := range days {
		score := Readiness(d, p)
		d.Readiness = &score
		scored[i] = d
	}
	return scored
}

// ReadinessDescription returns a human-readable description of a score
func ReadinessDescription(score int) string {
	switch {
	case score >= 80:
		return "Primed - go hard today"
	case score >= 65:
		return "Ready to train"
	case score >= 50:
		return "Normal - train as planned"
	case score >= 35:
		return "Under-recovered - keep it easy"
	default:
		return "Rest day recommended"
	}
}

// clamp bounds v to [lo, hi]. NaN passes through.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// saturatingInt converts a finite float to int without overflow
func saturatingInt(v float64) int {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	default:
		return int(v)
	}
}
