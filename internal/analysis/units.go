package analysis

import (
	"strings"

	"peak/internal/store"
)

// Canonical units per sample kind. Sleep segments carry no unit; their
// duration comes from the timestamps.
var canonicalUnits = map[store.SampleKind]string{
	store.KindHRV:          "ms",
	store.KindRestingHR:    "bpm",
	store.KindHeartRate:    "bpm",
	store.KindSteps:        "count",
	store.KindActiveEnergy: "kcal",
}

// conversion factors into the canonical unit, keyed by kind then source unit
var unitFactors = map[store.SampleKind]map[string]float64{
	store.KindHRV: {
		"ms": 1,
		"s":  1000,
		"us": 0.001,
		"µs": 0.001,
	},
	store.KindRestingHR: heartRateFactors,
	store.KindHeartRate: heartRateFactors,
	store.KindSteps: {
		"count": 1,
		"steps": 1,
	},
	store.KindActiveEnergy: {
		"kcal": 1,
		"Cal":  1, // dietary calorie
		"cal":  0.001,
		"kJ":   1 / 4.184,
		"J":    1 / 4184.0,
	},
}

var heartRateFactors = map[string]float64{
	"bpm":       1,
	"count/min": 1,
	"count/s":   60,
	"Hz":        60,
}

// CanonicalUnit returns the unit aggregated values of kind are expressed in
func CanonicalUnit(kind store.SampleKind) string {
	return canonicalUnits[kind]
}

// Normalize converts a sample's value into the canonical unit for its kind.
// An empty unit is taken to already be canonical. ok is false when the unit
// is not recognised; such samples must be skipped rather than averaged.
func Normalize(s store.RawSample) (value float64, ok bool) {
	factors, known := unitFactors[s.Kind]
	if !known {
		return 0, false
	}

	unit := strings.TrimSpace(s.Unit)
	if unit == "" {
		return s.Value, true
	}

	factor, ok := factors[unit]
	if !ok {
		// accept case variants like "MS" or "BPM", but keep cal/Cal distinct
		for u, f := range factors {
			if strings.EqualFold(u, unit) && !strings.EqualFold(u, "cal") {
				factor, ok = f, true
				break
			}
		}
	}
	if !ok {
		return 0, false
	}
	return s.Value * factor, true
}
