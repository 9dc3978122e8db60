package healthapi

import (
	"time"

	"peak/internal/store"
)

// Sample is a measurement as returned by the health API
type Sample struct {
	Type       string    `json:"type"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Category   string    `json:"category,omitempty"` // sleep stage
	SourceName string    `json:"source_name,omitempty"`
}

// SamplePage is one page of the samples endpoint
type SamplePage struct {
	Samples  []Sample `json:"samples"`
	NextPage int      `json:"next_page,omitempty"` // 0 on the last page
}

// API type names mapped to our sample kinds
var typeToKind = map[string]store.SampleKind{
	"heart_rate_variability": store.KindHRV,
	"resting_heart_rate":     store.KindRestingHR,
	"heart_rate":             store.KindHeartRate,
	"step_count":             store.KindSteps,
	"active_energy_burned":   store.KindActiveEnergy,
	"sleep_analysis":         store.KindSleep,
}

// API sleep stage names mapped to our categories
var stageToCategory = map[string]store.SleepCategory{
	"in_bed":      store.SleepInBed,
	"awake":       store.SleepAwake,
	"asleep":      store.SleepUnspecified,
	"core":        store.SleepCore,
	"deep":        store.SleepDeep,
	"rem":         store.SleepREM,
	"unspecified": store.SleepUnspecified,
}

// typeName returns the API type name for kind
func typeName(kind store.SampleKind) string {
	for name, k := range typeToKind {
		if k == kind {
			return name
		}
	}
	return string(kind)
}

// convertSample maps an API sample to a store.RawSample.
// ok is false for types we do not track.
func convertSample(s Sample) (store.RawSample, bool) {
	kind, ok := typeToKind[s.Type]
	if !ok {
		return store.RawSample{}, false
	}

	raw := store.RawSample{
		Kind:   kind,
		Value:  s.Value,
		Unit:   s.Unit,
		Start:  s.StartDate,
		End:    s.EndDate,
		Source: s.SourceName,
	}
	if raw.End.IsZero() {
		raw.End = raw.Start
	}
	if kind == store.KindSleep {
		raw.Unit = ""
		category, known := stageToCategory[s.Category]
		if !known {
			category = store.SleepUnknown
		}
		raw.Category = category
	}
	return raw, true
}
