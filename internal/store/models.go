package store

import "time"

// SampleKind identifies the physiological quantity a RawSample measures
type SampleKind string

const (
	KindHRV          SampleKind = "hrv"           // heart rate variability (SDNN)
	KindRestingHR    SampleKind = "resting_hr"    // resting heart rate
	KindHeartRate    SampleKind = "heart_rate"    // instantaneous heart rate
	KindSteps        SampleKind = "steps"         // step count
	KindActiveEnergy SampleKind = "active_energy" // active energy burned
	KindSleep        SampleKind = "sleep"         // labeled sleep segment
)

// AllKinds lists every sample kind in a stable order
var AllKinds = []SampleKind{
	KindHRV,
	KindRestingHR,
	KindHeartRate,
	KindSteps,
	KindActiveEnergy,
	KindSleep,
}

// Valid reports whether k is a known sample kind
func (k SampleKind) Valid() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

// SleepCategory labels a sleep segment
type SleepCategory string

const (
	SleepInBed       SleepCategory = "in_bed"
	SleepAwake       SleepCategory = "awake"
	SleepUnspecified SleepCategory = "asleep_unspecified"
	SleepCore        SleepCategory = "asleep_core"
	SleepDeep        SleepCategory = "asleep_deep"
	SleepREM         SleepCategory = "asleep_rem"
	SleepUnknown     SleepCategory = "unknown"
)

// Asleep reports whether the category denotes time actually spent asleep
func (c SleepCategory) Asleep() bool {
	switch c {
	case SleepUnspecified, SleepCore, SleepDeep, SleepREM:
		return true
	default:
		return false
	}
}

// RawSample is a single measurement reported by a health-data provider.
// Point-in-time kinds have Start == End; sleep segments cover [Start, End).
type RawSample struct {
	Kind     SampleKind    `json:"kind" db:"kind"`
	Value    float64       `json:"value" db:"value"`
	Unit     string        `json:"unit,omitempty" db:"unit"` // empty means canonical unit for Kind
	Start    time.Time     `json:"start" db:"start_at"`
	End      time.Time     `json:"end" db:"end_at"`
	Category SleepCategory `json:"category,omitempty" db:"category"` // sleep only
	Source   string        `json:"source,omitempty" db:"source"`
}

// DailyMetrics is the aggregate of one calendar day.
// Average-type fields are nil when the day had no samples of that kind.
type DailyMetrics struct {
	Date           time.Time `json:"date" db:"date"`
	HRV            *float64  `json:"hrv,omitempty" db:"hrv"`                 // ms
	RestingHR      *float64  `json:"resting_hr,omitempty" db:"resting_hr"`   // bpm
	AvgHR          *float64  `json:"avg_hr,omitempty" db:"avg_hr"`           // bpm
	SleepHours     *float64  `json:"sleep_hours,omitempty" db:"sleep_hours"` // hours
	Steps          *int      `json:"steps,omitempty" db:"steps"`
	ActiveCalories *float64  `json:"active_calories,omitempty" db:"active_calories"` // kcal
	Readiness      *int      `json:"readiness,omitempty" db:"readiness"`             // 0-100
}

// DateKey returns the record's identity key (YYYY-MM-DD)
func (m DailyMetrics) DateKey() string {
	return m.Date.Format("2006-01-02")
}

// Profile holds the user's personalization used by readiness scoring
type Profile struct {
	BaselineHRV      float64 `json:"baseline_hrv"`       // ms
	SleepTargetHours float64 `json:"sleep_target_hours"` // hours
}

// DefaultProfile returns the profile used before the user edits anything
func DefaultProfile() Profile {
	return Profile{
		BaselineHRV:      55.0,
		SleepTargetHours: 8.0,
	}
}

// JournalEntry is one daily check-in
type JournalEntry struct {
	ID    string    `json:"id" db:"id"`
	Date  time.Time `json:"date" db:"created_at"`
	Mood  int       `json:"mood" db:"mood"` // 1..5
	Notes string    `json:"notes" db:"notes"`
}

// Auth represents OAuth tokens for the remote health API
type Auth struct {
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
}
