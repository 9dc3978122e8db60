package analysis

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peak/internal/store"
)

var testDay = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func point(kind store.SampleKind, value float64, unit string, offset time.Duration) store.RawSample {
	at := testDay.Add(offset)
	return store.RawSample{Kind: kind, Value: value, Unit: unit, Start: at, End: at}
}

func interval(kind store.SampleKind, value float64, unit string, from, to time.Duration) store.RawSample {
	return store.RawSample{Kind: kind, Value: value, Unit: unit, Start: testDay.Add(from), End: testDay.Add(to)}
}

func sleepSegment(cat store.SleepCategory, from, to time.Duration) store.RawSample {
	return store.RawSample{Kind: store.KindSleep, Category: cat, Start: testDay.Add(from), End: testDay.Add(to)}
}

func aggregateDay(samples []store.RawSample) store.DailyMetrics {
	w := DayWindow(testDay, time.UTC)
	return Aggregate(samples, w.Start, w.End, testDay)
}

func TestAggregateEmpty(t *testing.T) {
	for _, samples := range [][]store.RawSample{nil, {}} {
		m := aggregateDay(samples)

		assert.True(t, m.Date.Equal(testDay))
		assert.Nil(t, m.HRV, "average-type fields must be absent, never 0")
		assert.Nil(t, m.RestingHR)
		assert.Nil(t, m.AvgHR)
		assert.Nil(t, m.SleepHours)
		assert.Nil(t, m.Readiness)

		require.NotNil(t, m.Steps, "cumulative fields are 0 when empty")
		assert.Equal(t, 0, *m.Steps)
		require.NotNil(t, m.ActiveCalories)
		assert.Equal(t, 0.0, *m.ActiveCalories)
	}
}

func TestAggregateAverages(t *testing.T) {
	tests := []struct {
		name    string
		samples []store.RawSample
		field   Field
		want    *float64
	}{
		{
			name: "hrv mean in ms",
			samples: []store.RawSample{
				point(store.KindHRV, 50, "ms", time.Hour),
				point(store.KindHRV, 70, "ms", 2*time.Hour),
			},
			field: FieldHRV,
			want:  floatPtr(60),
		},
		{
			name: "hrv mixed seconds and milliseconds",
			samples: []store.RawSample{
				point(store.KindHRV, 0.05, "s", time.Hour), // 50 ms
				point(store.KindHRV, 70, "ms", 2*time.Hour),
			},
			field: FieldHRV,
			want:  floatPtr(60),
		},
		{
			name: "hrv empty unit is canonical",
			samples: []store.RawSample{
				point(store.KindHRV, 42, "", time.Hour),
			},
			field: FieldHRV,
			want:  floatPtr(42),
		},
		{
			name: "hrv unknown unit skipped",
			samples: []store.RawSample{
				point(store.KindHRV, 42, "furlongs", time.Hour),
			},
			field: FieldHRV,
			want:  nil,
		},
		{
			name: "resting hr",
			samples: []store.RawSample{
				point(store.KindRestingHR, 52, "bpm", 6*time.Hour),
				point(store.KindRestingHR, 56, "count/min", 7*time.Hour),
			},
			field: FieldRestingHR,
			want:  floatPtr(54),
		},
		{
			name: "heart rate in count per second",
			samples: []store.RawSample{
				point(store.KindHeartRate, 1.5, "count/s", time.Hour), // 90 bpm
				point(store.KindHeartRate, 70, "bpm", 2*time.Hour),
			},
			field: func(m store.DailyMetrics) *float64 { return m.AvgHR },
			want:  floatPtr(80),
		},
		{
			name: "samples outside window ignored",
			samples: []store.RawSample{
				point(store.KindHRV, 10, "ms", -time.Minute),
				point(store.KindHRV, 60, "ms", time.Hour),
				point(store.KindHRV, 10, "ms", 24*time.Hour),
			},
			field: FieldHRV,
			want:  floatPtr(60),
		},
		{
			name: "other kinds do not leak into hrv",
			samples: []store.RawSample{
				point(store.KindRestingHR, 55, "bpm", time.Hour),
			},
			field: FieldHRV,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.field(aggregateDay(tt.samples))
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestAggregateSums(t *testing.T) {
	m := aggregateDay([]store.RawSample{
		interval(store.KindSteps, 1000, "count", time.Hour, 2*time.Hour),
		interval(store.KindSteps, 2500.7, "count", 3*time.Hour, 4*time.Hour),
		interval(store.KindActiveEnergy, 100, "kcal", time.Hour, 2*time.Hour),
		interval(store.KindActiveEnergy, 418.4, "kJ", 3*time.Hour, 4*time.Hour),  // 100 kcal
		interval(store.KindActiveEnergy, 50000, "cal", 5*time.Hour, 6*time.Hour), // 50 kcal
	})

	require.NotNil(t, m.Steps)
	assert.Equal(t, 3500, *m.Steps, "fractional steps are truncated")
	require.NotNil(t, m.ActiveCalories)
	assert.InDelta(t, 250.0, *m.ActiveCalories, 1e-9)
}

func TestAggregateSleep(t *testing.T) {
	tests := []struct {
		name    string
		samples []store.RawSample
		want    *float64
	}{
		{
			name: "asleep categories summed",
			samples: []store.RawSample{
				sleepSegment(store.SleepCore, time.Hour, 3*time.Hour),
				sleepSegment(store.SleepDeep, 3*time.Hour, 4*time.Hour),
				sleepSegment(store.SleepREM, 4*time.Hour, 4*time.Hour+30*time.Minute),
				sleepSegment(store.SleepUnspecified, 5*time.Hour, 5*time.Hour+30*time.Minute),
			},
			want: floatPtr(4),
		},
		{
			name: "in bed, awake and unknown excluded",
			samples: []store.RawSample{
				sleepSegment(store.SleepInBed, 0, 8*time.Hour),
				sleepSegment(store.SleepCore, time.Hour, 3*time.Hour),
				sleepSegment(store.SleepAwake, 3*time.Hour, 3*time.Hour+20*time.Minute),
				sleepSegment(store.SleepUnknown, 4*time.Hour, 5*time.Hour),
			},
			want: floatPtr(2),
		},
		{
			name: "only in bed is absent",
			samples: []store.RawSample{
				sleepSegment(store.SleepInBed, 0, 8*time.Hour),
			},
			want: nil,
		},
		{
			name: "segment crossing midnight counts in full",
			samples: []store.RawSample{
				sleepSegment(store.SleepCore, -2*time.Hour, time.Hour),
			},
			want: floatPtr(3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := aggregateDay(tt.samples).SleepHours
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestAggregatePartialDayWindow(t *testing.T) {
	now := testDay.Add(10 * time.Hour)
	w := TodayWindow(now, time.UTC)

	m := Aggregate([]store.RawSample{
		point(store.KindHRV, 40, "ms", 9*time.Hour),
		point(store.KindHRV, 90, "ms", 11*time.Hour), // after now
	}, w.Start, w.End, testDay)

	require.NotNil(t, m.HRV)
	assert.Equal(t, 40.0, *m.HRV)
}

func TestAggregatePermutationInvariance(t *testing.T) {
	samples := []store.RawSample{
		point(store.KindHRV, 48.3, "ms", time.Hour),
		point(store.KindHRV, 0.0612, "s", 2*time.Hour),
		point(store.KindHRV, 55.9, "ms", 3*time.Hour),
		point(store.KindHRV, 71.1, "ms", 4*time.Hour),
		interval(store.KindSteps, 333.3, "count", time.Hour, 2*time.Hour),
		interval(store.KindSteps, 4021, "count", 2*time.Hour, 3*time.Hour),
		interval(store.KindActiveEnergy, 12.7, "kcal", time.Hour, 2*time.Hour),
		interval(store.KindActiveEnergy, 99.1, "kJ", 2*time.Hour, 3*time.Hour),
		sleepSegment(store.SleepDeep, 0, 90*time.Minute),
		sleepSegment(store.SleepREM, 2*time.Hour, 3*time.Hour),
	}
	want := aggregateDay(samples)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 25; i++ {
		shuffled := make([]store.RawSample, len(samples))
		copy(shuffled, samples)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		assert.Equal(t, want, aggregateDay(shuffled))
	}
}
