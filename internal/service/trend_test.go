package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peak/internal/analysis"
	"peak/internal/store"
)

func TestBuildTrendProviderFailsEverywhere(t *testing.T) {
	provider := &fakeProvider{failAll: true}
	b := NewTrendBuilder(provider, time.UTC, nil)

	days, err := b.Build(context.Background(), store.DefaultProfile(), 7, refTime)
	require.NoError(t, err)
	require.Len(t, days, 7)

	for i, d := range days {
		assert.Equal(t, dayAt(i-6, 0), d.Date, "day %d", i)
		assert.Nil(t, d.HRV)
		assert.Nil(t, d.RestingHR)
		assert.Nil(t, d.AvgHR)
		assert.Nil(t, d.SleepHours)
		require.NotNil(t, d.Steps)
		assert.Equal(t, 0, *d.Steps)
		require.NotNil(t, d.ActiveCalories)
		assert.Equal(t, 0.0, *d.ActiveCalories)
		require.NotNil(t, d.Readiness)
		assert.Equal(t, 50, *d.Readiness)
	}
	assert.Equal(t, 7*len(store.AllKinds), provider.callCount())
}

func TestBuildTrendFailedDayMatchesEmptyDay(t *testing.T) {
	failing := NewTrendBuilder(&fakeProvider{failAll: true}, time.UTC, nil)
	empty := NewTrendBuilder(&fakeProvider{}, time.UTC, nil)

	failed, err := failing.Build(context.Background(), store.DefaultProfile(), 3, refTime)
	require.NoError(t, err)
	blank, err := empty.Build(context.Background(), store.DefaultProfile(), 3, refTime)
	require.NoError(t, err)

	assert.Equal(t, blank, failed)
	for i, d := range failed {
		w := analysis.DayWindow(d.Date, time.UTC)
		want := analysis.Aggregate(nil, w.Start, w.End, d.Date)
		want.Readiness = d.Readiness
		assert.Equal(t, want, d, "day %d", i)
	}
}

func TestBuildTrendSortedDespiteCompletionOrder(t *testing.T) {
	provider := &fakeProvider{
		samples: []store.RawSample{
			pointSample(store.KindHRV, 40, dayAt(-2, 7)),
			pointSample(store.KindHRV, 60, dayAt(-1, 7)),
			pointSample(store.KindHRV, 80, dayAt(0, 7)),
		},
		// Most recent day finishes first
		delay: func(start time.Time) time.Duration {
			return time.Duration(dayAt(0, 0).Sub(start)/time.Hour) * time.Millisecond
		},
	}
	b := NewTrendBuilder(provider, time.UTC, nil)

	days, err := b.Build(context.Background(), store.DefaultProfile(), 3, refTime)
	require.NoError(t, err)
	require.Len(t, days, 3)

	want := []float64{40, 60, 80}
	for i, d := range days {
		assert.Equal(t, dayAt(i-2, 0), d.Date)
		require.NotNil(t, d.HRV)
		assert.Equal(t, want[i], *d.HRV)
	}
}

func TestBuildTrendUsesFullDayWindows(t *testing.T) {
	provider := &fakeProvider{
		samples: []store.RawSample{
			pointSample(store.KindSteps, 1000, dayAt(-1, 0)),
			pointSample(store.KindSteps, 2000, dayAt(-1, 23)),
			pointSample(store.KindSteps, 5000, dayAt(0, 0)),
			// After the reference instant but still on the reference day
			pointSample(store.KindSteps, 700, dayAt(0, 22)),
		},
	}
	b := NewTrendBuilder(provider, time.UTC, nil)

	days, err := b.Build(context.Background(), store.DefaultProfile(), 2, refTime)
	require.NoError(t, err)
	require.Len(t, days, 2)

	require.NotNil(t, days[0].Steps)
	assert.Equal(t, 3000, *days[0].Steps)
	require.NotNil(t, days[1].Steps)
	assert.Equal(t, 5700, *days[1].Steps)
}

func TestBuildTrendOneKindFails(t *testing.T) {
	provider := &fakeProvider{
		samples: []store.RawSample{
			pointSample(store.KindHRV, 66, dayAt(0, 6)),
			pointSample(store.KindRestingHR, 52, dayAt(0, 6)),
		},
		fail: map[store.SampleKind]bool{store.KindRestingHR: true},
	}
	b := NewTrendBuilder(provider, time.UTC, nil)

	days, err := b.Build(context.Background(), store.DefaultProfile(), 1, refTime)
	require.NoError(t, err)
	require.Len(t, days, 1)

	d := days[0]
	require.NotNil(t, d.HRV)
	assert.Equal(t, 66.0, *d.HRV)
	assert.Nil(t, d.RestingHR)
	require.NotNil(t, d.Steps)
	assert.Equal(t, 0, *d.Steps)
}

func TestBuildTrendInvalidDays(t *testing.T) {
	b := NewTrendBuilder(&fakeProvider{}, time.UTC, nil)

	for _, days := range []int{0, -3} {
		_, err := b.Build(context.Background(), store.DefaultProfile(), days, refTime)
		assert.True(t, errors.Is(err, ErrInvalidDays), "days=%d", days)
	}
}

func TestBuildTrendCancelled(t *testing.T) {
	provider := &blockingProvider{started: make(chan struct{})}
	b := NewTrendBuilder(provider, time.UTC, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := b.Build(ctx, store.DefaultProfile(), 7, refTime)
		done <- err
	}()

	<-provider.started
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Build did not return after cancellation")
	}
}

func TestBuildTrendMaxConcurrency(t *testing.T) {
	provider := &fakeProvider{failAll: true}
	b := NewTrendBuilder(provider, time.UTC, nil)
	b.SetMaxConcurrency(2)

	days, err := b.Build(context.Background(), store.DefaultProfile(), 5, refTime)
	require.NoError(t, err)
	assert.Len(t, days, 5)
}

func TestLoadTodayPartialWindow(t *testing.T) {
	provider := &fakeProvider{
		samples: []store.RawSample{
			pointSample(store.KindSteps, 1200, dayAt(0, 9)),
			// Later today than now
			pointSample(store.KindSteps, 800, dayAt(0, 18)),
			pointSample(store.KindSteps, 400, dayAt(-1, 22)),
		},
	}

	m, err := LoadToday(context.Background(), provider, refTime, time.UTC, nil)
	require.NoError(t, err)
	assert.Equal(t, dayAt(0, 0), m.Date)
	require.NotNil(t, m.Steps)
	assert.Equal(t, 1200, *m.Steps)
}
