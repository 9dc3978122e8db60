package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewTestStore()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestFetchSamplesWindow(t *testing.T) {
	db := newTestDB(t)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	samples := []RawSample{
		{Kind: KindHRV, Value: 50, Unit: "ms", Start: day.Add(-time.Minute), End: day.Add(-time.Minute)}, // before window
		{Kind: KindHRV, Value: 60, Unit: "ms", Start: day, End: day},                                     // at window start
		{Kind: KindHRV, Value: 70, Unit: "ms", Start: day.Add(12 * time.Hour), End: day.Add(12 * time.Hour)},
		{Kind: KindHRV, Value: 80, Unit: "ms", Start: day.Add(24 * time.Hour), End: day.Add(24 * time.Hour)}, // at window end, excluded
		{Kind: KindSleep, Value: 1, Start: day.Add(-2 * time.Hour), End: day.Add(3 * time.Hour), Category: SleepCore},
		{Kind: KindSteps, Value: 1200, Start: day.Add(time.Hour), End: day.Add(2 * time.Hour)},
	}
	require.NoError(t, db.SaveSamples(samples))

	got, err := db.FetchSamples(context.Background(), KindHRV, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 60.0, got[0].Value)
	assert.Equal(t, 70.0, got[1].Value)
	assert.Equal(t, "ms", got[0].Unit)

	sleep, err := db.FetchSamples(context.Background(), KindSleep, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, sleep, 1, "segment overlapping midnight intersects the window")
	assert.Equal(t, SleepCore, sleep[0].Category)
	assert.True(t, sleep[0].End.Equal(day.Add(3*time.Hour)))
}

func TestSaveSamplesIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	at := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	s := RawSample{Kind: KindRestingHR, Value: 52, Unit: "bpm", Start: at, End: at, Source: "watch"}

	require.NoError(t, db.SaveSamples([]RawSample{s}))
	s.Value = 54
	require.NoError(t, db.SaveSamples([]RawSample{s}))

	counts, err := db.CountSamples()
	require.NoError(t, err)
	assert.Equal(t, 1, counts[KindRestingHR])

	got, err := db.FetchSamples(context.Background(), KindRestingHR, at.Add(-time.Hour), at.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 54.0, got[0].Value)
}

func TestDailyMetricsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	loc := time.UTC
	d1 := time.Date(2026, 3, 9, 0, 0, 0, 0, loc)
	d2 := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)

	days := []DailyMetrics{
		{Date: d2, HRV: floatPtr(61.5), Steps: intPtr(0), ActiveCalories: floatPtr(0), Readiness: intPtr(55)},
		{Date: d1, RestingHR: floatPtr(58), SleepHours: floatPtr(7.25), Steps: intPtr(9000), ActiveCalories: floatPtr(420)},
	}
	require.NoError(t, db.SaveDailyMetrics(days))

	got, err := db.ListDailyMetrics(d1, d2, loc)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.True(t, got[0].Date.Equal(d1))
	assert.Nil(t, got[0].HRV)
	assert.Nil(t, got[0].Readiness)
	require.NotNil(t, got[0].SleepHours)
	assert.Equal(t, 7.25, *got[0].SleepHours)

	assert.True(t, got[1].Date.Equal(d2))
	require.NotNil(t, got[1].Steps)
	assert.Equal(t, 0, *got[1].Steps, "zero steps is stored as 0, not NULL")
	assert.Nil(t, got[1].RestingHR)
}

func TestJournalRoundTrip(t *testing.T) {
	base := time.Date(2026, 3, 10, 21, 30, 0, 0, time.UTC)
	entries := []JournalEntry{
		{ID: "c", Date: base.Add(2 * time.Hour), Mood: 5, Notes: "great run"},
		{ID: "b", Date: base.Add(time.Hour), Mood: 3, Notes: ""},
		{ID: "a", Date: base, Mood: 1, Notes: "sick\nstayed in"},
	}

	repos := map[string]interface {
		LoadJournal() ([]JournalEntry, error)
		SaveJournal([]JournalEntry) error
	}{
		"sqlite": newTestDB(t),
		"file":   NewFileJournal(filepath.Join(t.TempDir(), "journal.json")),
	}

	for name, repo := range repos {
		t.Run(name, func(t *testing.T) {
			empty, err := repo.LoadJournal()
			require.NoError(t, err)
			assert.Empty(t, empty)

			require.NoError(t, repo.SaveJournal(entries))

			got, err := repo.LoadJournal()
			require.NoError(t, err)
			require.Len(t, got, len(entries))
			for i := range entries {
				assert.Equal(t, entries[i].ID, got[i].ID)
				assert.Equal(t, entries[i].Mood, got[i].Mood)
				assert.Equal(t, entries[i].Notes, got[i].Notes)
				assert.True(t, entries[i].Date.Equal(got[i].Date), "entry %d date", i)
			}

			// saving a shorter snapshot replaces the previous one
			require.NoError(t, repo.SaveJournal(entries[:1]))
			got, err = repo.LoadJournal()
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "c", got[0].ID)
		})
	}
}

func TestProfile(t *testing.T) {
	db := newTestDB(t)

	_, err := db.LoadProfile()
	assert.ErrorIs(t, err, ErrNoProfile)

	want := Profile{BaselineHRV: 62, SleepTargetHours: 7.5}
	require.NoError(t, db.SaveProfile(want))

	got, err := db.LoadProfile()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSyncState(t *testing.T) {
	db := newTestDB(t)

	v, err := db.GetSyncState("last_sample_sync")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, db.SetSyncState("last_sample_sync", "2026-03-10T00:00:00Z"))
	v, err = db.GetSyncState("last_sample_sync")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10T00:00:00Z", v)

	require.NoError(t, db.ClearSyncState("last_sample_sync"))
	v, err = db.GetSyncState("last_sample_sync")
	require.NoError(t, err)
	assert.Empty(t, v)

	assert.NoError(t, db.ClearSyncState("never_set"))
}

func TestAuthWithoutExpiry(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.SaveAuth(&Auth{AccessToken: "a"}))
	got, err := db.GetAuth()
	require.NoError(t, err)
	assert.True(t, got.ExpiresAt.IsZero())
}

func TestAuth(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetAuth()
	assert.ErrorIs(t, err, ErrNoAuth)
	assert.ErrorIs(t, db.UpdateTokens("a", "r", time.Now()), ErrNoAuth)

	expires := time.Unix(1_800_000_000, 0)
	require.NoError(t, db.SaveAuth(&Auth{AccessToken: "a1", RefreshToken: "r1", ExpiresAt: expires}))
	require.NoError(t, db.UpdateTokens("a2", "r2", expires.Add(time.Hour)))

	got, err := db.GetAuth()
	require.NoError(t, err)
	assert.Equal(t, "a2", got.AccessToken)
	assert.Equal(t, "r2", got.RefreshToken)
	assert.True(t, got.ExpiresAt.Equal(expires.Add(time.Hour)))
}

func TestSampleKindValid(t *testing.T) {
	assert.True(t, KindSleep.Valid())
	assert.False(t, SampleKind("blood_glucose").Valid())
	assert.True(t, SleepDeep.Asleep())
	assert.False(t, SleepInBed.Asleep())
	assert.False(t, SleepAwake.Asleep())
	assert.False(t, SleepUnknown.Asleep())
}
