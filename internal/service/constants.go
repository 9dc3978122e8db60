package service

const (
	// Trend windows
	DefaultTrendDays = 7
	MaxTrendDays     = 90

	// Rolling HRV baseline
	BaselineWindowDays = 28

	// Sync
	DefaultSyncDays = 7
	SyncOverlapDays = 1 // re-fetch the day before the last sync; sleep arrives late

	// Sync state keys
	lastSampleSyncKey = "last_sample_sync"
)
