package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"peak/internal/analysis"
	"peak/internal/store"
)

// SampleStore is the local sample database the sync writes into
type SampleStore interface {
	SaveSamples(samples []store.RawSample) error
	GetSyncState(key string) (string, error)
	SetSyncState(key, value string) error
	ClearSyncState(key string) error
}

// SyncService copies raw samples from a remote provider into the local store
type SyncService struct {
	remote Provider
	store  SampleStore
	loc    *time.Location
	log    *zap.SugaredLogger
}

// NewSyncService creates a new sync service
func NewSyncService(remote Provider, store SampleStore, loc *time.Location, log *zap.SugaredLogger) *SyncService {
	if loc == nil {
		loc = time.Local
	}
	return &SyncService{
		remote: remote,
		store:  store,
		loc:    loc,
		log:    orNop(log),
	}
}

// SyncStateReader reads sync markers
type SyncStateReader interface {
	GetSyncState(key string) (string, error)
}

// LastSync returns the end of the last complete sync, or the zero time if
// none has finished
func LastSync(state SyncStateReader) (time.Time, error) {
	value, err := state.GetSyncState(lastSampleSyncKey)
	if err != nil {
		return time.Time{}, fmt.Errorf("reading sync state: %w", err)
	}
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing sync state %q: %w", value, err)
	}
	return t, nil
}

// SyncProgress reports progress during sync
type SyncProgress struct {
	Kind      store.SampleKind
	Total     int
	Completed int
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	From          time.Time
	To            time.Time
	SamplesStored map[store.SampleKind]int
	Errors        []error
}

// Stored returns the total number of samples stored
func (r *SyncResult) Stored() int {
	total := 0
	for _, n := range r.SamplesStored {
		total += n
	}
	return total
}

// Reset forgets the last sync so the next SyncRecent fetches the full range
func (s *SyncService) Reset() error {
	return s.store.ClearSyncState(lastSampleSyncKey)
}

// SyncRecent syncs the last days calendar days up to now, resuming shortly
// before the previous sync when that is more recent
func (s *SyncService) SyncRecent(ctx context.Context, days int, now time.Time, progress chan<- SyncProgress) (*SyncResult, error) {
	if days < 1 {
		days = DefaultSyncDays
	}
	from := analysis.StartOfDay(now, s.loc).AddDate(0, 0, -(days - 1))

	last, err := LastSync(s.store)
	if err != nil {
		s.log.Warnw("ignoring last sync time", "error", err)
	}
	if !last.IsZero() {
		resume := analysis.StartOfDay(last, s.loc).AddDate(0, 0, -SyncOverlapDays)
		if resume.After(from) {
			from = resume
		}
	}

	return s.SyncRange(ctx, from, now, progress)
}

// SyncRange fetches every sample kind in [from, to) and stores it.
// A kind that fails is recorded in the result and the sync moves on.
func (s *SyncService) SyncRange(ctx context.Context, from, to time.Time, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{
		From:          from,
		To:            to,
		SamplesStored: make(map[store.SampleKind]int),
	}

	for i, kind := range store.AllKinds {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if progress != nil {
			progress <- SyncProgress{Kind: kind, Total: len(store.AllKinds), Completed: i}
		}

		samples, err := s.remote.FetchSamples(ctx, kind, from, to)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			s.log.Warnw("fetching samples failed", "kind", kind, "error", err)
			result.Errors = append(result.Errors, fmt.Errorf("fetching %s: %w", kind, err))
			continue
		}

		if err := s.store.SaveSamples(samples); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing %s: %w", kind, err))
			continue
		}
		result.SamplesStored[kind] = len(samples)
	}

	if progress != nil {
		progress <- SyncProgress{Total: len(store.AllKinds), Completed: len(store.AllKinds)}
	}

	// Only advance the sync marker when every kind made it
	if len(result.Errors) == 0 {
		if err := s.store.SetSyncState(lastSampleSyncKey, to.Format(time.RFC3339Nano)); err != nil {
			return result, fmt.Errorf("saving sync state: %w", err)
		}
	}

	s.log.Infow("sync finished",
		"from", from.Format(time.RFC3339),
		"to", to.Format(time.RFC3339),
		"stored", result.Stored(),
		"errors", len(result.Errors),
	)
	return result, nil
}
