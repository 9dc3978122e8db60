package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"peak/internal/store"
)

var errUnavailable = errors.New("provider unavailable")

// fakeProvider serves samples from memory and records calls
type fakeProvider struct {
	mu      sync.Mutex
	samples []store.RawSample
	failAll bool
	fail    map[store.SampleKind]bool
	delay   func(start time.Time) time.Duration
	calls   int
}

func (f *fakeProvider) FetchSamples(ctx context.Context, kind store.SampleKind, start, end time.Time) ([]store.RawSample, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.delay != nil {
		select {
		case <-time.After(f.delay(start)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.failAll || f.fail[kind] {
		return nil, errUnavailable
	}

	var out []store.RawSample
	for _, s := range f.samples {
		if s.Kind != kind {
			continue
		}
		if s.Start.Before(end) && (s.End.After(start) || !s.Start.Before(start)) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// blockingProvider never answers until ctx is cancelled
type blockingProvider struct {
	started chan struct{}
	once    sync.Once
}

func (b *blockingProvider) FetchSamples(ctx context.Context, kind store.SampleKind, start, end time.Time) ([]store.RawSample, error) {
	b.once.Do(func() { close(b.started) })
	<-ctx.Done()
	return nil, ctx.Err()
}

var refTime = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func dayAt(offset int, hour int) time.Time {
	return time.Date(2026, 3, 10+offset, hour, 0, 0, 0, time.UTC)
}

func pointSample(kind store.SampleKind, value float64, at time.Time) store.RawSample {
	return store.RawSample{Kind: kind, Value: value, Start: at, End: at}
}

func floatPtr(v float64) *float64 { return &v }
