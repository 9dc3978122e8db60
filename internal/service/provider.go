package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"peak/internal/analysis"
	"peak/internal/store"
)

// Provider supplies raw samples of one kind whose interval intersects
// [start, end). Returning no samples is a normal outcome; an error means
// the provider could not answer (revoked access, network failure).
type Provider interface {
	FetchSamples(ctx context.Context, kind store.SampleKind, start, end time.Time) ([]store.RawSample, error)
}

// loadDay fetches every sample kind for the window concurrently and
// aggregates them for day. A kind the provider fails to deliver is treated
// as having no samples, so a day where every kind fails aggregates exactly
// like an empty day. Only context cancellation is returned as an error.
func loadDay(ctx context.Context, provider Provider, w analysis.Window, day time.Time, log *zap.SugaredLogger) (store.DailyMetrics, error) {
	perKind := make([][]store.RawSample, len(store.AllKinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range store.AllKinds {
		g.Go(func() error {
			samples, err := provider.FetchSamples(gctx, kind, w.Start, w.End)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warnw("provider unavailable, treating as missing data",
					"kind", kind,
					"day", day.Format("2006-01-02"),
					"error", err,
				)
				return nil
			}
			perKind[i] = samples
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return store.DailyMetrics{}, err
	}

	var all []store.RawSample
	for _, samples := range perKind {
		all = append(all, samples...)
	}
	return analysis.Aggregate(all, w.Start, w.End, day), nil
}

// LoadToday aggregates today so far: from local midnight up to now
func LoadToday(ctx context.Context, provider Provider, now time.Time, loc *time.Location, log *zap.SugaredLogger) (store.DailyMetrics, error) {
	w := analysis.TodayWindow(now, loc)
	return loadDay(ctx, provider, w, w.Start, orNop(log))
}

func orNop(log *zap.SugaredLogger) *zap.SugaredLogger {
	if log == nil {
		return zap.NewNop().Sugar()
	}
	return log
}
