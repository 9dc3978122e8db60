package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"peak/internal/analysis"
	"peak/internal/store"
)

// ErrInvalidDays is returned when a trend of fewer than one day is requested
var ErrInvalidDays = errors.New("trend days must be at least 1")

// TrendBuilder assembles a series of full-day aggregates ending at a reference date
type TrendBuilder struct {
	provider       Provider
	loc            *time.Location
	log            *zap.SugaredLogger
	maxConcurrency int
}

// NewTrendBuilder creates a trend builder. Days are calendar days in loc.
func NewTrendBuilder(provider Provider, loc *time.Location, log *zap.SugaredLogger) *TrendBuilder {
	if loc == nil {
		loc = time.Local
	}
	return &TrendBuilder{
		provider: provider,
		loc:      loc,
		log:      orNop(log),
	}
}

// SetMaxConcurrency bounds how many days are fetched at once; 0 means one
// goroutine per day
func (b *TrendBuilder) SetMaxConcurrency(n int) {
	b.maxConcurrency = n
}

// Build returns exactly days records for reference, reference-1, ...,
// reference-(days-1), ascending by date, each scored with profile.
//
// Days are fetched concurrently. A day the provider cannot deliver is
// aggregated as an empty day rather than dropped. If ctx is cancelled
// the in-flight fetches are abandoned and ctx's error is returned.
func (b *TrendBuilder) Build(ctx context.Context, profile store.Profile, days int, reference time.Time) ([]store.DailyMetrics, error) {
	if days < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDays, days)
	}

	refDay := analysis.StartOfDay(reference, b.loc)
	results := make([]store.DailyMetrics, days)

	g, gctx := errgroup.WithContext(ctx)
	if b.maxConcurrency > 0 {
		g.SetLimit(b.maxConcurrency)
	}

	for i := 0; i < days; i++ {
		day := refDay.AddDate(0, 0, -i)
		g.Go(func() error {
			m, err := loadDay(gctx, b.provider, analysis.DayWindow(day, b.loc), day, b.log)
			if err != nil {
				return err
			}
			results[i] = m
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Sort by date; never rely on completion order
	sort.Slice(results, func(i, j int) bool {
		return results[i].Date.Before(results[j].Date)
	})

	return analysis.ScoreDays(results, profile), nil
}
