package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"peak/internal/analysis"
	"peak/internal/store"
)

// MetricsCache stores aggregated days for later display
type MetricsCache interface {
	SaveDailyMetrics(days []store.DailyMetrics) error
}

// SessionConfig configures a Session
type SessionConfig struct {
	Location  *time.Location
	TrendDays int
	Cache     MetricsCache     // optional
	Now       func() time.Time // defaults to time.Now
}

// Session holds the current view of today's metrics, readiness and trend.
// Consumers read it through accessors; Refresh reloads from the provider and
// Recompute re-scores after the profile changes.
type Session struct {
	provider Provider
	trend    *TrendBuilder
	cache    MetricsCache
	loc      *time.Location
	days     int
	now      func() time.Time
	log      *zap.SugaredLogger

	mu          sync.RWMutex
	profile     store.Profile
	today       store.DailyMetrics
	score       int
	history     []store.DailyMetrics
	refreshedAt time.Time
}

// NewSession creates a session scoring with profile
func NewSession(provider Provider, profile store.Profile, cfg SessionConfig, log *zap.SugaredLogger) *Session {
	log = orNop(log)
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	days := cfg.TrendDays
	if days < 1 {
		days = DefaultTrendDays
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Session{
		provider: provider,
		trend:    NewTrendBuilder(provider, loc, log),
		cache:    cfg.Cache,
		loc:      loc,
		days:     days,
		now:      now,
		log:      log,
		profile:  profile,
		today:    store.DailyMetrics{Date: analysis.StartOfDay(now(), loc)},
		score:    analysis.BaseReadiness,
	}
}

// Refresh reloads today's partial aggregate and the trend concurrently,
// then recomputes scores. Provider failures degrade to missing data; only
// cancellation is returned. On error the previous state is kept.
func (s *Session) Refresh(ctx context.Context) error {
	now := s.now()
	profile := s.Profile()

	var today store.DailyMetrics
	var history []store.DailyMetrics

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		today, err = LoadToday(gctx, s.provider, now, s.loc, s.log)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.trend.Build(gctx, profile, s.days, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("refreshing session: %w", err)
	}

	s.mu.Lock()
	s.today = today
	s.history = history
	s.refreshedAt = now
	s.recomputeLocked()
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.SaveDailyMetrics(s.Trend(s.days)); err != nil {
			s.log.Warnw("caching daily metrics failed", "error", err)
		}
	}
	return nil
}

// Recompute re-scores today and the trend with the current profile and
// returns today's score
func (s *Session) Recompute() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recomputeLocked()
}

// recomputeLocked requires s.mu to be held for writing
func (s *Session) recomputeLocked() int {
	profile := s.profile
	s.score = analysis.Readiness(s.today, profile)
	score := s.score
	s.today.Readiness = &score
	s.history = analysis.ScoreDays(s.history, profile)

	s.log.Debugw("recomputed readiness", "score", s.score, "days", len(s.history))
	return s.score
}

// SetProfile replaces the profile snapshot used for scoring.
// Call Recompute to apply it to already loaded data.
func (s *Session) SetProfile(p store.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
}

// Profile returns the profile snapshot used for scoring
func (s *Session) Profile() store.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// CurrentDailyMetrics returns today's aggregate so far
func (s *Session) CurrentDailyMetrics() store.DailyMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMetrics(s.today)
}

// CurrentReadinessScore returns today's readiness score (50 before the first refresh)
func (s *Session) CurrentReadinessScore() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.score
}

// Trend returns the most recent days of the loaded trend, ascending by date.
// Fewer days are returned when less history is loaded.
func (s *Session) Trend(days int) []store.DailyMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if days < 0 {
		days = 0
	}
	start := len(s.history) - days
	if start < 0 {
		start = 0
	}

	out := make([]store.DailyMetrics, 0, len(s.history)-start)
	for _, m := range s.history[start:] {
		out = append(out, copyMetrics(m))
	}
	return out
}

// RefreshedAt returns when data was last loaded; zero before the first refresh
func (s *Session) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

// copyMetrics deep-copies m so callers cannot mutate session state
func copyMetrics(m store.DailyMetrics) store.DailyMetrics {
	out := m
	out.HRV = copyPtr(m.HRV)
	out.RestingHR = copyPtr(m.RestingHR)
	out.AvgHR = copyPtr(m.AvgHR)
	out.SleepHours = copyPtr(m.SleepHours)
	out.Steps = copyPtr(m.Steps)
	out.ActiveCalories = copyPtr(m.ActiveCalories)
	out.Readiness = copyPtr(m.Readiness)
	return out
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
