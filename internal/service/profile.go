package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"peak/internal/analysis"
	"peak/internal/store"
)

// ProfileRepository persists the personalization profile
type ProfileRepository interface {
	LoadProfile() (store.Profile, error)
	SaveProfile(p store.Profile) error
}

// ProfileService reads and edits the personalization profile
type ProfileService struct {
	repo     ProfileRepository
	defaults store.Profile
	log      *zap.SugaredLogger
}

// NewProfileService creates a new profile service
func NewProfileService(repo ProfileRepository, log *zap.SugaredLogger) *ProfileService {
	return &ProfileService{repo: repo, defaults: store.DefaultProfile(), log: orNop(log)}
}

// WithDefaults sets the profile returned before one has been saved
func (s *ProfileService) WithDefaults(p store.Profile) *ProfileService {
	s.defaults = p
	return s
}

// Load returns the saved profile, or the defaults if none was saved
func (s *ProfileService) Load() (store.Profile, error) {
	p, err := s.repo.LoadProfile()
	if errors.Is(err, store.ErrNoProfile) {
		return s.defaults, nil
	}
	if err != nil {
		return store.Profile{}, fmt.Errorf("loading profile: %w", err)
	}
	return p, nil
}

// Update parses text input and saves the profile. An empty field keeps the
// current value. Non-numeric input is rejected; numeric values are stored
// as given.
func (s *ProfileService) Update(baselineText, sleepTargetText string) (store.Profile, error) {
	p, err := s.Load()
	if err != nil {
		return store.Profile{}, err
	}

	if v, ok, err := parseField("baseline HRV", baselineText); err != nil {
		return store.Profile{}, err
	} else if ok {
		p.BaselineHRV = v
	}
	if v, ok, err := parseField("sleep target", sleepTargetText); err != nil {
		return store.Profile{}, err
	} else if ok {
		p.SleepTargetHours = v
	}

	if err := s.repo.SaveProfile(p); err != nil {
		return store.Profile{}, fmt.Errorf("saving profile: %w", err)
	}
	return p, nil
}

// Personalize sets the baseline HRV to the mean HRV of trend when at least
// minDays days carry HRV. It reports whether the profile changed.
func (s *ProfileService) Personalize(trend []store.DailyMetrics, minDays int) (store.Profile, bool, error) {
	p, err := s.Load()
	if err != nil {
		return store.Profile{}, false, err
	}

	baseline := analysis.RollingBaselineHRV(trend, minDays)
	if baseline == nil {
		s.log.Infow("not enough HRV history to personalize", "days", len(trend), "min_days", minDays)
		return p, false, nil
	}

	p.BaselineHRV = *baseline
	if err := s.repo.SaveProfile(p); err != nil {
		return store.Profile{}, false, fmt.Errorf("saving profile: %w", err)
	}
	s.log.Infow("personalized baseline HRV", "baseline_hrv", p.BaselineHRV)
	return p, true, nil
}

func parseField(name, text string) (float64, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s %q: %w", name, text, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("invalid %s %q: must be a finite number", name, text)
	}
	return v, true, nil
}
