package analysis

import (
	"time"

	"peak/internal/store"
)

// Window is a half-open time interval [Start, End)
type Window struct {
	Start time.Time
	End   time.Time
}

// StartOfDay returns local midnight of t's calendar day in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// TodayWindow covers today up to now; it grows over the course of the day
func TodayWindow(now time.Time, loc *time.Location) Window {
	return Window{Start: StartOfDay(now, loc), End: now}
}

// DayWindow covers the whole calendar day containing day, 23 or 25 hours
// long on DST transitions
func DayWindow(day time.Time, loc *time.Location) Window {
	start := StartOfDay(day, loc)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// Intersects reports whether the sample's interval overlaps the window.
// Point samples (Start == End) intersect when Start lies in [Start, End).
func (w Window) Intersects(s store.RawSample) bool {
	end := s.End
	if end.Before(s.Start) {
		end = s.Start
	}
	if !s.Start.Before(w.End) {
		return false
	}
	if end.Equal(s.Start) {
		return !s.Start.Before(w.Start)
	}
	return end.After(w.Start)
}
