package service

import (
	"encoding/json"
	"fmt"
	"io"

	"peak/internal/store"
)

// SampleSaver stores raw samples
type SampleSaver interface {
	SaveSamples(samples []store.RawSample) error
}

// ImportSamples reads a JSON array of raw samples and stores the valid ones.
// It returns how many samples were stored and how many were skipped.
func ImportSamples(r io.Reader, dst SampleSaver) (stored, skipped int, err error) {
	var samples []store.RawSample
	if err := json.NewDecoder(r).Decode(&samples); err != nil {
		return 0, 0, fmt.Errorf("decoding samples: %w", err)
	}

	valid := make([]store.RawSample, 0, len(samples))
	for _, s := range samples {
		if !s.Kind.Valid() || s.Start.IsZero() {
			skipped++
			continue
		}
		if s.End.IsZero() {
			s.End = s.Start
		}
		if s.Kind == store.KindSleep && s.Category == "" {
			s.Category = store.SleepUnknown
		}
		valid = append(valid, s)
	}

	if err := dst.SaveSamples(valid); err != nil {
		return 0, skipped, fmt.Errorf("saving samples: %w", err)
	}
	return len(valid), skipped, nil
}
