package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"peak/internal/store"
)

// ErrInvalidMood is returned when a mood is outside 1..5
var ErrInvalidMood = errors.New("mood must be between 1 and 5")

const (
	MinMood = 1
	MaxMood = 5
)

// JournalRepository loads and saves the full journal snapshot, newest first
type JournalRepository interface {
	LoadJournal() ([]store.JournalEntry, error)
	SaveJournal(entries []store.JournalEntry) error
}

// JournalLog is an append-only mood journal. New entries go to the head.
type JournalLog struct {
	mu      sync.Mutex
	repo    JournalRepository
	entries []store.JournalEntry
	now     func() time.Time
}

// NewJournalLog loads the existing journal from repo
func NewJournalLog(repo JournalRepository) (*JournalLog, error) {
	entries, err := repo.LoadJournal()
	if err != nil {
		return nil, fmt.Errorf("loading journal: %w", err)
	}
	return &JournalLog{repo: repo, entries: entries, now: time.Now}, nil
}

// Add records a new entry and persists the journal
func (j *JournalLog) Add(mood int, notes string) (store.JournalEntry, error) {
	if mood < MinMood || mood > MaxMood {
		return store.JournalEntry{}, fmt.Errorf("%w: got %d", ErrInvalidMood, mood)
	}

	entry := store.JournalEntry{
		ID:    uuid.NewString(),
		Date:  j.now(),
		Mood:  mood,
		Notes: notes,
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	next := make([]store.JournalEntry, 0, len(j.entries)+1)
	next = append(next, entry)
	next = append(next, j.entries...)

	if err := j.repo.SaveJournal(next); err != nil {
		return store.JournalEntry{}, fmt.Errorf("saving journal: %w", err)
	}
	j.entries = next
	return entry, nil
}

// Entries returns a copy of the journal, newest first
func (j *JournalLog) Entries() []store.JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]store.JournalEntry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len returns the number of entries
func (j *JournalLog) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}
