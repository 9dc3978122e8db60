package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileJournal persists the journal as a JSON array in a single file
type FileJournal struct {
	path string
}

// NewFileJournal returns a journal backed by the file at path
func NewFileJournal(path string) *FileJournal {
	return &FileJournal{path: path}
}

// LoadJournal reads all entries. A missing or empty file is an empty journal.
func (f *FileJournal) LoadJournal() ([]JournalEntry, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var entries []JournalEntry
	if err := json.NewDecoder(file).Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding journal: %w", err)
	}
	return entries, nil
}

// SaveJournal writes entries to a temp file and renames it over the journal
func (f *FileJournal) SaveJournal(entries []JournalEntry) error {
	if entries == nil {
		entries = []JournalEntry{}
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating journal directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding journal: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing journal: %w", err)
	}
	return os.Rename(tmp, f.path)
}
