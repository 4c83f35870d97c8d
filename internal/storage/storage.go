package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pregnancy-companion/internal/closer"
	"pregnancy-companion/internal/journal"
	"pregnancy-companion/internal/profile"
)

const (
	profileFile = "profile.json"
	journalFile = "pregnancy_journal.json"
	taskLogFile = "task_log.json"
)

// ProfileStore is a file-backed store for the single profile record.
type ProfileStore struct {
	path string
}

// NewProfileStore creates a ProfileStore under basePath, ensuring the
// directory exists.
func NewProfileStore(basePath string) (*ProfileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &ProfileStore{path: filepath.Join(basePath, profileFile)}, nil
}

// Load reads the profile record. A missing file returns (nil, nil): the
// caller starts with empty defaults.
func (s *ProfileStore) Load() (*profile.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var rec profile.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &rec, nil
}

// Save overwrites the profile record.
func (s *ProfileStore) Save(rec *profile.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile file: %w", err)
	}
	return nil
}

// JournalStore is a file-backed store for the append-only journal history.
// Append reads the full history, appends, and rewrites the file; one active
// writer per history is assumed.
type JournalStore struct {
	path string
}

// NewJournalStore creates a JournalStore under basePath, ensuring the
// directory exists.
func NewJournalStore(basePath string) (*JournalStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &JournalStore{path: filepath.Join(basePath, journalFile)}, nil
}

// Load reads the full entry history. A missing file is an empty history.
func (s *JournalStore) Load() ([]journal.Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read journal file: %w", err)
	}

	var entries []journal.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal journal: %w", err)
	}
	return entries, nil
}

// Append adds one entry to the history and rewrites the file.
func (s *JournalStore) Append(entry journal.Entry) error {
	entries, err := s.Load()
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write journal file: %w", err)
	}
	return nil
}

// TaskLogStore is a file-backed audit log for closing-task assignments.
type TaskLogStore struct {
	path string
}

// NewTaskLogStore creates a TaskLogStore under basePath, ensuring the
// directory exists.
func NewTaskLogStore(basePath string) (*TaskLogStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &TaskLogStore{path: filepath.Join(basePath, taskLogFile)}, nil
}

// Append adds one audit record to the log.
func (s *TaskLogStore) Append(entry closer.TaskLogEntry) error {
	var entries []closer.TaskLogEntry
	if data, err := os.ReadFile(s.path); err == nil {
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("failed to unmarshal task log: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read task log: %w", err)
	}

	entries = append(entries, entry)
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal task log: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write task log: %w", err)
	}
	return nil
}
