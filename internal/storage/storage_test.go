package storage

import (
	"os"
	"testing"
	"time"

	"pregnancy-companion/internal/closer"
	"pregnancy-companion/internal/journal"
	"pregnancy-companion/internal/profile"
)

func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "storage-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func TestProfileStore_MissingFileIsNil(t *testing.T) {
	store, err := NewProfileStore(tempDir(t))
	if err != nil {
		t.Fatalf("NewProfileStore failed: %v", err)
	}

	rec, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rec != nil {
		t.Errorf("Expected nil for a missing profile, got %+v", rec)
	}
}

func TestProfileStore_RoundTrip(t *testing.T) {
	store, err := NewProfileStore(tempDir(t))
	if err != nil {
		t.Fatalf("NewProfileStore failed: %v", err)
	}

	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	rec := &profile.Record{
		DueDate:   &due,
		Allergies: []string{"peanuts"},
		CreatedAt: time.Now().UTC(),
	}
	if err := store.Save(rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded == nil || loaded.DueDate == nil || !loaded.DueDate.Equal(due) {
		t.Errorf("Expected due date to survive the round trip, got %+v", loaded)
	}
	if len(loaded.Allergies) != 1 || loaded.Allergies[0] != "peanuts" {
		t.Errorf("Expected allergies to survive, got %v", loaded.Allergies)
	}
}

func TestJournalStore_AppendPreservesOrder(t *testing.T) {
	store, err := NewJournalStore(tempDir(t))
	if err != nil {
		t.Fatalf("NewJournalStore failed: %v", err)
	}

	entries, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("Expected an empty history, got %d entries", len(entries))
	}

	for _, id := range []string{"first", "second", "third"} {
		if err := store.Append(journal.Entry{ID: id, CreatedAt: time.Now().UTC()}); err != nil {
			t.Fatalf("Append(%s) failed: %v", id, err)
		}
	}

	entries, err = store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"first", "second", "third"} {
		if entries[i].ID != want {
			t.Errorf("Position %d: expected %q, got %q", i, want, entries[i].ID)
		}
	}
}

func TestTaskLogStore_Append(t *testing.T) {
	dir := tempDir(t)
	store, err := NewTaskLogStore(dir)
	if err != nil {
		t.Fatalf("NewTaskLogStore failed: %v", err)
	}

	entry := closer.TaskLogEntry{
		Timestamp:     time.Now().UTC(),
		Event:         "end_of_conversation_task",
		Task:          "Drink one glass of water now",
		TriggerPhrase: "thanks",
	}
	if err := store.Append(entry); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(entry); err != nil {
		t.Fatalf("Second append failed: %v", err)
	}

	data, err := os.ReadFile(dir + "/task_log.json")
	if err != nil {
		t.Fatalf("Failed to read task log: %v", err)
	}
	if string(data) == "" {
		t.Fatal("Expected task log content")
	}
}
