package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository is a SQLite-backed HistoryStore. List-valued fields are stored
// as JSON columns; the table is append-only like the file history.
type Repository struct {
	db *sql.DB
}

// timeLayout keeps created_at as UTC text so ORDER BY compares
// chronologically and rows written from any host timezone scan back.
const timeLayout = "2006-01-02 15:04:05"

// NewRepository creates a Repository over an open database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Load returns the full entry history in insertion order.
func (r *Repository) Load() ([]Entry, error) {
	query := `SELECT id, created_at, pregnancy_week, trimester, emotional_state, fatigue_level,
		symptoms, nutrition_notes, tasks, summary
		FROM journal_entries ORDER BY created_at, id`

	rows, err := r.db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt string
		var symptomsJSON, notesJSON, tasksJSON []byte

		if err := rows.Scan(
			&e.ID,
			&createdAt,
			&e.PregnancyWeek,
			&e.Trimester,
			&e.EmotionalState,
			&e.FatigueLevel,
			&symptomsJSON,
			&notesJSON,
			&tasksJSON,
			&e.Summary,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}

		e.CreatedAt, err = time.ParseInLocation(timeLayout, createdAt, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		if len(symptomsJSON) > 0 {
			if err := json.Unmarshal(symptomsJSON, &e.Symptoms); err != nil {
				return nil, fmt.Errorf("failed to unmarshal symptoms: %w", err)
			}
		}
		if len(notesJSON) > 0 {
			if err := json.Unmarshal(notesJSON, &e.NutritionNotes); err != nil {
				return nil, fmt.Errorf("failed to unmarshal nutrition notes: %w", err)
			}
		}
		if len(tasksJSON) > 0 {
			if err := json.Unmarshal(tasksJSON, &e.Tasks); err != nil {
				return nil, fmt.Errorf("failed to unmarshal tasks: %w", err)
			}
		}

		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Append inserts one entry.
func (r *Repository) Append(e Entry) error {
	symptomsJSON, err := json.Marshal(e.Symptoms)
	if err != nil {
		return fmt.Errorf("failed to marshal symptoms: %w", err)
	}
	notesJSON, err := json.Marshal(e.NutritionNotes)
	if err != nil {
		return fmt.Errorf("failed to marshal nutrition notes: %w", err)
	}
	tasksJSON, err := json.Marshal(e.Tasks)
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}

	query := `INSERT INTO journal_entries
		(id, created_at, pregnancy_week, trimester, emotional_state, fatigue_level,
		 symptoms, nutrition_notes, tasks, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(context.Background(), query,
		e.ID,
		e.CreatedAt.UTC().Format(timeLayout),
		e.PregnancyWeek,
		e.Trimester,
		e.EmotionalState,
		e.FatigueLevel,
		string(symptomsJSON),
		string(notesJSON),
		string(tasksJSON),
		e.Summary,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}
	return nil
}
