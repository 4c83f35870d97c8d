package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ChatMetric records metadata for a single small-talk model call.
type ChatMetric struct {
	Model       string
	PromptChars int
	ReplyChars  int
	LatencyMS   int64
	Timestamp   time.Time
}

// Store handles persistence of chat metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// timeLayout keeps created_at in a format SQLite's date functions and
// lexicographic comparisons both understand.
const timeLayout = "2006-01-02 15:04:05"

// Record saves a metric to the database.
func (s *Store) Record(m ChatMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	query := `INSERT INTO chat_metrics (model, prompt_chars, reply_chars, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(context.Background(), query,
		m.Model, m.PromptChars, m.ReplyChars, m.LatencyMS, ts.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to insert chat metric: %w", err)
	}
	return nil
}

// DailyUsage represents call totals for a single day.
type DailyUsage struct {
	Date       string
	Calls      int
	AvgLatency float64
}

// GetDailyUsage retrieves usage for the last N days.
func (s *Store) GetDailyUsage(days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format(timeLayout)

	query := `SELECT date(created_at) AS day, COUNT(*), AVG(latency_ms)
		FROM chat_metrics WHERE created_at >= ? GROUP BY day ORDER BY day`
	rows, err := s.db.QueryContext(context.Background(), query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat metrics: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var u DailyUsage
		var avg sql.NullFloat64
		if err := rows.Scan(&u.Date, &u.Calls, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		if avg.Valid {
			u.AvgLatency = avg.Float64
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// returns how many rows were deleted.
func (s *Store) Cleanup(olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays).Format(timeLayout)
	res, err := s.db.ExecContext(context.Background(),
		`DELETE FROM chat_metrics WHERE created_at < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old chat metrics: %w", err)
	}
	return res.RowsAffected()
}
