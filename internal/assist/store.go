// internal/assist/store.go
package assist

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Journal records every suggestion the assistant produced so a human can
// review the history before redeploying a parser. It stores assistant
// audit state only; extracted search results are never persisted.
type Journal struct {
	db *sql.DB
}

const journalSchema = `
CREATE TABLE IF NOT EXISTS suggestions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	driver_name TEXT NOT NULL,
	content_type TEXT NOT NULL,
	reasoning TEXT NOT NULL,
	suggested_code TEXT NOT NULL,
	sample_bytes INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_suggestions_driver ON suggestions(driver_name, created_at);
`

// OpenJournal opens (creating if needed) the SQLite journal at path.
func OpenJournal(path string) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("journal path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}
	if _, err := db.Exec(journalSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record stores one suggestion.
func (j *Journal) Record(ctx context.Context, s *Suggestion, sampleBytes int) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO suggestions (driver_name, content_type, reasoning, suggested_code, sample_bytes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.DriverName, s.ContentType, s.Reasoning, s.SuggestedCode, sampleBytes, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record suggestion: %w", err)
	}
	return nil
}

// JournalEntry is one stored suggestion with its row id.
type JournalEntry struct {
	ID          int64      `json:"id"`
	Suggestion  Suggestion `json:"suggestion"`
	SampleBytes int        `json:"sample_bytes"`
}

// Recent returns the newest entries for a driver, most recent first. An
// empty driver name returns entries across all drivers.
func (j *Journal) Recent(ctx context.Context, driverName string, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, driver_name, content_type, reasoning, suggested_code, sample_bytes, created_at
		FROM suggestions`
	args := []interface{}{}
	if driverName != "" {
		query += ` WHERE driver_name = ?`
		args = append(args, driverName)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var entry JournalEntry
		var createdAt time.Time
		if err := rows.Scan(&entry.ID, &entry.Suggestion.DriverName, &entry.Suggestion.ContentType,
			&entry.Suggestion.Reasoning, &entry.Suggestion.SuggestedCode, &entry.SampleBytes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		entry.Suggestion.CreatedAt = createdAt
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Close releases the underlying database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}
