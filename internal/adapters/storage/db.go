package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode and foreign keys enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Cascade delete from session to entries depends on this
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// seq columns are AUTOINCREMENT so creation order survives deletes.
	// UNIQUE(session_id, squad) enforces one mark per squad per session at
	// the storage layer; racing marks collapse into one row.
	schema := `
	CREATE TABLE IF NOT EXISTS schedule_entry (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		day TEXT NOT NULL,
		squad TEXT NOT NULL,
		start_time TEXT NOT NULL,
		task TEXT NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_schedule_entry_day
		ON schedule_entry(day, start_time, seq);

	CREATE TABLE IF NOT EXISTS rollcall_session (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		started_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rollcall_entry (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		session_id TEXT NOT NULL,
		squad TEXT NOT NULL,
		marked_at TEXT NOT NULL,
		UNIQUE(session_id, squad),
		FOREIGN KEY (session_id) REFERENCES rollcall_session(id) ON DELETE CASCADE
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// FormatTime renders a timestamp for storage.
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParseTime parses a stored timestamp, tolerating the formats older rows
// were written with.
// PRE: value is non-empty
// POST: Returns the parsed time or an error
func ParseTime(value string) (time.Time, error) {
	if idx := strings.Index(value, " m="); idx != -1 {
		value = value[:idx]
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %q", value)
}
