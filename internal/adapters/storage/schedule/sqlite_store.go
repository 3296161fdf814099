package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rollcall/internal/adapters/storage"
	domain "rollcall/internal/domain/schedule"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new schedule store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

// Add inserts an entry.
// PRE: value has been validated
// POST: Entry persisted; returned entry carries the assigned Seq
func (s *SQLiteStore) Add(ctx context.Context, value domain.Entry) (domain.Entry, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO schedule_entry (id, day, squad, start_time, task, comment, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		value.ID, value.Day, value.Squad, value.Start, value.Task, value.Comment,
		storage.FormatTime(value.UpdatedAt))
	if err != nil {
		return domain.Entry{}, fmt.Errorf("failed to insert schedule entry: %w", err)
	}
	seq, err := result.LastInsertId()
	if err != nil {
		return domain.Entry{}, err
	}
	value.Seq = seq
	return value, nil
}

// ListByDay returns a day's entries ordered by (start_time, seq).
// PRE: day is a valid day
// POST: Returns entries in canonical display order
func (s *SQLiteStore) ListByDay(ctx context.Context, day string) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, id, day, squad, start_time, task, comment, updated_at
		 FROM schedule_entry WHERE day = ? ORDER BY start_time ASC, seq ASC`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entry)
	}
	return results, rows.Err()
}

// EditAt updates start/task on the entry at the given display index.
// Resolution and update run in one transaction so a concurrent insert cannot
// shift the index in between.
// PRE: index >= 0
// POST: Returns true if a row was updated, false on missing index or
// ownership mismatch
func (s *SQLiteStore) EditAt(ctx context.Context, day string, index int, owner string, patch domain.Patch) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	entry, ok, err := resolveIndex(ctx, tx, day, index)
	if err != nil || !ok {
		return false, err
	}
	if owner != "" && entry.Squad != owner {
		return false, nil
	}

	start := entry.Start
	task := entry.Task
	if patch.Start != nil {
		start = *patch.Start
	}
	if patch.Task != nil {
		task = *patch.Task
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE schedule_entry SET start_time = ?, task = ?, updated_at = ? WHERE id = ?`,
		start, task, storage.FormatTime(time.Now()), entry.ID); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// DeleteAt removes the entry at the given display index.
// PRE: index >= 0
// POST: Returns true if a row was deleted, false on missing index or
// ownership mismatch
func (s *SQLiteStore) DeleteAt(ctx context.Context, day string, index int, owner string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	entry, ok, err := resolveIndex(ctx, tx, day, index)
	if err != nil || !ok {
		return false, err
	}
	if owner != "" && entry.Squad != owner {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM schedule_entry WHERE id = ?`, entry.ID); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// SetCommentAt stores the comment on the entry at the given display index.
// No ownership check: any squad's row may be annotated.
// PRE: index >= 0
// POST: Returns true if a row was updated, false on missing index
func (s *SQLiteStore) SetCommentAt(ctx context.Context, day string, index int, comment string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	entry, ok, err := resolveIndex(ctx, tx, day, index)
	if err != nil || !ok {
		return false, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE schedule_entry SET comment = ?, updated_at = ? WHERE id = ?`,
		comment, storage.FormatTime(time.Now()), entry.ID); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// DeleteAll removes every schedule entry.
func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM schedule_entry`)
	return err
}

// resolveIndex maps a display index to the entry at that position using the
// canonical sort.
func resolveIndex(ctx context.Context, tx *sql.Tx, day string, index int) (domain.Entry, bool, error) {
	if index < 0 {
		return domain.Entry{}, false, nil
	}
	row := tx.QueryRowContext(ctx,
		`SELECT seq, id, day, squad, start_time, task, comment, updated_at
		 FROM schedule_entry WHERE day = ?
		 ORDER BY start_time ASC, seq ASC LIMIT 1 OFFSET ?`, day, index)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return domain.Entry{}, false, nil
	}
	if err != nil {
		return domain.Entry{}, false, err
	}
	return entry, true, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (domain.Entry, error) {
	var entry domain.Entry
	var updatedAt string
	if err := row.Scan(&entry.Seq, &entry.ID, &entry.Day, &entry.Squad,
		&entry.Start, &entry.Task, &entry.Comment, &updatedAt); err != nil {
		return domain.Entry{}, err
	}
	parsed, err := storage.ParseTime(updatedAt)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	entry.UpdatedAt = parsed
	return entry, nil
}
