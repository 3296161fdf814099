package rollcall

import (
	"context"
	"database/sql"
	"fmt"

	"rollcall/internal/adapters/storage"
	domain "rollcall/internal/domain/rollcall"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new roll-call store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

// CreateSession appends a new session.
// PRE: value.ID and value.StartedAt are set
// POST: Session persisted; returned session carries the assigned Seq
func (s *SQLiteStore) CreateSession(ctx context.Context, value domain.Session) (domain.Session, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO rollcall_session (id, started_at) VALUES (?, ?)`,
		value.ID, storage.FormatTime(value.StartedAt))
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to insert session: %w", err)
	}
	seq, err := result.LastInsertId()
	if err != nil {
		return domain.Session{}, err
	}
	value.Seq = seq
	value.Entries = nil
	return value, nil
}

// CurrentSession returns the latest session with its entries.
// PRE: none
// POST: ok is false when no session exists
func (s *SQLiteStore) CurrentSession(ctx context.Context) (domain.Session, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT seq, id, started_at FROM rollcall_session ORDER BY seq DESC LIMIT 1`)

	ses, err := scanSession(row)
	if err == sql.ErrNoRows {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, err
	}

	entries, err := s.listEntries(ctx, ses.ID)
	if err != nil {
		return domain.Session{}, false, err
	}
	ses.Entries = entries
	return ses, true, nil
}

// Mark inserts an entry unless the squad already marked in the session.
// The UNIQUE(session_id, squad) constraint absorbs the race between two
// concurrent marks for the same squad.
// PRE: value has been validated
// POST: Returns true if a row was inserted, false if one already existed
func (s *SQLiteStore) Mark(ctx context.Context, value domain.Entry) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO rollcall_entry (id, session_id, squad, marked_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id, squad) DO NOTHING`,
		value.ID, value.SessionID, value.Squad, storage.FormatTime(value.MarkedAt))
	if err != nil {
		return false, fmt.Errorf("failed to insert roll-call entry: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListSessions returns the full history in creation order.
// PRE: none
// POST: Sessions sorted by Seq ascending, entries by (marked_at, seq)
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, id, started_at FROM rollcall_session ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		ses, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, ses)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sessions {
		entries, err := s.listEntries(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Entries = entries
	}
	return sessions, nil
}

// DeleteAll removes all sessions; entries go with them via cascade.
func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM rollcall_session`)
	return err
}

func (s *SQLiteStore) listEntries(ctx context.Context, sessionID string) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, id, session_id, squad, marked_at FROM rollcall_entry
		 WHERE session_id = ? ORDER BY marked_at ASC, seq ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var entry domain.Entry
		var markedAt string
		if err := rows.Scan(&entry.Seq, &entry.ID, &entry.SessionID, &entry.Squad, &markedAt); err != nil {
			return nil, err
		}
		parsed, err := storage.ParseTime(markedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse marked_at: %w", err)
		}
		entry.MarkedAt = parsed
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Stored timestamps are variable-width RFC3339Nano, so the SQL ordering
	// is only approximate; re-sort on the parsed times.
	domain.SortEntries(entries)
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var ses domain.Session
	var startedAt string
	if err := row.Scan(&ses.Seq, &ses.ID, &startedAt); err != nil {
		return domain.Session{}, err
	}
	parsed, err := storage.ParseTime(startedAt)
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to parse started_at: %w", err)
	}
	ses.StartedAt = parsed
	return ses, nil
}
