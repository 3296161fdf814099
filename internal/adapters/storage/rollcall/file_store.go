package rollcall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	domain "rollcall/internal/domain/rollcall"
)

// FileStore implements Store on a single JSON document that is fully
// rewritten on every mutation, serialized by a process-wide mutex. The mark
// uniqueness check runs under the same mutex as the write, which stands in
// for the relational UNIQUE constraint.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a roll-call store backed by the JSON file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

var _ Store = (*FileStore)(nil)

type fileEntry struct {
	ID       string    `json:"id"`
	Seq      int64     `json:"seq"`
	Squad    string    `json:"squad"`
	MarkedAt time.Time `json:"time"`
}

type fileSession struct {
	ID        string      `json:"id"`
	Seq       int64       `json:"seq"`
	StartedAt time.Time   `json:"started_at"`
	Entries   []fileEntry `json:"entries"`
}

type rollcallDoc struct {
	Sessions []fileSession `json:"sessions"`
}

// CreateSession appends a new session.
// PRE: value.ID and value.StartedAt are set
// POST: Session persisted; returned session carries the assigned Seq
func (s *FileStore) CreateSession(ctx context.Context, value domain.Session) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	value.Seq = nextSessionSeq(doc)
	value.Entries = nil
	doc.Sessions = append(doc.Sessions, fileSession{
		ID:        value.ID,
		Seq:       value.Seq,
		StartedAt: value.StartedAt,
		Entries:   []fileEntry{},
	})
	if err := s.save(doc); err != nil {
		return domain.Session{}, err
	}
	return value, nil
}

// CurrentSession returns the latest session with its entries.
// PRE: none
// POST: ok is false when no session exists
func (s *FileStore) CurrentSession(ctx context.Context) (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	cur, ok := latest(doc)
	if !ok {
		return domain.Session{}, false, nil
	}
	return toDomainSession(cur), true, nil
}

// Mark inserts an entry unless the squad already marked in the session.
// PRE: value has been validated
// POST: Returns true if an entry was added, false if one already existed
func (s *FileStore) Mark(ctx context.Context, value domain.Entry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	for i := range doc.Sessions {
		if doc.Sessions[i].ID != value.SessionID {
			continue
		}
		for _, fe := range doc.Sessions[i].Entries {
			if fe.Squad == value.Squad {
				return false, nil
			}
		}
		doc.Sessions[i].Entries = append(doc.Sessions[i].Entries, fileEntry{
			ID:       value.ID,
			Seq:      nextEntrySeq(doc),
			Squad:    value.Squad,
			MarkedAt: value.MarkedAt,
		})
		return true, s.save(doc)
	}
	return false, fmt.Errorf("session not found: %s", value.SessionID)
}

// ListSessions returns the full history in creation order.
func (s *FileStore) ListSessions(ctx context.Context) ([]domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	sessions := make([]domain.Session, 0, len(doc.Sessions))
	for _, fsess := range doc.Sessions {
		sessions = append(sessions, toDomainSession(fsess))
	}
	return sessions, nil
}

// DeleteAll removes all sessions and their entries.
func (s *FileStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(&rollcallDoc{})
}

func (s *FileStore) load() *rollcallDoc {
	doc := &rollcallDoc{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("storage_event", "event", "rollcall_file_unreadable", "path", s.path, "error", err.Error())
		}
		return doc
	}
	if err := json.Unmarshal(data, doc); err != nil {
		slog.Warn("storage_event", "event", "rollcall_file_corrupt", "path", s.path, "error", err.Error())
		return &rollcallDoc{}
	}
	return doc
}

func (s *FileStore) save(doc *rollcallDoc) error {
	if doc.Sessions == nil {
		doc.Sessions = []fileSession{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode roll-call file: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write roll-call file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func latest(doc *rollcallDoc) (fileSession, bool) {
	var best fileSession
	found := false
	for _, fsess := range doc.Sessions {
		if !found || fsess.Seq > best.Seq {
			best = fsess
			found = true
		}
	}
	return best, found
}

func nextSessionSeq(doc *rollcallDoc) int64 {
	var max int64
	for _, fsess := range doc.Sessions {
		if fsess.Seq > max {
			max = fsess.Seq
		}
	}
	return max + 1
}

func nextEntrySeq(doc *rollcallDoc) int64 {
	var max int64
	for _, fsess := range doc.Sessions {
		for _, fe := range fsess.Entries {
			if fe.Seq > max {
				max = fe.Seq
			}
		}
	}
	return max + 1
}

func toDomainSession(fsess fileSession) domain.Session {
	ses := domain.Session{
		ID:        fsess.ID,
		Seq:       fsess.Seq,
		StartedAt: fsess.StartedAt,
		Entries:   make([]domain.Entry, 0, len(fsess.Entries)),
	}
	for _, fe := range fsess.Entries {
		ses.Entries = append(ses.Entries, domain.Entry{
			ID:        fe.ID,
			SessionID: fsess.ID,
			Seq:       fe.Seq,
			Squad:     fe.Squad,
			MarkedAt:  fe.MarkedAt,
		})
	}
	domain.SortEntries(ses.Entries)
	return ses
}
