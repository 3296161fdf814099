package schedule

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

	domain "rollcall/internal/domain/schedule"
)

// FileStore implements Store on a single JSON document that is fully
// rewritten on every mutation. A process-wide mutex serializes all access so
// read-modify-write cycles never interleave.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a schedule store backed by the JSON file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

var _ Store = (*FileStore)(nil)

// fileEntry is the on-disk shape of one schedule row.
type fileEntry struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"`
	Squad     string    `json:"squad"`
	Start     string    `json:"start"`
	Task      string    `json:"task"`
	Comment   string    `json:"comment"`
	UpdatedAt time.Time `json:"updated_at"`
}

// scheduleDoc is the whole document: one array per day.
type scheduleDoc struct {
	Today    []fileEntry `json:"today"`
	Tomorrow []fileEntry `json:"tomorrow"`
}

// Add inserts an entry.
// PRE: value has been validated
// POST: Entry persisted; returned entry carries the assigned Seq
func (s *FileStore) Add(ctx context.Context, value domain.Entry) (domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	value.Seq = nextSeq(doc)
	fe := toFileEntry(value)
	switch value.Day {
	case domain.DayTomorrow:
		doc.Tomorrow = append(doc.Tomorrow, fe)
	default:
		doc.Today = append(doc.Today, fe)
	}
	if err := s.save(doc); err != nil {
		return domain.Entry{}, err
	}
	return value, nil
}

// ListByDay returns a day's entries in canonical order.
func (s *FileStore) ListByDay(ctx context.Context, day string) ([]domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return sortedDay(s.load(), day), nil
}

// EditAt applies patch to the entry at the given display index. Resolution
// and rewrite happen under the same lock.
// PRE: index >= 0
// POST: Returns true if an entry was updated, false on missing index or
// ownership mismatch
func (s *FileStore) EditAt(ctx context.Context, day string, index int, owner string, patch domain.Patch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	entry, ok := entryAt(doc, day, index)
	if !ok {
		return false, nil
	}
	if owner != "" && entry.Squad != owner {
		return false, nil
	}

	ok = mutateByID(doc, day, entry.ID, func(fe *fileEntry) {
		if patch.Start != nil {
			fe.Start = *patch.Start
		}
		if patch.Task != nil {
			fe.Task = *patch.Task
		}
		fe.UpdatedAt = time.Now()
	})
	if !ok {
		return false, nil
	}
	return true, s.save(doc)
}

// DeleteAt removes the entry at the given display index.
// PRE: index >= 0
// POST: Returns true if an entry was removed, false on missing index or
// ownership mismatch
func (s *FileStore) DeleteAt(ctx context.Context, day string, index int, owner string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	entry, ok := entryAt(doc, day, index)
	if !ok {
		return false, nil
	}
	if owner != "" && entry.Squad != owner {
		return false, nil
	}

	list := dayList(doc, day)
	kept := (*list)[:0]
	for _, fe := range *list {
		if fe.ID != entry.ID {
			kept = append(kept, fe)
		}
	}
	*list = kept
	return true, s.save(doc)
}

// SetCommentAt stores the comment on the entry at the given display index,
// with no ownership check.
// PRE: index >= 0
// POST: Returns true if an entry was updated, false on missing index
func (s *FileStore) SetCommentAt(ctx context.Context, day string, index int, comment string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	entry, ok := entryAt(doc, day, index)
	if !ok {
		return false, nil
	}

	mutateByID(doc, day, entry.ID, func(fe *fileEntry) {
		fe.Comment = comment
		fe.UpdatedAt = time.Now()
	})
	return true, s.save(doc)
}

// DeleteAll removes every schedule entry.
func (s *FileStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(&scheduleDoc{})
}

// load reads the document, recovering from a missing or corrupt file by
// starting over with an empty document.
func (s *FileStore) load() *scheduleDoc {
	doc := &scheduleDoc{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("storage_event", "event", "schedule_file_unreadable", "path", s.path, "error", err.Error())
		}
		return doc
	}
	if err := json.Unmarshal(data, doc); err != nil {
		slog.Warn("storage_event", "event", "schedule_file_corrupt", "path", s.path, "error", err.Error())
		return &scheduleDoc{}
	}
	return doc
}

// save rewrites the whole document. Written to a temp file and renamed so a
// crash mid-write never leaves a truncated document behind.
func (s *FileStore) save(doc *scheduleDoc) error {
	if doc.Today == nil {
		doc.Today = []fileEntry{}
	}
	if doc.Tomorrow == nil {
		doc.Tomorrow = []fileEntry{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode schedule file: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write schedule file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func toFileEntry(e domain.Entry) fileEntry {
	return fileEntry{
		ID:        e.ID,
		Seq:       e.Seq,
		Squad:     e.Squad,
		Start:     e.Start,
		Task:      e.Task,
		Comment:   e.Comment,
		UpdatedAt: e.UpdatedAt,
	}
}

func toDomain(fe fileEntry, day string) domain.Entry {
	return domain.Entry{
		ID:        fe.ID,
		Seq:       fe.Seq,
		Day:       day,
		Squad:     fe.Squad,
		Start:     fe.Start,
		Task:      fe.Task,
		Comment:   fe.Comment,
		UpdatedAt: fe.UpdatedAt,
	}
}

func dayList(doc *scheduleDoc, day string) *[]fileEntry {
	if day == domain.DayTomorrow {
		return &doc.Tomorrow
	}
	return &doc.Today
}

// nextSeq derives the next creation-order number from the live entries.
func nextSeq(doc *scheduleDoc) int64 {
	var max int64
	for _, fe := range doc.Today {
		if fe.Seq > max {
			max = fe.Seq
		}
	}
	for _, fe := range doc.Tomorrow {
		if fe.Seq > max {
			max = fe.Seq
		}
	}
	return max + 1
}

func sortedDay(doc *scheduleDoc, day string) []domain.Entry {
	list := *dayList(doc, day)
	entries := make([]domain.Entry, 0, len(list))
	for _, fe := range list {
		entries = append(entries, toDomain(fe, day))
	}
	domain.SortEntries(entries)
	return entries
}

// entryAt resolves a display index against the canonical sort.
func entryAt(doc *scheduleDoc, day string, index int) (domain.Entry, bool) {
	entries := sortedDay(doc, day)
	if index < 0 || index >= len(entries) {
		return domain.Entry{}, false
	}
	return entries[index], true
}

func mutateByID(doc *scheduleDoc, day, id string, apply func(*fileEntry)) bool {
	list := dayList(doc, day)
	for i := range *list {
		if (*list)[i].ID == id {
			apply(&(*list)[i])
			return true
		}
	}
	return false
}
