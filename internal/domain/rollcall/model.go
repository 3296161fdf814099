package rollcall

import (
	"errors"
	"sort"
	"time"
)

// Session is one bounded round of roll-call. Sessions are append-only
// history: a new round is started by admin action and old rounds are kept.
type Session struct {
	ID        string
	Seq       int64 // storage-assigned creation order; the current session has the highest Seq
	StartedAt time.Time
	Entries   []Entry
}

// Entry records a single squad checking in during a session. Entries are
// written once and never updated.
type Entry struct {
	ID        string
	SessionID string
	Seq       int64
	Squad     string
	MarkedAt  time.Time
}

// Domain errors
var (
	ErrEmptySquad     = errors.New("entry must belong to a squad")
	ErrEmptyMarkedAt  = errors.New("marked time must be set")
	ErrEmptySessionID = errors.New("entry must belong to a session")
)

// Validate checks if the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if e.Squad == "" {
		return ErrEmptySquad
	}
	if e.SessionID == "" {
		return ErrEmptySessionID
	}
	if e.MarkedAt.IsZero() {
		return ErrEmptyMarkedAt
	}
	return nil
}

// EntryFor returns the session's entry for the given squad, if any.
// PRE: s is populated
// POST: Returns the entry and true, or zero value and false
func (s *Session) EntryFor(squad string) (Entry, bool) {
	for _, e := range s.Entries {
		if e.Squad == squad {
			return e, true
		}
	}
	return Entry{}, false
}

// SortEntries orders a session's entries by marked time ascending. Identical
// timestamps fall back to creation order so repeated reads are stable.
// PRE: entries may be in any order
// POST: entries sorted in place by (MarkedAt asc, Seq asc)
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].MarkedAt.Equal(entries[j].MarkedAt) {
			return entries[i].MarkedAt.Before(entries[j].MarkedAt)
		}
		return entries[i].Seq < entries[j].Seq
	})
}
