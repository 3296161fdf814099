package rollcall

import (
	"context"

	domain "rollcall/internal/domain/rollcall"
)

// Store persists roll-call sessions and their entries. The current session
// is always the one with the highest creation order; it is a query, not a
// cached pointer.
type Store interface {
	// CreateSession appends a new session and returns it with its
	// storage-assigned Seq.
	CreateSession(ctx context.Context, value domain.Session) (domain.Session, error)
	// CurrentSession returns the latest session with its entries in
	// (marked_at asc, creation order asc) order. ok is false when no
	// session exists yet.
	CurrentSession(ctx context.Context) (domain.Session, bool, error)
	// Mark inserts an entry unless the squad already marked in the
	// session. The one-entry-per-squad rule is enforced here, at the
	// storage layer, so racing marks cannot produce duplicates. Returns
	// false when the entry already existed.
	Mark(ctx context.Context, value domain.Entry) (bool, error)
	// ListSessions returns the full history in creation order, entries
	// sorted as in CurrentSession.
	ListSessions(ctx context.Context) ([]domain.Session, error)
	// DeleteAll removes all sessions and, by cascade, all entries.
	DeleteAll(ctx context.Context) error
}
