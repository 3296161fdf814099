package schedule

import (
	"context"

	domain "rollcall/internal/domain/schedule"
)

// Store persists schedule entries. Rows are addressed by display index, so
// every index-taking method resolves index against the canonical
// (start asc, creation order asc) sort inside the adapter's own transaction
// or lock scope.
type Store interface {
	// Add inserts an entry and returns it with its storage-assigned Seq.
	Add(ctx context.Context, value domain.Entry) (domain.Entry, error)
	// ListByDay returns a day's entries in canonical order.
	ListByDay(ctx context.Context, day string) ([]domain.Entry, error)
	// EditAt applies patch to the entry at index. When owner is non-empty
	// the edit only applies if the entry belongs to owner. Returns false
	// (and no error) when nothing was changed.
	EditAt(ctx context.Context, day string, index int, owner string, patch domain.Patch) (bool, error)
	// DeleteAt removes the entry at index under the same ownership rule.
	DeleteAt(ctx context.Context, day string, index int, owner string) (bool, error)
	// SetCommentAt stores comment verbatim on the entry at index, with no
	// ownership check.
	SetCommentAt(ctx context.Context, day string, index int, comment string) (bool, error)
	// DeleteAll removes every entry for both days.
	DeleteAll(ctx context.Context) error
}
