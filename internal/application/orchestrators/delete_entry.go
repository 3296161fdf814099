package orchestrators

import (
	"context"
	"log/slog"

	domain "rollcall/internal/domain/schedule"
)

// DeleteEntryStore defines the schedule store interface needed by DeleteEntry.
type DeleteEntryStore interface {
	DeleteAt(ctx context.Context, day string, index int, owner string) (bool, error)
}

// DeleteEntryInput carries input for the delete-entry orchestrator.
type DeleteEntryInput struct {
	Squad string
	Day   string
	Index int
}

// DeleteEntryDeps holds dependencies for DeleteEntry.
type DeleteEntryDeps struct {
	ScheduleStore DeleteEntryStore
}

// ExecuteDeleteEntry removes the squad's own row at the given display index.
// Same fail-soft rule as edit: missing index or foreign ownership is a
// silent no-op.
// PRE: Squad is a non-empty squad name
// POST: Returns true if the row was removed
func ExecuteDeleteEntry(ctx context.Context, input DeleteEntryInput, deps DeleteEntryDeps) (bool, error) {
	if !domain.IsValidDay(input.Day) {
		return false, nil
	}

	deleted, err := deps.ScheduleStore.DeleteAt(ctx, input.Day, input.Index, input.Squad)
	if err != nil {
		return false, err
	}
	if deleted {
		slog.Info("schedule_event", "event", "entry_deleted", "squad", input.Squad, "day", input.Day, "index", input.Index)
	}
	return deleted, nil
}
