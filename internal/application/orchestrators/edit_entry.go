package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	domain "rollcall/internal/domain/schedule"
)

// EditEntryStore defines the schedule store interface needed by EditEntry.
type EditEntryStore interface {
	EditAt(ctx context.Context, day string, index int, owner string, patch domain.Patch) (bool, error)
}

// EditEntryInput carries input for the edit-entry orchestrator. Nil Start or
// Task keeps the stored value.
type EditEntryInput struct {
	Squad string
	Day   string
	Index int
	Start *string
	Task  *string
}

// EditEntryDeps holds dependencies for EditEntry.
type EditEntryDeps struct {
	ScheduleStore EditEntryStore
}

// ExecuteEditEntry overwrites start/task on the squad's own row at the given
// display index. A missing index or a row owned by another squad is a silent
// no-op: squads cannot tamper with each other's rows, not even by guessing
// indexes.
// PRE: Squad is a non-empty squad name
// POST: Returns true if the row was updated
func ExecuteEditEntry(ctx context.Context, input EditEntryInput, deps EditEntryDeps) (bool, error) {
	if !domain.IsValidDay(input.Day) {
		return false, nil
	}

	patch := domain.Patch{}
	if input.Start != nil {
		trimmed := strings.TrimSpace(*input.Start)
		patch.Start = &trimmed
	}
	if input.Task != nil {
		trimmed := strings.TrimSpace(*input.Task)
		patch.Task = &trimmed
	}

	edited, err := deps.ScheduleStore.EditAt(ctx, input.Day, input.Index, input.Squad, patch)
	if err != nil {
		return false, err
	}
	if edited {
		slog.Info("schedule_event", "event", "entry_edited", "squad", input.Squad, "day", input.Day, "index", input.Index)
	}
	return edited, nil
}
