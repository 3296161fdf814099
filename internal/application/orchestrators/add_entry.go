package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domain "rollcall/internal/domain/schedule"
)

// AddEntryStore defines the schedule store interface needed by AddEntry.
type AddEntryStore interface {
	Add(ctx context.Context, value domain.Entry) (domain.Entry, error)
}

// AddEntryInput carries input for the add-entry orchestrator.
type AddEntryInput struct {
	Squad string
	Day   string
	Start string
	Task  string
}

// AddEntryDeps holds dependencies for AddEntry.
type AddEntryDeps struct {
	ScheduleStore AddEntryStore
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteAddEntry inserts a new schedule row owned by the squad.
// PRE: Squad is a non-empty squad name
// POST: Entry persisted with empty comment, or added=false for invalid input
// (bad day or blank start/task) — invalid input is a silent no-op, not an error
func ExecuteAddEntry(ctx context.Context, input AddEntryInput, deps AddEntryDeps) (bool, error) {
	entry := domain.Entry{
		ID:        deps.GenerateID(),
		Day:       input.Day,
		Squad:     input.Squad,
		Start:     strings.TrimSpace(input.Start),
		Task:      strings.TrimSpace(input.Task),
		Comment:   "",
		UpdatedAt: deps.Now(),
	}
	if err := entry.Validate(); err != nil {
		slog.Info("schedule_event", "event", "add_rejected", "squad", input.Squad, "day", input.Day, "reason", err.Error())
		return false, nil
	}

	if _, err := deps.ScheduleStore.Add(ctx, entry); err != nil {
		return false, err
	}

	slog.Info("schedule_event", "event", "entry_added", "squad", input.Squad, "day", input.Day, "start", entry.Start)
	return true, nil
}
