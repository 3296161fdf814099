package orchestrators

import (
	"context"
	"log/slog"

	domain "rollcall/internal/domain/schedule"
)

// CommentEntryStore defines the schedule store interface needed by CommentEntry.
type CommentEntryStore interface {
	SetCommentAt(ctx context.Context, day string, index int, comment string) (bool, error)
}

// CommentEntryInput carries input for the admin comment orchestrator.
// Comment is stored verbatim: no trimming, empty clears the annotation.
type CommentEntryInput struct {
	Day     string
	Index   int
	Comment string
}

// CommentEntryDeps holds dependencies for CommentEntry.
type CommentEntryDeps struct {
	ScheduleStore CommentEntryStore
}

// ExecuteCommentEntry writes an admin comment on any squad's row at the
// given display index. No ownership check; a missing index is a silent no-op.
// PRE: caller has already been gated to the admin role
// POST: Returns true if the row was annotated
func ExecuteCommentEntry(ctx context.Context, input CommentEntryInput, deps CommentEntryDeps) (bool, error) {
	if !domain.IsValidDay(input.Day) {
		return false, nil
	}

	set, err := deps.ScheduleStore.SetCommentAt(ctx, input.Day, input.Index, input.Comment)
	if err != nil {
		return false, err
	}
	if set {
		slog.Info("schedule_event", "event", "entry_commented", "day", input.Day, "index", input.Index)
	}
	return set, nil
}
