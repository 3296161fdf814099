package orchestrators

import (
	"context"
	"log/slog"
	"time"

	domain "rollcall/internal/domain/rollcall"
)

// MarkRollCallStore defines the roll-call store interface needed by Mark.
type MarkRollCallStore interface {
	SessionStore
	Mark(ctx context.Context, value domain.Entry) (bool, error)
}

// MarkRollCallInput carries input for the mark orchestrator.
type MarkRollCallInput struct {
	Squad string
}

// MarkRollCallDeps holds dependencies for MarkRollCall.
type MarkRollCallDeps struct {
	RollCallStore MarkRollCallStore
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteMarkRollCall records the squad's check-in against the current
// session. Pressing the button again in the same round changes nothing: the
// mark is idempotent, and the storage layer's uniqueness rule absorbs
// concurrent duplicates.
// PRE: Squad is a non-empty squad name
// POST: The current session contains exactly one entry for the squad;
// returns true if this call inserted it
func ExecuteMarkRollCall(ctx context.Context, input MarkRollCallInput, deps MarkRollCallDeps) (bool, error) {
	cur, err := ExecuteEnsureSession(ctx, EnsureSessionDeps{
		RollCallStore: deps.RollCallStore,
		GenerateID:    deps.GenerateID,
		Now:           deps.Now,
	})
	if err != nil {
		return false, err
	}

	entry := domain.Entry{
		ID:        deps.GenerateID(),
		SessionID: cur.ID,
		Squad:     input.Squad,
		MarkedAt:  deps.Now(),
	}
	if err := entry.Validate(); err != nil {
		return false, err
	}

	marked, err := deps.RollCallStore.Mark(ctx, entry)
	if err != nil {
		return false, err
	}
	if marked {
		slog.Info("rollcall_event", "event", "squad_marked", "squad", input.Squad, "session_id", cur.ID)
	}
	return marked, nil
}
