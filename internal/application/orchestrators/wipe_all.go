package orchestrators

import (
	"context"
	"log/slog"
	"time"

	domain "rollcall/internal/domain/rollcall"
)

// WipeScheduleStore defines the schedule store interface needed by WipeAll.
type WipeScheduleStore interface {
	DeleteAll(ctx context.Context) error
}

// WipeRollCallStore defines the roll-call store interface needed by WipeAll.
type WipeRollCallStore interface {
	DeleteAll(ctx context.Context) error
	CreateSession(ctx context.Context, value domain.Session) (domain.Session, error)
}

// WipeAllDeps holds dependencies for WipeAll.
type WipeAllDeps struct {
	ScheduleStore WipeScheduleStore
	RollCallStore WipeRollCallStore
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteWipeAll clears the whole board: every schedule entry, every
// roll-call session and entry, then starts one fresh empty session so the
// system is back in its initial condition.
// PRE: caller has already been gated to the admin role
// POST: Zero schedule entries; exactly one empty current session
func ExecuteWipeAll(ctx context.Context, deps WipeAllDeps) (domain.Session, error) {
	if err := deps.RollCallStore.DeleteAll(ctx); err != nil {
		return domain.Session{}, err
	}
	if err := deps.ScheduleStore.DeleteAll(ctx); err != nil {
		return domain.Session{}, err
	}

	fresh, err := deps.RollCallStore.CreateSession(ctx, domain.Session{
		ID:        deps.GenerateID(),
		StartedAt: deps.Now(),
	})
	if err != nil {
		return domain.Session{}, err
	}

	slog.Info("rollcall_event", "event", "wiped_all", "session_id", fresh.ID)
	return fresh, nil
}
