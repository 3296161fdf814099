package orchestrators

import (
	"context"
	"log/slog"
	"time"

	domain "rollcall/internal/domain/rollcall"
)

// SessionStore defines the roll-call store interface needed to read and
// create sessions.
type SessionStore interface {
	CurrentSession(ctx context.Context) (domain.Session, bool, error)
	CreateSession(ctx context.Context, value domain.Session) (domain.Session, error)
}

// EnsureSessionDeps holds dependencies for EnsureSession.
type EnsureSessionDeps struct {
	RollCallStore SessionStore
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteEnsureSession returns the current session, creating the first one
// if none has ever existed. This is the only implicit session creation; all
// later sessions come from the admin reset action.
// PRE: deps are wired
// POST: Exactly one current session exists and is returned
func ExecuteEnsureSession(ctx context.Context, deps EnsureSessionDeps) (domain.Session, error) {
	cur, ok, err := deps.RollCallStore.CurrentSession(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	if ok {
		return cur, nil
	}

	created, err := deps.RollCallStore.CreateSession(ctx, domain.Session{
		ID:        deps.GenerateID(),
		StartedAt: deps.Now(),
	})
	if err != nil {
		return domain.Session{}, err
	}
	slog.Info("rollcall_event", "event", "first_session_created", "session_id", created.ID)
	return created, nil
}
