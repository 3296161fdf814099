package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rollcall/internal/adapters/email"
	domain "rollcall/internal/domain/rollcall"
)

// ResetRollCallStore defines the roll-call store interface needed by Reset.
type ResetRollCallStore interface {
	CreateSession(ctx context.Context, value domain.Session) (domain.Session, error)
}

// ResetRollCallDeps holds dependencies for ResetRollCall. Sender and
// NotifyAddress are optional; when both are set, a notification goes out
// best-effort after the new round is persisted.
type ResetRollCallDeps struct {
	RollCallStore ResetRollCallStore
	GenerateID    func() string
	Now           func() time.Time
	Sender        email.Sender
	NotifyAddress string
}

// ExecuteResetRollCall starts a new roll-call round by appending an empty
// session. Earlier sessions and their entries are the roll-call history and
// are never touched by a reset.
// PRE: caller has already been gated to the admin role
// POST: A new empty session is current; history retained
func ExecuteResetRollCall(ctx context.Context, deps ResetRollCallDeps) (domain.Session, error) {
	created, err := deps.RollCallStore.CreateSession(ctx, domain.Session{
		ID:        deps.GenerateID(),
		StartedAt: deps.Now(),
	})
	if err != nil {
		return domain.Session{}, err
	}
	slog.Info("rollcall_event", "event", "round_reset", "session_id", created.ID)

	if deps.Sender != nil && deps.NotifyAddress != "" {
		_, sendErr := deps.Sender.Send(ctx, email.SendRequest{
			To:      []string{deps.NotifyAddress},
			Subject: "Roll call restarted",
			HTML: fmt.Sprintf("<p>A new roll-call round was started at %s.</p>",
				created.StartedAt.Format("15:04")),
		})
		if sendErr != nil {
			slog.Warn("rollcall_event", "event", "reset_notify_failed", "error", sendErr.Error())
		}
	}

	return created, nil
}
