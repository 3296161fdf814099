package orchestrators

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"rollcall/internal/domain/identity"
)

// LoginInput carries the credential pair from the login form.
type LoginInput struct {
	Name     string // "admin" or a squad name
	Password string
}

// LoginDeps holds the two shared secrets. There are deliberately no per-user
// credentials: one admin secret, one secret shared by every squad.
type LoginDeps struct {
	AdminSecret string
	SquadSecret string
}

var ErrInvalidCredentials = errors.New("wrong name or password")

// ExecuteLogin maps a credential pair to an identity.
// PRE: deps secrets are configured
// POST: Returns the admin identity, a squad identity, or ErrInvalidCredentials
// INVARIANT: secret comparison is constant-time
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (identity.Identity, error) {
	name := strings.TrimSpace(input.Name)
	password := strings.TrimSpace(input.Password)

	if name == identity.AdminName && secretsEqual(password, deps.AdminSecret) {
		slog.Info("auth_event", "event", "login_success", "role", identity.RoleAdmin)
		return identity.Admin(), nil
	}

	if name != "" && secretsEqual(password, deps.SquadSecret) {
		slog.Info("auth_event", "event", "login_success", "role", identity.RoleSquad, "squad", name)
		return identity.Squad(name), nil
	}

	slog.Info("auth_event", "event", "login_failed", "name", name)
	return identity.Identity{}, ErrInvalidCredentials
}

func secretsEqual(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
