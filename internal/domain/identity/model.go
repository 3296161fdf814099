package identity

import "strings"

// Role names stored in the session.
const (
	RoleAdmin = "admin"
	RoleSquad = "squad"
)

// AdminName is the reserved login name for the administrator.
const AdminName = "admin"

// Identity is the authenticated caller: either the single admin or a named
// squad. Squad names are free-form strings; two squads typing the same name
// share an identity. That collision is the intended model — the name is both
// username and ownership key.
type Identity struct {
	Role  string
	Squad string // set only when Role == RoleSquad
}

// Admin returns the administrator identity.
func Admin() Identity {
	return Identity{Role: RoleAdmin}
}

// Squad returns a squad identity for the given name.
// PRE: name is non-empty after trimming
// POST: Returns a squad identity with the trimmed name
func Squad(name string) Identity {
	return Identity{Role: RoleSquad, Squad: strings.TrimSpace(name)}
}

// IsAdmin reports whether the identity is the administrator.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// IsSquad reports whether the identity is a named squad.
func (i Identity) IsSquad() bool {
	return i.Role == RoleSquad && i.Squad != ""
}
