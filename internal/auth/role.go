package auth

import (
	"errors"
	"strings"
)

// Role is one of the three account roles. Values match what clients
// send and what the users table stores.
type Role string

const (
	RoleUser          Role = "User"
	RoleModerator     Role = "Moderator"
	RoleAdministrator Role = "Administrator"
)

// ErrUnknownRole is returned when a role name does not match any of
// the defined roles. Handlers translate it into a validation error.
var ErrUnknownRole = errors.New("unknown role")

// ErrUserInactive is returned for authorization checks against a
// deactivated (banned) account. It is distinct from a permission
// failure so handlers can report it separately.
var ErrUserInactive = errors.New("user inactive")

// ErrRoleDenied is returned when an active account lacks every
// required role.
var ErrRoleDenied = errors.New("role denied")

// ParseRole validates a single role name.
func ParseRole(s string) (Role, error) {
	switch Role(strings.TrimSpace(s)) {
	case RoleUser:
		return RoleUser, nil
	case RoleModerator:
		return RoleModerator, nil
	case RoleAdministrator:
		return RoleAdministrator, nil
	}
	return "", ErrUnknownRole
}

// RoleSet is the non-empty set of roles held by an identity. In-memory
// code tests membership through Has/Intersects only; the comma-joined
// string form exists solely for the persistence boundary.
type RoleSet []Role

// Has reports whether the set contains the given role.
func (rs RoleSet) Has(r Role) bool {
	for _, have := range rs {
		if have == r {
			return true
		}
	}
	return false
}

// Intersects reports whether the set shares at least one role with
// required. An empty required list never matches.
func (rs RoleSet) Intersects(required ...Role) bool {
	for _, r := range required {
		if rs.Has(r) {
			return true
		}
	}
	return false
}

// String serializes the set as a comma-joined list for storage in the
// users.roles column.
func (rs RoleSet) String() string {
	names := make([]string, 0, len(rs))
	for _, r := range rs {
		names = append(names, string(r))
	}
	return strings.Join(names, ",")
}

// Authorize checks the active flag before role membership, so a banned
// account is reported as inactive even when its roles would match.
func Authorize(active bool, rs RoleSet, required ...Role) error {
	if !active {
		return ErrUserInactive
	}
	if !rs.Intersects(required...) {
		return ErrRoleDenied
	}
	return nil
}

// ParseRoleSet deserializes the comma-joined column value. Unknown
// names fail the whole parse; duplicates are dropped. An empty input
// yields the default User role so legacy rows stay usable.
func ParseRoleSet(s string) (RoleSet, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RoleSet{RoleUser}, nil
	}
	var set RoleSet
	for _, part := range strings.Split(s, ",") {
		r, err := ParseRole(part)
		if err != nil {
			return nil, err
		}
		if !set.Has(r) {
			set = append(set, r)
		}
	}
	return set, nil
}
