package domain

import (
	"fmt"
	"strings"
)

// Role is a workspace-scoped privilege level held on the user record.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is a known workspace role.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// ParseRole parses a role name case-insensitively. Empty input returns ("", nil) so callers can
// fall back to a workspace default.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// CanAssign reports whether an actor holding actor may move a member from current to next.
// Only owners may create or modify owners; admins manage everyone else.
func CanAssign(actor, current, next Role) bool {
	switch actor {
	case RoleOwner:
		return true
	case RoleAdmin:
		return current != RoleOwner && next != RoleOwner
	default:
		return false
	}
}
