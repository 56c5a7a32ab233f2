package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	membershipdomain "workspace-control-plane/internal/membership/domain"
	"workspace-control-plane/internal/platform/errs"
)

// MaxNameLength bounds a workspace display name, in runes.
const MaxNameLength = 80

// Workspace is a tenant: the isolation boundary for users, groups, and spaces.
type Workspace struct {
	ID          string
	Name        string
	Description *string
	// Hostname is set only in hosted deployments and is globally unique.
	Hostname       *string
	Logo           *string
	DefaultRole    membershipdomain.Role
	DefaultSpaceID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateName trims name and checks it is usable as a workspace display name.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errs.Validation("workspace name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", errs.Validation("workspace name must be at most %d characters", MaxNameLength)
	}
	return name, nil
}

// HostnameValue returns the hostname or "" when unset.
func (w *Workspace) HostnameValue() string {
	if w == nil || w.Hostname == nil {
		return ""
	}
	return *w.Hostname
}

// EffectiveDefaultRole is the role given to members added without an explicit role.
func (w *Workspace) EffectiveDefaultRole() membershipdomain.Role {
	if w == nil || !w.DefaultRole.Valid() {
		return membershipdomain.RoleMember
	}
	return w.DefaultRole
}
