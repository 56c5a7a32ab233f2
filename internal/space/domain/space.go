package domain

import (
	"strings"
	"time"
)

// Default space created with every workspace.
const (
	DefaultSpaceName = "General"
	DefaultSpaceSlug = "general"
)

// Space is a workspace-scoped content container.
type Space struct {
	ID          string
	WorkspaceID string
	Name        string
	Slug        string
	CreatorID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Role is a space-scoped role, distinct from the workspace role.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWriter Role = "writer"
	RoleReader Role = "reader"
)

// Valid reports whether r is a known space role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleWriter, RoleReader:
		return true
	}
	return false
}

// Member binds either a user or a group to a space. Exactly one of UserID and GroupID is set.
type Member struct {
	ID        string
	SpaceID   string
	UserID    string
	GroupID   string
	Role      Role
	AddedBy   string
	CreatedAt time.Time
}

// Slugify lower-cases name and joins its alphanumeric runs with '-'.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
