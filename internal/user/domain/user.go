package domain

import (
	"errors"
	"time"

	membershipdomain "workspace-control-plane/internal/membership/domain"
)

// User is the core user entity. A user belongs to at most one workspace and holds a
// workspace-scoped role there.
type User struct {
	ID          string
	Email       string
	Name        string
	WorkspaceID string // empty until the user creates or joins a workspace
	Role        membershipdomain.Role
	Status      UserStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.Role != "" && !u.Role.Valid() {
		return errors.New("role is invalid")
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}

// InWorkspace reports whether the user is a member of workspaceID.
func (u *User) InWorkspace(workspaceID string) bool {
	return u != nil && workspaceID != "" && u.WorkspaceID == workspaceID
}
