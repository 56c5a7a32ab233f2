package domain

import "time"

// DefaultGroupName is the name of the group every workspace starts with.
const DefaultGroupName = "Everyone"

// Group is a named collection of users scoped to one workspace.
type Group struct {
	ID          string
	WorkspaceID string
	Name        string
	IsDefault   bool
	CreatorID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Membership links a user to a group.
type Membership struct {
	GroupID   string
	UserID    string
	CreatedAt time.Time
}
