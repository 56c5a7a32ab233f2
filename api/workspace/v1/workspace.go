// Package workspacev1 holds the wire messages and service descriptors for the workspace and
// membership gRPC services. Messages travel as JSON (see Codec).
package workspacev1

import "time"

// Workspace is the wire form of a workspace.
type Workspace struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Hostname       string    `json:"hostname,omitempty"`
	Logo           string    `json:"logo,omitempty"`
	DefaultRole    string    `json:"defaultRole"`
	DefaultSpaceID string    `json:"defaultSpaceId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Member is the wire form of a user's membership in a workspace.
type Member struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	WorkspaceID string `json:"workspaceId"`
	Role        string `json:"role"`
}

type CreateWorkspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Hostname is an optional candidate; the workspace name is used when empty.
	Hostname string `json:"hostname,omitempty"`
}

type CreateWorkspaceResponse struct {
	Workspace *Workspace `json:"workspace"`
}

// UpdateWorkspaceRequest changes only the fields that are set.
type UpdateWorkspaceRequest struct {
	WorkspaceID    string  `json:"workspaceId"`
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	Logo           *string `json:"logo,omitempty"`
	DefaultSpaceID *string `json:"defaultSpaceId,omitempty"`
	DefaultRole    *string `json:"defaultRole,omitempty"`
}

type UpdateWorkspaceResponse struct {
	Workspace *Workspace `json:"workspace"`
}

type CheckHostnameRequest struct {
	Hostname string `json:"hostname"`
}

type CheckHostnameResponse struct {
	Hostname string `json:"hostname"`
	Exists   bool   `json:"exists"`
}

type AddMemberRequest struct {
	WorkspaceID string `json:"workspaceId"`
	UserID      string `json:"userId"`
	// Role is optional; the workspace default role applies when empty.
	Role string `json:"role,omitempty"`
}

type AddMemberResponse struct {
	Member *Member `json:"member"`
}

type UpdateMemberRoleRequest struct {
	WorkspaceID string `json:"workspaceId"`
	UserID      string `json:"userId"`
	Role        string `json:"role"`
}

type UpdateMemberRoleResponse struct {
	Member *Member `json:"member"`
}

// AuditWorkspaceID returns the workspace a request or response refers to, for the audit trail.

func (r *CreateWorkspaceResponse) AuditWorkspaceID() string {
	if r == nil || r.Workspace == nil {
		return ""
	}
	return r.Workspace.ID
}

func (r *UpdateWorkspaceRequest) AuditWorkspaceID() string { return r.WorkspaceID }

func (r *AddMemberRequest) AuditWorkspaceID() string { return r.WorkspaceID }

func (r *UpdateMemberRoleRequest) AuditWorkspaceID() string { return r.WorkspaceID }

// AuditSubjectID returns the user a membership request acts on, for the audit trail.

func (r *AddMemberRequest) AuditSubjectID() string { return r.UserID }

func (r *UpdateMemberRoleRequest) AuditSubjectID() string { return r.UserID }
