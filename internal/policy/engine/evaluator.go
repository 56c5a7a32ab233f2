package engine

import (
	"context"

	membershipdomain "workspace-control-plane/internal/membership/domain"
)

// RoleChange describes a request to give a user a workspace role. CurrentRole is empty when the user
// is being added to the workspace.
type RoleChange struct {
	ActorRole     membershipdomain.Role
	CurrentRole   membershipdomain.Role
	RequestedRole membershipdomain.Role
}

// Authorizer decides whether an actor may perform a role change.
type Authorizer interface {
	AuthorizeRoleChange(ctx context.Context, change RoleChange) (bool, error)
}
