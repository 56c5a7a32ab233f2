package rbac

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	membershipdomain "workspace-control-plane/internal/membership/domain"
	"workspace-control-plane/internal/server/interceptors"
	userdomain "workspace-control-plane/internal/user/domain"
)

// UserGetter returns a user by ID, or nil if not found. Used to resolve the caller's workspace role.
type UserGetter interface {
	FindByID(ctx context.Context, id string) (*userdomain.User, error)
}

// RequireWorkspaceAdmin ensures the caller is authenticated and has role owner or admin in workspaceID.
// Returns the caller on success; returns a gRPC error (Unauthenticated, PermissionDenied, or Internal) on failure.
func RequireWorkspaceAdmin(ctx context.Context, getter UserGetter, workspaceID string) (*userdomain.User, error) {
	caller, err := RequireWorkspaceMember(ctx, getter, workspaceID)
	if err != nil {
		return nil, err
	}
	if caller.Role != membershipdomain.RoleOwner && caller.Role != membershipdomain.RoleAdmin {
		return nil, status.Error(codes.PermissionDenied, "workspace admin or owner required")
	}
	return caller, nil
}

// RequireWorkspaceMember ensures the caller is authenticated and is a member of workspaceID (any role).
// The role comes from the user record, not the token, so role changes apply immediately.
func RequireWorkspaceMember(ctx context.Context, getter UserGetter, workspaceID string) (*userdomain.User, error) {
	caller, err := RequireUser(ctx, getter)
	if err != nil {
		return nil, err
	}
	if workspaceID == "" {
		return nil, status.Error(codes.InvalidArgument, "workspace_id is required")
	}
	if !caller.InWorkspace(workspaceID) {
		return nil, status.Error(codes.PermissionDenied, "not a member of this workspace")
	}
	return caller, nil
}

// RequireUser ensures the caller is authenticated and their user record exists.
func RequireUser(ctx context.Context, getter UserGetter) (*userdomain.User, error) {
	userID, ok := interceptors.GetUserID(ctx)
	if !ok || userID == "" {
		return nil, status.Error(codes.Unauthenticated, "user context required")
	}
	caller, err := getter.FindByID(ctx, userID)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to resolve caller")
	}
	if caller == nil {
		return nil, status.Error(codes.PermissionDenied, "caller not found")
	}
	return caller, nil
}
