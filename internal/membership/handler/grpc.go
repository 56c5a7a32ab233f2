package handler

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	workspacev1 "workspace-control-plane/api/workspace/v1"
	membershipdomain "workspace-control-plane/internal/membership/domain"
	"workspace-control-plane/internal/platform/errs"
	"workspace-control-plane/internal/platform/rbac"
	"workspace-control-plane/internal/policy/engine"
	userdomain "workspace-control-plane/internal/user/domain"
	workspacedomain "workspace-control-plane/internal/workspace/domain"
)

// MemberAdder attaches users to workspaces.
type MemberAdder interface {
	AddUserToWorkspace(ctx context.Context, userID, workspaceID string, role membershipdomain.Role) (*userdomain.User, error)
}

// RoleUpdater changes workspace roles.
type RoleUpdater interface {
	UpdateMemberRole(ctx context.Context, actorID, workspaceID, targetUserID string, newRole membershipdomain.Role) (*userdomain.User, error)
}

// WorkspaceGetter returns a workspace by ID, or nil if not found.
type WorkspaceGetter interface {
	FindByID(ctx context.Context, id string) (*workspacedomain.Workspace, error)
}

// Server implements MembershipService for adding members and changing roles.
type Server struct {
	workspacev1.UnimplementedMembershipServiceServer
	adder      MemberAdder
	roles      RoleUpdater
	users      rbac.UserGetter
	workspaces WorkspaceGetter
	authorizer engine.Authorizer
	logger     *zap.Logger
}

// NewServer returns a new Membership gRPC server. authorizer may be nil; role changes are then
// checked only by membershipdomain.CanAssign.
func NewServer(adder MemberAdder, roles RoleUpdater, users rbac.UserGetter, workspaces WorkspaceGetter, authorizer engine.Authorizer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{adder: adder, roles: roles, users: users, workspaces: workspaces, authorizer: authorizer, logger: logger}
}

// AddMember adds a user to the workspace with the requested role or the workspace default.
// Caller must be an admin or owner; only owners may add owners.
func (s *Server) AddMember(ctx context.Context, req *workspacev1.AddMemberRequest) (*workspacev1.AddMemberResponse, error) {
	caller, err := rbac.RequireWorkspaceAdmin(ctx, s.users, req.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if req.UserID == "" {
		return nil, status.Error(codes.InvalidArgument, "user_id is required")
	}
	role, err := membershipdomain.ParseRole(req.Role)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	effective := role
	if effective == "" {
		ws, err := s.workspaces.FindByID(ctx, req.WorkspaceID)
		if err != nil {
			return nil, status.Error(codes.Internal, "failed to load workspace")
		}
		if ws == nil {
			return nil, status.Error(codes.NotFound, "workspace not found")
		}
		effective = ws.EffectiveDefaultRole()
	}
	if err := s.authorize(ctx, caller.Role, "", effective); err != nil {
		return nil, err
	}
	u, err := s.adder.AddUserToWorkspace(ctx, req.UserID, req.WorkspaceID, role)
	if err != nil {
		return nil, errs.ToStatus(err)
	}
	return &workspacev1.AddMemberResponse{Member: MemberToProto(u)}, nil
}

// UpdateMemberRole changes a member's role. The caller is authorized against the membership policy when
// both parties belong to the workspace; the role governor enforces the rest.
func (s *Server) UpdateMemberRole(ctx context.Context, req *workspacev1.UpdateMemberRoleRequest) (*workspacev1.UpdateMemberRoleResponse, error) {
	caller, err := rbac.RequireUser(ctx, s.users)
	if err != nil {
		return nil, err
	}
	if req.WorkspaceID == "" || req.UserID == "" {
		return nil, status.Error(codes.InvalidArgument, "workspace_id and user_id are required")
	}
	role, err := membershipdomain.ParseRole(req.Role)
	if err != nil || role == "" {
		return nil, status.Error(codes.InvalidArgument, "role must be owner, admin, or member")
	}
	if caller.InWorkspace(req.WorkspaceID) {
		target, err := s.users.FindByID(ctx, req.UserID)
		if err != nil {
			return nil, status.Error(codes.Internal, "failed to resolve member")
		}
		if target.InWorkspace(req.WorkspaceID) && target.Role != role {
			if err := s.authorize(ctx, caller.Role, target.Role, role); err != nil {
				return nil, err
			}
		}
	}
	u, err := s.roles.UpdateMemberRole(ctx, caller.ID, req.WorkspaceID, req.UserID, role)
	if err != nil {
		return nil, errs.ToStatus(err)
	}
	return &workspacev1.UpdateMemberRoleResponse{Member: MemberToProto(u)}, nil
}

func (s *Server) authorize(ctx context.Context, actor, current, next membershipdomain.Role) error {
	if s.authorizer == nil {
		if !membershipdomain.CanAssign(actor, current, next) {
			return status.Error(codes.PermissionDenied, "role change not permitted")
		}
		return nil
	}
	ok, err := s.authorizer.AuthorizeRoleChange(ctx, engine.RoleChange{ActorRole: actor, CurrentRole: current, RequestedRole: next})
	if err != nil {
		s.logger.Error("membership policy evaluation failed", zap.Error(err))
		return status.Error(codes.Internal, "policy evaluation failed")
	}
	if !ok {
		return status.Error(codes.PermissionDenied, "role change not permitted")
	}
	return nil
}

// MemberToProto converts a user to its wire membership form.
func MemberToProto(u *userdomain.User) *workspacev1.Member {
	if u == nil {
		return nil
	}
	return &workspacev1.Member{
		UserID:      u.ID,
		Email:       u.Email,
		Name:        u.Name,
		WorkspaceID: u.WorkspaceID,
		Role:        string(u.Role),
	}
}
