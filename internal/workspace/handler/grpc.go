package handler

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	workspacev1 "workspace-control-plane/api/workspace/v1"
	membershipdomain "workspace-control-plane/internal/membership/domain"
	"workspace-control-plane/internal/platform/errs"
	"workspace-control-plane/internal/platform/rbac"
	"workspace-control-plane/internal/workspace/domain"
	"workspace-control-plane/internal/workspace/service"
)

// Provisioner is the workspace service used by the handler.
type Provisioner interface {
	Create(ctx context.Context, requesterID string, in service.CreateInput) (*domain.Workspace, error)
	UpdateWorkspace(ctx context.Context, actorID, workspaceID string, in service.UpdateInput) (*domain.Workspace, error)
}

// HostnameChecker reports whether a hostname is registered.
type HostnameChecker interface {
	Exists(ctx context.Context, hostname string) (bool, error)
}

// Server implements WorkspaceService.
type Server struct {
	workspacev1.UnimplementedWorkspaceServiceServer
	provisioner Provisioner
	hostnames   HostnameChecker
	users       rbac.UserGetter
}

// NewServer returns a new Workspace gRPC server. hostnames may be nil, in which case CheckHostname
// returns Unimplemented.
func NewServer(provisioner Provisioner, hostnames HostnameChecker, users rbac.UserGetter) *Server {
	return &Server{provisioner: provisioner, hostnames: hostnames, users: users}
}

// CreateWorkspace provisions a workspace owned by the caller.
func (s *Server) CreateWorkspace(ctx context.Context, req *workspacev1.CreateWorkspaceRequest) (*workspacev1.CreateWorkspaceResponse, error) {
	caller, err := rbac.RequireUser(ctx, s.users)
	if err != nil {
		return nil, err
	}
	ws, err := s.provisioner.Create(ctx, caller.ID, service.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Hostname:    req.Hostname,
	})
	if err != nil {
		return nil, errs.ToStatus(err)
	}
	return &workspacev1.CreateWorkspaceResponse{Workspace: ToProto(ws)}, nil
}

// UpdateWorkspace applies administrative changes. Caller must be an admin or owner of the workspace.
func (s *Server) UpdateWorkspace(ctx context.Context, req *workspacev1.UpdateWorkspaceRequest) (*workspacev1.UpdateWorkspaceResponse, error) {
	caller, err := rbac.RequireWorkspaceAdmin(ctx, s.users, req.WorkspaceID)
	if err != nil {
		return nil, err
	}
	in := service.UpdateInput{
		Name:           req.Name,
		Description:    req.Description,
		Logo:           req.Logo,
		DefaultSpaceID: req.DefaultSpaceID,
	}
	if req.DefaultRole != nil {
		role, err := membershipdomain.ParseRole(*req.DefaultRole)
		if err != nil || role == "" {
			return nil, status.Error(codes.InvalidArgument, "default_role must be admin or member")
		}
		in.DefaultRole = &role
	}
	ws, err := s.provisioner.UpdateWorkspace(ctx, caller.ID, req.WorkspaceID, in)
	if err != nil {
		return nil, errs.ToStatus(err)
	}
	return &workspacev1.UpdateWorkspaceResponse{Workspace: ToProto(ws)}, nil
}

// CheckHostname reports whether a hostname is already registered. Any authenticated user may ask, so
// a candidate can be checked before creating a workspace.
func (s *Server) CheckHostname(ctx context.Context, req *workspacev1.CheckHostnameRequest) (*workspacev1.CheckHostnameResponse, error) {
	if s.hostnames == nil {
		return nil, status.Error(codes.Unimplemented, "hostname lookup is disabled in single-tenant mode")
	}
	if _, err := rbac.RequireUser(ctx, s.users); err != nil {
		return nil, err
	}
	hostname := strings.ToLower(strings.TrimSpace(req.Hostname))
	if hostname == "" {
		return nil, status.Error(codes.InvalidArgument, "hostname is required")
	}
	exists, err := s.hostnames.Exists(ctx, hostname)
	if err != nil {
		return nil, errs.ToStatus(err)
	}
	return &workspacev1.CheckHostnameResponse{Hostname: hostname, Exists: exists}, nil
}

// ToProto converts a workspace to its wire form.
func ToProto(ws *domain.Workspace) *workspacev1.Workspace {
	if ws == nil {
		return nil
	}
	out := &workspacev1.Workspace{
		ID:          ws.ID,
		Name:        ws.Name,
		Hostname:    ws.HostnameValue(),
		DefaultRole: string(ws.EffectiveDefaultRole()),
		CreatedAt:   ws.CreatedAt,
		UpdatedAt:   ws.UpdatedAt,
	}
	if ws.Description != nil {
		out.Description = *ws.Description
	}
	if ws.Logo != nil {
		out.Logo = *ws.Logo
	}
	if ws.DefaultSpaceID != nil {
		out.DefaultSpaceID = *ws.DefaultSpaceID
	}
	return out
}
