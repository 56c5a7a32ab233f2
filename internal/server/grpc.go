package server

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	workspacev1 "workspace-control-plane/api/workspace/v1"
	"workspace-control-plane/internal/audit"
	"workspace-control-plane/internal/security"
	"workspace-control-plane/internal/server/interceptors"
)

const (
	healthCheckMethod = "/grpc.health.v1.Health/Check"
	healthWatchMethod = "/grpc.health.v1.Health/Watch"
	healthListMethod  = "/grpc.health.v1.Health/List"
)

// Deps holds the service implementations registered on the server. A nil service is not registered.
type Deps struct {
	Workspaces workspacev1.WorkspaceServiceServer
	Membership workspacev1.MembershipServiceServer
	Health     healthpb.HealthServer
}

// Options configures the interceptor chain.
type Options struct {
	Logger *zap.Logger
	// Tokens verifies bearer tokens. If nil, every non-public RPC is rejected as Unauthenticated.
	Tokens *security.TokenProvider
	// ValidateUser rejects tokens whose subject is missing or disabled. May be nil.
	ValidateUser interceptors.UserValidator
	// Audit records mutations. If nil, no RPCs are audited.
	Audit audit.AuditLogger
	// DisableTracing turns off the otelgrpc stats handler (tests).
	DisableTracing bool
}

// PublicMethods are callable without a bearer token.
func PublicMethods() map[string]bool {
	return map[string]bool{
		healthCheckMethod: true,
		healthWatchMethod: true,
		healthListMethod:  true,
	}
}

// unauditedMethods are read-only and not recorded in the audit trail.
func unauditedMethods() map[string]bool {
	return map[string]bool{
		healthCheckMethod: true,
		healthWatchMethod: true,
		healthListMethod:  true,
		workspacev1.WorkspaceService_CheckHostname_FullMethodName: true,
	}
}

// NewServer builds a gRPC server with the interceptor chain logging → auth → audit and registers deps.
func NewServer(deps Deps, opts Options) *grpc.Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	serverOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			interceptors.LoggingUnary(logger, map[string]bool{healthCheckMethod: true}),
			interceptors.AuthUnary(opts.Tokens, PublicMethods(), opts.ValidateUser),
			interceptors.AuditUnary(opts.Audit, unauditedMethods()),
		),
	}
	if !opts.DisableTracing {
		serverOpts = append(serverOpts, grpc.StatsHandler(otelgrpc.NewServerHandler()))
	}
	s := grpc.NewServer(serverOpts...)
	RegisterServices(s, deps)
	return s
}

// RegisterServices registers the workspace, membership, and health services with the given server.
//
// Service → handler mapping:
//   - WorkspaceService  → internal/workspace/handler
//   - MembershipService → internal/membership/handler
//   - grpc.health.v1    → internal/health/handler
func RegisterServices(s grpc.ServiceRegistrar, deps Deps) {
	if deps.Workspaces != nil {
		workspacev1.RegisterWorkspaceServiceServer(s, deps.Workspaces)
	}
	if deps.Membership != nil {
		workspacev1.RegisterMembershipServiceServer(s, deps.Membership)
	}
	if deps.Health != nil {
		healthpb.RegisterHealthServer(s, deps.Health)
	}
}
