package interceptors

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"workspace-control-plane/internal/security"
)

const bearerPrefix = "bearer "

// UserValidator reports whether the token subject may still call the API (e.g. the user exists and is
// active). An error or false rejects the request.
type UserValidator func(ctx context.Context, userID string) (bool, error)

// AuthUnary returns a unary server interceptor that validates the Bearer (access) token
// from gRPC metadata and sets user_id, workspace_id, session_id in context for protected RPCs.
// publicMethods is the set of full method names that do not require a Bearer token (e.g. health checks).
// tokens may be nil when no verification key is configured; every protected RPC is then rejected.
// validate may be nil.
func AuthUnary(tokens *security.TokenProvider, publicMethods map[string]bool, validate UserValidator) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		token := extractBearer(ctx)
		public := publicMethods[info.FullMethod]

		if token == "" || tokens == nil {
			if public {
				return handler(ctx, req)
			}
			return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
		}

		sessionID, userID, workspaceID, err := tokens.ValidateAccess(token)
		if err != nil {
			if public {
				return handler(ctx, req)
			}
			return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
		}
		if validate != nil && !public {
			ok, err := validate(ctx, userID)
			if err != nil || !ok {
				return nil, status.Error(codes.Unauthenticated, "user is not active")
			}
		}

		ctx = WithIdentity(ctx, userID, workspaceID, sessionID)
		return handler(ctx, req)
	}
}

// extractBearer returns the Bearer token from ctx metadata, or "" if missing or malformed.
func extractBearer(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return ""
	}
	v := strings.TrimSpace(vals[0])
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
