package interceptors

import "context"

type contextKey struct{ name string }

var (
	userIDKey      = contextKey{"user_id"}
	workspaceIDKey = contextKey{"workspace_id"}
	sessionIDKey   = contextKey{"session_id"}
)

// WithIdentity returns a context with user_id, workspace_id, and session_id set.
// workspaceID comes from the token and may be empty or stale; handlers authorize against the user record.
func WithIdentity(ctx context.Context, userID, workspaceID, sessionID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, workspaceIDKey, workspaceID)
	ctx = context.WithValue(ctx, sessionIDKey, sessionID)
	return ctx
}

// GetUserID returns the user_id from context and true if set; otherwise "", false.
func GetUserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok
}

// GetWorkspaceID returns the workspace_id from context and true if set; otherwise "", false.
func GetWorkspaceID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(workspaceIDKey).(string)
	return v, ok
}

// GetSessionID returns the session_id from context and true if set; otherwise "", false.
func GetSessionID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sessionIDKey).(string)
	return v, ok
}
