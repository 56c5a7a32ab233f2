package rbac

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	membershipdomain "workspace-control-plane/internal/membership/domain"
	"workspace-control-plane/internal/server/interceptors"
	userdomain "workspace-control-plane/internal/user/domain"
)

// mockUserGetter implements UserGetter for tests.
type mockUserGetter struct {
	users map[string]*userdomain.User
	err   error
}

func (m *mockUserGetter) FindByID(ctx context.Context, id string) (*userdomain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users[id], nil
}

func newGetter() *mockUserGetter {
	return &mockUserGetter{users: map[string]*userdomain.User{
		"owner":    {ID: "owner", WorkspaceID: "ws-1", Role: membershipdomain.RoleOwner},
		"admin":    {ID: "admin", WorkspaceID: "ws-1", Role: membershipdomain.RoleAdmin},
		"member":   {ID: "member", WorkspaceID: "ws-1", Role: membershipdomain.RoleMember},
		"outsider": {ID: "outsider", WorkspaceID: "ws-2", Role: membershipdomain.RoleOwner},
		"loner":    {ID: "loner"},
	}}
}

func TestRequireWorkspaceAdmin(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		workspace string
		want      codes.Code
	}{
		{"owner", "owner", "ws-1", codes.OK},
		{"admin", "admin", "ws-1", codes.OK},
		{"member", "member", "ws-1", codes.PermissionDenied},
		{"other workspace", "outsider", "ws-1", codes.PermissionDenied},
		{"no workspace", "loner", "ws-1", codes.PermissionDenied},
		{"unknown user", "ghost", "ws-1", codes.PermissionDenied},
		{"missing workspace id", "owner", "", codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := interceptors.WithIdentity(context.Background(), tt.userID, "", "session-1")
			caller, err := RequireWorkspaceAdmin(ctx, newGetter(), tt.workspace)
			if status.Code(err) != tt.want {
				t.Fatalf("code = %v, want %v (err %v)", status.Code(err), tt.want, err)
			}
			if tt.want == codes.OK && caller.ID != tt.userID {
				t.Errorf("caller = %q, want %q", caller.ID, tt.userID)
			}
		})
	}
}

func TestRequireWorkspaceMember_AnyRole(t *testing.T) {
	ctx := interceptors.WithIdentity(context.Background(), "member", "ws-1", "session-1")
	caller, err := RequireWorkspaceMember(ctx, newGetter(), "ws-1")
	if err != nil {
		t.Fatalf("RequireWorkspaceMember: %v", err)
	}
	if caller.Role != membershipdomain.RoleMember {
		t.Errorf("role = %s", caller.Role)
	}
}

func TestRequireUser_NoContext(t *testing.T) {
	_, err := RequireUser(context.Background(), newGetter())
	if status.Code(err) != codes.Unauthenticated {
		t.Errorf("code = %v, want Unauthenticated", status.Code(err))
	}
}

func TestRequireUser_GetterError(t *testing.T) {
	ctx := interceptors.WithIdentity(context.Background(), "owner", "ws-1", "session-1")
	_, err := RequireUser(ctx, &mockUserGetter{err: errors.New("db down")})
	if status.Code(err) != codes.Internal {
		t.Errorf("code = %v, want Internal", status.Code(err))
	}
}
