package engine

import (
	"context"
	"testing"

	membershipdomain "workspace-control-plane/internal/membership/domain"
)

func TestOPAEvaluator_HealthCheck(t *testing.T) {
	ctx := context.Background()
	e, err := NewOPAEvaluator(ctx, "")
	if err != nil {
		t.Fatalf("NewOPAEvaluator: %v", err)
	}
	if err := e.HealthCheck(ctx); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestOPAEvaluator_DefaultPolicyMatchesCanAssign(t *testing.T) {
	ctx := context.Background()
	e, err := NewOPAEvaluator(ctx, "")
	if err != nil {
		t.Fatalf("NewOPAEvaluator: %v", err)
	}
	roles := []membershipdomain.Role{membershipdomain.RoleOwner, membershipdomain.RoleAdmin, membershipdomain.RoleMember}
	for _, actor := range roles {
		for _, current := range roles {
			for _, next := range roles {
				got, err := e.AuthorizeRoleChange(ctx, RoleChange{ActorRole: actor, CurrentRole: current, RequestedRole: next})
				if err != nil {
					t.Fatalf("AuthorizeRoleChange: %v", err)
				}
				if want := membershipdomain.CanAssign(actor, current, next); got != want {
					t.Errorf("%s changing %s to %s: allowed = %v, want %v", actor, current, next, got, want)
				}
			}
		}
	}
}

func TestOPAEvaluator_NewMember(t *testing.T) {
	ctx := context.Background()
	e, err := NewOPAEvaluator(ctx, "")
	if err != nil {
		t.Fatalf("NewOPAEvaluator: %v", err)
	}
	tests := []struct {
		actor, requested membershipdomain.Role
		want             bool
	}{
		{membershipdomain.RoleOwner, membershipdomain.RoleOwner, true},
		{membershipdomain.RoleAdmin, membershipdomain.RoleMember, true},
		{membershipdomain.RoleAdmin, membershipdomain.RoleOwner, false},
		{membershipdomain.RoleMember, membershipdomain.RoleMember, false},
		{"", membershipdomain.RoleMember, false},
	}
	for _, tt := range tests {
		got, err := e.AuthorizeRoleChange(ctx, RoleChange{ActorRole: tt.actor, RequestedRole: tt.requested})
		if err != nil {
			t.Fatalf("AuthorizeRoleChange: %v", err)
		}
		if got != tt.want {
			t.Errorf("actor %q adding as %s: allowed = %v, want %v", tt.actor, tt.requested, got, tt.want)
		}
	}
}

func TestOPAEvaluator_CustomPolicy(t *testing.T) {
	ctx := context.Background()
	ownersOnly := `package wcp.membership

default allow := false

allow if input.actor_role == "owner"
`
	e, err := NewOPAEvaluator(ctx, ownersOnly)
	if err != nil {
		t.Fatalf("NewOPAEvaluator: %v", err)
	}
	ok, err := e.AuthorizeRoleChange(ctx, RoleChange{ActorRole: membershipdomain.RoleAdmin, CurrentRole: membershipdomain.RoleMember, RequestedRole: membershipdomain.RoleAdmin})
	if err != nil {
		t.Fatalf("AuthorizeRoleChange: %v", err)
	}
	if ok {
		t.Error("custom policy should deny admins")
	}
}

func TestOPAEvaluator_InvalidPolicy(t *testing.T) {
	if _, err := NewOPAEvaluator(context.Background(), "package wcp.membership\n\nallow if {"); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestOPAEvaluator_UndefinedIsDenied(t *testing.T) {
	ctx := context.Background()
	e, err := NewOPAEvaluator(ctx, "package wcp.membership\n\nallow if input.actor_role == \"owner\"\n")
	if err != nil {
		t.Fatalf("NewOPAEvaluator: %v", err)
	}
	ok, err := e.AuthorizeRoleChange(ctx, RoleChange{ActorRole: membershipdomain.RoleMember, RequestedRole: membershipdomain.RoleMember})
	if err != nil {
		t.Fatalf("AuthorizeRoleChange: %v", err)
	}
	if ok {
		t.Error("undefined allow should be denied")
	}
}
