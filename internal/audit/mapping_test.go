package audit

import "testing"

func TestParseFullMethod(t *testing.T) {
	tests := []struct {
		fullMethod string
		action     string
		resource   string
	}{
		{"/workspace.v1.WorkspaceService/CreateWorkspace", "workspace_created", "workspace"},
		{"/workspace.v1.WorkspaceService/UpdateWorkspace", "workspace_updated", "workspace"},
		{"/workspace.v1.MembershipService/AddMember", "member_added", "user"},
		{"/workspace.v1.MembershipService/UpdateMemberRole", "role_changed", "user"},
		{"/workspace.v1.WorkspaceService/CheckHostname", "check", "workspace"},
		{"/workspace.v1.WorkspaceService/GetWorkspace", "get", "workspace"},
		{"/workspace.v1.MembershipService/ListMembers", "list", "membership"},
		{"/workspace.v1.MembershipService/RemoveMember", "remove", "membership"},
		{"/workspace.v1.SpaceService/DeleteSpace", "delete", "space"},
		{"/workspace.v1.SpaceService/Archive", "archive", "space"},
		{"/grpc.health.v1.Health/Check", "check", "health"},
		{"/NoPackage/DoThing", "dothing", "unknown"},
		{"no-slash", "unknown", "unknown"},
		{"/workspace.v1.Service/Get", "get", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.fullMethod, func(t *testing.T) {
			ar := ParseFullMethod(tt.fullMethod)
			if ar.Action != tt.action {
				t.Errorf("action = %q, want %q", ar.Action, tt.action)
			}
			if ar.Resource != tt.resource {
				t.Errorf("resource = %q, want %q", ar.Resource, tt.resource)
			}
		})
	}
}
