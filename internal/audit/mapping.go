package audit

import "strings"

// ActionResource holds action and resource derived from a gRPC full method name.
type ActionResource struct {
	Action   string
	Resource string
}

// Overrides for methods whose audit action is a past-tense domain event rather than a verb.
var methodOverrides = map[string]ActionResource{
	"/workspace.v1.WorkspaceService/CreateWorkspace":   {Action: "workspace_created", Resource: "workspace"},
	"/workspace.v1.WorkspaceService/UpdateWorkspace":   {Action: "workspace_updated", Resource: "workspace"},
	"/workspace.v1.MembershipService/AddMember":        {Action: "member_added", Resource: "user"},
	"/workspace.v1.MembershipService/UpdateMemberRole": {Action: "role_changed", Resource: "user"},
}

// ParseFullMethod returns action and resource for a gRPC full method (e.g. /workspace.v1.WorkspaceService/CheckHostname).
// Known mutations map to workspace_created, workspace_updated, member_added, and role_changed.
// Otherwise action is a verb (get, list, create, update, delete, add, remove, check, or the lowercase
// method name) and resource is derived from the service name (e.g. WorkspaceService -> workspace).
func ParseFullMethod(fullMethod string) ActionResource {
	if ar, ok := methodOverrides[fullMethod]; ok {
		return ar
	}
	slash := strings.LastIndex(fullMethod, "/")
	if slash < 0 {
		return ActionResource{Action: "unknown", Resource: "unknown"}
	}
	method := fullMethod[slash+1:]
	beforeSlash := fullMethod[:slash]
	dot := strings.LastIndex(beforeSlash, ".")
	if dot < 0 {
		return ActionResource{Action: strings.ToLower(method), Resource: "unknown"}
	}
	serviceName := beforeSlash[dot+1:]
	return ActionResource{Action: methodToAction(method), Resource: serviceToResource(serviceName)}
}

func serviceToResource(serviceName string) string {
	// WorkspaceService -> workspace, MembershipService -> membership
	s := strings.TrimSuffix(serviceName, "Service")
	if s == "" {
		return "unknown"
	}
	return strings.ToLower(s[0:1]) + s[1:]
}

func methodToAction(method string) string {
	switch {
	case strings.HasPrefix(method, "Get") && method != "Get":
		return "get"
	case strings.HasPrefix(method, "List"):
		return "list"
	case strings.HasPrefix(method, "Create"):
		return "create"
	case strings.HasPrefix(method, "Update"):
		return "update"
	case strings.HasPrefix(method, "Delete"):
		return "delete"
	case strings.HasPrefix(method, "Add"):
		return "add"
	case strings.HasPrefix(method, "Remove"):
		return "remove"
	case strings.HasPrefix(method, "Check"):
		return "check"
	default:
		return strings.ToLower(method)
	}
}
