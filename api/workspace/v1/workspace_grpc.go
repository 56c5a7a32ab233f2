package workspacev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	WorkspaceService_CreateWorkspace_FullMethodName   = "/workspace.v1.WorkspaceService/CreateWorkspace"
	WorkspaceService_UpdateWorkspace_FullMethodName   = "/workspace.v1.WorkspaceService/UpdateWorkspace"
	WorkspaceService_CheckHostname_FullMethodName     = "/workspace.v1.WorkspaceService/CheckHostname"
	MembershipService_AddMember_FullMethodName        = "/workspace.v1.MembershipService/AddMember"
	MembershipService_UpdateMemberRole_FullMethodName = "/workspace.v1.MembershipService/UpdateMemberRole"
)

// WorkspaceServiceServer is the server API for WorkspaceService.
type WorkspaceServiceServer interface {
	CreateWorkspace(context.Context, *CreateWorkspaceRequest) (*CreateWorkspaceResponse, error)
	UpdateWorkspace(context.Context, *UpdateWorkspaceRequest) (*UpdateWorkspaceResponse, error)
	CheckHostname(context.Context, *CheckHostnameRequest) (*CheckHostnameResponse, error)
}

// UnimplementedWorkspaceServiceServer can be embedded for forward compatibility.
type UnimplementedWorkspaceServiceServer struct{}

func (UnimplementedWorkspaceServiceServer) CreateWorkspace(context.Context, *CreateWorkspaceRequest) (*CreateWorkspaceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateWorkspace not implemented")
}
func (UnimplementedWorkspaceServiceServer) UpdateWorkspace(context.Context, *UpdateWorkspaceRequest) (*UpdateWorkspaceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateWorkspace not implemented")
}
func (UnimplementedWorkspaceServiceServer) CheckHostname(context.Context, *CheckHostnameRequest) (*CheckHostnameResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CheckHostname not implemented")
}

func RegisterWorkspaceServiceServer(s grpc.ServiceRegistrar, srv WorkspaceServiceServer) {
	s.RegisterService(&WorkspaceService_ServiceDesc, srv)
}

func _WorkspaceService_CreateWorkspace_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateWorkspaceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorkspaceServiceServer).CreateWorkspace(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: WorkspaceService_CreateWorkspace_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WorkspaceServiceServer).CreateWorkspace(ctx, req.(*CreateWorkspaceRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _WorkspaceService_UpdateWorkspace_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(UpdateWorkspaceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorkspaceServiceServer).UpdateWorkspace(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: WorkspaceService_UpdateWorkspace_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WorkspaceServiceServer).UpdateWorkspace(ctx, req.(*UpdateWorkspaceRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _WorkspaceService_CheckHostname_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CheckHostnameRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorkspaceServiceServer).CheckHostname(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: WorkspaceService_CheckHostname_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WorkspaceServiceServer).CheckHostname(ctx, req.(*CheckHostnameRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// WorkspaceService_ServiceDesc is the grpc.ServiceDesc for WorkspaceService.
var WorkspaceService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "workspace.v1.WorkspaceService",
	HandlerType: (*WorkspaceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateWorkspace", Handler: _WorkspaceService_CreateWorkspace_Handler},
		{MethodName: "UpdateWorkspace", Handler: _WorkspaceService_UpdateWorkspace_Handler},
		{MethodName: "CheckHostname", Handler: _WorkspaceService_CheckHostname_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "workspace/v1/workspace.go",
}

// MembershipServiceServer is the server API for MembershipService.
type MembershipServiceServer interface {
	AddMember(context.Context, *AddMemberRequest) (*AddMemberResponse, error)
	UpdateMemberRole(context.Context, *UpdateMemberRoleRequest) (*UpdateMemberRoleResponse, error)
}

// UnimplementedMembershipServiceServer can be embedded for forward compatibility.
type UnimplementedMembershipServiceServer struct{}

func (UnimplementedMembershipServiceServer) AddMember(context.Context, *AddMemberRequest) (*AddMemberResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddMember not implemented")
}
func (UnimplementedMembershipServiceServer) UpdateMemberRole(context.Context, *UpdateMemberRoleRequest) (*UpdateMemberRoleResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateMemberRole not implemented")
}

func RegisterMembershipServiceServer(s grpc.ServiceRegistrar, srv MembershipServiceServer) {
	s.RegisterService(&MembershipService_ServiceDesc, srv)
}

func _MembershipService_AddMember_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AddMemberRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MembershipServiceServer).AddMember(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MembershipService_AddMember_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MembershipServiceServer).AddMember(ctx, req.(*AddMemberRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MembershipService_UpdateMemberRole_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(UpdateMemberRoleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MembershipServiceServer).UpdateMemberRole(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MembershipService_UpdateMemberRole_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MembershipServiceServer).UpdateMemberRole(ctx, req.(*UpdateMemberRoleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// MembershipService_ServiceDesc is the grpc.ServiceDesc for MembershipService.
var MembershipService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "workspace.v1.MembershipService",
	HandlerType: (*MembershipServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AddMember", Handler: _MembershipService_AddMember_Handler},
		{MethodName: "UpdateMemberRole", Handler: _MembershipService_UpdateMemberRole_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "workspace/v1/workspace.go",
}

// WorkspaceServiceClient is the client API for WorkspaceService. Calls use the JSON codec.
type WorkspaceServiceClient interface {
	CreateWorkspace(ctx context.Context, in *CreateWorkspaceRequest, opts ...grpc.CallOption) (*CreateWorkspaceResponse, error)
	UpdateWorkspace(ctx context.Context, in *UpdateWorkspaceRequest, opts ...grpc.CallOption) (*UpdateWorkspaceResponse, error)
	CheckHostname(ctx context.Context, in *CheckHostnameRequest, opts ...grpc.CallOption) (*CheckHostnameResponse, error)
}

type workspaceServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewWorkspaceServiceClient(cc grpc.ClientConnInterface) WorkspaceServiceClient {
	return &workspaceServiceClient{cc}
}

func (c *workspaceServiceClient) CreateWorkspace(ctx context.Context, in *CreateWorkspaceRequest, opts ...grpc.CallOption) (*CreateWorkspaceResponse, error) {
	out := new(CreateWorkspaceResponse)
	if err := c.cc.Invoke(ctx, WorkspaceService_CreateWorkspace_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *workspaceServiceClient) UpdateWorkspace(ctx context.Context, in *UpdateWorkspaceRequest, opts ...grpc.CallOption) (*UpdateWorkspaceResponse, error) {
	out := new(UpdateWorkspaceResponse)
	if err := c.cc.Invoke(ctx, WorkspaceService_UpdateWorkspace_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *workspaceServiceClient) CheckHostname(ctx context.Context, in *CheckHostnameRequest, opts ...grpc.CallOption) (*CheckHostnameResponse, error) {
	out := new(CheckHostnameResponse)
	if err := c.cc.Invoke(ctx, WorkspaceService_CheckHostname_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// MembershipServiceClient is the client API for MembershipService. Calls use the JSON codec.
type MembershipServiceClient interface {
	AddMember(ctx context.Context, in *AddMemberRequest, opts ...grpc.CallOption) (*AddMemberResponse, error)
	UpdateMemberRole(ctx context.Context, in *UpdateMemberRoleRequest, opts ...grpc.CallOption) (*UpdateMemberRoleResponse, error)
}

type membershipServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMembershipServiceClient(cc grpc.ClientConnInterface) MembershipServiceClient {
	return &membershipServiceClient{cc}
}

func (c *membershipServiceClient) AddMember(ctx context.Context, in *AddMemberRequest, opts ...grpc.CallOption) (*AddMemberResponse, error) {
	out := new(AddMemberResponse)
	if err := c.cc.Invoke(ctx, MembershipService_AddMember_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *membershipServiceClient) UpdateMemberRole(ctx context.Context, in *UpdateMemberRoleRequest, opts ...grpc.CallOption) (*UpdateMemberRoleResponse, error) {
	out := new(UpdateMemberRoleResponse)
	if err := c.cc.Invoke(ctx, MembershipService_UpdateMemberRole_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
