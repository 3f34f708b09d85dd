// Package registryv1 defines the registry.v1.RegistryService gRPC contract:
// messages, the service descriptor, and a client. Messages travel with the
// JSON codec registered by this package.
package registryv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "registry.v1.RegistryService"

const (
	RegistryService_RegisterUser_FullMethodName  = "/" + ServiceName + "/RegisterUser"
	RegistryService_ListUsers_FullMethodName     = "/" + ServiceName + "/ListUsers"
	RegistryService_UploadDataset_FullMethodName = "/" + ServiceName + "/UploadDataset"
	RegistryService_ListDatasets_FullMethodName  = "/" + ServiceName + "/ListDatasets"
	RegistryService_GetDataset_FullMethodName    = "/" + ServiceName + "/GetDataset"
)

// RegistryServiceServer is the server API for RegistryService.
type RegistryServiceServer interface {
	RegisterUser(context.Context, *RegisterUserRequest) (*RegisterUserResponse, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error)
	UploadDataset(context.Context, *UploadDatasetRequest) (*UploadDatasetResponse, error)
	ListDatasets(context.Context, *ListDatasetsRequest) (*ListDatasetsResponse, error)
	GetDataset(context.Context, *GetDatasetRequest) (*GetDatasetResponse, error)
}

// UnimplementedRegistryServiceServer can be embedded to have forward
// compatible implementations.
type UnimplementedRegistryServiceServer struct{}

func (UnimplementedRegistryServiceServer) RegisterUser(context.Context, *RegisterUserRequest) (*RegisterUserResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterUser not implemented")
}
func (UnimplementedRegistryServiceServer) ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListUsers not implemented")
}
func (UnimplementedRegistryServiceServer) UploadDataset(context.Context, *UploadDatasetRequest) (*UploadDatasetResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UploadDataset not implemented")
}
func (UnimplementedRegistryServiceServer) ListDatasets(context.Context, *ListDatasetsRequest) (*ListDatasetsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListDatasets not implemented")
}
func (UnimplementedRegistryServiceServer) GetDataset(context.Context, *GetDatasetRequest) (*GetDatasetResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDataset not implemented")
}

// RegisterRegistryServiceServer registers srv on s.
func RegisterRegistryServiceServer(s grpc.ServiceRegistrar, srv RegistryServiceServer) {
	s.RegisterService(&RegistryService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to a grpc.MethodHandler.
func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(RegistryServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RegistryServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(RegistryServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// RegistryService_ServiceDesc is the grpc.ServiceDesc for RegistryService.
var RegistryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RegistryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RegisterUser",
			Handler:    unaryHandler(RegistryService_RegisterUser_FullMethodName, RegistryServiceServer.RegisterUser),
		},
		{
			MethodName: "ListUsers",
			Handler:    unaryHandler(RegistryService_ListUsers_FullMethodName, RegistryServiceServer.ListUsers),
		},
		{
			MethodName: "UploadDataset",
			Handler:    unaryHandler(RegistryService_UploadDataset_FullMethodName, RegistryServiceServer.UploadDataset),
		},
		{
			MethodName: "ListDatasets",
			Handler:    unaryHandler(RegistryService_ListDatasets_FullMethodName, RegistryServiceServer.ListDatasets),
		},
		{
			MethodName: "GetDataset",
			Handler:    unaryHandler(RegistryService_GetDataset_FullMethodName, RegistryServiceServer.GetDataset),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/registry/v1/service.go",
}

// RegistryServiceClient is the client API for RegistryService.
type RegistryServiceClient interface {
	RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*RegisterUserResponse, error)
	ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error)
	UploadDataset(ctx context.Context, in *UploadDatasetRequest, opts ...grpc.CallOption) (*UploadDatasetResponse, error)
	ListDatasets(ctx context.Context, in *ListDatasetsRequest, opts ...grpc.CallOption) (*ListDatasetsResponse, error)
	GetDataset(ctx context.Context, in *GetDatasetRequest, opts ...grpc.CallOption) (*GetDatasetResponse, error)
}

type registryServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewRegistryServiceClient returns a client that always calls with the JSON codec.
func NewRegistryServiceClient(cc grpc.ClientConnInterface) RegistryServiceClient {
	return &registryServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryServiceClient) RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*RegisterUserResponse, error) {
	return invoke[RegisterUserResponse](ctx, c.cc, RegistryService_RegisterUser_FullMethodName, in, opts)
}

func (c *registryServiceClient) ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error) {
	return invoke[ListUsersResponse](ctx, c.cc, RegistryService_ListUsers_FullMethodName, in, opts)
}

func (c *registryServiceClient) UploadDataset(ctx context.Context, in *UploadDatasetRequest, opts ...grpc.CallOption) (*UploadDatasetResponse, error) {
	return invoke[UploadDatasetResponse](ctx, c.cc, RegistryService_UploadDataset_FullMethodName, in, opts)
}

func (c *registryServiceClient) ListDatasets(ctx context.Context, in *ListDatasetsRequest, opts ...grpc.CallOption) (*ListDatasetsResponse, error) {
	return invoke[ListDatasetsResponse](ctx, c.cc, RegistryService_ListDatasets_FullMethodName, in, opts)
}

func (c *registryServiceClient) GetDataset(ctx context.Context, in *GetDatasetRequest, opts ...grpc.CallOption) (*GetDatasetResponse, error) {
	return invoke[GetDatasetResponse](ctx, c.cc, RegistryService_GetDataset_FullMethodName, in, opts)
}
