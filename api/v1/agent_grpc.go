// Package protov1 defines the printeragent.v1.AgentService gRPC contract.
// Messages are protobuf well-known types, so the service descriptor is kept by hand.
package protov1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "printeragent.v1.AgentService"

const (
	AgentService_GetIPAddress_FullMethodName       = "/printeragent.v1.AgentService/GetIPAddress"
	AgentService_ListUSBDevices_FullMethodName     = "/printeragent.v1.AgentService/ListUSBDevices"
	AgentService_IsServerRunning_FullMethodName    = "/printeragent.v1.AgentService/IsServerRunning"
	AgentService_StartServer_FullMethodName        = "/printeragent.v1.AgentService/StartServer"
	AgentService_StopServer_FullMethodName         = "/printeragent.v1.AgentService/StopServer"
	AgentService_GetServerStatus_FullMethodName    = "/printeragent.v1.AgentService/GetServerStatus"
	AgentService_StreamServerOutput_FullMethodName = "/printeragent.v1.AgentService/StreamServerOutput"
	AgentService_NotifyShutdown_FullMethodName     = "/printeragent.v1.AgentService/NotifyShutdown"
)

// AgentServiceClient is the client API for AgentService.
type AgentServiceClient interface {
	GetIPAddress(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	ListUSBDevices(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	IsServerRunning(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	StartServer(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	StopServer(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	GetServerStatus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	StreamServerOutput(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error)
	NotifyShutdown(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type agentServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAgentServiceClient(cc grpc.ClientConnInterface) AgentServiceClient {
	return &agentServiceClient{cc}
}

func invoke[Req, Res any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Res, error) {
	out := new(Res)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *agentServiceClient) GetIPAddress(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return invoke[emptypb.Empty, wrapperspb.StringValue](ctx, c.cc, AgentService_GetIPAddress_FullMethodName, in, opts)
}

func (c *agentServiceClient) ListUSBDevices(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke[emptypb.Empty, structpb.ListValue](ctx, c.cc, AgentService_ListUSBDevices_FullMethodName, in, opts)
}

func (c *agentServiceClient) IsServerRunning(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	return invoke[emptypb.Empty, wrapperspb.BoolValue](ctx, c.cc, AgentService_IsServerRunning_FullMethodName, in, opts)
}

func (c *agentServiceClient) StartServer(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return invoke[emptypb.Empty, wrapperspb.StringValue](ctx, c.cc, AgentService_StartServer_FullMethodName, in, opts)
}

func (c *agentServiceClient) StopServer(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return invoke[emptypb.Empty, wrapperspb.StringValue](ctx, c.cc, AgentService_StopServer_FullMethodName, in, opts)
}

func (c *agentServiceClient) GetServerStatus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[emptypb.Empty, structpb.Struct](ctx, c.cc, AgentService_GetServerStatus_FullMethodName, in, opts)
}

func (c *agentServiceClient) StreamServerOutput(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error) {
	stream, err := c.cc.NewStream(ctx, &AgentService_ServiceDesc.Streams[0], AgentService_StreamServerOutput_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[emptypb.Empty, structpb.Struct]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *agentServiceClient) NotifyShutdown(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[wrapperspb.StringValue, emptypb.Empty](ctx, c.cc, AgentService_NotifyShutdown_FullMethodName, in, opts)
}

// AgentServiceServer is the server API for AgentService.
// Implementations must embed UnimplementedAgentServiceServer.
type AgentServiceServer interface {
	GetIPAddress(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	ListUSBDevices(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	IsServerRunning(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error)
	StartServer(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	StopServer(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	GetServerStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	StreamServerOutput(*emptypb.Empty, grpc.ServerStreamingServer[structpb.Struct]) error
	NotifyShutdown(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	mustEmbedUnimplementedAgentServiceServer()
}

// UnimplementedAgentServiceServer answers every RPC with codes.Unimplemented.
type UnimplementedAgentServiceServer struct{}

func (UnimplementedAgentServiceServer) GetIPAddress(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method GetIPAddress not implemented")
}
func (UnimplementedAgentServiceServer) ListUSBDevices(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ListUSBDevices not implemented")
}
func (UnimplementedAgentServiceServer) IsServerRunning(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method IsServerRunning not implemented")
}
func (UnimplementedAgentServiceServer) StartServer(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method StartServer not implemented")
}
func (UnimplementedAgentServiceServer) StopServer(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method StopServer not implemented")
}
func (UnimplementedAgentServiceServer) GetServerStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetServerStatus not implemented")
}
func (UnimplementedAgentServiceServer) StreamServerOutput(*emptypb.Empty, grpc.ServerStreamingServer[structpb.Struct]) error {
	return status.Error(codes.Unimplemented, "method StreamServerOutput not implemented")
}
func (UnimplementedAgentServiceServer) NotifyShutdown(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method NotifyShutdown not implemented")
}
func (UnimplementedAgentServiceServer) mustEmbedUnimplementedAgentServiceServer() {}

func RegisterAgentServiceServer(s grpc.ServiceRegistrar, srv AgentServiceServer) {
	s.RegisterService(&AgentService_ServiceDesc, srv)
}

// unaryHandler decodes Req and dispatches to call through the optional interceptor.
func unaryHandler[Req, Res any](method string, call func(AgentServiceServer, context.Context, *Req) (*Res, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AgentServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AgentServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func _AgentService_StreamServerOutput_Handler(srv any, stream grpc.ServerStream) error {
	m := new(emptypb.Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(AgentServiceServer).StreamServerOutput(m, &grpc.GenericServerStream[emptypb.Empty, structpb.Struct]{ServerStream: stream})
}

// AgentService_ServiceDesc is the grpc.ServiceDesc for AgentService.
var AgentService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AgentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetIPAddress",
			Handler:    unaryHandler(AgentService_GetIPAddress_FullMethodName, AgentServiceServer.GetIPAddress),
		},
		{
			MethodName: "ListUSBDevices",
			Handler:    unaryHandler(AgentService_ListUSBDevices_FullMethodName, AgentServiceServer.ListUSBDevices),
		},
		{
			MethodName: "IsServerRunning",
			Handler:    unaryHandler(AgentService_IsServerRunning_FullMethodName, AgentServiceServer.IsServerRunning),
		},
		{
			MethodName: "StartServer",
			Handler:    unaryHandler(AgentService_StartServer_FullMethodName, AgentServiceServer.StartServer),
		},
		{
			MethodName: "StopServer",
			Handler:    unaryHandler(AgentService_StopServer_FullMethodName, AgentServiceServer.StopServer),
		},
		{
			MethodName: "GetServerStatus",
			Handler:    unaryHandler(AgentService_GetServerStatus_FullMethodName, AgentServiceServer.GetServerStatus),
		},
		{
			MethodName: "NotifyShutdown",
			Handler:    unaryHandler(AgentService_NotifyShutdown_FullMethodName, AgentServiceServer.NotifyShutdown),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamServerOutput",
			Handler:       _AgentService_StreamServerOutput_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "printeragent/v1/agent.proto",
}
