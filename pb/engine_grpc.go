// Package pb holds the gRPC contract used to play a game hosted by the
// server. Messages are protobuf well-known types: actions travel as
// StringValue and snapshots as Struct.
package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	EngineService_Play_FullMethodName    = "/tetris.v1.EngineService/Play"
	EngineService_Session_FullMethodName = "/tetris.v1.EngineService/Session"
)

// EngineServiceClient is the client API for EngineService.
type EngineServiceClient interface {
	// Play starts a new game. Every message sent is an action; every
	// message received is a snapshot of the game.
	Play(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[wrapperspb.StringValue, structpb.Struct], error)
	// Session returns the latest snapshot of a running game.
	Session(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type engineServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewEngineServiceClient(cc grpc.ClientConnInterface) EngineServiceClient {
	return &engineServiceClient{cc}
}

func (c *engineServiceClient) Play(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[wrapperspb.StringValue, structpb.Struct], error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	stream, err := c.cc.NewStream(ctx, &EngineService_ServiceDesc.Streams[0], EngineService_Play_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[wrapperspb.StringValue, structpb.Struct]{ClientStream: stream}
	return x, nil
}

func (c *engineServiceClient) Session(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, EngineService_Session_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EngineServiceServer is the server API for EngineService.
// All implementations must embed UnimplementedEngineServiceServer
// for forward compatibility.
type EngineServiceServer interface {
	Play(grpc.BidiStreamingServer[wrapperspb.StringValue, structpb.Struct]) error
	Session(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	mustEmbedUnimplementedEngineServiceServer()
}

// UnimplementedEngineServiceServer must be embedded to have
// forward compatible implementations.
type UnimplementedEngineServiceServer struct{}

func (UnimplementedEngineServiceServer) Play(grpc.BidiStreamingServer[wrapperspb.StringValue, structpb.Struct]) error {
	return status.Errorf(codes.Unimplemented, "method Play not implemented")
}

func (UnimplementedEngineServiceServer) Session(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Session not implemented")
}

func (UnimplementedEngineServiceServer) mustEmbedUnimplementedEngineServiceServer() {}

func RegisterEngineServiceServer(s grpc.ServiceRegistrar, srv EngineServiceServer) {
	s.RegisterService(&EngineService_ServiceDesc, srv)
}

func _EngineService_Play_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(EngineServiceServer).Play(&grpc.GenericServerStream[wrapperspb.StringValue, structpb.Struct]{ServerStream: stream})
}

func _EngineService_Session_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServiceServer).Session(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: EngineService_Session_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EngineServiceServer).Session(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// EngineService_ServiceDesc is the grpc.ServiceDesc for EngineService.
var EngineService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "tetris.v1.EngineService",
	HandlerType: (*EngineServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Session",
			Handler:    _EngineService_Session_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Play",
			Handler:       _EngineService_Play_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "tetris/v1/engine.proto",
}
