package lunapb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"speech-demo-clients/proto/codec"
)

const (
	LunaService_Version_FullMethodName          = "/cobaltspeech.luna.LunaService/Version"
	LunaService_ListVoices_FullMethodName       = "/cobaltspeech.luna.LunaService/ListVoices"
	LunaService_Synthesize_FullMethodName       = "/cobaltspeech.luna.LunaService/Synthesize"
	LunaService_SynthesizeStream_FullMethodName = "/cobaltspeech.luna.LunaService/SynthesizeStream"
)

// LunaServiceClient is the client API for the Luna text-to-speech service.
type LunaServiceClient interface {
	Version(ctx context.Context, in *VersionRequest, opts ...grpc.CallOption) (*VersionResponse, error)
	ListVoices(ctx context.Context, in *ListVoicesRequest, opts ...grpc.CallOption) (*ListVoicesResponse, error)
	Synthesize(ctx context.Context, in *SynthesizeRequest, opts ...grpc.CallOption) (*SynthesizeResponse, error)
	SynthesizeStream(ctx context.Context, in *SynthesizeRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[SynthesizeResponse], error)
}

type lunaServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewLunaServiceClient(cc grpc.ClientConnInterface) LunaServiceClient {
	return &lunaServiceClient{cc}
}

func (c *lunaServiceClient) Version(ctx context.Context, in *VersionRequest, opts ...grpc.CallOption) (*VersionResponse, error) {
	out := new(VersionResponse)
	if err := c.cc.Invoke(ctx, LunaService_Version_FullMethodName, in, out, codec.CallOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *lunaServiceClient) ListVoices(ctx context.Context, in *ListVoicesRequest, opts ...grpc.CallOption) (*ListVoicesResponse, error) {
	out := new(ListVoicesResponse)
	if err := c.cc.Invoke(ctx, LunaService_ListVoices_FullMethodName, in, out, codec.CallOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *lunaServiceClient) Synthesize(ctx context.Context, in *SynthesizeRequest, opts ...grpc.CallOption) (*SynthesizeResponse, error) {
	out := new(SynthesizeResponse)
	if err := c.cc.Invoke(ctx, LunaService_Synthesize_FullMethodName, in, out, codec.CallOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *lunaServiceClient) SynthesizeStream(ctx context.Context, in *SynthesizeRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[SynthesizeResponse], error) {
	stream, err := c.cc.NewStream(ctx, &LunaService_ServiceDesc.Streams[0], LunaService_SynthesizeStream_FullMethodName, codec.CallOptions(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[SynthesizeRequest, SynthesizeResponse]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// LunaServiceServer is the server API for the Luna text-to-speech service.
type LunaServiceServer interface {
	Version(context.Context, *VersionRequest) (*VersionResponse, error)
	ListVoices(context.Context, *ListVoicesRequest) (*ListVoicesResponse, error)
	Synthesize(context.Context, *SynthesizeRequest) (*SynthesizeResponse, error)
	SynthesizeStream(*SynthesizeRequest, grpc.ServerStreamingServer[SynthesizeResponse]) error
	mustEmbedUnimplementedLunaServiceServer()
}

// UnimplementedLunaServiceServer must be embedded by implementations.
type UnimplementedLunaServiceServer struct{}

func (UnimplementedLunaServiceServer) Version(context.Context, *VersionRequest) (*VersionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Version not implemented")
}
func (UnimplementedLunaServiceServer) ListVoices(context.Context, *ListVoicesRequest) (*ListVoicesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListVoices not implemented")
}
func (UnimplementedLunaServiceServer) Synthesize(context.Context, *SynthesizeRequest) (*SynthesizeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Synthesize not implemented")
}
func (UnimplementedLunaServiceServer) SynthesizeStream(*SynthesizeRequest, grpc.ServerStreamingServer[SynthesizeResponse]) error {
	return status.Error(codes.Unimplemented, "method SynthesizeStream not implemented")
}
func (UnimplementedLunaServiceServer) mustEmbedUnimplementedLunaServiceServer() {}

func RegisterLunaServiceServer(s grpc.ServiceRegistrar, srv LunaServiceServer) {
	s.RegisterService(&LunaService_ServiceDesc, srv)
}

func _LunaService_Version_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(VersionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LunaServiceServer).Version(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: LunaService_Version_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LunaServiceServer).Version(ctx, req.(*VersionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _LunaService_ListVoices_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListVoicesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LunaServiceServer).ListVoices(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: LunaService_ListVoices_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LunaServiceServer).ListVoices(ctx, req.(*ListVoicesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _LunaService_Synthesize_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SynthesizeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LunaServiceServer).Synthesize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: LunaService_Synthesize_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LunaServiceServer).Synthesize(ctx, req.(*SynthesizeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _LunaService_SynthesizeStream_Handler(srv any, stream grpc.ServerStream) error {
	m := new(SynthesizeRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(LunaServiceServer).SynthesizeStream(m, &grpc.GenericServerStream[SynthesizeRequest, SynthesizeResponse]{ServerStream: stream})
}

// LunaService_ServiceDesc is the grpc.ServiceDesc for the Luna text-to-speech service.
var LunaService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "cobaltspeech.luna.LunaService",
	HandlerType: (*LunaServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Version", Handler: _LunaService_Version_Handler},
		{MethodName: "ListVoices", Handler: _LunaService_ListVoices_Handler},
		{MethodName: "Synthesize", Handler: _LunaService_Synthesize_Handler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "SynthesizeStream",
			Handler:       _LunaService_SynthesizeStream_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "lunapb/luna.go",
}
