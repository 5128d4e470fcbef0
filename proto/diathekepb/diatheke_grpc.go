package diathekepb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"speech-demo-clients/proto/codec"
)

const (
	DiathekeService_Version_FullMethodName               = "/cobaltspeech.diatheke.v3.DiathekeService/Version"
	DiathekeService_ListModels_FullMethodName            = "/cobaltspeech.diatheke.v3.DiathekeService/ListModels"
	DiathekeService_CreateSession_FullMethodName         = "/cobaltspeech.diatheke.v3.DiathekeService/CreateSession"
	DiathekeService_DeleteSession_FullMethodName         = "/cobaltspeech.diatheke.v3.DiathekeService/DeleteSession"
	DiathekeService_UpdateSession_FullMethodName         = "/cobaltspeech.diatheke.v3.DiathekeService/UpdateSession"
	DiathekeService_StreamASR_FullMethodName             = "/cobaltspeech.diatheke.v3.DiathekeService/StreamASR"
	DiathekeService_StreamASRWithPartials_FullMethodName = "/cobaltspeech.diatheke.v3.DiathekeService/StreamASRWithPartials"
	DiathekeService_StreamTTS_FullMethodName             = "/cobaltspeech.diatheke.v3.DiathekeService/StreamTTS"
	DiathekeService_Transcribe_FullMethodName            = "/cobaltspeech.diatheke.v3.DiathekeService/Transcribe"
)

// DiathekeServiceClient is the client API for the Diatheke dialog service.
type DiathekeServiceClient interface {
	Version(ctx context.Context, in *VersionRequest, opts ...grpc.CallOption) (*VersionResponse, error)
	ListModels(ctx context.Context, in *ListModelsRequest, opts ...grpc.CallOption) (*ListModelsResponse, error)
	CreateSession(ctx context.Context, in *CreateSessionRequest, opts ...grpc.CallOption) (*CreateSessionResponse, error)
	DeleteSession(ctx context.Context, in *DeleteSessionRequest, opts ...grpc.CallOption) (*DeleteSessionResponse, error)
	UpdateSession(ctx context.Context, in *UpdateSessionRequest, opts ...grpc.CallOption) (*UpdateSessionResponse, error)
	StreamASR(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[StreamASRRequest, StreamASRResponse], error)
	StreamASRWithPartials(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[StreamASRWithPartialsRequest, StreamASRWithPartialsResponse], error)
	StreamTTS(ctx context.Context, in *StreamTTSRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[StreamTTSResponse], error)
	Transcribe(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[TranscribeRequest, TranscribeResponse], error)
}

type diathekeServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDiathekeServiceClient(cc grpc.ClientConnInterface) DiathekeServiceClient {
	return &diathekeServiceClient{cc}
}

func (c *diathekeServiceClient) Version(ctx context.Context, in *VersionRequest, opts ...grpc.CallOption) (*VersionResponse, error) {
	out := new(VersionResponse)
	if err := c.cc.Invoke(ctx, DiathekeService_Version_FullMethodName, in, out, codec.CallOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *diathekeServiceClient) ListModels(ctx context.Context, in *ListModelsRequest, opts ...grpc.CallOption) (*ListModelsResponse, error) {
	out := new(ListModelsResponse)
	if err := c.cc.Invoke(ctx, DiathekeService_ListModels_FullMethodName, in, out, codec.CallOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *diathekeServiceClient) CreateSession(ctx context.Context, in *CreateSessionRequest, opts ...grpc.CallOption) (*CreateSessionResponse, error) {
	out := new(CreateSessionResponse)
	if err := c.cc.Invoke(ctx, DiathekeService_CreateSession_FullMethodName, in, out, codec.CallOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *diathekeServiceClient) DeleteSession(ctx context.Context, in *DeleteSessionRequest, opts ...grpc.CallOption) (*DeleteSessionResponse, error) {
	out := new(DeleteSessionResponse)
	if err := c.cc.Invoke(ctx, DiathekeService_DeleteSession_FullMethodName, in, out, codec.CallOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *diathekeServiceClient) UpdateSession(ctx context.Context, in *UpdateSessionRequest, opts ...grpc.CallOption) (*UpdateSessionResponse, error) {
	out := new(UpdateSessionResponse)
	if err := c.cc.Invoke(ctx, DiathekeService_UpdateSession_FullMethodName, in, out, codec.CallOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *diathekeServiceClient) StreamASR(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[StreamASRRequest, StreamASRResponse], error) {
	stream, err := c.cc.NewStream(ctx, &DiathekeService_ServiceDesc.Streams[0], DiathekeService_StreamASR_FullMethodName, codec.CallOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return &grpc.GenericClientStream[StreamASRRequest, StreamASRResponse]{ClientStream: stream}, nil
}

func (c *diathekeServiceClient) StreamASRWithPartials(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[StreamASRWithPartialsRequest, StreamASRWithPartialsResponse], error) {
	stream, err := c.cc.NewStream(ctx, &DiathekeService_ServiceDesc.Streams[1], DiathekeService_StreamASRWithPartials_FullMethodName, codec.CallOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return &grpc.GenericClientStream[StreamASRWithPartialsRequest, StreamASRWithPartialsResponse]{ClientStream: stream}, nil
}

func (c *diathekeServiceClient) StreamTTS(ctx context.Context, in *StreamTTSRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[StreamTTSResponse], error) {
	stream, err := c.cc.NewStream(ctx, &DiathekeService_ServiceDesc.Streams[2], DiathekeService_StreamTTS_FullMethodName, codec.CallOptions(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[StreamTTSRequest, StreamTTSResponse]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *diathekeServiceClient) Transcribe(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[TranscribeRequest, TranscribeResponse], error) {
	stream, err := c.cc.NewStream(ctx, &DiathekeService_ServiceDesc.Streams[3], DiathekeService_Transcribe_FullMethodName, codec.CallOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return &grpc.GenericClientStream[TranscribeRequest, TranscribeResponse]{ClientStream: stream}, nil
}

// DiathekeServiceServer is the server API for the Diatheke dialog service.
type DiathekeServiceServer interface {
	Version(context.Context, *VersionRequest) (*VersionResponse, error)
	ListModels(context.Context, *ListModelsRequest) (*ListModelsResponse, error)
	CreateSession(context.Context, *CreateSessionRequest) (*CreateSessionResponse, error)
	DeleteSession(context.Context, *DeleteSessionRequest) (*DeleteSessionResponse, error)
	UpdateSession(context.Context, *UpdateSessionRequest) (*UpdateSessionResponse, error)
	StreamASR(grpc.ClientStreamingServer[StreamASRRequest, StreamASRResponse]) error
	StreamASRWithPartials(grpc.BidiStreamingServer[StreamASRWithPartialsRequest, StreamASRWithPartialsResponse]) error
	StreamTTS(*StreamTTSRequest, grpc.ServerStreamingServer[StreamTTSResponse]) error
	Transcribe(grpc.BidiStreamingServer[TranscribeRequest, TranscribeResponse]) error
	mustEmbedUnimplementedDiathekeServiceServer()
}

// UnimplementedDiathekeServiceServer must be embedded by implementations.
type UnimplementedDiathekeServiceServer struct{}

func (UnimplementedDiathekeServiceServer) Version(context.Context, *VersionRequest) (*VersionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Version not implemented")
}
func (UnimplementedDiathekeServiceServer) ListModels(context.Context, *ListModelsRequest) (*ListModelsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListModels not implemented")
}
func (UnimplementedDiathekeServiceServer) CreateSession(context.Context, *CreateSessionRequest) (*CreateSessionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateSession not implemented")
}
func (UnimplementedDiathekeServiceServer) DeleteSession(context.Context, *DeleteSessionRequest) (*DeleteSessionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteSession not implemented")
}
func (UnimplementedDiathekeServiceServer) UpdateSession(context.Context, *UpdateSessionRequest) (*UpdateSessionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateSession not implemented")
}
func (UnimplementedDiathekeServiceServer) StreamASR(grpc.ClientStreamingServer[StreamASRRequest, StreamASRResponse]) error {
	return status.Error(codes.Unimplemented, "method StreamASR not implemented")
}
func (UnimplementedDiathekeServiceServer) StreamASRWithPartials(grpc.BidiStreamingServer[StreamASRWithPartialsRequest, StreamASRWithPartialsResponse]) error {
	return status.Error(codes.Unimplemented, "method StreamASRWithPartials not implemented")
}
func (UnimplementedDiathekeServiceServer) StreamTTS(*StreamTTSRequest, grpc.ServerStreamingServer[StreamTTSResponse]) error {
	return status.Error(codes.Unimplemented, "method StreamTTS not implemented")
}
func (UnimplementedDiathekeServiceServer) Transcribe(grpc.BidiStreamingServer[TranscribeRequest, TranscribeResponse]) error {
	return status.Error(codes.Unimplemented, "method Transcribe not implemented")
}
func (UnimplementedDiathekeServiceServer) mustEmbedUnimplementedDiathekeServiceServer() {}

func RegisterDiathekeServiceServer(s grpc.ServiceRegistrar, srv DiathekeServiceServer) {
	s.RegisterService(&DiathekeService_ServiceDesc, srv)
}

func _DiathekeService_Version_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(VersionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DiathekeServiceServer).Version(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DiathekeService_Version_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DiathekeServiceServer).Version(ctx, req.(*VersionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _DiathekeService_ListModels_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListModelsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DiathekeServiceServer).ListModels(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DiathekeService_ListModels_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DiathekeServiceServer).ListModels(ctx, req.(*ListModelsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _DiathekeService_CreateSession_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateSessionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DiathekeServiceServer).CreateSession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DiathekeService_CreateSession_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DiathekeServiceServer).CreateSession(ctx, req.(*CreateSessionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _DiathekeService_DeleteSession_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteSessionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DiathekeServiceServer).DeleteSession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DiathekeService_DeleteSession_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DiathekeServiceServer).DeleteSession(ctx, req.(*DeleteSessionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _DiathekeService_UpdateSession_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(UpdateSessionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DiathekeServiceServer).UpdateSession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DiathekeService_UpdateSession_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DiathekeServiceServer).UpdateSession(ctx, req.(*UpdateSessionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _DiathekeService_StreamASR_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(DiathekeServiceServer).StreamASR(&grpc.GenericServerStream[StreamASRRequest, StreamASRResponse]{ServerStream: stream})
}

func _DiathekeService_StreamASRWithPartials_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(DiathekeServiceServer).StreamASRWithPartials(&grpc.GenericServerStream[StreamASRWithPartialsRequest, StreamASRWithPartialsResponse]{ServerStream: stream})
}

func _DiathekeService_StreamTTS_Handler(srv any, stream grpc.ServerStream) error {
	m := new(StreamTTSRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(DiathekeServiceServer).StreamTTS(m, &grpc.GenericServerStream[StreamTTSRequest, StreamTTSResponse]{ServerStream: stream})
}

func _DiathekeService_Transcribe_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(DiathekeServiceServer).Transcribe(&grpc.GenericServerStream[TranscribeRequest, TranscribeResponse]{ServerStream: stream})
}

// DiathekeService_ServiceDesc is the grpc.ServiceDesc for the Diatheke dialog service.
var DiathekeService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "cobaltspeech.diatheke.v3.DiathekeService",
	HandlerType: (*DiathekeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Version", Handler: _DiathekeService_Version_Handler},
		{MethodName: "ListModels", Handler: _DiathekeService_ListModels_Handler},
		{MethodName: "CreateSession", Handler: _DiathekeService_CreateSession_Handler},
		{MethodName: "DeleteSession", Handler: _DiathekeService_DeleteSession_Handler},
		{MethodName: "UpdateSession", Handler: _DiathekeService_UpdateSession_Handler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamASR",
			Handler:       _DiathekeService_StreamASR_Handler,
			ClientStreams: true,
		},
		{
			StreamName:    "StreamASRWithPartials",
			Handler:       _DiathekeService_StreamASRWithPartials_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
		{
			StreamName:    "StreamTTS",
			Handler:       _DiathekeService_StreamTTS_Handler,
			ServerStreams: true,
		},
		{
			StreamName:    "Transcribe",
			Handler:       _DiathekeService_Transcribe_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "diathekepb/diatheke.go",
}
