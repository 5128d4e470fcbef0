package cubicpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"speech-demo-clients/proto/codec"
)

const (
	TranscribeService_Version_FullMethodName            = "/cobaltspeech.transcribe.v5.TranscribeService/Version"
	TranscribeService_ListModels_FullMethodName         = "/cobaltspeech.transcribe.v5.TranscribeService/ListModels"
	TranscribeService_StreamingRecognize_FullMethodName = "/cobaltspeech.transcribe.v5.TranscribeService/StreamingRecognize"
	TranscribeService_Recognize_FullMethodName          = "/cobaltspeech.transcribe.v5.TranscribeService/Recognize"
)

// TranscribeServiceClient is the client API for the Cubic transcription service.
type TranscribeServiceClient interface {
	Version(ctx context.Context, in *VersionRequest, opts ...grpc.CallOption) (*VersionResponse, error)
	ListModels(ctx context.Context, in *ListModelsRequest, opts ...grpc.CallOption) (*ListModelsResponse, error)
	StreamingRecognize(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[StreamingRecognizeRequest, StreamingRecognizeResponse], error)
	Recognize(ctx context.Context, in *RecognizeRequest, opts ...grpc.CallOption) (*RecognizeResponse, error)
}

type transcribeServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTranscribeServiceClient(cc grpc.ClientConnInterface) TranscribeServiceClient {
	return &transcribeServiceClient{cc}
}

func (c *transcribeServiceClient) Version(ctx context.Context, in *VersionRequest, opts ...grpc.CallOption) (*VersionResponse, error) {
	out := new(VersionResponse)
	if err := c.cc.Invoke(ctx, TranscribeService_Version_FullMethodName, in, out, codec.CallOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *transcribeServiceClient) ListModels(ctx context.Context, in *ListModelsRequest, opts ...grpc.CallOption) (*ListModelsResponse, error) {
	out := new(ListModelsResponse)
	if err := c.cc.Invoke(ctx, TranscribeService_ListModels_FullMethodName, in, out, codec.CallOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *transcribeServiceClient) StreamingRecognize(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[StreamingRecognizeRequest, StreamingRecognizeResponse], error) {
	stream, err := c.cc.NewStream(ctx, &TranscribeService_ServiceDesc.Streams[0], TranscribeService_StreamingRecognize_FullMethodName, codec.CallOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return &grpc.GenericClientStream[StreamingRecognizeRequest, StreamingRecognizeResponse]{ClientStream: stream}, nil
}

func (c *transcribeServiceClient) Recognize(ctx context.Context, in *RecognizeRequest, opts ...grpc.CallOption) (*RecognizeResponse, error) {
	out := new(RecognizeResponse)
	if err := c.cc.Invoke(ctx, TranscribeService_Recognize_FullMethodName, in, out, codec.CallOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// TranscribeServiceServer is the server API for the Cubic transcription service.
type TranscribeServiceServer interface {
	Version(context.Context, *VersionRequest) (*VersionResponse, error)
	ListModels(context.Context, *ListModelsRequest) (*ListModelsResponse, error)
	StreamingRecognize(grpc.BidiStreamingServer[StreamingRecognizeRequest, StreamingRecognizeResponse]) error
	Recognize(context.Context, *RecognizeRequest) (*RecognizeResponse, error)
	mustEmbedUnimplementedTranscribeServiceServer()
}

// UnimplementedTranscribeServiceServer must be embedded by implementations.
type UnimplementedTranscribeServiceServer struct{}

func (UnimplementedTranscribeServiceServer) Version(context.Context, *VersionRequest) (*VersionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Version not implemented")
}
func (UnimplementedTranscribeServiceServer) ListModels(context.Context, *ListModelsRequest) (*ListModelsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListModels not implemented")
}
func (UnimplementedTranscribeServiceServer) StreamingRecognize(grpc.BidiStreamingServer[StreamingRecognizeRequest, StreamingRecognizeResponse]) error {
	return status.Error(codes.Unimplemented, "method StreamingRecognize not implemented")
}
func (UnimplementedTranscribeServiceServer) Recognize(context.Context, *RecognizeRequest) (*RecognizeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Recognize not implemented")
}
func (UnimplementedTranscribeServiceServer) mustEmbedUnimplementedTranscribeServiceServer() {}

func RegisterTranscribeServiceServer(s grpc.ServiceRegistrar, srv TranscribeServiceServer) {
	s.RegisterService(&TranscribeService_ServiceDesc, srv)
}

func _TranscribeService_Version_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(VersionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TranscribeServiceServer).Version(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TranscribeService_Version_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TranscribeServiceServer).Version(ctx, req.(*VersionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TranscribeService_ListModels_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListModelsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TranscribeServiceServer).ListModels(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TranscribeService_ListModels_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TranscribeServiceServer).ListModels(ctx, req.(*ListModelsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TranscribeService_StreamingRecognize_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(TranscribeServiceServer).StreamingRecognize(&grpc.GenericServerStream[StreamingRecognizeRequest, StreamingRecognizeResponse]{ServerStream: stream})
}

func _TranscribeService_Recognize_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RecognizeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TranscribeServiceServer).Recognize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TranscribeService_Recognize_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TranscribeServiceServer).Recognize(ctx, req.(*RecognizeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// TranscribeService_ServiceDesc is the grpc.ServiceDesc for the Cubic transcription service.
var TranscribeService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "cobaltspeech.transcribe.v5.TranscribeService",
	HandlerType: (*TranscribeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Version", Handler: _TranscribeService_Version_Handler},
		{MethodName: "ListModels", Handler: _TranscribeService_ListModels_Handler},
		{MethodName: "Recognize", Handler: _TranscribeService_Recognize_Handler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamingRecognize",
			Handler:       _TranscribeService_StreamingRecognize_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "cubicpb/cubic.go",
}
