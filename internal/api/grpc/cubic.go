package grpcapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"speech-demo-clients/internal/audio"
	"speech-demo-clients/internal/observability/logging"
	"speech-demo-clients/internal/service/stream"
	"speech-demo-clients/internal/service/stt/mock"
	"speech-demo-clients/proto/cubicpb"
)

const (
	defaultCubicModel  = "en-us-16-far"
	wakewordModel      = "en_US-wakeword"
	wakewordPhrase     = "hey cobalt"
	wakewordAfterFrame = 2
)

var cubicModels = []*cubicpb.Model{
	{ID: defaultCubicModel, Name: "English (US) far-field 16 kHz", Attributes: &cubicpb.ModelAttributes{SampleRate: 16000}},
	{ID: "en_US-16-FF", Name: "English (US) WebRTC 16 kHz", Attributes: &cubicpb.ModelAttributes{SampleRate: 16000}},
	{ID: wakewordModel, Name: "Wake word", Attributes: &cubicpb.ModelAttributes{SampleRate: 16000}},
}

// CubicServer is a scripted Cubic transcription service. The wake-word
// model reports the wake phrase on a fixed audio frame.
type CubicServer struct {
	cubicpb.UnimplementedTranscribeServiceServer

	script *mock.Script
	log    zerolog.Logger

	mu        sync.Mutex
	wakeAfter int
}

func NewCubicServer(script *mock.Script) *CubicServer {
	return &CubicServer{
		script:    script,
		log:       logging.WithComponent("cubic-mock"),
		wakeAfter: wakewordAfterFrame,
	}
}

// SetWakewordFrame changes the audio frame on which the wake phrase is
// reported.
func (s *CubicServer) SetWakewordFrame(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wakeAfter = n
}

func (s *CubicServer) Version(context.Context, *cubicpb.VersionRequest) (*cubicpb.VersionResponse, error) {
	return &cubicpb.VersionResponse{Cubic: "mock-" + mockVersion, Server: "mock-" + mockVersion}, nil
}

func (s *CubicServer) ListModels(context.Context, *cubicpb.ListModelsRequest) (*cubicpb.ListModelsResponse, error) {
	return &cubicpb.ListModelsResponse{Models: cubicModels}, nil
}

func findCubicModel(id string) bool {
	for _, m := range cubicModels {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (s *CubicServer) StreamingRecognize(srv grpc.BidiStreamingServer[cubicpb.StreamingRecognizeRequest, cubicpb.StreamingRecognizeResponse]) error {
	first, err := srv.Recv()
	if err != nil {
		return err
	}
	cfg := first.Config
	if cfg == nil {
		return status.Error(codes.InvalidArgument, "first message must carry the recognition config")
	}
	if !findCubicModel(cfg.ModelID) {
		return status.Errorf(codes.NotFound, "model %q not found", cfg.ModelID)
	}
	s.log.Debug().Str("model", cfg.ModelID).Msg("Streaming recognition started")

	if cfg.ModelID == wakewordModel {
		return s.detectWakeword(srv)
	}

	rec := newRecognition(s.script)
	send := func(ev mock.Event) error {
		return srv.Send(&cubicpb.StreamingRecognizeResponse{Result: cubicResult(ev)})
	}
	for {
		req, err := srv.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if req.Audio == nil {
			continue
		}
		if ev, ok := rec.step(len(req.Audio.Data)); ok {
			if err := send(ev); err != nil {
				return err
			}
		}
	}
	if ev, ok := rec.flush(); ok {
		return send(ev)
	}
	return nil
}

// detectWakeword sends an empty partial per frame and the wake phrase on the
// configured frame.
func (s *CubicServer) detectWakeword(srv grpc.BidiStreamingServer[cubicpb.StreamingRecognizeRequest, cubicpb.StreamingRecognizeResponse]) error {
	s.mu.Lock()
	after := s.wakeAfter
	s.mu.Unlock()

	frames := 0
	for {
		req, err := srv.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if req.Audio == nil || len(req.Audio.Data) == 0 {
			continue
		}
		frames++

		result := &cubicpb.RecognitionResult{
			IsPartial:    true,
			Alternatives: []*cubicpb.RecognitionAlternative{{}},
		}
		if frames == after {
			result = &cubicpb.RecognitionResult{
				Alternatives: []*cubicpb.RecognitionAlternative{{
					TranscriptRaw:       wakewordPhrase,
					TranscriptFormatted: wakewordPhrase,
					Confidence:          0.99,
				}},
			}
		}
		if err := srv.Send(&cubicpb.StreamingRecognizeResponse{Result: result}); err != nil {
			return err
		}
	}
}

// Recognize transcribes a whole file. Headered WAV audio is unwrapped first.
func (s *CubicServer) Recognize(_ context.Context, req *cubicpb.RecognizeRequest) (*cubicpb.RecognizeResponse, error) {
	if req.Config == nil {
		return nil, status.Error(codes.InvalidArgument, "recognition config is required")
	}
	if !findCubicModel(req.Config.ModelID) {
		return nil, status.Errorf(codes.NotFound, "model %q not found", req.Config.ModelID)
	}
	if req.Audio == nil {
		return nil, status.Error(codes.InvalidArgument, "audio is required")
	}

	size := len(req.Audio.Data)
	if req.Config.AudioFormatHeadered == cubicpb.ContainerFormatWAV {
		info, _, err := audio.ReadWAV(bytes.NewReader(req.Audio.Data))
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid wav audio: %v", err)
		}
		size = int(info.DataSize)
	}

	rec := newRecognition(s.script)
	resp := &cubicpb.RecognizeResponse{}
	for n := size; n > 0; n -= stream.DefaultChunkSize {
		if ev, ok := rec.step(min(n, stream.DefaultChunkSize)); ok && ev.Final {
			resp.Results = append(resp.Results, cubicResult(ev))
		}
	}
	if ev, ok := rec.flush(); ok {
		resp.Results = append(resp.Results, cubicResult(ev))
	}
	return resp, nil
}
