package grpcapi

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"speech-demo-clients/internal/observability/logging"
	"speech-demo-clients/internal/service/stt/mock"
	"speech-demo-clients/proto/cubicpb"
	"speech-demo-clients/proto/diathekepb"
)

const (
	diathekeSampleRate = 22050
	ttsChunkSize       = 4096
)

// DiathekeServer is a scripted Diatheke dialog service. Sessions live in
// memory and recognition follows the shared mock script.
type DiathekeServer struct {
	diathekepb.UnimplementedDiathekeServiceServer

	script *mock.Script
	log    zerolog.Logger

	mu       sync.Mutex
	sessions map[string]model
}

func NewDiathekeServer(script *mock.Script) *DiathekeServer {
	return &DiathekeServer{
		script:   script,
		log:      logging.WithComponent("diatheke-mock"),
		sessions: make(map[string]model),
	}
}

// Sessions returns the number of live sessions.
func (s *DiathekeServer) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *DiathekeServer) Version(context.Context, *diathekepb.VersionRequest) (*diathekepb.VersionResponse, error) {
	return &diathekepb.VersionResponse{
		Diatheke: "mock-" + mockVersion,
		Chosun:   "mock-" + mockVersion,
		Cubic:    "mock-" + mockVersion,
		Luna:     "mock-" + mockVersion,
	}, nil
}

func (s *DiathekeServer) ListModels(context.Context, *diathekepb.ListModelsRequest) (*diathekepb.ListModelsResponse, error) {
	resp := &diathekepb.ListModelsResponse{}
	for _, m := range dialogModels {
		resp.Models = append(resp.Models, m.info)
	}
	return resp, nil
}

func (s *DiathekeServer) CreateSession(_ context.Context, req *diathekepb.CreateSessionRequest) (*diathekepb.CreateSessionResponse, error) {
	m, ok := findModel(req.ModelID)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "model %q not found", req.ModelID)
	}

	token := &diathekepb.TokenData{ID: uuid.NewString(), Data: []byte(m.info.ID)}
	if req.Metadata != nil {
		token.Metadata = req.Metadata.CustomMetadata
	}

	s.mu.Lock()
	s.sessions[token.ID] = m
	s.mu.Unlock()

	s.log.Info().Str("sessionId", token.ID).Str("model", m.info.ID).Msg("Session created")
	return &diathekepb.CreateSessionResponse{SessionOutput: &diathekepb.SessionOutput{
		Token:      token,
		ActionList: welcome(m),
	}}, nil
}

func (s *DiathekeServer) DeleteSession(_ context.Context, req *diathekepb.DeleteSessionRequest) (*diathekepb.DeleteSessionResponse, error) {
	id := req.TokenData.GetID()

	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return nil, status.Errorf(codes.NotFound, "session %q not found", id)
	}
	s.log.Info().Str("sessionId", id).Msg("Session deleted")
	return &diathekepb.DeleteSessionResponse{}, nil
}

func (s *DiathekeServer) UpdateSession(_ context.Context, req *diathekepb.UpdateSessionRequest) (*diathekepb.UpdateSessionResponse, error) {
	in := req.SessionInput
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "session input is required")
	}
	m, err := s.session(in.Token)
	if err != nil {
		return nil, err
	}

	var actions []*diathekepb.ActionData
	switch {
	case in.Text != nil:
		actions = respond(m, in.Text.Text)
	case in.ASR != nil:
		actions = respond(m, in.ASR.Text)
	case in.Cmd != nil:
		actions = commandDone(m, in.Cmd)
	case in.Story != nil:
		actions = []*diathekepb.ActionData{
			reply("Switched to story " + in.Story.StoryID + "."),
			input(m.wakeword),
		}
	default:
		return nil, status.Error(codes.InvalidArgument, "session input has no payload")
	}

	return &diathekepb.UpdateSessionResponse{SessionOutput: &diathekepb.SessionOutput{
		Token:      in.Token,
		ActionList: actions,
	}}, nil
}

func (s *DiathekeServer) session(token *diathekepb.TokenData) (model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.sessions[token.GetID()]
	if !ok {
		return model{}, status.Errorf(codes.NotFound, "session %q not found", token.GetID())
	}
	return m, nil
}

// StreamASR consumes all audio and returns the final transcript.
func (s *DiathekeServer) StreamASR(stream grpc.ClientStreamingServer[diathekepb.StreamASRRequest, diathekepb.StreamASRResponse]) error {
	first, err := stream.Recv()
	if err != nil {
		return err
	}
	if _, err := s.session(first.Token); err != nil {
		return err
	}

	rec := newRecognition(s.script)
	for {
		req, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		rec.step(len(req.Audio))
	}

	ev, ok := rec.last()
	if !ok {
		return stream.SendAndClose(&diathekepb.StreamASRResponse{AsrResult: &diathekepb.ASRResult{}})
	}
	return stream.SendAndClose(&diathekepb.StreamASRResponse{AsrResult: asrResult(ev)})
}

// StreamASRWithPartials sends a partial or final result per audio frame.
func (s *DiathekeServer) StreamASRWithPartials(stream grpc.BidiStreamingServer[diathekepb.StreamASRWithPartialsRequest, diathekepb.StreamASRWithPartialsResponse]) error {
	first, err := stream.Recv()
	if err != nil {
		return err
	}
	if _, err := s.session(first.Token); err != nil {
		return err
	}

	rec := newRecognition(s.script)
	send := func(ev mock.Event) error {
		if ev.Final {
			return stream.Send(&diathekepb.StreamASRWithPartialsResponse{AsrResult: asrResult(ev)})
		}
		return stream.Send(&diathekepb.StreamASRWithPartialsResponse{PartialResult: cubicResult(ev)})
	}

	for {
		req, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if ev, ok := rec.step(len(req.Audio)); ok {
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

// StreamTTS streams a tone whose length follows the reply text.
func (s *DiathekeServer) StreamTTS(req *diathekepb.StreamTTSRequest, stream grpc.ServerStreamingServer[diathekepb.StreamTTSResponse]) error {
	if _, err := s.session(req.Token); err != nil {
		return err
	}
	if req.ReplyAction == nil {
		return status.Error(codes.InvalidArgument, "reply action is required")
	}

	for _, chunk := range chunks(tone(req.ReplyAction.Text, diathekeSampleRate), ttsChunkSize) {
		if err := stream.Send(&diathekepb.StreamTTSResponse{Audio: chunk}); err != nil {
			return err
		}
	}
	return nil
}

// Transcribe sends a result per audio frame until the client stops sending.
func (s *DiathekeServer) Transcribe(stream grpc.BidiStreamingServer[diathekepb.TranscribeRequest, diathekepb.TranscribeResponse]) error {
	first, err := stream.Recv()
	if err != nil {
		return err
	}
	if first.Action == nil {
		return status.Error(codes.InvalidArgument, "first message must carry the transcribe action")
	}

	rec := newRecognition(s.script)
	send := func(ev mock.Event) error {
		return stream.Send(&diathekepb.TranscribeResponse{
			Text:       ev.Text,
			Confidence: ev.Confidence,
			IsPartial:  !ev.Final,
		})
	}

	for {
		req, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if ev, ok := rec.step(len(req.Audio)); ok {
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

func asrResult(ev mock.Event) *diathekepb.ASRResult {
	return &diathekepb.ASRResult{
		Text:        ev.Text,
		Confidence:  ev.Confidence,
		CubicResult: cubicResult(ev),
	}
}

func cubicResult(ev mock.Event) *cubicpb.RecognitionResult {
	return &cubicpb.RecognitionResult{
		IsPartial: !ev.Final,
		Alternatives: []*cubicpb.RecognitionAlternative{{
			TranscriptFormatted: ev.Text,
			TranscriptRaw:       ev.Text,
			Confidence:          ev.Confidence,
		}},
	}
}
