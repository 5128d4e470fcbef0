package grpcapi

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"speech-demo-clients/internal/audio"
	"speech-demo-clients/internal/observability/logging"
	"speech-demo-clients/proto/lunapb"
)

const defaultVoice = "en_US_25"

var lunaVoices = []*lunapb.Voice{
	{ID: defaultVoice, Name: "English (US) voice 25", SampleRate: 25600, Language: "en_US"},
	{ID: "en_US_8", Name: "English (US) voice 8", SampleRate: 22050, Language: "en_US"},
}

// LunaServer is a synthetic Luna text-to-speech service. Speech is rendered
// as a tone whose length follows the text.
type LunaServer struct {
	lunapb.UnimplementedLunaServiceServer
}

func NewLunaServer() *LunaServer {
	return &LunaServer{}
}

func (s *LunaServer) Version(context.Context, *lunapb.VersionRequest) (*lunapb.VersionResponse, error) {
	return &lunapb.VersionResponse{Version: "mock-" + mockVersion}, nil
}

func (s *LunaServer) ListVoices(context.Context, *lunapb.ListVoicesRequest) (*lunapb.ListVoicesResponse, error) {
	return &lunapb.ListVoicesResponse{Voices: lunaVoices}, nil
}

func (s *LunaServer) Synthesize(_ context.Context, req *lunapb.SynthesizeRequest) (*lunapb.SynthesizeResponse, error) {
	b, err := synthesize(req)
	if err != nil {
		return nil, err
	}
	return &lunapb.SynthesizeResponse{Audio: b}, nil
}

func (s *LunaServer) SynthesizeStream(req *lunapb.SynthesizeRequest, srv grpc.ServerStreamingServer[lunapb.SynthesizeResponse]) error {
	b, err := synthesize(req)
	if err != nil {
		return err
	}
	for _, chunk := range chunks(b, ttsChunkSize) {
		if err := srv.Send(&lunapb.SynthesizeResponse{Audio: chunk}); err != nil {
			return err
		}
	}
	return nil
}

func synthesize(req *lunapb.SynthesizeRequest) ([]byte, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, status.Error(codes.InvalidArgument, "text is required")
	}
	cfg := req.Config
	if cfg == nil {
		cfg = &lunapb.SynthesizerConfig{VoiceID: defaultVoice}
	}
	var voice *lunapb.Voice
	for _, v := range lunaVoices {
		if v.ID == cfg.VoiceID {
			voice = v
		}
	}
	if voice == nil {
		return nil, status.Errorf(codes.NotFound, "voice %q not found", cfg.VoiceID)
	}

	pcm := tone(req.Text, int(voice.SampleRate))
	logger := logging.WithComponent("luna-mock")
	logger.Debug().
		Str("voice", voice.ID).
		Stringer("encoding", cfg.Encoding).
		Int("bytes", len(pcm)).
		Msg("Synthesized")

	switch cfg.Encoding {
	case lunapb.EncodingRawLinear16:
		return pcm, nil
	case lunapb.EncodingRawFloat32:
		return float32LE(pcm), nil
	case lunapb.EncodingWAV:
		var buf bytes.Buffer
		if err := audio.WriteWAV(&buf, int(voice.SampleRate), 1, pcm); err != nil {
			return nil, status.Errorf(codes.Internal, "encode wav: %v", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unsupported encoding %v", cfg.Encoding)
	}
}

func float32LE(pcm []byte) []byte {
	samples := audio.PCM16(pcm)
	out := make([]byte, 4*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(float32(v)/math.MaxInt16))
	}
	return out
}
