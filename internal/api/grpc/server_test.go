package grpcapi_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"speech-demo-clients/internal/api/grpc/grpcapitest"
	"speech-demo-clients/internal/audio"
	"speech-demo-clients/internal/service/stt/mock"
	"speech-demo-clients/proto/cubicpb"
	"speech-demo-clients/proto/diathekepb"
	"speech-demo-clients/proto/lunapb"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestDiatheke_SessionLifecycle(t *testing.T) {
	cc, servers := grpcapitest.Start(t, mock.NewScript())
	ctx := testContext(t)
	c := diathekepb.NewDiathekeServiceClient(cc)

	resp, err := c.CreateSession(ctx, &diathekepb.CreateSessionRequest{ModelID: "demo"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	out := resp.GetSessionOutput()
	if out.Token.GetID() == "" {
		t.Fatal("expected a session token")
	}
	if len(out.ActionList) != 2 || out.ActionList[0].Reply == nil || out.ActionList[1].Input == nil {
		t.Fatalf("expected welcome reply and input, got %+v", out.ActionList)
	}
	if servers.Diatheke.Sessions() != 1 {
		t.Errorf("expected 1 session, got %d", servers.Diatheke.Sessions())
	}

	upd, err := c.UpdateSession(ctx, &diathekepb.UpdateSessionRequest{SessionInput: &diathekepb.SessionInput{
		Token: out.Token,
		Text:  &diathekepb.TextInput{Text: "bye"},
	}})
	if err != nil {
		t.Fatalf("update session: %v", err)
	}
	if got := upd.GetSessionOutput().ActionList; len(got) != 1 || got[0].Reply.Text != "Goodbye!" {
		t.Errorf("expected goodbye reply only, got %+v", got)
	}

	if _, err := c.DeleteSession(ctx, &diathekepb.DeleteSessionRequest{TokenData: out.Token}); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if servers.Diatheke.Sessions() != 0 {
		t.Errorf("expected no sessions, got %d", servers.Diatheke.Sessions())
	}

	_, err = c.DeleteSession(ctx, &diathekepb.DeleteSessionRequest{TokenData: out.Token})
	if status.Code(err) != codes.NotFound {
		t.Errorf("expected NotFound on second delete, got %v", err)
	}
}

func TestDiatheke_Errors(t *testing.T) {
	cc, _ := grpcapitest.Start(t, nil)
	ctx := testContext(t)
	c := diathekepb.NewDiathekeServiceClient(cc)

	_, err := c.CreateSession(ctx, &diathekepb.CreateSessionRequest{ModelID: "missing"})
	if status.Code(err) != codes.NotFound {
		t.Errorf("expected NotFound for unknown model, got %v", err)
	}

	_, err = c.UpdateSession(ctx, &diathekepb.UpdateSessionRequest{SessionInput: &diathekepb.SessionInput{
		Token: &diathekepb.TokenData{ID: "nope"},
		Text:  &diathekepb.TextInput{Text: "hi"},
	}})
	if status.Code(err) != codes.NotFound {
		t.Errorf("expected NotFound for unknown session, got %v", err)
	}

	_, err = c.UpdateSession(ctx, &diathekepb.UpdateSessionRequest{})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("expected InvalidArgument without input, got %v", err)
	}
}

func TestDiatheke_StreamASR(t *testing.T) {
	cc, _ := grpcapitest.Start(t, mock.NewScript())
	ctx := testContext(t)
	c := diathekepb.NewDiathekeServiceClient(cc)

	resp, err := c.CreateSession(ctx, &diathekepb.CreateSessionRequest{ModelID: "demo"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	s, err := c.StreamASR(ctx)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	if err := s.Send(&diathekepb.StreamASRRequest{Token: resp.SessionOutput.Token}); err != nil {
		t.Fatalf("send token: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := s.Send(&diathekepb.StreamASRRequest{Audio: make([]byte, 1024)}); err != nil {
			t.Fatalf("send audio: %v", err)
		}
	}
	res, err := s.CloseAndRecv()
	if err != nil {
		t.Fatalf("close stream: %v", err)
	}
	if res.AsrResult.GetText() != "turn on the living room light" {
		t.Errorf("expected flushed final, got %q", res.AsrResult.GetText())
	}
}

func TestCubic_Wakeword(t *testing.T) {
	cc, servers := grpcapitest.Start(t, nil)
	servers.Cubic.SetWakewordFrame(3)
	ctx := testContext(t)

	s, err := cubicpb.NewTranscribeServiceClient(cc).StreamingRecognize(ctx)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	if err := s.Send(&cubicpb.StreamingRecognizeRequest{Config: &cubicpb.RecognitionConfig{ModelID: "en_US-wakeword"}}); err != nil {
		t.Fatalf("send config: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.Send(&cubicpb.StreamingRecognizeRequest{Audio: &cubicpb.RecognitionAudio{Data: make([]byte, 320)}}); err != nil {
			t.Fatalf("send audio: %v", err)
		}
	}
	if err := s.CloseSend(); err != nil {
		t.Fatalf("close send: %v", err)
	}

	var transcripts []string
	for {
		resp, err := s.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("recv: %v", err)
		}
		transcripts = append(transcripts, resp.GetResult().Best().GetTranscriptRaw())
	}

	want := []string{"", "", "hey cobalt"}
	if len(transcripts) != len(want) {
		t.Fatalf("expected %d results, got %v", len(want), transcripts)
	}
	for i := range want {
		if transcripts[i] != want[i] {
			t.Errorf("result %d: expected %q, got %q", i, want[i], transcripts[i])
		}
	}
}

func TestCubic_RecognizeWAV(t *testing.T) {
	cc, _ := grpcapitest.Start(t, mock.NewScript())
	ctx := testContext(t)

	var wav bytes.Buffer
	if err := audio.WriteWAV(&wav, 16000, 1, make([]byte, 4*8192)); err != nil {
		t.Fatalf("write wav: %v", err)
	}

	resp, err := cubicpb.NewTranscribeServiceClient(cc).Recognize(ctx, &cubicpb.RecognizeRequest{
		Config: &cubicpb.RecognitionConfig{ModelID: "en-us-16-far", AudioFormatHeadered: cubicpb.ContainerFormatWAV},
		Audio:  &cubicpb.RecognitionAudio{Data: wav.Bytes()},
	})
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	if got := resp.Results[0].Best().Transcript(); got != "turn on the living room light" {
		t.Errorf("unexpected transcript %q", got)
	}
}

func TestLuna_Synthesize(t *testing.T) {
	cc, _ := grpcapitest.Start(t, nil)
	ctx := testContext(t)
	c := lunapb.NewLunaServiceClient(cc)

	tests := []struct {
		name     string
		req      *lunapb.SynthesizeRequest
		wantCode codes.Code
		check    func(t *testing.T, b []byte)
	}{
		{
			name: "raw",
			req:  &lunapb.SynthesizeRequest{Text: "hi", Config: &lunapb.SynthesizerConfig{VoiceID: "en_US_25"}},
			check: func(t *testing.T, b []byte) {
				// 200ms at 25.6 kHz
				if len(b) != 2*5120 {
					t.Errorf("expected %d bytes, got %d", 2*5120, len(b))
				}
			},
		},
		{
			name: "float32",
			req: &lunapb.SynthesizeRequest{Text: "hi", Config: &lunapb.SynthesizerConfig{
				VoiceID: "en_US_25", Encoding: lunapb.EncodingRawFloat32,
			}},
			check: func(t *testing.T, b []byte) {
				if len(b) != 4*5120 {
					t.Errorf("expected %d bytes, got %d", 4*5120, len(b))
				}
			},
		},
		{
			name: "wav",
			req: &lunapb.SynthesizeRequest{Text: "hi", Config: &lunapb.SynthesizerConfig{
				VoiceID: "en_US_25", Encoding: lunapb.EncodingWAV,
			}},
			check: func(t *testing.T, b []byte) {
				info, _, err := audio.ReadWAV(bytes.NewReader(b))
				if err != nil {
					t.Fatalf("read wav: %v", err)
				}
				if info.SampleRate != 25600 || !info.IsPCM16() {
					t.Errorf("unexpected wav format %+v", info)
				}
			},
		},
		{
			name:     "empty text",
			req:      &lunapb.SynthesizeRequest{Text: " "},
			wantCode: codes.InvalidArgument,
		},
		{
			name:     "unknown voice",
			req:      &lunapb.SynthesizeRequest{Text: "hi", Config: &lunapb.SynthesizerConfig{VoiceID: "xx"}},
			wantCode: codes.NotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.Synthesize(ctx, tt.req)
			if status.Code(err) != tt.wantCode {
				t.Fatalf("expected %v, got %v", tt.wantCode, err)
			}
			if tt.check != nil {
				tt.check(t, resp.Audio)
			}
		})
	}
}
