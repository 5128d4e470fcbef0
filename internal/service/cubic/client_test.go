package cubic

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"speech-demo-clients/internal/api/grpc/grpcapitest"
	"speech-demo-clients/internal/audio"
	"speech-demo-clients/internal/observability/metrics"
	"speech-demo-clients/internal/service/stt"
	"speech-demo-clients/internal/service/stt/mock"
	"speech-demo-clients/proto/cubicpb"
)

const model = "en-us-16-far"

func newClient(t *testing.T) (*Client, context.Context) {
	t.Helper()
	cc, _ := grpcapitest.Start(t, mock.NewScript())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return New(cc, model, WithChunkSize(1024), WithMetrics(metrics.NewMetrics(nil))), ctx
}

func TestClient_VersionAndModels(t *testing.T) {
	c, ctx := newClient(t)

	v, err := c.Version(ctx)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if v.Cubic == "" || v.Server == "" {
		t.Errorf("expected versions, got %+v", v)
	}

	models, err := c.ListModels(ctx)
	if err != nil {
		t.Fatalf("list models: %v", err)
	}
	found := false
	for _, m := range models {
		if m.ID == model && m.Attributes.SampleRate == 16000 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s at 16 kHz in %+v", model, models)
	}
}

func TestClient_StreamingRecognize(t *testing.T) {
	c, ctx := newClient(t)

	var results []*cubicpb.RecognitionResult
	text, err := c.StreamingRecognize(ctx, nil, bytes.NewReader(make([]byte, 8*1024)), func(r *cubicpb.RecognitionResult) {
		results = append(results, r)
	})
	if err != nil {
		t.Fatalf("streaming recognize: %v", err)
	}

	want := "turn on the living room light what is the weather tomorrow"
	if text != want {
		t.Errorf("expected %q, got %q", want, text)
	}
	if len(results) != 8 {
		t.Errorf("expected a result per frame, got %d", len(results))
	}
}

func TestClient_UnknownModel(t *testing.T) {
	cc, _ := grpcapitest.Start(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := New(cc, "missing", WithMetrics(metrics.NewMetrics(nil)))
	_, err := c.StreamingRecognize(ctx, nil, bytes.NewReader(make([]byte, 1024)), nil)
	if status.Code(err) != codes.NotFound {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestClient_Transcribe(t *testing.T) {
	c, ctx := newClient(t)

	var (
		mu       sync.Mutex
		partials int
		finals   []string
	)
	var tr stt.Transcriber = c
	text, err := tr.Transcribe(ctx, bytes.NewReader(make([]byte, 4*1024)), stt.Funcs{
		Partial: func(string) {
			mu.Lock()
			defer mu.Unlock()
			partials++
		},
		Final: func(text string, _ float64) {
			mu.Lock()
			defer mu.Unlock()
			finals = append(finals, text)
		},
	})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "turn on the living room light" {
		t.Errorf("unexpected text %q", text)
	}

	mu.Lock()
	defer mu.Unlock()
	if partials != 3 || len(finals) != 1 {
		t.Errorf("expected 3 partials and 1 final, got %d and %v", partials, finals)
	}
}

func TestClient_Recognize(t *testing.T) {
	c, ctx := newClient(t)

	var wav bytes.Buffer
	if err := audio.WriteWAV(&wav, 16000, 1, make([]byte, 8*8192)); err != nil {
		t.Fatalf("write wav: %v", err)
	}

	results, err := c.Recognize(ctx, &wav)
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if got := results[1].Best().Transcript(); got != "what is the weather tomorrow" {
		t.Errorf("unexpected second result %q", got)
	}
}
