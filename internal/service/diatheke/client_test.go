package diatheke

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/iotest"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"speech-demo-clients/internal/api/grpc/grpcapitest"
	"speech-demo-clients/internal/observability/metrics"
	"speech-demo-clients/internal/service/stream"
	"speech-demo-clients/internal/service/stt"
	"speech-demo-clients/internal/service/stt/mock"
	"speech-demo-clients/proto/diathekepb"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// device is an in-memory recorder or player.
type device struct {
	*bytes.Buffer
	mu     sync.Mutex
	starts int
	stops  int
}

func newDevice(b []byte) *device {
	return &device{Buffer: bytes.NewBuffer(b)}
}

func (d *device) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.starts++
	return nil
}

func (d *device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stops++
	return nil
}

func TestClient_TextDialog(t *testing.T) {
	cc, servers := grpcapitest.Start(t, mock.NewScript())
	ctx := testContext(t)
	m := metrics.NewMetrics(nil)
	c := New(cc, WithMetrics(m))

	s, err := c.CreateSession(ctx, "demo")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	var out bytes.Buffer
	h := NewTextHandler(c, strings.NewReader("what is the weather\nturn on the light\nbye\n"), &out)
	l := &Loop{Sessions: c, Handler: h, Metrics: m}
	if err := l.Run(ctx, s); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, want := range []string{
		"Reply: Welcome to the Text demo.",
		"Reply: It will be sunny tomorrow.",
		"ID: toggle_light",
		"Reply: Command toggle_light is done.",
		"Reply: Goodbye!",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out.String())
		}
	}
	if servers.Diatheke.Sessions() != 0 {
		t.Errorf("expected the session to be deleted, %d left", servers.Diatheke.Sessions())
	}
}

func TestClient_TextDialogEndOfInput(t *testing.T) {
	cc, servers := grpcapitest.Start(t, nil)
	ctx := testContext(t)
	m := metrics.NewMetrics(nil)
	c := New(cc, WithMetrics(m))

	s, err := c.CreateSession(ctx, "demo")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	var out bytes.Buffer
	l := &Loop{Sessions: c, Handler: NewTextHandler(c, strings.NewReader(""), &out), Metrics: m}
	if err := l.Run(ctx, s); err != nil {
		t.Fatalf("expected end of input to end the loop normally, got %v", err)
	}
	if servers.Diatheke.Sessions() != 0 {
		t.Errorf("expected the session to be deleted, %d left", servers.Diatheke.Sessions())
	}
}

func TestClient_VersionAndModels(t *testing.T) {
	cc, _ := grpcapitest.Start(t, nil)
	ctx := testContext(t)
	c := New(cc, WithMetrics(metrics.NewMetrics(nil)))

	v, err := c.Version(ctx)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if v.Diatheke == "" || v.Cubic == "" || v.Luna == "" {
		t.Errorf("expected every component version, got %+v", v)
	}

	models, err := c.ListModels(ctx)
	if err != nil {
		t.Fatalf("list models: %v", err)
	}
	if len(models) != 2 || models[0].ID != "demo" {
		t.Errorf("unexpected models %+v", models)
	}
}

func TestClient_SetStory(t *testing.T) {
	cc, _ := grpcapitest.Start(t, nil)
	ctx := testContext(t)
	c := New(cc, WithMetrics(metrics.NewMetrics(nil)))

	s, err := c.CreateSession(ctx, "demo", WithSessionMetadata("user=1", "demo/"))
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if s.Token.Metadata != "user=1" {
		t.Errorf("expected custom metadata on the token, got %q", s.Token.Metadata)
	}

	next, err := c.SetStory(ctx, s.Token, "weather", map[string]string{"city": "Provo"})
	if err != nil {
		t.Fatalf("set story: %v", err)
	}
	if len(next.Actions) == 0 || next.Actions[0].Reply.GetText() != "Switched to story weather." {
		t.Errorf("unexpected actions %+v", next.Actions)
	}
	if err := c.DeleteSession(ctx, next.Token); err != nil {
		t.Fatalf("delete session: %v", err)
	}
}

func TestClient_ReadASRAudio(t *testing.T) {
	cc, _ := grpcapitest.Start(t, mock.NewScript())
	ctx := testContext(t)
	c := New(cc, WithMetrics(metrics.NewMetrics(nil)))

	s, err := c.CreateSession(ctx, "demo")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	res, err := c.ReadASRAudio(ctx, s.Token, bytes.NewReader(make([]byte, 4000)), WithChunkSize(1000))
	if err != nil {
		t.Fatalf("read asr audio: %v", err)
	}
	if res.Text != "turn on the living room light" {
		t.Errorf("unexpected result %q", res.Text)
	}
}

// countingASR counts the StreamASR audio frames it acknowledges.
type countingASR struct {
	diathekepb.UnimplementedDiathekeServiceServer
	frames atomic.Int32
}

func (s *countingASR) StreamASR(srv grpc.ClientStreamingServer[diathekepb.StreamASRRequest, diathekepb.StreamASRResponse]) error {
	for {
		req, err := srv.Recv()
		if errors.Is(err, io.EOF) {
			return srv.SendAndClose(&diathekepb.StreamASRResponse{AsrResult: &diathekepb.ASRResult{}})
		}
		if err != nil {
			return err
		}
		if len(req.Audio) > 0 {
			s.frames.Add(1)
		}
	}
}

func serveDiatheke(t *testing.T, impl diathekepb.DiathekeServiceServer) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	diathekepb.RegisterDiathekeServiceServer(srv, impl)
	go func() {
		_ = srv.Serve(lis)
	}()

	cc, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		srv.Stop()
		t.Fatalf("dial bufconn: %v", err)
	}
	t.Cleanup(func() {
		_ = cc.Close()
		srv.Stop()
	})
	return cc
}

func TestClient_ReadASRAudioSourceFailure(t *testing.T) {
	asr := &countingASR{}
	c := New(serveDiatheke(t, asr), WithMetrics(metrics.NewMetrics(nil)))

	audio := io.MultiReader(
		bytes.NewReader(make([]byte, 3000)),
		iotest.ErrReader(errors.New("microphone unplugged")),
	)
	_, err := c.ReadASRAudio(testContext(t), &diathekepb.TokenData{ID: "s-1"}, audio, WithChunkSize(1000))
	if !errors.Is(err, stream.ErrStreamAborted) {
		t.Fatalf("expected ErrStreamAborted, got %v", err)
	}
	if !strings.Contains(err.Error(), "microphone unplugged") {
		t.Errorf("expected the source error in %q", err)
	}
	if got := asr.frames.Load(); got != 3 {
		t.Errorf("expected the server to acknowledge 3 frames, got %d", got)
	}
}

func TestAudioHandler_Wakeword(t *testing.T) {
	cc, _ := grpcapitest.Start(t, mock.NewScript())
	ctx := testContext(t)
	c := New(cc, WithMetrics(metrics.NewMetrics(nil)))

	s, err := c.CreateSession(ctx, "1")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	var (
		mu       sync.Mutex
		partials []string
		finals   []string
	)
	rec := newDevice(make([]byte, 1000*320))
	var out bytes.Buffer
	h := &AudioHandler{
		Client:   c,
		Recorder: rec,
		Player:   newDevice(nil),
		Out:      &out,
		Wakeword: true,
		Transcripts: stt.Funcs{
			Partial: func(text string) {
				mu.Lock()
				defer mu.Unlock()
				partials = append(partials, text)
			},
			Final: func(text string, _ float64) {
				mu.Lock()
				defer mu.Unlock()
				finals = append(finals, text)
			},
		},
		Stream: []StreamOption{WithChunkSize(320)},
	}

	next, err := h.HandleInput(ctx, s, Input{&diathekepb.WaitForUserAction{RequiresWakeWord: true}})
	if err != nil {
		t.Fatalf("handle input: %v", err)
	}
	if len(next.Actions) != 1 || next.Actions[0].Command.GetID() != "toggle_light" {
		t.Errorf("expected the light command, got %+v", next.Actions)
	}
	if !strings.Contains(out.String(), "Wake word: hey cobalt") {
		t.Errorf("expected wake word in output, got:\n%s", out.String())
	}
	if rec.starts != 1 || rec.stops != 1 {
		t.Errorf("expected one recorder start and stop, got %d/%d", rec.starts, rec.stops)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(partials) != 3 {
		t.Errorf("expected 3 partials, got %v", partials)
	}
	if len(finals) != 1 || finals[0] != "turn on the living room light" {
		t.Errorf("unexpected finals %v", finals)
	}
}

func TestAudioHandler_ReplyAndTranscribe(t *testing.T) {
	cc, _ := grpcapitest.Start(t, mock.NewScript())
	ctx := testContext(t)
	c := New(cc, WithMetrics(metrics.NewMetrics(nil)))

	s, err := c.CreateSession(ctx, "1")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	player := newDevice(nil)
	rec := newDevice(make([]byte, 4*1024))
	var (
		out     bytes.Buffer
		metered byteCounter
	)
	h := &AudioHandler{
		Client:   c,
		Recorder: rec,
		Player:   player,
		Out:      &out,
		Meter: func(r io.Reader) io.Reader {
			return io.TeeReader(r, &metered)
		},
		Stream: []StreamOption{WithChunkSize(1024)},
	}

	reply := Reply{&diathekepb.ReplyAction{Text: "Hello there", LunaModel: "en_US_25"}}
	if err := h.HandleReply(ctx, s, reply); err != nil {
		t.Fatalf("handle reply: %v", err)
	}
	if player.Len() == 0 {
		t.Error("expected synthesized audio in the player")
	}
	if player.starts != 1 || player.stops != 1 {
		t.Errorf("expected one player start and stop, got %d/%d", player.starts, player.stops)
	}

	tr := Transcribe{&diathekepb.TranscribeAction{ID: "note-1", CubicModelID: "en-us-16-far"}}
	if err := h.HandleTranscribe(ctx, s, tr); err != nil {
		t.Fatalf("handle transcribe: %v", err)
	}
	if !strings.Contains(out.String(), "Final Transcription: turn on the living room light") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if got := metered.n.Load(); got != 4*1024 {
		t.Errorf("expected 4096 metered bytes, got %d", got)
	}
}

// byteCounter counts the bytes written to it.
type byteCounter struct {
	n atomic.Int64
}

func (c *byteCounter) Write(p []byte) (int, error) {
	c.n.Add(int64(len(p)))
	return len(p), nil
}
