package stream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"

	"speech-demo-clients/internal/observability/metrics"
)

type frame struct {
	head  bool
	audio []byte
}

type reply struct {
	text  string
	final bool
}

// fakeTransport answers each frame through respond and emits onClose once the
// client half-closes.
type fakeTransport struct {
	mu      sync.Mutex
	frames  []frame
	closed  bool
	out     chan reply
	respond func(frame) []reply
	onClose []reply
	recvErr error
}

func newFake(respond func(frame) []reply, onClose ...reply) *fakeTransport {
	return &fakeTransport{out: make(chan reply, 256), respond: respond, onClose: onClose}
}

func (f *fakeTransport) Send(fr frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errors.New("send after CloseSend")
	}
	f.frames = append(f.frames, fr)
	if f.respond != nil {
		for _, r := range f.respond(fr) {
			f.out <- r
		}
	}
	return nil
}

func (f *fakeTransport) Recv() (reply, error) {
	r, ok := <-f.out
	if !ok {
		if f.recvErr != nil {
			return reply{}, f.recvErr
		}
		return reply{}, io.EOF
	}
	return r, nil
}

func (f *fakeTransport) CloseSend() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	for _, r := range f.onClose {
		f.out <- r
	}
	close(f.out)
	return nil
}

func (f *fakeTransport) sent() []frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]frame(nil), f.frames...)
}

func exchangeFor(t Transport[frame, reply], m *metrics.Metrics) Exchange[frame, reply] {
	return Exchange[frame, reply]{
		Open:    func(context.Context) (Transport[frame, reply], error) { return t, nil },
		Head:    frame{head: true},
		Audio:   func(c []byte) frame { return frame{audio: c} },
		Metrics: m,
	}
}

func partialPerFrame(fr frame) []reply {
	if fr.head {
		return nil
	}
	return []reply{{text: "p"}}
}

func finalText(r reply) (string, bool) {
	return r.text, r.final
}

func TestDrain_FrameCount(t *testing.T) {
	const n = 8
	tests := []struct {
		name       string
		length     int
		wantFrames int
	}{
		{"empty", 0, 0},
		{"single byte", 1, 1},
		{"exact chunk", 8, 1},
		{"one over", 9, 2},
		{"three chunks", 24, 3},
		{"short tail", 25, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := newFake(partialPerFrame, reply{text: "hello ", final: true}, reply{text: "world", final: true})
			calls := 0

			text, err := Drain(context.Background(), exchangeFor(ft, metrics.NewMetrics(nil)),
				NewSource(bytes.NewReader(make([]byte, tt.length)), n),
				finalText,
				func(reply) error { calls++; return nil })
			if err != nil {
				t.Fatalf("Drain: %v", err)
			}
			if text != "hello world" {
				t.Errorf("expected finals joined in order, got %q", text)
			}

			frames := ft.sent()
			if len(frames) == 0 || !frames[0].head {
				t.Fatalf("expected head frame first, got %+v", frames)
			}
			audio := frames[1:]
			if len(audio) != tt.wantFrames {
				t.Fatalf("expected %d audio frames, got %d", tt.wantFrames, len(audio))
			}
			total := 0
			for i, fr := range audio {
				if i < len(audio)-1 && len(fr.audio) != n {
					t.Errorf("frame %d: expected %d bytes, got %d", i, n, len(fr.audio))
				}
				total += len(fr.audio)
			}
			if total != tt.length {
				t.Errorf("expected %d bytes sent, got %d", tt.length, total)
			}
			if calls != tt.wantFrames+2 {
				t.Errorf("expected handler once per message (%d), got %d", tt.wantFrames+2, calls)
			}
		})
	}
}

func TestFirstFinal_HandlerSeesEveryMessage(t *testing.T) {
	audioFrames := 0
	ft := newFake(func(fr frame) []reply {
		if fr.head {
			return nil
		}
		audioFrames++
		if audioFrames == 3 {
			return []reply{{text: "turn on the light", final: true}, {text: "ignored", final: true}}
		}
		return []reply{{text: "turn"}}
	})

	var seen []reply
	got, err := FirstFinal(context.Background(), exchangeFor(ft, metrics.NewMetrics(nil)),
		NewSource(bytes.NewReader(make([]byte, 80)), 8),
		func(r reply) bool { return r.final },
		func(r reply) error { seen = append(seen, r); return nil })
	if err != nil {
		t.Fatalf("FirstFinal: %v", err)
	}
	if got.text != "turn on the light" {
		t.Errorf("expected first final, got %+v", got)
	}
	if len(seen) != 3 {
		t.Fatalf("expected k+1 = 3 handler calls, got %d: %+v", len(seen), seen)
	}
	if !seen[2].final {
		t.Error("expected the handler to see the final message last")
	}
}

func TestFirstFinal_NoFinal(t *testing.T) {
	ft := newFake(partialPerFrame)

	_, err := FirstFinal(context.Background(), exchangeFor(ft, metrics.NewMetrics(nil)),
		NewSource(bytes.NewReader(make([]byte, 16)), 8),
		func(r reply) bool { return r.final }, nil)
	if !errors.Is(err, ErrNoFinal) {
		t.Errorf("expected ErrNoFinal, got %v", err)
	}
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestDrain_SourceErrorAborts(t *testing.T) {
	ft := newFake(partialPerFrame, reply{text: "ack", final: true})
	src := io.MultiReader(bytes.NewReader(make([]byte, 8)), failingReader{errors.New("boom")})

	text, err := Drain(context.Background(), exchangeFor(ft, metrics.NewMetrics(nil)),
		NewSource(src, 8), finalText, nil)

	if !errors.Is(err, ErrStreamAborted) {
		t.Fatalf("expected ErrStreamAborted, got %v", err)
	}
	if err.Error() != "stream aborted: boom" {
		t.Errorf("unexpected message %q", err.Error())
	}
	// responses to frames sent before the failure are still consumed
	if text != "ack" {
		t.Errorf("expected server reply after abort, got %q", text)
	}
	if n := len(ft.sent()); n != 2 {
		t.Errorf("expected head plus one frame, got %d", n)
	}
}

func TestDrain_TransportErrorUnchanged(t *testing.T) {
	errUnavailable := errors.New("unavailable")
	ft := newFake(nil)
	ft.recvErr = errUnavailable

	_, err := Drain(context.Background(), exchangeFor(ft, metrics.NewMetrics(nil)),
		NewSource(bytes.NewReader(nil), 8), finalText, nil)
	if err != errUnavailable {
		t.Errorf("expected transport error unchanged, got %v", err)
	}
}

func TestOpenError(t *testing.T) {
	errOpen := errors.New("connection refused")
	ex := Exchange[frame, reply]{
		Open: func(context.Context) (Transport[frame, reply], error) { return nil, errOpen },
	}
	if _, err := Drain(context.Background(), ex, NewSource(bytes.NewReader(nil), 8), finalText, nil); err != errOpen {
		t.Errorf("expected open error, got %v", err)
	}
}

func TestDrain_HandlerErrorStops(t *testing.T) {
	errStop := errors.New("stop")
	ft := newFake(partialPerFrame)

	_, err := Drain(context.Background(), exchangeFor(ft, metrics.NewMetrics(nil)),
		NewSource(bytes.NewReader(make([]byte, 64)), 8), finalText,
		func(reply) error { return errStop })
	if err != errStop {
		t.Errorf("expected handler error, got %v", err)
	}
}

// gatedReader yields one chunk per Read, waiting on gates[i] first when set.
type gatedReader struct {
	chunks [][]byte
	gates  []func()
	i      int
}

func (g *gatedReader) Read(p []byte) (int, error) {
	if g.i >= len(g.chunks) {
		return 0, io.EOF
	}
	if g.i < len(g.gates) && g.gates[g.i] != nil {
		g.gates[g.i]()
	}
	n := copy(p, g.chunks[g.i])
	g.i++
	return n, nil
}

func TestLookaheadHandoff(t *testing.T) {
	first := bytes.Repeat([]byte{1}, 8)
	leftover := bytes.Repeat([]byte{2}, 8)

	var wakeCtx context.Context
	wake := newFake(func(fr frame) []reply {
		if bytes.Equal(fr.audio, first) {
			return []reply{{text: "hey cobalt", final: true}}
		}
		return nil
	})
	wakeEx := exchangeFor(wake, metrics.NewMetrics(nil))
	wakeEx.Open = func(ctx context.Context) (Transport[frame, reply], error) {
		wakeCtx = ctx
		return wake, nil
	}

	// the second chunk is only produced once the wake-word stream is over
	r := &gatedReader{
		chunks: [][]byte{first, leftover},
		gates:  []func(){nil, func() { <-wakeCtx.Done() }},
	}
	src := NewSource(r, 8)

	if _, err := FirstFinal(context.Background(), wakeEx, src, func(r reply) bool { return r.final }, nil); err != nil {
		t.Fatalf("wake-word stream: %v", err)
	}
	lookahead := src.Last()
	if !bytes.Equal(lookahead, leftover) {
		t.Fatalf("expected leftover chunk as lookahead, got %v", lookahead)
	}
	for _, fr := range wake.sent() {
		if bytes.Equal(fr.audio, leftover) {
			t.Fatal("lookahead chunk must not be sent on the wake-word stream")
		}
	}

	primary := newFake(partialPerFrame, reply{text: "done", final: true})
	next := NewSource(r, 8).Replay(lookahead)
	if _, err := Drain(context.Background(), exchangeFor(primary, metrics.NewMetrics(nil)), next, finalText, nil); err != nil {
		t.Fatalf("main stream: %v", err)
	}
	frames := primary.sent()
	if len(frames) < 2 || !bytes.Equal(frames[1].audio, leftover) {
		t.Errorf("expected first audio frame to be the lookahead, got %+v", frames)
	}
}

func TestDrain_ReceivesWhileSending(t *testing.T) {
	fired := make(chan struct{})
	var once sync.Once

	r := &gatedReader{
		chunks: [][]byte{bytes.Repeat([]byte{1}, 8), bytes.Repeat([]byte{2}, 8)},
		gates:  []func(){nil, func() { <-fired }},
	}
	ft := newFake(partialPerFrame, reply{text: "final", final: true})
	m := metrics.NewMetrics(nil)

	done := make(chan error, 1)
	go func() {
		_, err := Drain(context.Background(), exchangeFor(ft, m), NewSource(r, 8), finalText,
			func(rep reply) error {
				if !rep.final {
					once.Do(func() { close(fired) })
				}
				return nil
			})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Drain: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("partial result was not delivered before the source finished")
	}

	if n := len(ft.sent()); n != 3 {
		t.Errorf("expected head plus two frames, got %d", n)
	}
	var pb dto.Metric
	if err := m.AudioFramesSent.Write(&pb); err != nil {
		t.Fatal(err)
	}
	if got := pb.GetCounter().GetValue(); got != 2 {
		t.Errorf("expected 2 frames counted, got %v", got)
	}
}

func TestSource(t *testing.T) {
	src := NewSource(bytes.NewReader([]byte("abcdefg")), 3).Replay([]byte("xy"))

	var got []string
	for {
		c, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, string(c))
	}

	want := []string{"xy", "abc", "def", "g"}
	if len(got) != len(want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if string(src.Last()) != "g" {
		t.Errorf("expected last chunk 'g', got %q", src.Last())
	}
	if NewSource(nil, 0).size != DefaultChunkSize {
		t.Error("expected default chunk size")
	}
}
