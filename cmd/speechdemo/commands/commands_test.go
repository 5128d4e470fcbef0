package commands

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc"

	grpcapi "speech-demo-clients/internal/api/grpc"
	"speech-demo-clients/internal/audio"
	"speech-demo-clients/internal/service/stt/mock"
)

// startServer serves the mock speech services on a loopback port.
func startServer(t *testing.T) (string, *grpcapi.Servers) {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := grpc.NewServer()
	servers := grpcapi.Register(srv, mock.NewScript())
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)
	return lis.Addr().String(), servers
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	err := rootCmd.ExecuteContext(ctx)
	return out.String(), err
}

func contains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("expected output to contain %q, got:\n%s", w, out)
		}
	}
}

func TestDiathekeText(t *testing.T) {
	addr, servers := startServer(t)

	out, err := run(t, "what is the weather\nbye\n", "--server", addr, "--insecure", "diatheke", "text", "--model", "demo")
	if err != nil {
		t.Fatalf("diatheke text: %v", err)
	}
	contains(t, out,
		"id: demo",
		"Reply: Welcome to the Text demo.",
		"Reply: It will be sunny tomorrow.",
		"Reply: Goodbye!",
	)
	if servers.Diatheke.Sessions() != 0 {
		t.Errorf("expected the session to be deleted, %d left", servers.Diatheke.Sessions())
	}
}

func TestDiathekeText_UnknownModel(t *testing.T) {
	addr, _ := startServer(t)

	if _, err := run(t, "", "--server", addr, "--insecure", "diatheke", "text", "--model", "nope"); err == nil {
		t.Fatal("expected an error for an unknown model")
	}
}

func TestCubicBatch(t *testing.T) {
	addr, _ := startServer(t)

	path := filepath.Join(t.TempDir(), "sample.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := audio.WriteWAV(f, 16000, 1, make([]byte, 4*8192)); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	f.Close()

	out, err := run(t, "", "--server", addr, "--insecure", "cubic", "batch", "--file", path, "--model", "en-us-16-far")
	if err != nil {
		t.Fatalf("cubic batch: %v", err)
	}
	contains(t, out, "Running batch ASR on", "Transcript: turn on the living room light")
}

func TestCubicStream_Mock(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "speech.raw")
	if err := os.WriteFile(raw, make([]byte, 4*8192), 0o644); err != nil {
		t.Fatal(err)
	}
	events := filepath.Join(dir, "events.jsonl")

	out, err := run(t, "", "cubic", "stream", "--provider", "mock", "--file", raw, "--events-file", events)
	if err != nil {
		t.Fatalf("cubic stream: %v", err)
	}
	contains(t, out, "turn on the living room light\n")

	data, err := os.ReadFile(events)
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	contains(t, string(data), `"speech.transcript.partial"`, `"speech.transcript.final"`, `"provider":"mock"`)
}

func TestCubicStream_UnknownProvider(t *testing.T) {
	_, err := run(t, "", "cubic", "stream", "--provider", "nope", "--file", "unused.raw")
	if err == nil || !strings.Contains(err.Error(), "unknown provider") {
		t.Errorf("expected unknown provider error, got %v", err)
	}
}

func TestLuna(t *testing.T) {
	addr, _ := startServer(t)
	t.Setenv("LUNA_PLAY_CMD", "cat")
	output := filepath.Join(t.TempDir(), "out.raw")

	out, err := run(t, "hello\n\n", "--server", addr, "--insecure", "luna", "--output", output)
	if err != nil {
		t.Fatalf("luna: %v", err)
	}
	contains(t, out, "luna: mock-", "Creating TTS stream using voice 'en_US_25'", "time to first samples")

	info, err := os.Stat(output)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected synthesized audio in the output file")
	}
}

func TestInvalidTLSPair(t *testing.T) {
	t.Cleanup(func() {
		_ = rootCmd.PersistentFlags().Set("client-cert", "")
		_ = rootCmd.PersistentFlags().Set("client-key", "")
	})

	_, err := run(t, "", "--client-cert", "cert.pem", "--client-key", "", "webrtc")
	if err == nil {
		t.Fatal("expected a certificate without key to be rejected")
	}
}
