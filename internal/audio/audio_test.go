package audio

import (
	"bytes"
	"errors"
	"io"
	"os/exec"
	"testing"
	"time"
)

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestRecorder_NotRunning(t *testing.T) {
	r := NewRecorder("sox -d -t raw -")

	if _, err := r.Read(make([]byte, 4)); !errors.Is(err, ErrNotRunning) {
		t.Errorf("expected ErrNotRunning before Start, got %v", err)
	}
	if err := r.Stop(); err != nil {
		t.Errorf("Stop on a never-started recorder: %v", err)
	}
	if err := r.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}

func TestPlayer_NotRunning(t *testing.T) {
	p := NewPlayer("sox -t raw - -d")

	if _, err := p.Write([]byte{1, 2}); !errors.Is(err, ErrNotRunning) {
		t.Errorf("expected ErrNotRunning before Start, got %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Errorf("Stop on a never-started player: %v", err)
	}
}

func TestEmptyCommand(t *testing.T) {
	if err := NewRecorder("   ").Start(); !errors.Is(err, ErrNoCommand) {
		t.Errorf("expected ErrNoCommand, got %v", err)
	}
	if err := NewPlayer("").Start(); !errors.Is(err, ErrNoCommand) {
		t.Errorf("expected ErrNoCommand, got %v", err)
	}
}

func TestRecorder_SpawnErrorPropagates(t *testing.T) {
	r := NewRecorder("/nonexistent/recorder-binary -q")
	if err := r.Start(); err == nil {
		t.Fatal("expected spawn error")
	}
	if _, err := r.Read(make([]byte, 1)); !errors.Is(err, ErrNotRunning) {
		t.Errorf("expected ErrNotRunning after failed start, got %v", err)
	}
}

func TestRecorder_ReadsCommandOutput(t *testing.T) {
	requireBinary(t, "echo")

	r := NewRecorder("echo hello   world")
	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// second start is a no-op
	if err := r.Start(); err != nil {
		t.Fatalf("second Start: %v", err)
	}

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "hello world\n" {
		t.Errorf("expected whitespace-split argv, got %q", got)
	}

	if err := r.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if err := r.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
	if _, err := r.Read(make([]byte, 1)); !errors.Is(err, ErrNotRunning) {
		t.Errorf("expected ErrNotRunning after Stop, got %v", err)
	}
}

func TestRecorder_StopTerminatesLongRunning(t *testing.T) {
	requireBinary(t, "sleep")
	r := NewRecorder("sleep 30")
	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- r.Stop() }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Stop: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not terminate the recorder")
	}
}

func TestPlayer_DrainsOnStop(t *testing.T) {
	requireBinary(t, "cat")

	var out bytes.Buffer
	p := NewPlayer("cat")
	p.Stdout = &out
	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for _, chunk := range []string{"abc", "def"} {
		if _, err := p.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if out.String() != "abcdef" {
		t.Errorf("expected all written audio to be played, got %q", out.String())
	}
	if err := p.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}

func TestReadWAV(t *testing.T) {
	pcm := []byte{0x01, 0x00, 0xff, 0xff, 0x00, 0x80}

	var buf bytes.Buffer
	if err := WriteWAV(&buf, 16000, 1, pcm); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}
	// append trailing garbage that must not leak into the data reader
	buf.WriteString("LIST")

	info, data, err := ReadWAV(&buf)
	if err != nil {
		t.Fatalf("ReadWAV: %v", err)
	}
	if info.SampleRate != 16000 || info.Channels != 1 || !info.IsPCM16() {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.DataSize != uint32(len(pcm)) {
		t.Errorf("expected data size %d, got %d", len(pcm), info.DataSize)
	}

	got, err := io.ReadAll(data)
	if err != nil {
		t.Fatalf("read data: %v", err)
	}
	if !bytes.Equal(got, pcm) {
		t.Errorf("expected %v, got %v", pcm, got)
	}

	samples := PCM16(got)
	want := []int16{1, -1, -32768}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("sample %d: expected %d, got %d", i, want[i], samples[i])
		}
	}
}

func TestReadWAV_SkipsUnknownChunks(t *testing.T) {
	var wav bytes.Buffer
	if err := WriteWAV(&wav, 8000, 1, []byte{1, 2}); err != nil {
		t.Fatal(err)
	}
	raw := wav.Bytes()

	// splice an odd-sized LIST chunk (with pad byte) between fmt and data
	var buf bytes.Buffer
	buf.Write(raw[:36])
	buf.Write([]byte{'L', 'I', 'S', 'T', 3, 0, 0, 0, 'a', 'b', 'c', 0})
	buf.Write(raw[36:])

	info, data, err := ReadWAV(&buf)
	if err != nil {
		t.Fatalf("ReadWAV: %v", err)
	}
	if info.SampleRate != 8000 {
		t.Errorf("expected 8000 Hz, got %d", info.SampleRate)
	}
	got, _ := io.ReadAll(data)
	if !bytes.Equal(got, []byte{1, 2}) {
		t.Errorf("unexpected data %v", got)
	}
}

func TestReadWAV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  error
	}{
		{"not riff", []byte("RIFX\x00\x00\x00\x00WAVE"), ErrNotWAV},
		{"data before fmt", append([]byte("RIFF\x00\x00\x00\x00WAVE"), []byte("data\x00\x00\x00\x00")...), ErrNoFormat},
		{"truncated", []byte("RIFF"), io.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadWAV(bytes.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestWAVInfo_Duration(t *testing.T) {
	info := WAVInfo{Format: 1, Channels: 1, SampleRate: 16000, BitsPerSample: 16, DataSize: 32000}
	if d := info.Duration(); d != time.Second {
		t.Errorf("expected 1s, got %v", d)
	}
}
