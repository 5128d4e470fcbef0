package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, v := range []string{
		"SERVICE_PRINCIPAL", "GRPC_PORT", "LOG_LEVEL",
		"DIATHEKE_ADDRESS", "DIATHEKE_INSECURE", "DIATHEKE_TEXT_MODEL_ID",
		"CUBIC_ADDRESS", "CUBIC_INSECURE", "CUBIC_MODEL_ID",
		"LUNA_VOICE_ID", "AUDIO_CHUNK_SIZE",
		"STT_PROVIDER", "STT_SAMPLE_RATE_HZ", "STT_INTERIM_RESULTS",
		"SEGMENT_MAX_AUDIO_BYTES", "SEGMENT_MAX_DURATION", "SEGMENT_MAX_PARTIALS",
		"WEBRTC_URL", "WEBRTC_MODEL_ID",
	} {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}

	cfg := Load()

	if cfg.Service.Principal != "svc-speech-demo" {
		t.Errorf("expected default principal 'svc-speech-demo', got %s", cfg.Service.Principal)
	}
	if cfg.Service.GRPCPort != "9002" {
		t.Errorf("expected default port '9002', got %s", cfg.Service.GRPCPort)
	}

	// Diatheke talks to a local server in the clear
	if cfg.Diatheke.Server.Address != "localhost:9002" {
		t.Errorf("expected diatheke address 'localhost:9002', got %s", cfg.Diatheke.Server.Address)
	}
	if !cfg.Diatheke.Server.Insecure {
		t.Error("expected diatheke to default to insecure")
	}
	if cfg.Diatheke.TextModelID != "demo" {
		t.Errorf("expected text model 'demo', got %s", cfg.Diatheke.TextModelID)
	}

	if cfg.Cubic.Server.Address != "demo.cobaltspeech.com:2727" {
		t.Errorf("expected cubic demo address, got %s", cfg.Cubic.Server.Address)
	}
	if cfg.Cubic.Server.Insecure {
		t.Error("expected cubic to default to TLS")
	}
	if cfg.Cubic.ModelID != "en-us-16-far" {
		t.Errorf("expected cubic model 'en-us-16-far', got %s", cfg.Cubic.ModelID)
	}
	if cfg.Luna.VoiceID != "en_US_25" {
		t.Errorf("expected voice 'en_US_25', got %s", cfg.Luna.VoiceID)
	}
	if cfg.Audio.ChunkSize != 8192 {
		t.Errorf("expected chunk size 8192, got %d", cfg.Audio.ChunkSize)
	}
	if cfg.WebRTC.URL != "http://localhost:8000/webrtc" {
		t.Errorf("expected webrtc url default, got %s", cfg.WebRTC.URL)
	}
	if cfg.WebRTC.ModelID != "en_US-16-FF" {
		t.Errorf("expected webrtc model 'en_US-16-FF', got %s", cfg.WebRTC.ModelID)
	}

	if cfg.STT.Provider != "cubic" {
		t.Errorf("expected default STT provider 'cubic', got %s", cfg.STT.Provider)
	}
	if cfg.STT.SampleRateHz != 16000 {
		t.Errorf("expected default sample rate 16000, got %d", cfg.STT.SampleRateHz)
	}
	if !cfg.STT.InterimResults {
		t.Errorf("expected default interim results true, got %v", cfg.STT.InterimResults)
	}

	if cfg.SegmentLimits.MaxAudioBytes != 5*1024*1024 {
		t.Errorf("expected default max audio bytes 5MB, got %d", cfg.SegmentLimits.MaxAudioBytes)
	}
	if cfg.SegmentLimits.MaxDuration != 5*time.Minute {
		t.Errorf("expected default max duration 5m, got %v", cfg.SegmentLimits.MaxDuration)
	}
	if cfg.SegmentLimits.MaxPartials != 500 {
		t.Errorf("expected default max partials 500, got %d", cfg.SegmentLimits.MaxPartials)
	}

	if cfg.Observability.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("SERVICE_PRINCIPAL", "custom-principal")
	t.Setenv("GRPC_PORT", "9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DIATHEKE_ADDRESS", "diatheke.internal:443")
	t.Setenv("DIATHEKE_INSECURE", "false")
	t.Setenv("CUBIC_CLIENT_CERT", "client.pem")
	t.Setenv("CUBIC_CLIENT_KEY", "client.key")
	t.Setenv("STT_PROVIDER", "google")
	t.Setenv("STT_SAMPLE_RATE_HZ", "8000")
	t.Setenv("STT_INTERIM_RESULTS", "false")
	t.Setenv("SEGMENT_MAX_DURATION", "10m")
	t.Setenv("SEGMENT_MAX_PARTIALS", "1000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg := Load()

	if cfg.Service.Principal != "custom-principal" {
		t.Errorf("expected principal 'custom-principal', got %s", cfg.Service.Principal)
	}
	if cfg.Service.GRPCPort != "9999" {
		t.Errorf("expected port '9999', got %s", cfg.Service.GRPCPort)
	}
	if cfg.Diatheke.Server.Address != "diatheke.internal:443" {
		t.Errorf("expected diatheke address override, got %s", cfg.Diatheke.Server.Address)
	}
	if cfg.Diatheke.Server.Insecure {
		t.Error("expected diatheke insecure override to false")
	}
	if cfg.Cubic.Server.ClientCertFile != "client.pem" || cfg.Cubic.Server.ClientKeyFile != "client.key" {
		t.Errorf("unexpected cubic cert pair: %+v", cfg.Cubic.Server)
	}
	if cfg.STT.Provider != "google" {
		t.Errorf("expected STT provider 'google', got %s", cfg.STT.Provider)
	}
	if cfg.STT.SampleRateHz != 8000 {
		t.Errorf("expected sample rate 8000, got %d", cfg.STT.SampleRateHz)
	}
	if cfg.STT.InterimResults {
		t.Errorf("expected interim results false, got %v", cfg.STT.InterimResults)
	}
	if cfg.SegmentLimits.MaxDuration != 10*time.Minute {
		t.Errorf("expected max duration 10m, got %v", cfg.SegmentLimits.MaxDuration)
	}
	if cfg.SegmentLimits.MaxPartials != 1000 {
		t.Errorf("expected max partials 1000, got %d", cfg.SegmentLimits.MaxPartials)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("expected two trimmed brokers, got %q", cfg.Kafka.Brokers)
	}
	if cfg.Observability.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_InvalidValues_FallbackToDefaults(t *testing.T) {
	t.Setenv("STT_SAMPLE_RATE_HZ", "not-a-number")
	t.Setenv("STT_INTERIM_RESULTS", "invalid")
	t.Setenv("AUDIO_CHUNK_SIZE", "big")
	t.Setenv("SEGMENT_MAX_AUDIO_BYTES", "invalid")
	t.Setenv("SEGMENT_MAX_DURATION", "invalid")
	t.Setenv("SEGMENT_MAX_PARTIALS", "invalid")

	cfg := Load()

	if cfg.STT.SampleRateHz != 16000 {
		t.Errorf("expected default sample rate on invalid input, got %d", cfg.STT.SampleRateHz)
	}
	if !cfg.STT.InterimResults {
		t.Errorf("expected default interim results on invalid input, got %v", cfg.STT.InterimResults)
	}
	if cfg.Audio.ChunkSize != 8192 {
		t.Errorf("expected default chunk size on invalid input, got %d", cfg.Audio.ChunkSize)
	}
	if cfg.SegmentLimits.MaxAudioBytes != 5*1024*1024 {
		t.Errorf("expected default max audio bytes on invalid input, got %d", cfg.SegmentLimits.MaxAudioBytes)
	}
	if cfg.SegmentLimits.MaxDuration != 5*time.Minute {
		t.Errorf("expected default max duration on invalid input, got %v", cfg.SegmentLimits.MaxDuration)
	}
	if cfg.SegmentLimits.MaxPartials != 500 {
		t.Errorf("expected default max partials on invalid input, got %d", cfg.SegmentLimits.MaxPartials)
	}
}

func TestLoad_KafkaPrincipal_FallsBackToServicePrincipal(t *testing.T) {
	t.Setenv("SERVICE_PRINCIPAL", "my-service")
	t.Setenv("KAFKA_PRINCIPAL", "")

	cfg := Load()

	if cfg.Kafka.Principal != "my-service" {
		t.Errorf("expected Kafka principal to fall back to service principal, got %s", cfg.Kafka.Principal)
	}
}

func TestLoadFile_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	profile := `
diatheke:
  server:
    address: prod.example.com:443
    insecure: false
  wakeword: hey cobalt
audio:
  chunkSize: 4096
`
	if err := os.WriteFile(path, []byte(profile), 0o600); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	t.Setenv("DIATHEKE_TEXT_MODEL_ID", "")
	cfg := Load()
	if err := LoadFile(cfg, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Diatheke.Server.Address != "prod.example.com:443" {
		t.Errorf("expected overlaid address, got %s", cfg.Diatheke.Server.Address)
	}
	if cfg.Diatheke.Server.Insecure {
		t.Error("expected overlaid insecure=false")
	}
	if cfg.Diatheke.Wakeword != "hey cobalt" {
		t.Errorf("expected wakeword 'hey cobalt', got %q", cfg.Diatheke.Wakeword)
	}
	if cfg.Audio.ChunkSize != 4096 {
		t.Errorf("expected chunk size 4096, got %d", cfg.Audio.ChunkSize)
	}
	// untouched keys keep their env/default values
	if cfg.Diatheke.TextModelID != "demo" {
		t.Errorf("expected text model to keep default, got %s", cfg.Diatheke.TextModelID)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	cfg := Load()
	if err := LoadFile(cfg, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("audio: [unterminated"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := LoadFile(cfg, path); err == nil {
		t.Error("expected parse error")
	}
}

func TestServerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServerConfig
		wantErr bool
	}{
		{"no client auth", ServerConfig{Address: "a:1"}, false},
		{"full pair", ServerConfig{Address: "a:1", ClientCertFile: "c", ClientKeyFile: "k"}, false},
		{"cert only", ServerConfig{Address: "a:1", ClientCertFile: "c"}, true},
		{"key only", ServerConfig{Address: "a:1", ClientKeyFile: "k"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && !errors.Is(err, ErrIncompletePair) {
				t.Errorf("expected ErrIncompletePair, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestEnvOrDefaultBool(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		def      bool
		expected bool
	}{
		{"true string", "true", false, true},
		{"false string", "false", true, false},
		{"1", "1", false, true},
		{"0", "0", true, false},
		{"TRUE uppercase", "TRUE", false, true},
		{"invalid", "invalid", true, true},
		{"empty", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_BOOL_VAR"
			t.Setenv(key, tt.envValue)

			got := envOrDefaultBool(key, tt.def)
			if got != tt.expected {
				t.Errorf("envOrDefaultBool(%s, %v) = %v, want %v", tt.envValue, tt.def, got, tt.expected)
			}
		})
	}
}
