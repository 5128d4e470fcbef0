// Package config loads client and mock server settings from the environment,
// an optional .env file and an optional YAML profile.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrIncompletePair is returned when only one half of a client certificate
// and key pair is configured.
var ErrIncompletePair = errors.New("client certificate and key must be provided together")

// Config is the full configuration for the demo binaries.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	Diatheke      DiathekeConfig      `yaml:"diatheke"`
	Cubic         CubicConfig         `yaml:"cubic"`
	Luna          LunaConfig          `yaml:"luna"`
	Audio         AudioConfig         `yaml:"audio"`
	WebRTC        WebRTCConfig        `yaml:"webrtc"`
	STT           STTConfig           `yaml:"stt"`
	SegmentLimits SegmentLimitsConfig `yaml:"segmentLimits"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServiceConfig holds the mock server settings.
type ServiceConfig struct {
	Principal string `yaml:"principal"`
	GRPCPort  string `yaml:"grpcPort"`
	HTTPPort  string `yaml:"httpPort"`
}

// ServerConfig describes how to reach one speech server.
type ServerConfig struct {
	Address        string `yaml:"address"`
	Insecure       bool   `yaml:"insecure"`
	ServerCertFile string `yaml:"serverCertFile"`
	ClientCertFile string `yaml:"clientCertFile"`
	ClientKeyFile  string `yaml:"clientKeyFile"`
}

// Validate checks the TLS settings.
func (s ServerConfig) Validate() error {
	if (s.ClientCertFile == "") != (s.ClientKeyFile == "") {
		return fmt.Errorf("server %s: %w", s.Address, ErrIncompletePair)
	}
	return nil
}

type DiathekeConfig struct {
	Server          ServerConfig `yaml:"server"`
	TextModelID     string       `yaml:"textModelId"`
	AudioModelID    string       `yaml:"audioModelId"`
	WakewordModelID string       `yaml:"wakewordModelId"`
	Wakeword        string       `yaml:"wakeword"`
}

type CubicConfig struct {
	Server    ServerConfig `yaml:"server"`
	ModelID   string       `yaml:"modelId"`
	BatchFile string       `yaml:"batchFile"`
}

type LunaConfig struct {
	Server     ServerConfig `yaml:"server"`
	VoiceID    string       `yaml:"voiceId"`
	PlayCmd    string       `yaml:"playCmd"`
	OutputFile string       `yaml:"outputFile"`
}

// AudioConfig holds the external recorder and player commands.
type AudioConfig struct {
	RecordCmd string `yaml:"recordCmd"`
	PlayCmd   string `yaml:"playCmd"`
	ChunkSize int    `yaml:"chunkSize"`
}

type WebRTCConfig struct {
	URL                    string `yaml:"url"`
	ModelID                string `yaml:"modelId"`
	SamplesDir             string `yaml:"samplesDir"`
	ResultFile             string `yaml:"resultFile"`
	EnableWordTimeOffsets  bool   `yaml:"enableWordTimeOffsets"`
	EnableWordConfidence   bool   `yaml:"enableWordConfidence"`
	EnableRawTranscript    bool   `yaml:"enableRawTranscript"`
	EnableConfusionNetwork bool   `yaml:"enableConfusionNetwork"`
}

// STTConfig selects the streaming transcription provider.
type STTConfig struct {
	Provider        string `yaml:"provider"` // cubic, google, mock
	LanguageCode    string `yaml:"languageCode"`
	SampleRateHz    int    `yaml:"sampleRateHz"`
	InterimResults  bool   `yaml:"interimResults"`
	AudioEncoding   string `yaml:"audioEncoding"`
	CredentialsFile string `yaml:"credentialsFile"`
}

type SegmentLimitsConfig struct {
	MaxAudioBytes int64         `yaml:"maxAudioBytes"`
	MaxDuration   time.Duration `yaml:"maxDuration"`
	MaxPartials   int           `yaml:"maxPartials"`
}

type KafkaConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Brokers      []string `yaml:"brokers"`
	TopicPartial string   `yaml:"topicPartial"`
	TopicFinal   string   `yaml:"topicFinal"`
	Principal    string   `yaml:"principal"`
}

type ObservabilityConfig struct {
	LogLevel    string `yaml:"logLevel"`
	LogFormat   string `yaml:"logFormat"`
	MetricsAddr string `yaml:"metricsAddr"`
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-speech-demo")

	return &Config{
		Service: ServiceConfig{
			Principal: principal,
			GRPCPort:  envOrDefault("GRPC_PORT", "9002"),
			HTTPPort:  envOrDefault("HTTP_PORT", "8000"),
		},
		Diatheke: DiathekeConfig{
			Server:          serverFromEnv("DIATHEKE", "localhost:9002", true),
			TextModelID:     envOrDefault("DIATHEKE_TEXT_MODEL_ID", "demo"),
			AudioModelID:    envOrDefault("DIATHEKE_AUDIO_MODEL_ID", "1"),
			WakewordModelID: envOrDefault("DIATHEKE_WAKEWORD_MODEL_ID", "en_US-wakeword"),
			Wakeword:        envOrDefault("DIATHEKE_WAKEWORD", ""),
		},
		Cubic: CubicConfig{
			Server:    serverFromEnv("CUBIC", "demo.cobaltspeech.com:2727", false),
			ModelID:   envOrDefault("CUBIC_MODEL_ID", "en-us-16-far"),
			BatchFile: envOrDefault("CUBIC_BATCH_FILE", "./sample.wav"),
		},
		Luna: LunaConfig{
			Server:     serverFromEnv("LUNA", "demo.cobaltspeech.com:2727", false),
			VoiceID:    envOrDefault("LUNA_VOICE_ID", "en_US_25"),
			PlayCmd:    envOrDefault("LUNA_PLAY_CMD", "sox -q -c 1 -r 25600 -b 16 -L -e signed -t raw - -d"),
			OutputFile: envOrDefault("LUNA_OUTPUT_FILE", "junk.raw"),
		},
		Audio: AudioConfig{
			RecordCmd: envOrDefault("AUDIO_RECORD_CMD", "sox -q -d -c 1 -r 16000 -b 16 -L -e signed -t raw -"),
			PlayCmd:   envOrDefault("AUDIO_PLAY_CMD", "sox -q -c 1 -r 22050 -b 16 -L -e signed -t raw - -d"),
			ChunkSize: envOrDefaultInt("AUDIO_CHUNK_SIZE", 8192),
		},
		WebRTC: WebRTCConfig{
			URL:                    envOrDefault("WEBRTC_URL", "http://localhost:8000/webrtc"),
			ModelID:                envOrDefault("WEBRTC_MODEL_ID", "en_US-16-FF"),
			SamplesDir:             envOrDefault("WEBRTC_SAMPLES_DIR", "samples"),
			ResultFile:             envOrDefault("WEBRTC_RESULT_FILE", "webrtc_result.txt"),
			EnableWordTimeOffsets:  envOrDefaultBool("WEBRTC_WORD_TIME_OFFSETS", true),
			EnableWordConfidence:   envOrDefaultBool("WEBRTC_WORD_CONFIDENCE", true),
			EnableRawTranscript:    envOrDefaultBool("WEBRTC_RAW_TRANSCRIPT", false),
			EnableConfusionNetwork: envOrDefaultBool("WEBRTC_CONFUSION_NETWORK", false),
		},
		STT: STTConfig{
			Provider:        envOrDefault("STT_PROVIDER", "cubic"),
			LanguageCode:    envOrDefault("STT_LANGUAGE_CODE", "en-US"),
			SampleRateHz:    envOrDefaultInt("STT_SAMPLE_RATE_HZ", 16000),
			InterimResults:  envOrDefaultBool("STT_INTERIM_RESULTS", true),
			AudioEncoding:   envOrDefault("STT_AUDIO_ENCODING", "LINEAR16"),
			CredentialsFile: envOrDefault("GOOGLE_APPLICATION_CREDENTIALS", ""),
		},
		SegmentLimits: SegmentLimitsConfig{
			MaxAudioBytes: int64(envOrDefaultInt("SEGMENT_MAX_AUDIO_BYTES", 5*1024*1024)),
			MaxDuration:   envOrDefaultDuration("SEGMENT_MAX_DURATION", 5*time.Minute),
			MaxPartials:   envOrDefaultInt("SEGMENT_MAX_PARTIALS", 500),
		},
		Kafka: KafkaConfig{
			Enabled:      envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:      splitList(os.Getenv("KAFKA_BROKERS")),
			TopicPartial: envOrDefault("KAFKA_TOPIC_PARTIAL", "speech.transcript.partial"),
			TopicFinal:   envOrDefault("KAFKA_TOPIC_FINAL", "speech.transcript.final"),
			Principal:    envOrDefault("KAFKA_PRINCIPAL", principal),
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			LogFormat:   envOrDefault("LOG_FORMAT", "console"),
			MetricsAddr: envOrDefault("METRICS_ADDR", ""),
		},
	}
}

// LoadFile overlays the YAML profile at path onto cfg. Keys missing from the
// file keep their current values.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks every server section.
func (c *Config) Validate() error {
	for _, s := range []ServerConfig{c.Diatheke.Server, c.Cubic.Server, c.Luna.Server} {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func serverFromEnv(prefix, addr string, insecure bool) ServerConfig {
	return ServerConfig{
		Address:        envOrDefault(prefix+"_ADDRESS", addr),
		Insecure:       envOrDefaultBool(prefix+"_INSECURE", insecure),
		ServerCertFile: envOrDefault(prefix+"_SERVER_CERT", ""),
		ClientCertFile: envOrDefault(prefix+"_CLIENT_CERT", ""),
		ClientKeyFile:  envOrDefault(prefix+"_CLIENT_KEY", ""),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envOrDefaultBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
