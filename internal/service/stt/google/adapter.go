// Package google provides a Google Cloud Speech-to-Text transcriber.
package google

import (
	"context"
	"fmt"
	"io"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/encoding/protojson"

	"speech-demo-clients/internal/config"
	"speech-demo-clients/internal/service/stream"
	"speech-demo-clients/internal/service/stt"
)

const provider = "google"

type (
	request  = *speechpb.StreamingRecognizeRequest
	response = *speechpb.StreamingRecognizeResponse
)

// Config holds the recognition settings sent in the first request.
type Config struct {
	LanguageCode    string
	SampleRateHz    int
	InterimResults  bool
	AudioEncoding   string
	CredentialsFile string
	ChunkSize       int
}

// DefaultConfig returns settings for 16 kHz linear PCM English audio.
func DefaultConfig() Config {
	return Config{
		LanguageCode:   "en-US",
		SampleRateHz:   16000,
		InterimResults: true,
		AudioEncoding:  "LINEAR16",
		ChunkSize:      stream.DefaultChunkSize,
	}
}

// ConfigFrom maps the STT section of the application config.
func ConfigFrom(c config.STTConfig, chunkSize int) Config {
	return Config{
		LanguageCode:    c.LanguageCode,
		SampleRateHz:    c.SampleRateHz,
		InterimResults:  c.InterimResults,
		AudioEncoding:   c.AudioEncoding,
		CredentialsFile: c.CredentialsFile,
		ChunkSize:       chunkSize,
	}
}

// Transcriber implements stt.Transcriber on the StreamingRecognize API.
type Transcriber struct {
	client *speech.Client
	open   func(ctx context.Context) (stream.Transport[request, response], error)
	cfg    Config
	log    zerolog.Logger
}

// New creates a Speech client. Without a credentials file the client uses
// GOOGLE_APPLICATION_CREDENTIALS or the ambient identity.
func New(ctx context.Context, cfg Config) (*Transcriber, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	c, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}

	t := &Transcriber{
		client: c,
		cfg:    cfg,
		log:    log.With().Str("sttProvider", provider).Logger(),
	}
	t.open = func(ctx context.Context) (stream.Transport[request, response], error) {
		s, err := c.StreamingRecognize(ctx)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return t, nil
}

// Close releases the underlying connection.
func (t *Transcriber) Close() error {
	if t.client == nil {
		return nil
	}
	return t.client.Close()
}

// Transcribe streams audio until EOF. Final transcripts are joined with a
// space.
func (t *Transcriber) Transcribe(ctx context.Context, audio io.Reader, cb stt.Callback) (string, error) {
	ex := stream.Exchange[request, response]{
		Open:  t.open,
		Head:  configRequest(t.cfg),
		Audio: audioRequest,
	}

	var finals []string
	_, err := stream.Drain(ctx, ex, stream.NewSource(audio, t.cfg.ChunkSize),
		func(response) (string, bool) { return "", false },
		func(resp response) error {
			t.debug(resp)
			finals = append(finals, dispatch(resp, cb)...)
			return nil
		})
	return strings.Join(finals, " "), err
}

func (t *Transcriber) debug(resp response) {
	if e := t.log.Debug(); e.Enabled() {
		b, err := protojson.Marshal(resp)
		if err != nil {
			e.Err(err).Msg("Marshal response")
			return
		}
		e.RawJSON("response", b).Msg("StreamingRecognize response")
	}
}

func configRequest(cfg Config) request {
	return &speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:        parseAudioEncoding(cfg.AudioEncoding),
					SampleRateHertz: int32(cfg.SampleRateHz),
					LanguageCode:    cfg.LanguageCode,
				},
				InterimResults: cfg.InterimResults,
			},
		},
	}
}

func audioRequest(chunk []byte) request {
	return &speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: chunk,
		},
	}
}

// dispatch forwards every result to cb and returns the final transcripts.
func dispatch(resp response, cb stt.Callback) []string {
	if st := resp.GetError(); st != nil && st.GetCode() != 0 {
		cb.OnError(fmt.Errorf("google stt: %s (code %d)", st.GetMessage(), st.GetCode()))
		return nil
	}

	var finals []string
	for _, r := range resp.GetResults() {
		if len(r.GetAlternatives()) == 0 {
			continue
		}
		alt := r.GetAlternatives()[0]
		if r.GetIsFinal() {
			cb.OnFinal(alt.GetTranscript(), float64(alt.GetConfidence()))
			finals = append(finals, alt.GetTranscript())
		} else {
			cb.OnPartial(alt.GetTranscript())
		}
	}
	return finals
}

// parseAudioEncoding maps an encoding name to the API enum. Unknown names
// fall back to LINEAR16. Names are case sensitive.
func parseAudioEncoding(name string) speechpb.RecognitionConfig_AudioEncoding {
	if name == "ENCODING_UNSPECIFIED" {
		return speechpb.RecognitionConfig_LINEAR16
	}
	if v, ok := speechpb.RecognitionConfig_AudioEncoding_value[name]; ok {
		return speechpb.RecognitionConfig_AudioEncoding(v)
	}
	return speechpb.RecognitionConfig_LINEAR16
}
