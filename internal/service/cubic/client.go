// Package cubic is a client for the Cubic speech recognition service.
package cubic

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc"

	"speech-demo-clients/internal/observability/logging"
	"speech-demo-clients/internal/observability/metrics"
	"speech-demo-clients/internal/service/stream"
	"speech-demo-clients/internal/service/stt"
	"speech-demo-clients/proto/cubicpb"
)

const provider = "cubic"

type (
	request  = *cubicpb.StreamingRecognizeRequest
	response = *cubicpb.StreamingRecognizeResponse
)

// Client recognizes speech with one Cubic model.
type Client struct {
	svc       cubicpb.TranscribeServiceClient
	modelID   string
	chunkSize int
	metrics   *metrics.Metrics
}

type Option func(*Client)

func WithChunkSize(n int) Option {
	return func(c *Client) { c.chunkSize = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New returns a client for modelID using cc. The caller owns cc.
func New(cc grpc.ClientConnInterface, modelID string, opts ...Option) *Client {
	c := &Client{
		svc:       cubicpb.NewTranscribeServiceClient(cc),
		modelID:   modelID,
		chunkSize: stream.DefaultChunkSize,
		metrics:   metrics.DefaultMetrics,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Version(ctx context.Context) (*cubicpb.VersionResponse, error) {
	return c.svc.Version(ctx, &cubicpb.VersionRequest{})
}

func (c *Client) ListModels(ctx context.Context) ([]*cubicpb.Model, error) {
	resp, err := c.svc.ListModels(ctx, &cubicpb.ListModelsRequest{})
	if err != nil {
		return nil, err
	}
	return resp.Models, nil
}

// RawConfig describes 16-bit signed little-endian mono audio at sampleRate.
func (c *Client) RawConfig(sampleRate int) *cubicpb.RecognitionConfig {
	return &cubicpb.RecognitionConfig{
		ModelID: c.modelID,
		AudioFormatRAW: &cubicpb.AudioFormatRAW{
			Encoding:   cubicpb.AudioEncodingSigned,
			BitDepth:   16,
			ByteOrder:  cubicpb.ByteOrderLittleEndian,
			SampleRate: uint32(sampleRate),
			Channels:   1,
		},
	}
}

// StreamingRecognize streams audio until EOF and the server has sent every
// result. handle sees every result. The final transcripts are returned
// joined with a space.
func (c *Client) StreamingRecognize(
	ctx context.Context,
	cfg *cubicpb.RecognitionConfig,
	audio io.Reader,
	handle func(*cubicpb.RecognitionResult),
) (string, error) {
	if cfg == nil {
		cfg = c.RawConfig(16000)
	}
	logger := logging.WithStream("StreamingRecognize", cfg.ModelID).With().
		Str("streamId", uuid.NewString()).
		Logger()

	ex := stream.Exchange[request, response]{
		Open: func(ctx context.Context) (stream.Transport[request, response], error) {
			s, err := c.svc.StreamingRecognize(ctx)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		Head: &cubicpb.StreamingRecognizeRequest{Config: cfg},
		Audio: func(chunk []byte) request {
			return &cubicpb.StreamingRecognizeRequest{Audio: &cubicpb.RecognitionAudio{Data: chunk}}
		},
		Metrics: c.metrics,
	}

	var finals []string
	_, err := stream.Drain(ctx, ex, stream.NewSource(audio, c.chunkSize),
		func(response) (string, bool) { return "", false },
		func(resp response) error {
			if resp.Error != "" {
				return fmt.Errorf("cubic: %s", resp.Error)
			}
			r := resp.GetResult()
			if r == nil {
				return nil
			}
			if !r.IsPartial {
				finals = append(finals, r.Best().Transcript())
			}
			if handle != nil {
				handle(r)
			}
			return nil
		})
	if err != nil {
		logger.Error().Err(err).Msg("Streaming recognition failed")
		return strings.Join(finals, " "), err
	}
	logger.Debug().Int("finals", len(finals)).Msg("Streaming recognition done")
	return strings.Join(finals, " "), nil
}

// Transcribe implements stt.Transcriber for 16 kHz raw audio.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, cb stt.Callback) (string, error) {
	text, err := c.StreamingRecognize(ctx, c.RawConfig(16000), audio, func(r *cubicpb.RecognitionResult) {
		best := r.Best()
		if best == nil {
			return
		}
		if r.IsPartial {
			cb.OnPartial(best.Transcript())
			return
		}
		cb.OnFinal(best.Transcript(), best.Confidence)
	})
	if err != nil {
		c.metrics.RecordSTTError(provider, "stream")
		cb.OnError(err)
	}
	return text, err
}

// Recognize sends a whole WAV file in one request and returns every result.
func (c *Client) Recognize(ctx context.Context, audio io.Reader) ([]*cubicpb.RecognitionResult, error) {
	data, err := io.ReadAll(audio)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	resp, err := c.svc.Recognize(ctx, &cubicpb.RecognizeRequest{
		Config: &cubicpb.RecognitionConfig{
			ModelID:             c.modelID,
			AudioFormatHeadered: cubicpb.ContainerFormatWAV,
		},
		Audio: &cubicpb.RecognitionAudio{Data: data},
	})
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}
