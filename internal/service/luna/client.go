// Package luna is a client for the Luna text-to-speech service.
package luna

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"google.golang.org/grpc"

	"speech-demo-clients/internal/observability/logging"
	"speech-demo-clients/internal/observability/metrics"
	"speech-demo-clients/proto/lunapb"
)

type Client struct {
	svc     lunapb.LunaServiceClient
	metrics *metrics.Metrics
}

type Option func(*Client)

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New returns a client using cc. The caller owns cc.
func New(cc grpc.ClientConnInterface, opts ...Option) *Client {
	c := &Client{
		svc:     lunapb.NewLunaServiceClient(cc),
		metrics: metrics.DefaultMetrics,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Version(ctx context.Context) (string, error) {
	resp, err := c.svc.Version(ctx, &lunapb.VersionRequest{})
	if err != nil {
		return "", err
	}
	return resp.Version, nil
}

func (c *Client) ListVoices(ctx context.Context) ([]*lunapb.Voice, error) {
	resp, err := c.svc.ListVoices(ctx, &lunapb.ListVoicesRequest{})
	if err != nil {
		return nil, err
	}
	return resp.Voices, nil
}

// Synthesize returns the audio for text in one response.
func (c *Client) Synthesize(ctx context.Context, cfg *lunapb.SynthesizerConfig, text string) ([]byte, error) {
	resp, err := c.svc.Synthesize(ctx, &lunapb.SynthesizeRequest{Config: cfg, Text: text})
	if err != nil {
		return nil, err
	}
	return resp.Audio, nil
}

// Stats describes one streamed synthesis.
type Stats struct {
	TimeToFirstAudio time.Duration
	Total            time.Duration
	Bytes            int
}

// SynthesizeStream writes audio to every writer as it arrives. Empty text
// returns at once without calling the server.
func (c *Client) SynthesizeStream(ctx context.Context, cfg *lunapb.SynthesizerConfig, text string, w ...io.Writer) (Stats, error) {
	var stats Stats
	if strings.TrimSpace(text) == "" {
		return stats, nil
	}

	out := io.MultiWriter(w...)
	start := time.Now()
	s, err := c.svc.SynthesizeStream(ctx, &lunapb.SynthesizeRequest{Config: cfg, Text: text})
	if err != nil {
		return stats, err
	}

	for {
		resp, err := s.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, err
		}
		if stats.Bytes == 0 {
			stats.TimeToFirstAudio = time.Since(start)
			c.metrics.RecordTTSFirstAudio(stats.TimeToFirstAudio.Seconds())
		}
		if _, err := out.Write(resp.Audio); err != nil {
			return stats, fmt.Errorf("write audio: %w", err)
		}
		stats.Bytes += len(resp.Audio)
	}
	stats.Total = time.Since(start)

	logger := logging.WithComponent("luna")
	logger.Debug().
		Dur("timeToFirstAudio", stats.TimeToFirstAudio).
		Dur("total", stats.Total).
		Int("bytes", stats.Bytes).
		Msg("Synthesis done")
	return stats, nil
}
