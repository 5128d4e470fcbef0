package webrtc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v3"
	"github.com/rs/zerolog"

	"speech-demo-clients/internal/config"
	"speech-demo-clients/internal/observability/logging"
	"speech-demo-clients/internal/observability/metrics"
)

const (
	outputChannel = "output_data_channel"
	resultGrace   = time.Second
)

// Config configures a Client.
type Config struct {
	URL         string
	SamplesDir  string
	ResultFile  string
	Recognition RecognitionConfig

	HTTPClient *http.Client
	Metrics    *metrics.Metrics
}

func ConfigFrom(c config.WebRTCConfig) Config {
	return Config{
		URL:        c.URL,
		SamplesDir: c.SamplesDir,
		ResultFile: c.ResultFile,
		Recognition: RecognitionConfig{
			ModelID:                c.ModelID,
			EnableWordTimeOffsets:  c.EnableWordTimeOffsets,
			EnableWordConfidence:   c.EnableWordConfidence,
			EnableRawTranscript:    c.EnableRawTranscript,
			EnableConfusionNetwork: c.EnableConfusionNetwork,
		},
	}
}

// Client streams every WAV file in the samples directory as its own audio
// track and appends the returned transcripts to the result file.
type Client struct {
	cfg Config
	log zerolog.Logger
}

func NewClient(cfg Config) *Client {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.DefaultMetrics
	}
	return &Client{cfg: cfg, log: logging.WithComponent("webrtc")}
}

// newAPI builds a pion API with the default codecs and interceptors.
func newAPI() (*webrtc.API, error) {
	me := &webrtc.MediaEngine{}
	if err := me.RegisterDefaultCodecs(); err != nil {
		return nil, err
	}
	ir := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(me, ir); err != nil {
		return nil, err
	}
	return webrtc.NewAPI(webrtc.WithMediaEngine(me), webrtc.WithInterceptorRegistry(ir)), nil
}

// Run connects, plays every track and returns when all tracks have ended,
// the connection fails or ctx is done.
func (c *Client) Run(ctx context.Context) error {
	tracks, err := loadTracks(c.cfg.SamplesDir)
	if err != nil {
		return err
	}

	out, err := os.OpenFile(c.cfg.ResultFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open result file: %w", err)
	}
	defer out.Close()
	results := NewResultWriter(out, c.cfg.Metrics)

	api, err := newAPI()
	if err != nil {
		return fmt.Errorf("create webrtc api: %w", err)
	}
	pc, err := api.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		return fmt.Errorf("create peer connection: %w", err)
	}
	defer func() {
		if err := pc.Close(); err != nil {
			c.log.Warn().Err(err).Msg("Close peer connection")
		}
	}()

	connected := make(chan struct{})
	failed := make(chan struct{})
	var connectOnce, failOnce sync.Once
	pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		c.log.Info().Stringer("state", s).Msg("Connection state changed")
		switch s {
		case webrtc.PeerConnectionStateConnected:
			connectOnce.Do(func() { close(connected) })
		case webrtc.PeerConnectionStateFailed, webrtc.PeerConnectionStateClosed:
			failOnce.Do(func() { close(failed) })
		}
	})

	for _, t := range tracks {
		if _, err := pc.AddTrack(t.Track); err != nil {
			return fmt.Errorf("add track %s: %w", t.Label, err)
		}
		results.Label(t.Track.ID(), t.Label)
		c.log.Debug().Str("trackId", t.Track.ID()).Str("label", t.Label).Dur("duration", t.Duration()).Msg("Track added")
	}

	pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		logger := c.log.With().Str("channel", dc.Label()).Logger()
		logger.Debug().Msg("Data channel created by remote party")
		dc.OnMessage(func(msg webrtc.DataChannelMessage) {
			if err := results.Handle(msg.Data); err != nil {
				logger.Warn().Err(err).Bytes("message", msg.Data).Msg("Skipping result")
			}
		})
	})

	dc, err := pc.CreateDataChannel(outputChannel, nil)
	if err != nil {
		return fmt.Errorf("create data channel: %w", err)
	}
	dc.OnOpen(func() { c.log.Debug().Msg("Output data channel opened") })
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		c.log.Debug().Bytes("message", msg.Data).Msg("Output data channel message")
	})

	if err := c.negotiate(ctx, pc); err != nil {
		return err
	}

	select {
	case <-connected:
	case <-failed:
		return errors.New("peer connection failed before connecting")
	case <-ctx.Done():
		return nil
	}

	playCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	var wg sync.WaitGroup
	for _, t := range tracks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := t.play(playCtx); err != nil && playCtx.Err() == nil {
				c.log.Error().Err(err).Str("label", t.Label).Msg("Track stopped")
				return
			}
			c.log.Info().Str("label", t.Label).Msg("Track ended")
		}()
	}
	ended := make(chan struct{})
	go func() {
		wg.Wait()
		close(ended)
	}()

	select {
	case <-ended:
		// results for the last audio can trail the track
		select {
		case <-time.After(resultGrace):
		case <-failed:
		case <-ctx.Done():
		}
	case <-failed:
		cancel()
		<-ended
		return errors.New("peer connection failed")
	case <-ctx.Done():
		<-ended
	}
	return nil
}

// negotiate sends the offer and applies the answer. The offer is patched
// both before it is set locally and after ICE gathering.
func (c *Client) negotiate(ctx context.Context, pc *webrtc.PeerConnection) error {
	offer, err := pc.CreateOffer(nil)
	if err != nil {
		return fmt.Errorf("create offer: %w", err)
	}
	offer.SDP = AlignICECredentials(offer.SDP)

	gathered := webrtc.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(offer); err != nil {
		return fmt.Errorf("set local description: %w", err)
	}
	select {
	case <-gathered:
	case <-ctx.Done():
		return ctx.Err()
	}

	local := pc.LocalDescription()
	answer, err := SendOffer(ctx, c.cfg.HTTPClient, c.cfg.URL, Offer{
		Config: c.cfg.Recognition,
		Description: webrtc.SessionDescription{
			Type: local.Type,
			SDP:  AlignICECredentials(local.SDP),
		},
	})
	if err != nil {
		return err
	}
	if err := pc.SetRemoteDescription(answer); err != nil {
		return fmt.Errorf("set remote description: %w", err)
	}
	return nil
}
