// Package diatheke is a client for the Diatheke dialog service and the
// interaction loop that drives a session from its action list.
package diatheke

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"speech-demo-clients/internal/observability/logging"
	"speech-demo-clients/internal/observability/metrics"
	"speech-demo-clients/internal/service/stream"
	"speech-demo-clients/proto/cubicpb"
	"speech-demo-clients/proto/diathekepb"
)

// DefaultWakewordModel is the Cubic model used for wake-word detection.
const DefaultWakewordModel = "en_US-wakeword"

// Session is the dialog state returned by the server. It is replaced on
// every update and never modified by the client.
type Session struct {
	Token   *diathekepb.TokenData
	Actions []*diathekepb.ActionData
}

func sessionFrom(out *diathekepb.SessionOutput) (*Session, error) {
	if out == nil {
		return nil, errors.New("diatheke: response has no session output")
	}
	return &Session{Token: out.Token, Actions: out.ActionList}, nil
}

// Client calls the Diatheke service and, for wake-word detection, the Cubic
// service behind the same connection.
type Client struct {
	svc           diathekepb.DiathekeServiceClient
	cubic         cubicpb.TranscribeServiceClient
	wakewordModel string
	chunkSize     int
	metrics       *metrics.Metrics
	log           zerolog.Logger
}

type Option func(*Client)

// WithWakewordModel selects the Cubic model used by WaitForWakeword.
func WithWakewordModel(id string) Option {
	return func(c *Client) { c.wakewordModel = id }
}

// WithDefaultChunkSize sets the audio chunk size used when a stream call
// does not pass WithChunkSize.
func WithDefaultChunkSize(n int) Option {
	return func(c *Client) { c.chunkSize = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New returns a client using cc. The caller owns cc.
func New(cc grpc.ClientConnInterface, opts ...Option) *Client {
	c := &Client{
		svc:           diathekepb.NewDiathekeServiceClient(cc),
		cubic:         cubicpb.NewTranscribeServiceClient(cc),
		wakewordModel: DefaultWakewordModel,
		chunkSize:     stream.DefaultChunkSize,
		metrics:       metrics.DefaultMetrics,
		log:           logging.WithComponent("diatheke"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Version(ctx context.Context) (*diathekepb.VersionResponse, error) {
	return c.svc.Version(ctx, &diathekepb.VersionRequest{})
}

// ListModels returns the models from the server configuration.
func (c *Client) ListModels(ctx context.Context) ([]*diathekepb.ModelInfo, error) {
	resp, err := c.svc.ListModels(ctx, &diathekepb.ListModelsRequest{})
	if err != nil {
		return nil, err
	}
	return resp.Models, nil
}

// SessionOption configures CreateSession.
type SessionOption func(*diathekepb.CreateSessionRequest)

// WithWakeword sets the wake word. It only has an effect when the model has
// wake-word detection enabled.
func WithWakeword(word string) SessionOption {
	return func(r *diathekepb.CreateSessionRequest) { r.Wakeword = word }
}

func WithSessionMetadata(custom, storageFilePrefix string) SessionOption {
	return func(r *diathekepb.CreateSessionRequest) {
		r.Metadata = &diathekepb.SessionMetadata{
			CustomMetadata:    custom,
			StorageFilePrefix: storageFilePrefix,
		}
	}
}

func WithAudioFormats(in, out *diathekepb.AudioFormat) SessionOption {
	return func(r *diathekepb.CreateSessionRequest) {
		r.InputAudioFormat = in
		r.OutputAudioFormat = out
	}
}

// CreateSession starts a session with the given model.
func (c *Client) CreateSession(ctx context.Context, modelID string, opts ...SessionOption) (*Session, error) {
	req := &diathekepb.CreateSessionRequest{ModelID: modelID}
	for _, o := range opts {
		o(req)
	}

	resp, err := c.svc.CreateSession(ctx, req)
	if err != nil {
		return nil, err
	}
	s, err := sessionFrom(resp.GetSessionOutput())
	if err != nil {
		return nil, err
	}
	c.metrics.RecordSessionCreated()
	c.log.Debug().Str("sessionId", s.Token.GetID()).Str("model", modelID).Msg("Session created")
	return s, nil
}

// DeleteSession destroys the session. Using the token afterwards is
// undefined.
func (c *Client) DeleteSession(ctx context.Context, token *diathekepb.TokenData) error {
	if _, err := c.svc.DeleteSession(ctx, &diathekepb.DeleteSessionRequest{TokenData: token}); err != nil {
		return err
	}
	c.metrics.RecordSessionDeleted()
	return nil
}

// ProcessText sends user text and returns the replacement session.
func (c *Client) ProcessText(ctx context.Context, token *diathekepb.TokenData, text string) (*Session, error) {
	return c.update(ctx, &diathekepb.SessionInput{Token: token, Text: &diathekepb.TextInput{Text: text}})
}

// ProcessASRResult sends a recognition result and returns the replacement
// session.
func (c *Client) ProcessASRResult(ctx context.Context, token *diathekepb.TokenData, result *diathekepb.ASRResult) (*Session, error) {
	return c.update(ctx, &diathekepb.SessionInput{Token: token, ASR: result})
}

// ProcessCommandResult reports the outcome of a command action and returns
// the replacement session.
func (c *Client) ProcessCommandResult(ctx context.Context, token *diathekepb.TokenData, result *diathekepb.CommandResult) (*Session, error) {
	return c.update(ctx, &diathekepb.SessionInput{Token: token, Cmd: result})
}

// SetStory switches the session to another story.
func (c *Client) SetStory(ctx context.Context, token *diathekepb.TokenData, storyID string, params map[string]string) (*Session, error) {
	return c.update(ctx, &diathekepb.SessionInput{
		Token: token,
		Story: &diathekepb.SetStory{StoryID: storyID, Parameters: params},
	})
}

func (c *Client) update(ctx context.Context, in *diathekepb.SessionInput) (*Session, error) {
	resp, err := c.svc.UpdateSession(ctx, &diathekepb.UpdateSessionRequest{SessionInput: in})
	if err != nil {
		return nil, err
	}
	return sessionFrom(resp.GetSessionOutput())
}

type streamOptions struct {
	chunkSize int
	lookahead []byte
}

// StreamOption configures a single streaming call.
type StreamOption func(*streamOptions)

// WithChunkSize sets the number of audio bytes per frame.
func WithChunkSize(n int) StreamOption {
	return func(o *streamOptions) { o.chunkSize = n }
}

// WithLookahead sends chunk as the first audio frame before reading from the
// audio source. Pass Wakeword.Lookahead here so no audio is lost between the
// wake-word stream and the next one.
func WithLookahead(chunk []byte) StreamOption {
	return func(o *streamOptions) { o.lookahead = chunk }
}

func (c *Client) source(r io.Reader, opts []StreamOption) *stream.Source {
	o := streamOptions{chunkSize: c.chunkSize}
	for _, fn := range opts {
		fn(&o)
	}
	return stream.NewSource(r, o.chunkSize).Replay(o.lookahead)
}

// ReadASRAudio streams audio on StreamASR until audio is exhausted and
// returns the single result.
func (c *Client) ReadASRAudio(ctx context.Context, token *diathekepb.TokenData, audio io.Reader, opts ...StreamOption) (*diathekepb.ASRResult, error) {
	src := c.source(audio, opts)

	s, err := c.svc.StreamASR(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Send(&diathekepb.StreamASRRequest{Token: token}); err != nil {
		_, err = s.CloseAndRecv()
		return nil, err
	}

	for {
		chunk, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// let the server acknowledge the frames already sent
			if _, rerr := s.CloseAndRecv(); rerr != nil {
				c.log.Debug().Err(rerr).Msg("close aborted asr stream")
			}
			return nil, fmt.Errorf("%w: %v", stream.ErrStreamAborted, err)
		}
		if err := s.Send(&diathekepb.StreamASRRequest{Audio: chunk}); err != nil {
			// the status arrives with CloseAndRecv
			break
		}
		c.metrics.RecordAudioSent(len(chunk))
	}

	resp, err := s.CloseAndRecv()
	if err != nil {
		return nil, err
	}
	return resp.AsrResult, nil
}

// ReadASRAudioWithPartials streams audio until the server returns a final
// result, which is returned. handle sees every response, including the
// final one.
func (c *Client) ReadASRAudioWithPartials(
	ctx context.Context,
	token *diathekepb.TokenData,
	audio io.Reader,
	handle func(*diathekepb.StreamASRWithPartialsResponse),
	opts ...StreamOption,
) (*diathekepb.ASRResult, error) {
	ex := stream.Exchange[*diathekepb.StreamASRWithPartialsRequest, *diathekepb.StreamASRWithPartialsResponse]{
		Open: func(ctx context.Context) (stream.Transport[*diathekepb.StreamASRWithPartialsRequest, *diathekepb.StreamASRWithPartialsResponse], error) {
			s, err := c.svc.StreamASRWithPartials(ctx)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		Head: &diathekepb.StreamASRWithPartialsRequest{Token: token},
		Audio: func(chunk []byte) *diathekepb.StreamASRWithPartialsRequest {
			return &diathekepb.StreamASRWithPartialsRequest{Audio: chunk}
		},
		Metrics: c.metrics,
	}

	final, err := stream.FirstFinal(ctx, ex, c.source(audio, opts),
		func(r *diathekepb.StreamASRWithPartialsResponse) bool {
			return r.AsrResult.GetText() != ""
		},
		func(r *diathekepb.StreamASRWithPartialsResponse) error {
			if handle != nil {
				handle(r)
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return final.AsrResult, nil
}

// Wakeword is a detected wake word. Lookahead is the last chunk read from
// the audio source, which the detector never consumed.
type Wakeword struct {
	Transcript string
	Lookahead  []byte
}

// WaitForWakeword streams 16 kHz mono 16-bit signed little-endian audio to
// the wake-word model until it reports a transcript. handle sees every
// result.
func (c *Client) WaitForWakeword(
	ctx context.Context,
	audio io.Reader,
	handle func(*cubicpb.RecognitionResult),
	opts ...StreamOption,
) (Wakeword, error) {
	cfg := &cubicpb.RecognitionConfig{
		ModelID: c.wakewordModel,
		AudioFormatRAW: &cubicpb.AudioFormatRAW{
			Encoding:   cubicpb.AudioEncodingSigned,
			BitDepth:   16,
			ByteOrder:  cubicpb.ByteOrderLittleEndian,
			SampleRate: 16000,
			Channels:   1,
		},
	}
	ex := stream.Exchange[*cubicpb.StreamingRecognizeRequest, *cubicpb.StreamingRecognizeResponse]{
		Open: func(ctx context.Context) (stream.Transport[*cubicpb.StreamingRecognizeRequest, *cubicpb.StreamingRecognizeResponse], error) {
			s, err := c.cubic.StreamingRecognize(ctx)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		Head: &cubicpb.StreamingRecognizeRequest{Config: cfg},
		Audio: func(chunk []byte) *cubicpb.StreamingRecognizeRequest {
			return &cubicpb.StreamingRecognizeRequest{Audio: &cubicpb.RecognitionAudio{Data: chunk}}
		},
		Metrics: c.metrics,
	}

	src := c.source(audio, opts)
	final, err := stream.FirstFinal(ctx, ex, src,
		func(r *cubicpb.StreamingRecognizeResponse) bool {
			return r.GetResult().Best().GetTranscriptRaw() != ""
		},
		func(r *cubicpb.StreamingRecognizeResponse) error {
			if handle != nil {
				handle(r.GetResult())
			}
			return nil
		})
	if err != nil {
		return Wakeword{}, err
	}

	return Wakeword{
		Transcript: final.GetResult().Best().GetTranscriptRaw(),
		Lookahead:  src.Last(),
	}, nil
}

// WriteTTSAudio synthesizes reply and writes the audio to w as it arrives.
func (c *Client) WriteTTSAudio(ctx context.Context, token *diathekepb.TokenData, reply *diathekepb.ReplyAction, w io.Writer) error {
	start := time.Now()
	s, err := c.svc.StreamTTS(ctx, &diathekepb.StreamTTSRequest{ReplyAction: reply, Token: token})
	if err != nil {
		return err
	}

	first := true
	for {
		resp, err := s.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if first {
			c.metrics.RecordTTSFirstAudio(time.Since(start).Seconds())
			first = false
		}
		if _, err := w.Write(resp.Audio); err != nil {
			return fmt.Errorf("write tts audio: %w", err)
		}
	}
}

// ReadTranscribeAudio streams audio for a transcribe action until the server
// closes the stream. handle sees every result. The text of the final results
// is returned concatenated.
func (c *Client) ReadTranscribeAudio(
	ctx context.Context,
	action *diathekepb.TranscribeAction,
	audio io.Reader,
	handle func(*diathekepb.TranscribeResponse),
	opts ...StreamOption,
) (string, error) {
	ex := stream.Exchange[*diathekepb.TranscribeRequest, *diathekepb.TranscribeResponse]{
		Open: func(ctx context.Context) (stream.Transport[*diathekepb.TranscribeRequest, *diathekepb.TranscribeResponse], error) {
			s, err := c.svc.Transcribe(ctx)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		Head: &diathekepb.TranscribeRequest{Action: action},
		Audio: func(chunk []byte) *diathekepb.TranscribeRequest {
			return &diathekepb.TranscribeRequest{Audio: chunk}
		},
		Metrics: c.metrics,
	}

	return stream.Drain(ctx, ex, c.source(audio, opts),
		func(r *diathekepb.TranscribeResponse) (string, bool) {
			return r.Text, !r.IsPartial
		},
		func(r *diathekepb.TranscribeResponse) error {
			if handle != nil {
				handle(r)
			}
			return nil
		})
}
