package diatheke

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"speech-demo-clients/internal/service/stt"
	"speech-demo-clients/proto/cubicpb"
	"speech-demo-clients/proto/diathekepb"
)

// Device is an audio process with a start/stop lifecycle, such as
// audio.Recorder or audio.Player.
type Device interface {
	Start() error
	Stop() error
}

type RecordDevice interface {
	io.Reader
	Device
}

type PlayDevice interface {
	io.Writer
	Device
}

// TextHandler reads user input from a terminal and prints the actions.
type TextHandler struct {
	Client *Client
	Out    io.Writer

	in    *bufio.Reader
	lines chan line
	err   error
}

type line struct {
	text string
	err  error
}

func NewTextHandler(c *Client, in io.Reader, out io.Writer) *TextHandler {
	return &TextHandler{Client: c, Out: out, in: bufio.NewReader(in)}
}

// HandleInput prompts for one line of text. io.EOF on the input is returned
// as is and ends the loop.
func (h *TextHandler) HandleInput(ctx context.Context, s *Session, _ Input) (*Session, error) {
	fmt.Fprint(h.Out, "\n\nDiatheke> ")

	text, err := h.readLine(ctx)
	if err != nil {
		return nil, err
	}
	return h.Client.ProcessText(ctx, s.Token, text)
}

// readLine returns when a line arrives or ctx is done. A read interrupted by
// ctx completes in the background and is returned by the next call.
func (h *TextHandler) readLine(ctx context.Context) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	if h.lines == nil {
		h.lines = make(chan line, 1)
		go h.read()
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l := <-h.lines:
		if l.err != nil {
			h.err = l.err
			return "", l.err
		}
		go h.read()
		return l.text, nil
	}
}

func (h *TextHandler) read() {
	text, err := h.in.ReadString('\n')
	if err == io.EOF && text != "" {
		err = nil
	}
	h.lines <- line{text: strings.TrimRight(text, "\r\n"), err: err}
}

func (h *TextHandler) HandleReply(_ context.Context, _ *Session, r Reply) error {
	fmt.Fprintln(h.Out, "\n  Reply:", r.Text)
	return nil
}

func (h *TextHandler) HandleCommand(ctx context.Context, s *Session, cmd Command) (*Session, error) {
	printCommand(h.Out, cmd)
	return h.Client.ProcessCommandResult(ctx, s.Token, &diathekepb.CommandResult{ID: cmd.ID})
}

// HandleTranscribe only displays the action. The text client has no audio.
func (h *TextHandler) HandleTranscribe(_ context.Context, _ *Session, t Transcribe) error {
	fmt.Fprintln(h.Out, "\n  Transcribe:")
	fmt.Fprintln(h.Out, "    ID:", t.ID)
	fmt.Fprintln(h.Out, "    Cubic Model ID:", t.CubicModelID)
	fmt.Fprintln(h.Out, "    Diatheke Model ID:", t.DiathekeModelID)
	return nil
}

func printCommand(w io.Writer, cmd Command) {
	fmt.Fprintln(w, "\n  Command:")
	fmt.Fprintln(w, "    ID:", cmd.ID)
	fmt.Fprintln(w, "    Input params:", cmd.InputParameters)
	if cmd.NLUResult != nil {
		fmt.Fprintf(w, "    NLU result: intent=%s confidence=%.2f entities=%v\n",
			cmd.NLUResult.Intent, cmd.NLUResult.Confidence, cmd.NLUResult.Entities)
	}
}

// AudioHandler records speech for input and transcribe actions and plays
// replies.
type AudioHandler struct {
	Client   *Client
	Recorder RecordDevice
	Player   PlayDevice
	Out      io.Writer

	// Wakeword gates input actions that require a wake word on the
	// detector. When false the flag is ignored.
	Wakeword bool
	// Transcripts, when set, receives the partial and final recognition
	// results of input and transcribe actions.
	Transcripts stt.Callback
	// Meter, when set, wraps the recorder for input and transcribe actions
	// so the transcript pipeline sees the audio behind each segment.
	// Wake-word audio is not metered.
	Meter func(io.Reader) io.Reader

	Stream []StreamOption
}

func (h *AudioHandler) recorded() io.Reader {
	if h.Meter == nil {
		return h.Recorder
	}
	return h.Meter(h.Recorder)
}

func (h *AudioHandler) transcripts() stt.Callback {
	if h.Transcripts == nil {
		return stt.Funcs{}
	}
	return h.Transcripts
}

// HandleInput records until the server returns a final recognition result
// and sends it to the session. When the action requires it, the wake word is
// detected first on the same recording.
func (h *AudioHandler) HandleInput(ctx context.Context, s *Session, in Input) (*Session, error) {
	if err := h.Recorder.Start(); err != nil {
		return nil, fmt.Errorf("start recorder: %w", err)
	}
	defer func() {
		if err := h.Recorder.Stop(); err != nil {
			log.Warn().Err(err).Msg("Failed to stop recorder")
		}
	}()

	opts := h.Stream
	if in.RequiresWakeWord && h.Wakeword {
		fmt.Fprintln(h.Out, "\nWaiting for wake word...")
		ww, err := h.Client.WaitForWakeword(ctx, h.Recorder, func(r *cubicpb.RecognitionResult) {
			log.Debug().Str("transcript", r.Best().Transcript()).Msg("Wake-word result")
		}, opts...)
		if err != nil {
			return nil, fmt.Errorf("wait for wake word: %w", err)
		}
		fmt.Fprintln(h.Out, "  Wake word:", ww.Transcript)
		opts = append(opts[:len(opts):len(opts)], WithLookahead(ww.Lookahead))
	}

	fmt.Fprintln(h.Out, "\nStart recording...")
	cb := h.transcripts()
	result, err := h.Client.ReadASRAudioWithPartials(ctx, s.Token, h.recorded(),
		func(r *diathekepb.StreamASRWithPartialsResponse) {
			if best := r.PartialResult.Best(); best != nil {
				fmt.Fprintln(h.Out, "  Partial Result:", best.Transcript())
				cb.OnPartial(best.Transcript())
				return
			}
			if r.AsrResult != nil {
				fmt.Fprintln(h.Out, "\n  ASRResult:")
				fmt.Fprintln(h.Out, "    Text:", r.AsrResult.Text)
				fmt.Fprintln(h.Out, "    Confidence:", r.AsrResult.Confidence)
				cb.OnFinal(r.AsrResult.Text, r.AsrResult.Confidence)
			}
		}, opts...)
	if err != nil {
		cb.OnError(err)
		return nil, err
	}
	return h.Client.ProcessASRResult(ctx, s.Token, result)
}

// HandleReply plays the reply through the player.
func (h *AudioHandler) HandleReply(ctx context.Context, s *Session, r Reply) error {
	fmt.Fprintln(h.Out, "\n  Reply:")
	fmt.Fprintln(h.Out, "    Text:", r.Text)
	fmt.Fprintln(h.Out, "    Luna Model:", r.LunaModel)

	if err := h.Player.Start(); err != nil {
		return fmt.Errorf("start player: %w", err)
	}
	werr := h.Client.WriteTTSAudio(ctx, s.Token, r.ReplyAction, h.Player)
	if err := h.Player.Stop(); err != nil && werr == nil {
		return fmt.Errorf("stop player: %w", err)
	}
	return werr
}

func (h *AudioHandler) HandleCommand(ctx context.Context, s *Session, cmd Command) (*Session, error) {
	printCommand(h.Out, cmd)
	return h.Client.ProcessCommandResult(ctx, s.Token, &diathekepb.CommandResult{ID: cmd.ID})
}

// HandleTranscribe records until the server ends the transcription and
// prints the accumulated final text.
func (h *AudioHandler) HandleTranscribe(ctx context.Context, _ *Session, t Transcribe) error {
	if err := h.Recorder.Start(); err != nil {
		return fmt.Errorf("start recorder: %w", err)
	}
	defer func() {
		if err := h.Recorder.Stop(); err != nil {
			log.Warn().Err(err).Msg("Failed to stop recorder")
		}
	}()

	cb := h.transcripts()
	text, err := h.Client.ReadTranscribeAudio(ctx, t.TranscribeAction, h.recorded(),
		func(r *diathekepb.TranscribeResponse) {
			// overwrite the current terminal line until the result is final
			fmt.Fprintf(h.Out, "%s (confidence: %.2f)\r", r.Text, r.Confidence)
			if r.IsPartial {
				cb.OnPartial(r.Text)
				return
			}
			fmt.Fprintln(h.Out)
			cb.OnFinal(r.Text, r.Confidence)
		}, h.Stream...)
	if err != nil {
		cb.OnError(err)
		return err
	}

	fmt.Fprintln(h.Out, "\nFinal Transcription:", text)
	return nil
}
