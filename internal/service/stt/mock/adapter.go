// Package mock provides scripted speech recognition for running the demos
// without a speech server. Each utterance yields progressive partial
// transcripts followed by exactly one final transcript.
package mock

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"speech-demo-clients/internal/service/stream"
	"speech-demo-clients/internal/service/stt"
)

// Utterance is one scripted recognition result.
type Utterance struct {
	Partials   []string
	Final      string
	Confidence float64
}

// DefaultUtterances are voice assistant requests used by the mock servers.
var DefaultUtterances = []Utterance{
	{
		Partials:   []string{"turn", "turn on", "turn on the"},
		Final:      "turn on the living room light",
		Confidence: 0.94,
	},
	{
		Partials:   []string{"what", "what is", "what is the weather"},
		Final:      "what is the weather tomorrow",
		Confidence: 0.91,
	},
	{
		Partials:   []string{"set", "set a timer"},
		Final:      "set a timer for ten minutes",
		Confidence: 0.97,
	},
	{
		Partials:   []string{"please", "please transcribe"},
		Final:      "please transcribe my note",
		Confidence: 0.89,
	},
	{
		Partials:   []string{"thank you"},
		Final:      "thank you very much",
		Confidence: 0.98,
	},
}

// Event is a single scripted result.
type Event struct {
	Text       string
	Final      bool
	Confidence float64
}

// Script hands out utterances in order and wraps around at the end.
type Script struct {
	mu         sync.Mutex
	utterances []Utterance
	next       int
}

// NewScript returns a script over utterances, or DefaultUtterances when
// none are given.
func NewScript(utterances ...Utterance) *Script {
	if len(utterances) == 0 {
		utterances = DefaultUtterances
	}
	return &Script{utterances: utterances}
}

// Cursor starts the next utterance.
func (s *Script) Cursor() *Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.utterances[s.next%len(s.utterances)]
	s.next++
	return &Cursor{u: u}
}

// Cursor walks one utterance, one audio frame at a time.
type Cursor struct {
	u         Utterance
	partial   int
	finalSent bool
}

// Step advances by one audio frame. Frames before the partials run out yield
// a partial, the next frame yields the final, later frames yield nothing.
func (c *Cursor) Step() (Event, bool) {
	if c.partial < len(c.u.Partials) {
		text := c.u.Partials[c.partial]
		c.partial++
		return Event{Text: text}, true
	}
	return c.Flush()
}

// Flush returns the final event if it has not been produced yet. Streams
// call it when the audio ends early.
func (c *Cursor) Flush() (Event, bool) {
	if c.finalSent {
		return Event{}, false
	}
	c.finalSent = true
	return Event{Text: c.u.Final, Final: true, Confidence: c.u.Confidence}, true
}

// Done reports whether the final has been produced.
func (c *Cursor) Done() bool {
	return c.finalSent
}

// Transcriber implements stt.Transcriber offline from a Script.
type Transcriber struct {
	Script    *Script
	ChunkSize int
	// Delay is applied before each result to imitate recognition latency.
	Delay time.Duration
}

// New returns a transcriber over DefaultUtterances.
func New() *Transcriber {
	return &Transcriber{Script: NewScript()}
}

// Transcribe consumes audio until EOF. Each chunk advances the script. Final
// transcripts are joined with a space.
func (t *Transcriber) Transcribe(ctx context.Context, audio io.Reader, cb stt.Callback) (string, error) {
	src := stream.NewSource(audio, t.ChunkSize)
	cur := t.Script.Cursor()
	frames := 0
	var finals []string

	emit := func(ev Event) error {
		if t.Delay > 0 {
			select {
			case <-time.After(t.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if ev.Final {
			cb.OnFinal(ev.Text, ev.Confidence)
			finals = append(finals, ev.Text)
		} else {
			cb.OnPartial(ev.Text)
		}
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return strings.Join(finals, " "), err
		}
		_, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			cb.OnError(err)
			return strings.Join(finals, " "), err
		}
		frames++

		if cur.Done() {
			cur = t.Script.Cursor()
		}
		if ev, ok := cur.Step(); ok {
			if err := emit(ev); err != nil {
				return strings.Join(finals, " "), err
			}
		}
	}

	// audio ended mid-utterance
	if frames > 0 {
		if ev, ok := cur.Flush(); ok {
			if err := emit(ev); err != nil {
				return strings.Join(finals, " "), err
			}
		}
	}
	return strings.Join(finals, " "), nil
}
