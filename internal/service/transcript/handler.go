// Package transcript turns recognition callbacks into validated transcript
// events, one segment per utterance.
package transcript

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"speech-demo-clients/internal/config"
	"speech-demo-clients/internal/events"
	"speech-demo-clients/internal/models"
	"speech-demo-clients/internal/observability/logging"
	"speech-demo-clients/internal/observability/metrics"
	"speech-demo-clients/internal/schema"
	"speech-demo-clients/internal/service/segment"
)

const publishTimeout = 5 * time.Second

// Limits bounds a single segment. Zero disables a limit.
type Limits struct {
	MaxAudioBytes int64
	MaxDuration   time.Duration
	MaxPartials   int
}

func DefaultLimits() Limits {
	return Limits{
		MaxAudioBytes: 5 * 1024 * 1024, // ~160s of 16 kHz 16-bit mono
		MaxDuration:   5 * time.Minute,
		MaxPartials:   500,
	}
}

func LimitsFrom(c config.SegmentLimitsConfig) Limits {
	return Limits{
		MaxAudioBytes: c.MaxAudioBytes,
		MaxDuration:   c.MaxDuration,
		MaxPartials:   c.MaxPartials,
	}
}

// Options configures a Handler. Sink is required.
type Options struct {
	StreamID     string
	Provider     string
	SessionID    string
	SampleRateHz int
	Limits       Limits

	Sink      events.Sink
	Validator *schema.Validator
	Generator *segment.Generator
	Metrics   *metrics.Metrics

	// Now is the clock. It defaults to time.Now.
	Now func() time.Time
}

// Stats describes the current segment.
type Stats struct {
	SegmentID    string
	State        segment.State
	AudioBytes   int64
	PartialCount int
	Duration     time.Duration
	Segments     int
}

// Handler implements stt.Callback. Each final closes the current segment and
// opens the next one. A segment that breaks a limit, or whose provider
// reports an error, is dropped and publishes nothing further. The dropped
// utterance still ends at its final, which opens the next segment.
type Handler struct {
	opts      Options
	lifecycle *segment.Lifecycle
	log       zerolog.Logger

	mu          sync.Mutex
	start       time.Time
	audioBytes  int64
	totalBytes  int64
	partials    int
	segments    int
	lastPartial string
}

// New opens the first segment.
func New(opts Options) *Handler {
	if opts.Generator == nil {
		opts.Generator = segment.New()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.DefaultMetrics
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SampleRateHz <= 0 {
		opts.SampleRateHz = 16000
	}

	h := &Handler{
		opts:      opts,
		lifecycle: segment.NewLifecycle(opts.Generator.Next(opts.StreamID)),
		log: logging.WithComponent("transcript").With().
			Str("streamId", opts.StreamID).
			Str("provider", opts.Provider).
			Logger(),
		start:    opts.Now(),
		segments: 1,
	}
	opts.Metrics.RecordSegmentCreated()
	return h
}

// SegmentID returns the current segment.
func (h *Handler) SegmentID() string {
	return h.lifecycle.SegmentID()
}

func (h *Handler) State() segment.State {
	return h.lifecycle.State()
}

func (h *Handler) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		SegmentID:    h.lifecycle.SegmentID(),
		State:        h.lifecycle.State(),
		AudioBytes:   h.audioBytes,
		PartialCount: h.partials,
		Duration:     h.opts.Now().Sub(h.start),
		Segments:     h.segments,
	}
}

// Meter wraps the audio sent to the provider so the handler can track
// segment size and audio offsets.
func (h *Handler) Meter(r io.Reader) io.Reader {
	return &meter{r: r, h: h}
}

type meter struct {
	r io.Reader
	h *Handler
}

func (m *meter) Read(p []byte) (int, error) {
	n, err := m.r.Read(p)
	if n > 0 {
		m.h.addAudio(int64(n))
	}
	return n, err
}

func (h *Handler) addAudio(n int64) {
	h.mu.Lock()
	h.audioBytes += n
	h.totalBytes += n
	bytes := h.audioBytes
	h.mu.Unlock()

	if limit := h.opts.Limits.MaxAudioBytes; limit > 0 && bytes > limit {
		h.exceeded("audio_bytes", fmt.Sprintf("max audio bytes exceeded: %d > %d", bytes, limit))
		return
	}
	h.checkDuration()
}

func (h *Handler) checkDuration() bool {
	limit := h.opts.Limits.MaxDuration
	if limit <= 0 {
		return true
	}
	h.mu.Lock()
	elapsed := h.opts.Now().Sub(h.start)
	h.mu.Unlock()
	if elapsed > limit {
		h.exceeded("duration", fmt.Sprintf("max duration exceeded: %v > %v", elapsed, limit))
		return false
	}
	return true
}

func (h *Handler) exceeded(limit, reason string) {
	if h.drop("limit_"+limit, reason) {
		h.opts.Metrics.RecordLimitExceeded(limit)
	}
}

// OnPartial publishes an interim transcript while the segment is open.
// Repeated identical partials are published once.
func (h *Handler) OnPartial(text string) {
	if err := h.lifecycle.EmitPartial(); err != nil {
		h.log.Debug().
			Str("segmentId", h.lifecycle.SegmentID()).
			Stringer("state", h.lifecycle.State()).
			Err(err).
			Msg("Partial ignored")
		return
	}
	if !h.checkDuration() {
		return
	}

	h.mu.Lock()
	if text == h.lastPartial {
		h.mu.Unlock()
		return
	}
	h.lastPartial = text
	h.partials++
	count := h.partials
	h.mu.Unlock()

	if limit := h.opts.Limits.MaxPartials; limit > 0 && count > limit {
		h.exceeded("partials", fmt.Sprintf("max partials exceeded: %d > %d", count, limit))
		return
	}

	ev := models.TranscriptPartial{
		EventType: models.EventTypePartial,
		StreamID:  h.opts.StreamID,
		Provider:  h.opts.Provider,
		SessionID: h.opts.SessionID,
		SegmentID: h.lifecycle.SegmentID(),
		Text:      text,
		Timestamp: h.opts.Now().UnixMilli(),
	}
	if err := h.validate(ev); err != nil {
		h.log.Warn().Err(err).Str("segmentId", ev.SegmentID).Msg("Invalid partial transcript")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := h.opts.Sink.PublishPartial(ctx, h.opts.StreamID, ev); err != nil {
		h.log.Error().Err(err).Str("segmentId", ev.SegmentID).Msg("Failed to publish partial")
		return
	}
	h.opts.Metrics.RecordPartialTranscript()
}

// OnFinal publishes the final transcript of the current segment and opens
// the next one.
func (h *Handler) OnFinal(text string, confidence float64) {
	defer h.next()

	if err := h.lifecycle.EmitFinal(); err != nil {
		h.log.Debug().
			Str("segmentId", h.lifecycle.SegmentID()).
			Stringer("state", h.lifecycle.State()).
			Err(err).
			Msg("Final ignored")
		return
	}

	h.mu.Lock()
	offset := h.totalBytes * 1000 / int64(2*h.opts.SampleRateHz)
	h.mu.Unlock()

	ev := models.TranscriptFinal{
		EventType:     models.EventTypeFinal,
		StreamID:      h.opts.StreamID,
		Provider:      h.opts.Provider,
		SessionID:     h.opts.SessionID,
		SegmentID:     h.lifecycle.SegmentID(),
		Text:          text,
		Confidence:    confidence,
		AudioOffsetMs: offset,
		Timestamp:     h.opts.Now().UnixMilli(),
	}
	if err := h.validate(ev); err != nil {
		h.drop("invalid", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := h.opts.Sink.PublishFinal(ctx, h.opts.StreamID, ev); err != nil {
		h.log.Error().Err(err).Str("segmentId", ev.SegmentID).Msg("Failed to publish final")
		return
	}
	h.opts.Metrics.RecordFinalTranscript()
}

// OnError drops the current segment. No final is published for it.
func (h *Handler) OnError(err error) {
	h.opts.Metrics.RecordSTTError(h.opts.Provider, "stream")
	h.drop("stt_error", err.Error())
}

// DropSegment abandons the current segment. It returns false if the segment
// had already ended.
func (h *Handler) DropSegment(reason string) bool {
	return h.drop("external", reason)
}

// drop records kind as the metric label and reason in the log.
func (h *Handler) drop(kind, reason string) bool {
	id := h.lifecycle.SegmentID()
	prev := h.lifecycle.State()
	if !h.lifecycle.Drop() {
		return false
	}

	h.opts.Metrics.RecordSegmentDropped(kind)
	h.log.Warn().
		Str("segmentId", id).
		Stringer("previousState", prev).
		Str("reason", reason).
		Msg("Segment dropped")
	return true
}

// Close ends the current segment. A segment still open at the end of the
// stream never produced a final and is dropped.
func (h *Handler) Close() error {
	if h.lifecycle.State() == segment.StateOpen {
		h.drop("no_final", "stream ended without final")
	}
	h.lifecycle.Close()
	return nil
}

func (h *Handler) next() {
	old := h.lifecycle.SegmentID()
	if !h.lifecycle.IsDropped() {
		h.opts.Metrics.RecordSegmentCompleted()
	}
	h.lifecycle.Close()

	id := h.opts.Generator.Next(h.opts.StreamID)

	h.mu.Lock()
	stats := Stats{AudioBytes: h.audioBytes, PartialCount: h.partials, Duration: h.opts.Now().Sub(h.start)}
	h.audioBytes = 0
	h.partials = 0
	h.lastPartial = ""
	h.start = h.opts.Now()
	h.segments++
	h.mu.Unlock()

	h.lifecycle.Reset(id)
	h.opts.Metrics.RecordSegmentCreated()

	logger := logging.WithSegment(h.opts.StreamID, old)
	logger.Debug().
		Str("provider", h.opts.Provider).
		Str("nextSegmentId", id).
		Int64("audioBytes", stats.AudioBytes).
		Int("partials", stats.PartialCount).
		Dur("duration", stats.Duration).
		Msg("Segment closed")
}

func (h *Handler) validate(ev any) error {
	if h.opts.Validator == nil {
		return nil
	}
	return h.opts.Validator.Validate(ev)
}
