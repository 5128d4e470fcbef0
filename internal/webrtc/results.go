package webrtc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"

	"speech-demo-clients/internal/observability/metrics"
)

var (
	errNoAlternative = errors.New("result has no alternatives")
	errUnknownTrack  = errors.New("unknown track")
)

// ResultMessage is a transcript sent by the server on a data channel.
type ResultMessage struct {
	TrackID string `json:"track_id"`
	Result  struct {
		Alternatives []Alternative `json:"alternatives"`
	} `json:"result"`
}

type Alternative struct {
	// StartTime is a number or a string, depending on the server.
	StartTime  json.RawMessage `json:"start_time"`
	Transcript string          `json:"transcript"`
}

func (a Alternative) start() string {
	raw := bytes.TrimSpace(a.StartTime)
	if len(raw) == 0 {
		return "0"
	}
	if s, err := strconv.Unquote(string(raw)); err == nil {
		return s
	}
	return string(raw)
}

// ResultWriter appends one line per transcript, labeled with the file that
// produced the track.
type ResultWriter struct {
	mu      sync.Mutex
	w       io.Writer
	labels  map[string]string
	metrics *metrics.Metrics
}

func NewResultWriter(w io.Writer, m *metrics.Metrics) *ResultWriter {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &ResultWriter{w: w, labels: make(map[string]string), metrics: m}
}

// Label names the audio of trackID.
func (r *ResultWriter) Label(trackID, label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labels[trackID] = label
}

// Handle writes msg as "[<start> <label>] <transcript>". A message that
// cannot be parsed or names an unknown track is rejected and nothing is
// written.
func (r *ResultWriter) Handle(msg []byte) error {
	var m ResultMessage
	if err := json.Unmarshal(msg, &m); err != nil {
		return fmt.Errorf("parse result: %w", err)
	}
	if len(m.Result.Alternatives) == 0 {
		return errNoAlternative
	}
	alt := m.Result.Alternatives[0]

	r.mu.Lock()
	defer r.mu.Unlock()
	label, ok := r.labels[m.TrackID]
	if !ok {
		return fmt.Errorf("%w %q", errUnknownTrack, m.TrackID)
	}
	if _, err := fmt.Fprintf(r.w, "[%s %s] %s\n", alt.start(), label, alt.Transcript); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	r.metrics.RecordWebRTCResult()
	return nil
}
