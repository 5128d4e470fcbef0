// Package models defines the transcript events published by the clients.
package models

const (
	EventTypePartial = "speech.transcript.partial"
	EventTypeFinal   = "speech.transcript.final"
)

// TranscriptPartial is an interim recognition result.
type TranscriptPartial struct {
	EventType string `json:"eventType"`
	StreamID  string `json:"streamId"`
	Provider  string `json:"provider"`
	SessionID string `json:"sessionId,omitempty"`
	SegmentID string `json:"segmentId"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// TranscriptFinal is the final result of one segment.
type TranscriptFinal struct {
	EventType     string  `json:"eventType"`
	StreamID      string  `json:"streamId"`
	Provider      string  `json:"provider"`
	SessionID     string  `json:"sessionId,omitempty"`
	SegmentID     string  `json:"segmentId"`
	Text          string  `json:"text"`
	Confidence    float64 `json:"confidence"`
	AudioOffsetMs int64   `json:"audioOffsetMs"`
	Timestamp     int64   `json:"timestamp"`
}
