// Package segment tracks transcript segments. A segment is the span of audio
// between two final transcripts of one recognition stream.
package segment

import (
	"errors"
	"fmt"
	"sync"
)

// State is the lifecycle state of a segment.
type State int

const (
	// StateOpen accepts partials and one final.
	StateOpen State = iota
	// StateFinalEmitted has produced its final.
	StateFinalEmitted
	// StateClosed ended normally.
	StateClosed
	// StateDropped was abandoned without a final.
	StateDropped
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateFinalEmitted:
		return "FINAL_EMITTED"
	case StateClosed:
		return "CLOSED"
	case StateDropped:
		return "DROPPED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// IsTerminal reports whether no further transitions other than Reset are
// possible.
func (s State) IsTerminal() bool {
	return s == StateClosed || s == StateDropped
}

var (
	ErrSegmentClosed       = errors.New("segment is closed")
	ErrFinalAlreadyEmitted = errors.New("final already emitted for this segment")
	ErrPartialAfterFinal   = errors.New("cannot emit partial after final")
)

// Lifecycle is the state machine of the current segment of a stream. It is
// safe for concurrent use.
//
//	OPEN --EmitFinal--> FINAL_EMITTED --Close--> CLOSED
//	  |                      |
//	  +--------Drop----------+------------------> DROPPED
//
// Reset starts the next segment in OPEN.
type Lifecycle struct {
	mu        sync.RWMutex
	segmentID string
	state     State
}

// NewLifecycle returns an OPEN lifecycle for segmentID.
func NewLifecycle(segmentID string) *Lifecycle {
	return &Lifecycle{segmentID: segmentID, state: StateOpen}
}

func (l *Lifecycle) SegmentID() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.segmentID
}

func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// IsDropped reports whether the segment was abandoned.
func (l *Lifecycle) IsDropped() bool {
	return l.State() == StateDropped
}

// EmitPartial checks that a partial may be published.
func (l *Lifecycle) EmitPartial() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateOpen:
		return nil
	case StateFinalEmitted:
		return ErrPartialAfterFinal
	default:
		return ErrSegmentClosed
	}
}

// EmitFinal checks that a final may be published and moves to
// FINAL_EMITTED.
func (l *Lifecycle) EmitFinal() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateOpen:
		l.state = StateFinalEmitted
		return nil
	case StateFinalEmitted:
		return ErrFinalAlreadyEmitted
	default:
		return ErrSegmentClosed
	}
}

// Close ends the segment. A dropped segment stays dropped.
func (l *Lifecycle) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateDropped {
		l.state = StateClosed
	}
}

// Drop abandons the segment. It returns false if the segment had already
// ended.
func (l *Lifecycle) Drop() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state.IsTerminal() {
		return false
	}
	l.state = StateDropped
	return true
}

// Reset opens the next segment.
func (l *Lifecycle) Reset(segmentID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.segmentID = segmentID
	l.state = StateOpen
}
