package diatheke

import (
	"errors"
	"fmt"
	"sync"
)

// ErrSessionClosed is returned for any transition out of SessionClosed.
var ErrSessionClosed = errors.New("session closed")

// State is the position of the interaction loop.
type State int

const (
	AwaitingAction State = iota
	HandlingInput
	HandlingReply
	HandlingCommand
	HandlingTranscribe
	SessionClosed
)

func (s State) String() string {
	switch s {
	case AwaitingAction:
		return "AwaitingAction"
	case HandlingInput:
		return "HandlingInput"
	case HandlingReply:
		return "HandlingReply"
	case HandlingCommand:
		return "HandlingCommand"
	case HandlingTranscribe:
		return "HandlingTranscribe"
	case SessionClosed:
		return "SessionClosed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func stateFor(a Action) State {
	switch a.(type) {
	case Input:
		return HandlingInput
	case Reply:
		return HandlingReply
	case Command:
		return HandlingCommand
	case Transcribe:
		return HandlingTranscribe
	default:
		return AwaitingAction
	}
}

// Tracker records the loop state. It is safe for concurrent use, so a
// signal handler or status display can read it while the loop runs.
type Tracker struct {
	mu    sync.RWMutex
	state State
}

func NewTracker() *Tracker {
	return &Tracker{state: AwaitingAction}
}

func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// To moves to s. SessionClosed is final.
func (t *Tracker) To(s State) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == SessionClosed {
		return fmt.Errorf("%w: cannot move to %s", ErrSessionClosed, s)
	}
	t.state = s
	return nil
}

// Close moves to SessionClosed. It reports whether this call closed it.
func (t *Tracker) Close() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == SessionClosed {
		return false
	}
	t.state = SessionClosed
	return true
}

func (t *Tracker) String() string {
	return t.State().String()
}
