package diatheke

import (
	"context"
	"errors"
	"io"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"speech-demo-clients/internal/observability/logging"
	"speech-demo-clients/internal/observability/metrics"
	"speech-demo-clients/proto/diathekepb"
)

const defaultDeleteTimeout = 5 * time.Second

// ErrNilSession is returned when there is no session to process.
var ErrNilSession = errors.New("nil session")

// Handler performs the side effect of each action variant. Input and Command
// return the replacement session.
type Handler interface {
	HandleInput(ctx context.Context, s *Session, in Input) (*Session, error)
	HandleReply(ctx context.Context, s *Session, r Reply) error
	HandleCommand(ctx context.Context, s *Session, cmd Command) (*Session, error)
	HandleTranscribe(ctx context.Context, s *Session, t Transcribe) error
}

// SessionDeleter deletes sessions. *Client implements it.
type SessionDeleter interface {
	DeleteSession(ctx context.Context, token *diathekepb.TokenData) error
}

// ProcessActions runs the actions of s in order. Reply and Transcribe run
// and continue with the next action. Input and Command return the
// replacement session right away and the remaining actions are not looked
// at. It returns nil when the list is exhausted without a replacement.
func ProcessActions(ctx context.Context, h Handler, s *Session) (*Session, error) {
	return processActions(ctx, h, s, NewTracker(), nil)
}

func processActions(ctx context.Context, h Handler, s *Session, tr *Tracker, m *metrics.Metrics) (*Session, error) {
	if s == nil {
		return nil, ErrNilSession
	}
	for _, data := range s.Actions {
		a, err := ActionOf(data)
		if err != nil {
			return nil, err
		}
		if err := tr.To(stateFor(a)); err != nil {
			return nil, err
		}
		if m != nil {
			m.RecordAction(Kind(a))
		}

		switch a := a.(type) {
		case Input:
			return h.HandleInput(ctx, s, a)
		case Reply:
			if err := h.HandleReply(ctx, s, a); err != nil {
				return nil, err
			}
		case Command:
			return h.HandleCommand(ctx, s, a)
		case Transcribe:
			if err := h.HandleTranscribe(ctx, s, a); err != nil {
				return nil, err
			}
		}

		if err := tr.To(AwaitingAction); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// Loop drives a session until the dialog ends and then deletes it.
type Loop struct {
	Sessions SessionDeleter
	Handler  Handler

	// KeepOnEmpty keeps the current session when a replacement arrives
	// with no actions, so its actions run again. Without it, such a
	// replacement ends the loop.
	KeepOnEmpty bool

	Tracker       *Tracker
	DeleteTimeout time.Duration
	Metrics       *metrics.Metrics
}

// Run processes s until no replacement session is produced, ctx is
// cancelled or the handler reports io.EOF. Those are normal endings and
// return nil. The current session is deleted exactly once before Run
// returns, also when ctx is cancelled. A nil s returns ErrNilSession and
// deletes nothing.
func (l *Loop) Run(ctx context.Context, s *Session) (err error) {
	if s == nil {
		return ErrNilSession
	}
	tr := l.Tracker
	if tr == nil {
		tr = NewTracker()
	}
	m := l.Metrics
	if m == nil {
		m = metrics.DefaultMetrics
	}
	timeout := l.DeleteTimeout
	if timeout <= 0 {
		timeout = defaultDeleteTimeout
	}

	current := s
	defer func() {
		tr.Close()

		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		logger := logging.WithSession(current.Token.GetID())
		if derr := l.Sessions.DeleteSession(dctx, current.Token); derr != nil {
			logger.Error().Err(derr).Msg("Failed to delete session")
			if err == nil {
				err = derr
			}
			return
		}
		logger.Info().Msg("Session closed")
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}

		next, err := processActions(ctx, l.Handler, current, tr, m)
		if err != nil {
			if interrupted(ctx, err) {
				return nil
			}
			return err
		}
		if next == nil {
			return nil
		}
		if len(next.Actions) == 0 {
			if l.KeepOnEmpty {
				continue
			}
			current = next
			return nil
		}
		current = next
	}
}

func interrupted(ctx context.Context, err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		return true
	}
	return ctx.Err() != nil && status.Code(err) == codes.Canceled
}
