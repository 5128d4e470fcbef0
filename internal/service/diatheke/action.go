package diatheke

import (
	"errors"
	"fmt"

	"speech-demo-clients/proto/diathekepb"
)

// ErrUnknownAction is returned for an action with no recognized variant.
var ErrUnknownAction = errors.New("unknown action")

// Action is one of Input, Reply, Command or Transcribe.
type Action interface {
	isAction()
}

// Input waits for user input and yields a replacement session.
type Input struct{ *diathekepb.WaitForUserAction }

// Reply is presented to the user. The session is unchanged.
type Reply struct{ *diathekepb.ReplyAction }

// Command is executed by the client and yields a replacement session.
type Command struct{ *diathekepb.CommandAction }

// Transcribe records audio for a transcription. The session is unchanged.
type Transcribe struct{ *diathekepb.TranscribeAction }

func (Input) isAction()      {}
func (Reply) isAction()      {}
func (Command) isAction()    {}
func (Transcribe) isAction() {}

// ActionOf returns the variant set in a.
func ActionOf(a *diathekepb.ActionData) (Action, error) {
	switch {
	case a == nil:
		return nil, fmt.Errorf("%w: nil action", ErrUnknownAction)
	case a.Input != nil:
		return Input{a.Input}, nil
	case a.Reply != nil:
		return Reply{a.Reply}, nil
	case a.Command != nil:
		return Command{a.Command}, nil
	case a.Transcribe != nil:
		return Transcribe{a.Transcribe}, nil
	default:
		return nil, fmt.Errorf("%w: %+v", ErrUnknownAction, *a)
	}
}

// Kind names the variant for logs and metrics.
func Kind(a Action) string {
	switch a.(type) {
	case Input:
		return "input"
	case Reply:
		return "reply"
	case Command:
		return "command"
	case Transcribe:
		return "transcribe"
	default:
		return "unknown"
	}
}
