// Package stream runs bidirectional audio streams. A producer goroutine
// sends a head message and then one frame per audio chunk while the caller
// receives responses concurrently.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"speech-demo-clients/internal/observability/metrics"
)

var (
	// ErrStreamAborted wraps an audio source failure that ended a stream.
	ErrStreamAborted = errors.New("stream aborted")
	// ErrNoFinal is returned when a stream ends without a final response.
	ErrNoFinal = errors.New("stream ended without a final result")
)

// Transport is the client side of one bidirectional stream.
type Transport[Req, Resp any] interface {
	Send(Req) error
	Recv() (Resp, error)
	CloseSend() error
}

// Exchange describes one streaming call.
type Exchange[Req, Resp any] struct {
	// Open starts the call. The stream must end when ctx is cancelled.
	Open func(ctx context.Context) (Transport[Req, Resp], error)
	// Head is sent before any audio.
	Head Req
	// Audio wraps one chunk in a request.
	Audio func(chunk []byte) Req

	Metrics *metrics.Metrics
}

// FirstFinal streams src until isFinal accepts a response. handle, when not
// nil, sees every response including the final one. The final response is
// returned, or ErrNoFinal if the server closed the stream first.
func FirstFinal[Req, Resp any](
	ctx context.Context,
	ex Exchange[Req, Resp],
	src *Source,
	isFinal func(Resp) bool,
	handle func(Resp) error,
) (Resp, error) {
	var (
		final Resp
		found bool
	)
	err := run(ctx, ex, src, func(r Resp) (bool, error) {
		if handle != nil {
			if err := handle(r); err != nil {
				return true, err
			}
		}
		if isFinal(r) {
			final, found = r, true
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return final, err
	}
	if !found {
		return final, ErrNoFinal
	}
	return final, nil
}

// Drain streams src until the server closes the stream. handle, when not nil,
// sees every response. The texts that finalText accepts are concatenated in
// arrival order and returned.
func Drain[Req, Resp any](
	ctx context.Context,
	ex Exchange[Req, Resp],
	src *Source,
	finalText func(Resp) (string, bool),
	handle func(Resp) error,
) (string, error) {
	var sb strings.Builder
	err := run(ctx, ex, src, func(r Resp) (bool, error) {
		if handle != nil {
			if err := handle(r); err != nil {
				return true, err
			}
		}
		if text, ok := finalText(r); ok {
			sb.WriteString(text)
		}
		return false, nil
	})
	return sb.String(), err
}

// run drives one call. consume returns true to stop receiving. The producer
// has exited by the time run returns.
func run[Req, Resp any](
	ctx context.Context,
	ex Exchange[Req, Resp],
	src *Source,
	consume func(Resp) (bool, error),
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t, err := ex.Open(ctx)
	if err != nil {
		return err
	}

	m := ex.Metrics
	if m == nil {
		m = metrics.DefaultMetrics
	}

	produced := make(chan error, 1)
	go func() {
		produced <- produce(ctx, t, ex, src, m)
	}()

	var recvErr, handleErr error
	for {
		resp, err := t.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			recvErr = err
			break
		}
		stop, err := consume(resp)
		if err != nil {
			handleErr = err
			break
		}
		if stop {
			break
		}
	}

	cancel()
	prodErr := <-produced

	switch {
	case recvErr != nil:
		return recvErr
	case handleErr != nil:
		return handleErr
	default:
		return prodErr
	}
}

// produce sends the head and then every chunk. It half-closes the stream when
// the source is exhausted or fails. A cancelled ctx stops it without sending
// anything further.
func produce[Req, Resp any](
	ctx context.Context,
	t Transport[Req, Resp],
	ex Exchange[Req, Resp],
	src *Source,
	m *metrics.Metrics,
) error {
	if err := t.Send(ex.Head); err != nil {
		// the receive side reports the stream status
		return nil
	}

	for {
		chunk, err := src.Next()
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, io.EOF) {
			if err := t.CloseSend(); err != nil {
				log.Debug().Err(err).Msg("close send")
			}
			return nil
		}
		if err != nil {
			if cerr := t.CloseSend(); cerr != nil {
				log.Debug().Err(cerr).Msg("close send")
			}
			return fmt.Errorf("%w: %v", ErrStreamAborted, err)
		}

		if err := t.Send(ex.Audio(chunk)); err != nil {
			return nil
		}
		m.RecordAudioSent(len(chunk))
	}
}
