// Package stt defines the streaming speech-to-text contract shared by the
// Cubic, Google and mock providers.
package stt

import (
	"context"
	"io"
)

// Callback receives transcript results from a provider.
type Callback interface {
	// OnPartial is called for every interim transcript.
	OnPartial(text string)

	// OnFinal is called once per recognized utterance.
	OnFinal(text string, confidence float64)

	// OnError is called when the provider reports an error.
	OnError(err error)
}

// Transcriber streams audio to a provider until the reader is exhausted and
// returns the final transcripts.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, cb Callback) (string, error)
}

// Callbacks fans results out to every callback in order.
type Callbacks []Callback

func (cs Callbacks) OnPartial(text string) {
	for _, c := range cs {
		c.OnPartial(text)
	}
}

func (cs Callbacks) OnFinal(text string, confidence float64) {
	for _, c := range cs {
		c.OnFinal(text, confidence)
	}
}

func (cs Callbacks) OnError(err error) {
	for _, c := range cs {
		c.OnError(err)
	}
}

// Funcs adapts plain functions to Callback. Nil fields are skipped.
type Funcs struct {
	Partial func(text string)
	Final   func(text string, confidence float64)
	Error   func(err error)
}

func (f Funcs) OnPartial(text string) {
	if f.Partial != nil {
		f.Partial(text)
	}
}

func (f Funcs) OnFinal(text string, confidence float64) {
	if f.Final != nil {
		f.Final(text, confidence)
	}
}

func (f Funcs) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}
