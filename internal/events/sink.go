package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// FileSink appends events to a file. Partial and final events share one
// file and are told apart by their eventType field.
type FileSink struct {
	mu         sync.Mutex
	w          io.Writer
	closer     io.Closer
	finalsOnly bool
	encode     func(event any) ([]byte, error)
}

// NewFileSink opens path for appending. A .msgpack path gets a stream of
// msgpack maps keyed like the JSON events; any other path gets JSON lines.
func NewFileSink(path string, finalsOnly bool) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open transcript file: %w", err)
	}
	encode := encodeJSONLine
	if filepath.Ext(path) == ".msgpack" {
		encode = encodeMsgpack
	}
	return &FileSink{w: f, closer: f, finalsOnly: finalsOnly, encode: encode}, nil
}

// NewWriterSink writes JSON lines to w. It does not close w.
func NewWriterSink(w io.Writer, finalsOnly bool) *FileSink {
	return &FileSink{w: w, finalsOnly: finalsOnly, encode: encodeJSONLine}
}

func encodeJSONLine(event any) ([]byte, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func encodeMsgpack(event any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(event); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *FileSink) PublishPartial(_ context.Context, _ string, event any) error {
	if s.finalsOnly {
		return nil
	}
	return s.write(event)
}

func (s *FileSink) PublishFinal(_ context.Context, _ string, event any) error {
	return s.write(event)
}

func (s *FileSink) write(event any) error {
	b, err := s.encode(event)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.w.Write(b)
	return err
}

func (s *FileSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Tee publishes every event to all sinks. Every sink is attempted and the
// errors are joined.
type Tee []Sink

func (t Tee) PublishPartial(ctx context.Context, key string, event any) error {
	var errs []error
	for _, s := range t {
		errs = append(errs, s.PublishPartial(ctx, key, event))
	}
	return errors.Join(errs...)
}

func (t Tee) PublishFinal(ctx context.Context, key string, event any) error {
	var errs []error
	for _, s := range t {
		errs = append(errs, s.PublishFinal(ctx, key, event))
	}
	return errors.Join(errs...)
}

func (t Tee) Close() error {
	var errs []error
	for _, s := range t {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
