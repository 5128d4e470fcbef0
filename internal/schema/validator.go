// Package schema validates transcript events against JSON schemas derived
// from the event types.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"speech-demo-clients/internal/models"
)

// Validator checks events before they are published.
type Validator struct {
	partial *jsonschema.Resolved
	final   *jsonschema.Resolved
}

// New builds the schemas. It fails only if the event types cannot be
// described, which is a programming error.
func New() (*Validator, error) {
	partial, err := resolve[models.TranscriptPartial](models.EventTypePartial, nil)
	if err != nil {
		return nil, fmt.Errorf("partial schema: %w", err)
	}
	final, err := resolve[models.TranscriptFinal](models.EventTypeFinal, func(s *jsonschema.Schema) {
		// confidence is a probability
		lo, hi := 0.0, 1.0
		s.Properties["confidence"].Minimum = &lo
		s.Properties["confidence"].Maximum = &hi
	})
	if err != nil {
		return nil, fmt.Errorf("final schema: %w", err)
	}
	return &Validator{partial: partial, final: final}, nil
}

func resolve[T any](eventType string, extra func(*jsonschema.Schema)) (*jsonschema.Resolved, error) {
	s, err := jsonschema.For[T](&jsonschema.ForOptions{})
	if err != nil {
		return nil, err
	}

	one := 1
	s.Properties["eventType"].Enum = []any{eventType}
	for _, name := range []string{"streamId", "segmentId", "provider"} {
		s.Properties[name].MinLength = &one
	}
	if extra != nil {
		extra(s)
	}
	return s.Resolve(&jsonschema.ResolveOptions{})
}

// Validate checks a TranscriptPartial or TranscriptFinal.
func (v *Validator) Validate(event any) error {
	var rs *jsonschema.Resolved
	switch event.(type) {
	case models.TranscriptPartial, *models.TranscriptPartial:
		rs = v.partial
	case models.TranscriptFinal, *models.TranscriptFinal:
		rs = v.final
	default:
		return fmt.Errorf("schema: unsupported event type %T", event)
	}

	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("schema: marshal event: %w", err)
	}
	var instance map[string]any
	if err := json.Unmarshal(b, &instance); err != nil {
		return fmt.Errorf("schema: unmarshal event: %w", err)
	}
	if err := rs.Validate(instance); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
