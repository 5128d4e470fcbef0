package commands

import (
	"errors"

	"github.com/google/uuid"

	"speech-demo-clients/internal/events"
	"speech-demo-clients/internal/schema"
	"speech-demo-clients/internal/service/transcript"
)

// pipeline publishes the transcripts of one command run.
type pipeline struct {
	*transcript.Handler
	sink events.Sink
}

// newPipeline builds a transcript handler that publishes to Kafka (or the
// log when Kafka is disabled) and, when eventsFile is set, appends the
// events to that file.
func newPipeline(provider, sessionID, eventsFile string, sampleRate int) (*pipeline, error) {
	c := cfg()

	kafkaCfg := events.ConfigFrom(c.Kafka)
	kafkaCfg.Metrics = application.Metrics
	sinks := events.Tee{events.New(kafkaCfg)}
	if eventsFile != "" {
		fs, err := events.NewFileSink(eventsFile, false)
		if err != nil {
			_ = sinks.Close()
			return nil, err
		}
		sinks = append(sinks, fs)
	}

	validator, err := schema.New()
	if err != nil {
		_ = sinks.Close()
		return nil, err
	}

	h := transcript.New(transcript.Options{
		StreamID:     uuid.NewString(),
		Provider:     provider,
		SessionID:    sessionID,
		SampleRateHz: sampleRate,
		Limits:       transcript.LimitsFrom(c.SegmentLimits),
		Sink:         sinks,
		Validator:    validator,
		Metrics:      application.Metrics,
	})
	return &pipeline{Handler: h, sink: sinks}, nil
}

func (p *pipeline) Close() error {
	return errors.Join(p.Handler.Close(), p.sink.Close())
}
