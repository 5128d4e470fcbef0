// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "speech_demo"

// Metrics holds all Prometheus metrics for the clients and the mock server.
type Metrics struct {
	// RPC metrics
	RPCTotal   *prometheus.CounterVec
	RPCLatency *prometheus.HistogramVec

	// Stream metrics
	StreamsTotal   prometheus.Counter
	StreamsActive  prometheus.Gauge
	StreamsSuccess prometheus.Counter
	StreamsFailed  prometheus.Counter
	StreamDuration prometheus.Histogram

	// Audio metrics
	AudioBytesSent  prometheus.Counter
	AudioFramesSent prometheus.Counter
	AudioBytesPlay  prometheus.Counter

	// Dialog metrics
	SessionsCreated prometheus.Counter
	SessionsDeleted prometheus.Counter
	Actions         *prometheus.CounterVec
	TTSFirstAudio   prometheus.Histogram

	// Segment metrics
	SegmentsCreated   prometheus.Counter
	SegmentsCompleted prometheus.Counter
	SegmentsDropped   *prometheus.CounterVec

	// Transcript metrics
	TranscriptsPartial prometheus.Counter
	TranscriptsFinal   prometheus.Counter
	WebRTCResults      prometheus.Counter

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec

	STTErrors *prometheus.CounterVec

	// Backpressure metrics
	SegmentLimitExceeded *prometheus.CounterVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)

// NewMetrics creates all metrics and registers them with reg. A nil reg
// leaves them unregistered, which tests use to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RPCTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_total",
			Help:      "Total number of gRPC calls by method and status code",
		}, []string{"method", "code"}),
		RPCLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_latency_seconds",
			Help:      "Unary gRPC call latency in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}, []string{"method"}),

		StreamsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streams_total",
			Help:      "Total number of gRPC streams started",
		}),
		StreamsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "streams_active",
			Help:      "Number of currently active gRPC streams",
		}),
		StreamsSuccess: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streams_success_total",
			Help:      "Total number of successfully completed streams",
		}),
		StreamsFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streams_failed_total",
			Help:      "Total number of failed streams",
		}),
		StreamDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stream_duration_seconds",
			Help:      "Duration of gRPC streams in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),

		AudioBytesSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_bytes_sent_total",
			Help:      "Total audio bytes sent on streams",
		}),
		AudioFramesSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_frames_sent_total",
			Help:      "Total audio frames sent on streams",
		}),
		AudioBytesPlay: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_bytes_played_total",
			Help:      "Total synthesized audio bytes written to players and files",
		}),

		SessionsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Total number of dialog sessions created",
		}),
		SessionsDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_deleted_total",
			Help:      "Total number of dialog sessions deleted",
		}),
		Actions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Total number of dialog actions handled by kind",
		}, []string{"kind"}),
		TTSFirstAudio: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tts_first_audio_seconds",
			Help:      "Time from synthesis request to first audio chunk",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}),

		SegmentsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_created_total",
			Help:      "Total number of transcript segments created",
		}),
		SegmentsCompleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_completed_total",
			Help:      "Total number of segments completed with final transcript",
		}),
		SegmentsDropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_dropped_total",
			Help:      "Total number of segments dropped",
		}, []string{"reason"}),

		TranscriptsPartial: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_partial_total",
			Help:      "Total number of partial transcripts received",
		}),
		TranscriptsFinal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_final_total",
			Help:      "Total number of final transcripts received",
		}),
		WebRTCResults: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webrtc_results_total",
			Help:      "Total number of WebRTC transcription results written",
		}),

		KafkaPublishTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),

		STTErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stt_errors_total",
			Help:      "Total number of STT errors",
		}, []string{"provider", "error_type"}),

		SegmentLimitExceeded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segment_limit_exceeded_total",
			Help:      "Total number of times segment limits were exceeded",
		}, []string{"limit_type"}),
	}
}

// RecordRPC records a finished unary call.
func (m *Metrics) RecordRPC(method, code string, latencySeconds float64) {
	m.RPCTotal.WithLabelValues(method, code).Inc()
	m.RPCLatency.WithLabelValues(method).Observe(latencySeconds)
}

// RecordStreamStart records a new stream starting.
func (m *Metrics) RecordStreamStart() {
	m.StreamsTotal.Inc()
	m.StreamsActive.Inc()
}

// RecordStreamEnd records a stream ending.
func (m *Metrics) RecordStreamEnd(success bool, durationSeconds float64) {
	m.StreamsActive.Dec()
	m.StreamDuration.Observe(durationSeconds)
	if success {
		m.StreamsSuccess.Inc()
	} else {
		m.StreamsFailed.Inc()
	}
}

// RecordAudioSent records one audio frame sent on a stream.
func (m *Metrics) RecordAudioSent(bytes int) {
	m.AudioBytesSent.Add(float64(bytes))
	m.AudioFramesSent.Inc()
}

// RecordAudioPlayed records synthesized audio handed to a player or file.
func (m *Metrics) RecordAudioPlayed(bytes int) {
	m.AudioBytesPlay.Add(float64(bytes))
}

func (m *Metrics) RecordSessionCreated() {
	m.SessionsCreated.Inc()
}

func (m *Metrics) RecordSessionDeleted() {
	m.SessionsDeleted.Inc()
}

// RecordAction records one dialog action being handled.
func (m *Metrics) RecordAction(kind string) {
	m.Actions.WithLabelValues(kind).Inc()
}

// RecordTTSFirstAudio records the synthesis time to first audio.
func (m *Metrics) RecordTTSFirstAudio(seconds float64) {
	m.TTSFirstAudio.Observe(seconds)
}

// RecordSegmentCreated records a new segment being created.
func (m *Metrics) RecordSegmentCreated() {
	m.SegmentsCreated.Inc()
}

// RecordSegmentCompleted records a segment completed with final transcript.
func (m *Metrics) RecordSegmentCompleted() {
	m.SegmentsCompleted.Inc()
}

// RecordSegmentDropped records a segment being dropped.
func (m *Metrics) RecordSegmentDropped(reason string) {
	m.SegmentsDropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordPartialTranscript() {
	m.TranscriptsPartial.Inc()
}

func (m *Metrics) RecordFinalTranscript() {
	m.TranscriptsFinal.Inc()
}

func (m *Metrics) RecordWebRTCResult() {
	m.WebRTCResults.Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}

// RecordSTTError records an STT error.
func (m *Metrics) RecordSTTError(provider, errorType string) {
	m.STTErrors.WithLabelValues(provider, errorType).Inc()
}

// RecordLimitExceeded records when a segment limit is exceeded.
func (m *Metrics) RecordLimitExceeded(limitType string) {
	m.SegmentLimitExceeded.WithLabelValues(limitType).Inc()
}
