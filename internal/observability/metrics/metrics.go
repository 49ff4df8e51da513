// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rolloff_voice"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Call metrics
	CallsTotal     prometheus.Counter
	CallsActive    prometheus.Gauge
	CallsAbandoned prometheus.Counter
	CallDuration   prometheus.Histogram

	// Turn metrics
	TurnsTotal       prometheus.Counter
	SilentTurnsTotal prometheus.Counter

	// Segment metrics
	SegmentsTotal   prometheus.Counter
	SegmentsSkipped *prometheus.CounterVec

	// Utterance metrics
	UtterancesTotal prometheus.Counter
	UtterancesEmpty prometheus.Counter

	// Backend capability metrics
	BackendLatency *prometheus.HistogramVec
	BackendErrors  *prometheus.CounterVec

	// Reply metrics
	RepliesFallback prometheus.Counter

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		CallsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_total",
			Help:      "Total number of inbound calls handled",
		}),
		CallsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "calls_active",
			Help:      "Number of currently active call sessions",
		}),
		CallsAbandoned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_abandoned_total",
			Help:      "Total number of calls abandoned after repeated silent turns",
		}),
		CallDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "call_duration_seconds",
			Help:      "Duration of call sessions in seconds",
			Buckets:   []float64{5, 15, 30, 60, 120, 300, 600, 1200},
		}),

		TurnsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Total number of completed dialog turns",
		}),
		SilentTurnsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "silent_turns_total",
			Help:      "Total number of turns with no caller speech",
		}),

		SegmentsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_total",
			Help:      "Total number of audio segments submitted for transcription",
		}),
		SegmentsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_skipped_total",
			Help:      "Total number of segments skipped",
		}, []string{"reason"}),

		UtterancesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "utterances_total",
			Help:      "Total number of utterances processed by the pipeline",
		}),
		UtterancesEmpty: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "utterances_empty_total",
			Help:      "Total number of utterances that yielded no usable speech",
		}),

		BackendLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_latency_seconds",
			Help:      "Latency of backend capability calls in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"backend"}),
		BackendErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_errors_total",
			Help:      "Total number of backend capability failures",
		}, []string{"backend", "kind"}),

		RepliesFallback: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_fallback_total",
			Help:      "Total number of canned fallback replies served",
		}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordCallStart records a new call session starting.
func (m *Metrics) RecordCallStart() {
	m.CallsTotal.Inc()
	m.CallsActive.Inc()
}

// RecordCallEnd records a call session ending.
func (m *Metrics) RecordCallEnd(durationSeconds float64) {
	m.CallsActive.Dec()
	m.CallDuration.Observe(durationSeconds)
}

// RecordCallAbandoned records a call abandoned after repeated silence.
func (m *Metrics) RecordCallAbandoned() {
	m.CallsAbandoned.Inc()
}

// RecordTurn records a completed dialog turn.
func (m *Metrics) RecordTurn(silent bool) {
	m.TurnsTotal.Inc()
	if silent {
		m.SilentTurnsTotal.Inc()
	}
}

// RecordSegment records an audio segment submitted for transcription.
func (m *Metrics) RecordSegment() {
	m.SegmentsTotal.Inc()
}

// RecordSegmentSkipped records a segment skipped for the given reason.
func (m *Metrics) RecordSegmentSkipped(reason string) {
	m.SegmentsSkipped.WithLabelValues(reason).Inc()
}

// RecordUtterance records a processed utterance and whether it was empty.
func (m *Metrics) RecordUtterance(empty bool) {
	m.UtterancesTotal.Inc()
	if empty {
		m.UtterancesEmpty.Inc()
	}
}

// RecordBackendCall records a backend capability call outcome.
func (m *Metrics) RecordBackendCall(backend string, err error, latencySeconds float64) {
	m.BackendLatency.WithLabelValues(backend).Observe(latencySeconds)
	if err != nil {
		m.BackendErrors.WithLabelValues(backend, "call_failed").Inc()
	}
}

// RecordFallbackReply records a canned fallback reply being served.
func (m *Metrics) RecordFallbackReply() {
	m.RepliesFallback.Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
