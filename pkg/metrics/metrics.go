// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// SSEConnectionsActive tracks active SSE connections.
	SSEConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)

	// SessionsActive tracks sessions currently held in memory.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Number of conversation sessions in memory",
		},
	)

	// TurnsTotal tracks user turns by decision.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turns_total",
			Help: "Total user turns processed",
		},
		[]string{"decision"},
	)

	// RoadmapsTotal tracks generated roadmaps by career category.
	RoadmapsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadmaps_generated_total",
			Help: "Total roadmaps generated",
		},
		[]string{"category"},
	)

	// SessionResetsTotal tracks session resets.
	SessionResetsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_resets_total",
			Help: "Total session resets",
		},
	)

	// JournalPublishFailures tracks events that could not be journaled.
	JournalPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_publish_failures_total",
			Help: "Journal events that failed to publish",
		},
		[]string{"kind"},
	)

	// LLMReplyDuration tracks LLM follow-up latency.
	LLMReplyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_reply_duration_seconds",
			Help:    "LLM follow-up reply duration",
			Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 20},
		},
		[]string{"provider", "status"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordTurn records a processed user turn.
func RecordTurn(decision string) {
	TurnsTotal.WithLabelValues(decision).Inc()
}

// RecordRoadmap records a generated roadmap.
func RecordRoadmap(category string) {
	RoadmapsTotal.WithLabelValues(category).Inc()
}

// RecordLLMReply records an LLM follow-up call.
func RecordLLMReply(provider, status string, duration float64) {
	LLMReplyDuration.WithLabelValues(provider, status).Observe(duration)
}

// RecordJournalFailure records an event that could not be journaled.
func RecordJournalFailure(kind string) {
	JournalPublishFailures.WithLabelValues(kind).Inc()
}

// IncrementSSEConnections increments the active SSE connection count.
func IncrementSSEConnections() {
	SSEConnectionsActive.Inc()
}

// DecrementSSEConnections decrements the active SSE connection count.
func DecrementSSEConnections() {
	SSEConnectionsActive.Dec()
}
