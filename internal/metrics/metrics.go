// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics holds the Prometheus collectors shared by curioquest components.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the curioquest collector registry served on /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		SearchTotal, ExtractTotal,
		ModelCallsTotal, ModelDuration, ModelTruncatedTotal,
		QueueWaiting, ActiveSessions,
	)
}

// SearchTotal counts searches by outcome: ok | sentinel | error.
var SearchTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "curioquest_search_total",
		Help: "Paper searches by outcome.",
	},
	[]string{"outcome"},
)

// ExtractTotal counts document extractions by source (url | upload | cache) and outcome.
var ExtractTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "curioquest_extract_total",
		Help: "Document text extractions by source and outcome.",
	},
	[]string{"source", "outcome"},
)

// ModelCallsTotal counts model invocations by task (summarize | translate | answer) and outcome.
var ModelCallsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "curioquest_model_calls_total",
		Help: "Model invocations by task and outcome.",
	},
	[]string{"task", "outcome"},
)

// ModelDuration observes model call latency in seconds.
var ModelDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "curioquest_model_duration_seconds",
		Help:    "Model call latency in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	},
	[]string{"task"},
)

// ModelTruncatedTotal counts prompts cut down to the task's input cap.
var ModelTruncatedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "curioquest_model_truncated_total",
		Help: "Prompts truncated to the input token cap.",
	},
	[]string{"task"},
)

// QueueWaiting is the number of tasks waiting for a worker.
var QueueWaiting = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "curioquest_queue_waiting",
		Help: "Tasks waiting for a queue worker.",
	},
)

// ActiveSessions is the number of live sessions.
var ActiveSessions = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "curioquest_sessions_active",
		Help: "Live user sessions.",
	},
)

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
