package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "huddle_http_requests_total",
			Help: "Total number of inbound HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "huddle_http_request_duration_seconds",
			Help:    "Duration of inbound HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "huddle_upstream_requests_total",
			Help: "Total number of calls to external services",
		},
		[]string{"service", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "huddle_upstream_request_duration_seconds",
			Help:    "Duration of calls to external services in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"service"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "huddle_cache_lookups_total",
			Help: "Provider cache lookups by result",
		},
		[]string{"result"},
	)

	LLMTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "huddle_llm_tokens_total",
			Help: "Language model tokens consumed",
		},
		[]string{"direction"},
	)

	Analyses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "huddle_analyses_total",
			Help: "Completed analyses by kind and intent",
		},
		[]string{"kind", "intent"},
	)

	PlayersSynced = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "huddle_player_snapshot_size",
			Help: "Number of players in the last directory snapshot",
		},
	)
)

// Outcome labels for UpstreamRequests
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)
