package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GatewayLookupsTotal counts gateway lookups by provider and outcome
	// (upstream, fallback, error).
	GatewayLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_gateway_lookups_total",
			Help: "Total number of gateway lookups",
		},
		[]string{"provider", "outcome"},
	)

	// UpstreamRequestDuration tracks latency of single upstream endpoint calls
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tracker_upstream_request_duration_seconds",
			Help:    "Upstream provider request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 8},
		},
		[]string{"provider", "result"},
	)

	// TrackAttemptsTotal counts polling attempts by outcome
	TrackAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_attempts_total",
			Help: "Total number of tracking poll attempts",
		},
		[]string{"outcome"},
	)

	// TrackRunsTotal counts finished tracking runs by final status
	TrackRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_runs_total",
			Help: "Total number of finished tracking runs",
		},
		[]string{"status", "synthetic"},
	)

	// TrackRunDuration tracks how long tracking runs take
	TrackRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tracker_run_duration_seconds",
			Help:    "Tracking run duration in seconds",
			Buckets: []float64{1, 10, 30, 60, 120, 180, 240, 300, 600},
		},
		[]string{"status"},
	)

	// ActiveSessions tracks the number of active tracking sessions
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tracker_active_sessions",
			Help: "Number of active tracking sessions",
		},
	)

	// ErrorsTotal counts errors by component and type
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)
