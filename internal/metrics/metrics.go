package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatpane_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatpane_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	// Turn metrics
	TurnsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatpane_turns_total",
			Help: "Total chat turns submitted",
		},
	)

	RemoteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatpane_remote_errors_total",
			Help: "Failed turns by error kind",
		},
		[]string{"kind"},
	)

	IdentityDetections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatpane_identity_detections_total",
			Help: "Turns where a visitor name was extracted",
		},
	)

	MessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatpane_messages_trimmed_total",
			Help: "Messages dropped from context by trimming",
		},
	)

	PayloadTokens = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatpane_payload_tokens",
			Help:    "Estimated tokens per outgoing completion request",
			Buckets: []float64{64, 128, 256, 512, 1024, 2048, 4096, 8192},
		},
	)
)
