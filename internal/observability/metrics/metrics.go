// Package metrics provides Prometheus instrumentation for spyglass.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	enabled bool

	// HTTP metrics
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec

	// RPC proxy metrics
	rpcRequestsTotal       *prometheus.CounterVec
	rpcUpstreamErrorsTotal prometheus.Counter

	// Deployment tracking metrics
	deploymentsTrackedTotal *prometheus.CounterVec
	stateInjectionsTotal    prometheus.Counter
)

// Init initializes the metrics system.
func Init(enabledFlag bool) {
	enabled = enabledFlag

	if !enabled {
		return
	}

	// HTTP request counter
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration histogram
	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Proxied JSON-RPC request counter
	rpcRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpc_requests_total",
			Help: "Total number of JSON-RPC requests proxied to the node",
		},
		[]string{"method"},
	)

	// Upstream node failure counter
	rpcUpstreamErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rpc_upstream_errors_total",
			Help: "Total number of failed calls to the upstream node",
		},
	)

	// Deployment correlation counter
	deploymentsTrackedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deployments_tracked_total",
			Help: "Total number of deployment receipts correlated with artifacts",
		},
		[]string{"outcome"},
	)

	// Explorer state injection counter
	stateInjectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "explorer_state_injections_total",
			Help: "Total number of explorer pages served with injected contract state",
		},
	)

	// Note: Go runtime metrics (goroutines, memory, GC) are automatically
	// collected by prometheus/client_golang - no custom collector needed
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	if !enabled {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
	}
	return promhttp.Handler()
}
