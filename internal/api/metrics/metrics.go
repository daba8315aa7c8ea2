// Package metrics defines and registers all custom Prometheus metrics for
// the Kalafo client core. It is the single source of truth for metric
// names, labels, and help strings. Metrics register with the default
// registry at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kalafo"

// RequestsTotal counts completed API dispatches.
// Labels:
//   - method: HTTP method
//   - path:   request path relative to the API base (e.g. "/login")
//   - code:   HTTP status code, or "0" when the transport failed
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of API requests dispatched, by method, path and status code.",
	},
	[]string{"method", "path", "code"},
)

// RequestErrorsTotal counts failed dispatches by normalized error kind.
// Label:
//   - kind: "timeout", "network", "cancelled", "http", "decode", "session_expired"
var RequestErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_errors_total",
		Help:      "Total number of API requests that failed, by error kind.",
	},
	[]string{"kind"},
)

// RequestDuration measures a single dispatch end-to-end, including body
// read.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of API requests from dispatch to body read.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "path"},
)

// AuthInvalidationsTotal counts 401 responses, each of which clears the
// credential store as a side effect.
var AuthInvalidationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_invalidations_total",
		Help:      "Total number of 401 responses that invalidated the stored credential.",
	},
)
