// Package metrics defines and registers the Prometheus instruments for
// outgoing API calls. It is the single source of truth for metric names,
// labels, and help strings.
//
// Instruments register with the default registry on package init.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "travel_client"

// Outcome labels.
const (
	OutcomeOK           = "ok"
	OutcomeHTTPError    = "http_error"
	OutcomeNetworkError = "network_error"
	OutcomeInvalidInput = "invalid_input"
)

// RequestsTotal counts API calls.
// Labels:
//   - method: HTTP verb
//   - route: endpoint template (e.g. "/packages/:id"), never the raw path
//   - outcome: ok, http_error, network_error, invalid_input
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of backend API calls, by route and outcome.",
	},
	[]string{"method", "route", "outcome"},
)

// RequestDuration measures wall time from request construction to parsed body.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of backend API calls, including body parsing.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// FallbackServedTotal counts listings answered from offline sample data.
// Label:
//   - resource: packages, categories, blog, users, bookings
var FallbackServedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallback_served_total",
		Help:      "Total number of listings served from offline sample data.",
	},
	[]string{"resource"},
)

// SessionTransitionsTotal counts session state changes.
// Labels:
//   - op: restore, login, register, logout, refresh
//   - result: ok, rejected, superseded
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session operations, by operation and result.",
	},
	[]string{"op", "result"},
)

// ObserveRequest records one API call.
func ObserveRequest(method, route, outcome string, took time.Duration) {
	RequestsTotal.WithLabelValues(method, route, outcome).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(took.Seconds())
}
