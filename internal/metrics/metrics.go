// Package metrics holds the console's prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// List fetch outcomes.
const (
	FetchApplied    = "applied"
	FetchSuperseded = "superseded"
	FetchFailed     = "failed"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admin_console",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Requests sent to the society API broken down by endpoint and status class.",
	}, []string{"method", "endpoint", "status"})

	upstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "admin_console",
		Subsystem: "upstream",
		Name:      "latency_seconds",
		Help:      "Latency distribution for society API requests.",
		Buckets: []float64{
			0.01, 0.02, 0.05,
			0.1, 0.2, 0.5,
			1, 2, 5, 10, 30,
		},
	}, []string{"method", "endpoint"})

	listFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admin_console",
		Subsystem: "listing",
		Name:      "fetches_total",
		Help:      "List fetches by resource and outcome.",
	}, []string{"resource", "outcome"})

	mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admin_console",
		Subsystem: "mutations",
		Name:      "dispatched_total",
		Help:      "Admin actions dispatched by resource, action and outcome.",
	}, []string{"resource", "action", "outcome"})

	sidebarFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admin_console",
		Subsystem: "sidebar",
		Name:      "poll_failures_total",
		Help:      "Sidebar count requests that failed and were replaced by zeros.",
	}, []string{"resource"})
)

// ObserveUpstream records one society API round trip. status is 0 when no
// response was received.
func ObserveUpstream(method, endpoint string, status int, elapsed time.Duration) {
	upstreamRequests.WithLabelValues(method, endpoint, statusClass(status)).Inc()
	upstreamLatency.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// ObserveListFetch records the outcome of a list fetch.
func ObserveListFetch(resource, outcome string) {
	listFetches.WithLabelValues(resource, outcome).Inc()
}

// ObserveMutation records a dispatched admin action.
func ObserveMutation(resource, action, outcome string) {
	mutations.WithLabelValues(resource, action, outcome).Inc()
}

// ObserveSidebarFailure records a failed sidebar count request.
func ObserveSidebarFailure(resource string) {
	sidebarFailures.WithLabelValues(resource).Inc()
}

func statusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
