package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_lookups_total",
			Help: "Company lookups by surface and outcome (ok, warning, not_found, error)",
		},
		[]string{"source", "outcome"},
	)

	upstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_upstream_requests_total",
			Help: "Requests to market and news providers by outcome",
		},
		[]string{"provider", "operation", "outcome"},
	)

	upstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pulse_upstream_request_duration_seconds",
			Help:    "Latency of market and news provider requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "operation"},
	)

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_http_requests_total",
			Help: "HTTP API requests by route and status code",
		},
		[]string{"route", "code"},
	)
)

// RecordLookup counts one company lookup.
func RecordLookup(source, outcome string) {
	lookupsTotal.WithLabelValues(source, outcome).Inc()
}

// ObserveUpstream records one provider call started at start.
func ObserveUpstream(provider, operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	upstreamRequests.WithLabelValues(provider, operation, outcome).Inc()
	upstreamDuration.WithLabelValues(provider, operation).Observe(time.Since(start).Seconds())
}

// RecordHTTP counts one HTTP API response.
func RecordHTTP(route, code string) {
	httpRequests.WithLabelValues(route, code).Inc()
}
