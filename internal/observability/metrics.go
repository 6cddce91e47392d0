package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	apiRequestsTotal   *prometheus.CounterVec
	apiLatencySeconds  *prometheus.HistogramVec
	apiErrorsTotal     *prometheus.CounterVec
	insightsCacheTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used for API observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "advisio",
			Name:      "api_requests_total",
			Help:      "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "advisio",
			Name:      "api_latency_seconds",
			Help:      "Latency distribution for API requests.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "advisio",
			Name:      "api_errors_total",
			Help:      "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		insightsCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "advisio",
			Name:      "insights_cache_total",
			Help:      "Insights snapshot cache lookups partitioned by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, apiErrorsTotal, insightsCacheTotal)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// InsightsCache exposes the counter for snapshot cache hits and misses.
func InsightsCache() *prometheus.CounterVec {
	RegisterMetrics()
	return insightsCacheTotal
}
