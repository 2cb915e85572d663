package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal counts simulator requests by method, path, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dpmigrate_sim_http_requests_total",
			Help: "Total number of HTTP requests served by the APIC simulator",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures simulator request duration in seconds.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dpmigrate_sim_http_request_duration_seconds",
			Help: "APIC simulator request duration in seconds",
			// 1ms to 1s
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)
)

// registerHTTPMetrics registers the simulator HTTP metrics.
func registerHTTPMetrics() error {
	return register(HTTPRequestsTotal, HTTPRequestDuration)
}
