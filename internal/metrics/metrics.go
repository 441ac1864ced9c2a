// Package metrics defines prometheus metrics to expose
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oceangpt_api_request_duration_seconds",
			Help:    "Total time taken for requests in seconds",
			Buckets: []float64{1, 2.5, 5, 10, 15, 20, 25, 30, 40, 50, 75, 100, 150, 200, 350, 400, 500, 600},
		},
		[]string{"endpoint"},
	)

	BackendCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oceangpt_api_backend_call_duration_seconds",
			Help:    "Time spent waiting on the inference backend in seconds",
			Buckets: []float64{1, 2.5, 5, 10, 15, 20, 25, 30, 40, 50, 75, 100, 150, 200, 350, 400, 500, 600},
		},
		[]string{"endpoint"},
	)

	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oceangpt_api_request_count_total",
			Help: "Total number of requests processed",
		},
		[]string{"endpoint", "status"},
	)

	BackendErrorCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oceangpt_api_backend_error_count",
			Help: "Backend call failures by classification",
		},
		[]string{"endpoint", "code"},
	)

	InflightRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "oceangpt_api_inflight_requests",
			Help: "Current Inflight Requests",
		},
	)

	ResponseCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oceangpt_api_status_code",
			Help: "Status Codes",
		},
		[]string{"path", "status_code"},
	)
)
