package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ProgressOperations counts tracker calls by operation, habit type and outcome
	ProgressOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitkit_progress_operations_total",
			Help: "Total number of progress tracker operations",
		},
		[]string{"op", "type", "outcome"},
	)
	// StreakRecomputations counts streak engine runs by result
	StreakRecomputations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitkit_streak_recomputations_total",
			Help: "Total number of streak recomputations",
		},
		[]string{"result"},
	)
	// StreakLength observes the current streak produced by each recomputation
	StreakLength = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "habitkit_streak_length",
			Help:    "Current streak length after recomputation",
			Buckets: []float64{0, 1, 2, 3, 5, 7, 14, 30, 60, 100, 365},
		},
	)
	// HTTPRequests counts API requests
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitkit_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	// HTTPRequestDuration observes API request latency
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "habitkit_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	registerOnce sync.Once
)

// Register adds all collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ProgressOperations,
			StreakRecomputations,
			StreakLength,
			HTTPRequests,
			HTTPRequestDuration,
		)
	})
}
