package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// routeLabel returns the matched mux pattern so ids do not explode label
// cardinality.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	return r.Pattern
}

func observeRequest(r *http.Request, status int, elapsed time.Duration) {
	if r.URL.Path == "/metrics" {
		return
	}
	path := routeLabel(r)
	requestTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(r.Method, path).Observe(elapsed.Seconds())
}
