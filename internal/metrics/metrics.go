// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled.",
		},
		[]string{"method", "handler", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "handler"},
	)

	salesRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sales_recorded_total",
			Help: "Sale registration attempts by outcome.",
		},
		[]string{"outcome"},
	)

	routesMu sync.RWMutex
	routes   = map[string]struct{}{}
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		salesRecorded,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
// Compression is left to the router.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{DisableCompression: true})
}

// RegisterRoute declares a handler label and seeds its counter so the
// request family is exported before the first request completes.
func RegisterRoute(method, path string) {
	routesMu.Lock()
	routes[path] = struct{}{}
	routesMu.Unlock()
	httpRequests.WithLabelValues(strings.ToUpper(method), path, strconv.Itoa(http.StatusOK))
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		path := canonicalPath(r.URL.Path)
		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	})
}

// RecordSale counts a sale registration attempt. outcome is one of
// "recorded", "invalid_reference", "invalid" or "error".
func RecordSale(outcome string) {
	salesRecorded.WithLabelValues(outcome).Inc()
}

// canonicalPath keeps label cardinality bounded to the registered routes.
func canonicalPath(p string) string {
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}
	routesMu.RLock()
	_, ok := routes[p]
	routesMu.RUnlock()
	if ok {
		return p
	}
	return "other"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
