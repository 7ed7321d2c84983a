package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const unmatchedRoute = "unmatched"

var httpLabels = []string{"method", "route", "status"}

// HTTP Prometheus metrics, labelled by chi route pattern.
var (
	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bioquery",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, httpLabels)

	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bioquery",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status",
	}, httpLabels)

	// Equivalence responses can be large; their size tracks max_distance use.
	responseBytes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bioquery",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response body size by route",
		Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
	}, []string{"route"})

	inFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bioquery",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Requests currently being served",
	})
)

var httpMetricsRegistered bool

// RegisterHTTPMetrics registers the HTTP metrics. Must be called once from main.
func RegisterHTTPMetrics() {
	if httpMetricsRegistered {
		return
	}
	prometheus.MustRegister(requestDuration, requestsTotal, responseBytes, inFlight)
	httpMetricsRegistered = true
}

// Middleware measures every request. Mount it inside the chi router so the
// route pattern is known once the handler returns.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inFlight.Inc()
			defer inFlight.Dec()

			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}
			route := routePattern(r)
			status := strconv.Itoa(code)

			requestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
			requestsTotal.WithLabelValues(r.Method, route, status).Inc()
			responseBytes.WithLabelValues(route).Observe(float64(ww.BytesWritten()))
		})
	}
}

// routePattern keeps path parameters out of the labels.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}
