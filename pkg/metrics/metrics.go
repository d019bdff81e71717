package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analyzerRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doc_insights_analyzer_runs_total",
			Help: "Total number of analyzer runs by outcome",
		},
		[]string{"analyzer", "outcome"},
	)
	analyzerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "doc_insights_analyzer_duration_seconds",
			Help:    "Analyzer run duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"analyzer"},
	)
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doc_insights_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"route", "method", "status"},
	)
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "doc_insights_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"route"},
	)
)

// AnalyzerRecorder feeds analyzer outcomes into the process registry.
type AnalyzerRecorder struct{}

func (AnalyzerRecorder) ObserveAnalyzer(name string, err error, duration time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	analyzerRuns.WithLabelValues(name, outcome).Inc()
	analyzerDuration.WithLabelValues(name).Observe(duration.Seconds())
}

// Requests counts requests by their chi route pattern so path parameters do
// not explode label cardinality.
func Requests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
