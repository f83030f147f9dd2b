// Package metrics exposes Prometheus metrics for the store and the HTTP API.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/daycare-server/internal/model"
)

const namespace = "daycare"

// Registry owns a Prometheus registry and the collectors registered on it.
type Registry struct {
	registry *prometheus.Registry

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	breakerState    *prometheus.GaugeVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a Registry with Go runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.dbQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "queries_total",
			Help:      "Total number of database queries executed",
		},
		[]string{"operation", "table", "code"},
	)
	r.dbQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"operation", "table"},
	)
	r.breakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
	r.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	r.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.dbQueriesTotal,
		r.dbQueryDuration,
		r.breakerState,
		r.httpRequestsTotal,
		r.httpRequestDuration,
	)

	return r
}

// ObserveQuery records one database query. Errors are labelled with their
// store error code; successful queries with "ok".
func (r *Registry) ObserveQuery(operation, table string, d time.Duration, err error) {
	code := "ok"
	if err != nil {
		code = queryErrorCode(err)
	}
	r.dbQueriesTotal.WithLabelValues(operation, table, code).Inc()
	r.dbQueryDuration.WithLabelValues(operation, table).Observe(d.Seconds())
}

// SetBreakerState records the state of the named circuit breaker.
func (r *Registry) SetBreakerState(name string, state int) {
	r.breakerState.WithLabelValues(name).Set(float64(state))
}

// ObserveRequest records one HTTP request.
func (r *Registry) ObserveRequest(method, route string, status int, d time.Duration) {
	r.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler returns the HTTP handler serving the registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// Gatherer exposes the underlying registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

func queryErrorCode(err error) string {
	if code := model.ErrorCode(err); code != "" {
		return code
	}
	if errors.Is(err, model.ErrNotFound) {
		return model.CodeNoRows
	}
	return "error"
}
