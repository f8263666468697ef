// Package metrics exposes Prometheus metrics for the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"frontuser/internal/domain/user"
	"frontuser/internal/infrastructure/storage/postgres"
)

// Metrics holds all Prometheus collectors of the service on a private registry.
type Metrics struct {
	// Current user resolution
	resolverCache       *prometheus.CounterVec
	resolverResolutions *prometheus.CounterVec

	// Authentication
	loginAttempts *prometheus.CounterVec

	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

var _ user.ResolverMetrics = (*Metrics)(nil)

// New creates and registers all collectors, plus the Go runtime and process
// collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		resolverCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "frontuser_current_user_cache_lookups_total",
				Help: "Current user runtime cache lookups by result",
			},
			[]string{"result"},
		),

		resolverResolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "frontuser_current_user_resolutions_total",
				Help: "Current user computations by outcome",
			},
			[]string{"outcome"},
		),

		loginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "frontuser_login_attempts_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "frontuser_http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "frontuser_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		registry: registry,
	}

	registry.MustRegister(
		m.resolverCache,
		m.resolverResolutions,
		m.loginAttempts,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// CacheHit implements user.ResolverMetrics.
func (m *Metrics) CacheHit() {
	m.resolverCache.WithLabelValues("hit").Inc()
}

// CacheMiss implements user.ResolverMetrics.
func (m *Metrics) CacheMiss() {
	m.resolverCache.WithLabelValues("miss").Inc()
}

// Resolved implements user.ResolverMetrics.
func (m *Metrics) Resolved(found bool) {
	outcome := "anonymous"
	if found {
		outcome = "user"
	}
	m.resolverResolutions.WithLabelValues(outcome).Inc()
}

// LoginAttempt counts a login by outcome ("success", "invalid_credentials",
// "locked", "error").
func (m *Metrics) LoginAttempt(outcome string) {
	m.loginAttempts.WithLabelValues(outcome).Inc()
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObservePool exports database pool usage. stats is read on every scrape;
// call ObservePool at most once per Metrics.
func (m *Metrics) ObservePool(stats func() postgres.PoolStats) {
	connections := func(state string, pick func(postgres.PoolStats) int32) prometheus.Collector {
		return prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name:        "frontuser_db_pool_connections",
				Help:        "Database pool connections by state",
				ConstLabels: prometheus.Labels{"state": state},
			},
			func() float64 { return float64(pick(stats())) },
		)
	}

	m.registry.MustRegister(
		connections("total", func(s postgres.PoolStats) int32 { return s.TotalConns }),
		connections("acquired", func(s postgres.PoolStats) int32 { return s.AcquiredConns }),
		connections("idle", func(s postgres.PoolStats) int32 { return s.IdleConns }),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "frontuser_db_pool_max_connections",
				Help: "Configured maximum size of the database pool",
			},
			func() float64 { return float64(stats().MaxConns) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "frontuser_db_pool_acquires_total",
				Help: "Connections acquired from the database pool",
			},
			func() float64 { return float64(stats().AcquireCount) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "frontuser_db_pool_acquire_wait_seconds_total",
				Help: "Total time spent waiting to acquire a database connection",
			},
			func() float64 { return stats().AcquireDuration.Seconds() },
		),
	)
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
