package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rutamapa",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rutamapa",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Map-session metrics
	IntentsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rutamapa",
		Subsystem: "session",
		Name:      "intents_total",
		Help:      "Total normalized intents processed by map sessions",
	}, []string{"kind"})

	DebounceCommits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rutamapa",
		Subsystem: "session",
		Name:      "debounce_commits_total",
		Help:      "Total settled-viewport commits fired by the move debouncer",
	})

	StaleResultsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rutamapa",
		Subsystem: "session",
		Name:      "stale_results_dropped_total",
		Help:      "Route calculation results ignored because a newer one was applied",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "rutamapa",
		Subsystem: "session",
		Name:      "active",
		Help:      "Current number of live map sessions",
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "rutamapa",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of attached surface channels",
	})

	GeocodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rutamapa",
		Subsystem: "geocode",
		Name:      "lookup_duration_seconds",
		Help:      "Latency of geocode lookups against the external service",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rutamapa",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rutamapa",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	PlansArchived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rutamapa",
		Subsystem: "history",
		Name:      "plans_archived_total",
		Help:      "Total route plans archived to the history store",
	})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "rutamapa",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "rutamapa",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// UpdateDBPoolMetrics updates pool gauges from pgx pool stats.
func UpdateDBPoolMetrics(open, idle int) {
	DBPoolConnsOpen.Set(float64(open))
	DBPoolConnsIdle.Set(float64(idle))
}
