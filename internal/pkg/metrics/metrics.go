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
		Namespace: "tiffin",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tiffin",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tiffin",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Geo provider metrics
	GeoProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tiffin",
		Subsystem: "geo",
		Name:      "provider_requests_total",
		Help:      "Geo provider calls by operation and outcome (ok, empty, error, unconfigured)",
	}, []string{"provider", "operation", "outcome"})

	GeoProviderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tiffin",
		Subsystem: "geo",
		Name:      "provider_request_duration_seconds",
		Help:      "Latency of geo provider calls",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"provider", "operation"})

	GeoFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tiffin",
		Subsystem: "geo",
		Name:      "haversine_fallbacks_total",
		Help:      "Answers computed with the straight-line fallback instead of the provider",
	}, []string{"operation"})

	// Delivery metrics
	ZoneChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tiffin",
		Subsystem: "delivery",
		Name:      "zone_checks_total",
		Help:      "Delivery zone decisions by policy and result",
	}, []string{"policy", "result"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tiffin",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tiffin",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	ZoneChecksAudited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tiffin",
		Subsystem: "audit",
		Name:      "zone_checks_stored_total",
		Help:      "Zone check events persisted by the auditor",
	})

	LocationsGeocoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tiffin",
		Subsystem: "geocoder",
		Name:      "locations_total",
		Help:      "Locations processed by the geocoding workflow by outcome",
	}, []string{"outcome"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tiffin",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tiffin",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tiffin",
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
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// PoolStat is the subset of pgxpool.Stat the gauges read.
type PoolStat interface {
	AcquiredConns() int32
	IdleConns() int32
	TotalConns() int32
}

// UpdateDBPoolMetrics updates database pool gauges from pool stats.
func UpdateDBPoolMetrics(s PoolStat) {
	DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
	DBPoolConnsIdle.Set(float64(s.IdleConns()))
	DBPoolConnsOpen.Set(float64(s.TotalConns()))
}
