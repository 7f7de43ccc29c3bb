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
		Namespace: "stacmap",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stacmap",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "path"})

	// Catalog metrics
	CatalogSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stacmap",
		Subsystem: "catalog",
		Name:      "searches_total",
		Help:      "Total STAC catalog search requests issued",
	}, []string{"collection"})

	CatalogSearchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stacmap",
		Subsystem: "catalog",
		Name:      "search_errors_total",
		Help:      "Total STAC catalog search failures (transport or non-2xx)",
	}, []string{"collection"})

	// Map generation metrics
	MapsRendered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stacmap",
		Subsystem: "maps",
		Name:      "rendered_total",
		Help:      "Total maps rendered to HTML",
	})

	MapGenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "stacmap",
		Subsystem: "maps",
		Name:      "generation_duration_seconds",
		Help:      "End-to-end duration of one map generation",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})

	MapGenerationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stacmap",
		Subsystem: "maps",
		Name:      "generation_failures_total",
		Help:      "Total map generation failures by error kind",
	}, []string{"kind"})
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
