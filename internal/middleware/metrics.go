package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	authRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Total number of unauthorized requests",
		},
		[]string{"reason"},
	)
	breakdownRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_breakdown_requests_total",
			Help: "Total number of AI breakdown requests",
		},
		[]string{"mode", "outcome"},
	)
)

// InitPrometheus registers the metrics. Call this once from main.
func InitPrometheus() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(authRejections)
	prometheus.MustRegister(breakdownRequests)
}

// Monitor records request counts, durations and auth failures. Uses the
// route pattern rather than the raw path so IDs don't explode cardinality.
func Monitor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		status := c.Response().StatusCode()

		httpRequestsTotal.WithLabelValues(path, c.Method(), strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(path, c.Method()).Observe(time.Since(start).Seconds())

		if status == fiber.StatusUnauthorized {
			authRejections.WithLabelValues("401_unauthorized").Inc()
		} else if status == fiber.StatusForbidden {
			authRejections.WithLabelValues("403_forbidden").Inc()
		}

		return err
	}
}

// CountBreakdown tracks AI breakdown calls by mode (blocking, stream,
// regenerate) and outcome (ok, error).
func CountBreakdown(mode, outcome string) {
	breakdownRequests.WithLabelValues(mode, outcome).Inc()
}
