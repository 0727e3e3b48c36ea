package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	realtimePushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_pushes_total",
			Help: "Total number of events pushed over websocket connections",
		},
		[]string{"event", "status"},
	)
)

// PrometheusMiddleware records request counts and latencies per route.
func PrometheusMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			httpRequestsTotal.WithLabelValues(
				c.Request().Method,
				path,
				strconv.Itoa(status),
			).Inc()

			httpRequestDuration.WithLabelValues(
				c.Request().Method,
				path,
			).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// RecordRealtimePush counts a websocket push attempt by event type.
func RecordRealtimePush(event string, delivered bool) {
	status := "delivered"
	if !delivered {
		status = "dropped"
	}
	realtimePushesTotal.WithLabelValues(event, status).Inc()
}
