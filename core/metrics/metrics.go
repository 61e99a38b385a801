package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ModerationTransitions counts persisted status changes.
	ModerationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "summit_moderation_transitions_total",
		Help: "Moderation request status transitions by source and target status",
	}, []string{"from", "to"})

	// ModerationClaimOutcomes counts submitClaim results.
	ModerationClaimOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "summit_moderation_claims_total",
		Help: "Moderation claims by outcome (created, duplicate, conflict)",
	}, []string{"outcome"})

	SlotComputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "summit_slot_computations_total",
		Help: "Available slot computations by cache result",
	}, []string{"cache"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "summit_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request latency keyed by the registered route path.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			HTTPRequestDuration.WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}
