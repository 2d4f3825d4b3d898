package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	slowRequestThreshold = time.Second
	scrapePath           = "/metrics"
)

// HTTPMetricsMiddleware records every request except scrapes, labelled by the
// route template so path parameters do not explode label cardinality.
func HTTPMetricsMiddleware(m *Metrics, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == scrapePath {
			return c.Next()
		}

		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		began := time.Now()

		err := c.Next()
		if err != nil {
			err = c.App().ErrorHandler(c, err)
		}

		elapsed := time.Since(began)
		route := routeLabel(c)
		status := strconv.Itoa(c.Response().StatusCode())

		m.RecordHTTPRequest(c.Method(), route, status, elapsed, len(c.Response().Body()))

		if elapsed > slowRequestThreshold {
			logger.Warn("Slow HTTP request",
				zap.String("method", c.Method()),
				zap.String("route", route),
				zap.String("status", status),
				zap.Duration("elapsed", elapsed))
		}

		return err
	}
}

func routeLabel(c *fiber.Ctx) string {
	if path := c.Route().Path; path != "" {
		return path
	}

	return c.Path()
}
