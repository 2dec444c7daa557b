package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RouteTemplateKey is the fiber local holding the matched route template.
const RouteTemplateKey = "route_template"

// unmatchedRoute labels requests that never matched a route, keeping label cardinality bounded.
const unmatchedRoute = "unmatched"

// RequestLogger logs each request once it has been served and records request metrics.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		route := RouteTemplate(c)
		status := c.Response().StatusCode()
		metrics.RecordRequest(route, c.Method(), status, elapsed)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
			zap.String("ip", c.IP()),
		}
		if rid, ok := c.Locals("requestid").(string); ok {
			fields = append(fields, zap.String("request_id", rid))
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("request served", fields...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("request served", fields...)
		default:
			logger.Info("request served", fields...)
		}
		return err
	}
}

// RouteTemplate returns the matched route template for the request, if any.
func RouteTemplate(c *fiber.Ctx) string {
	if tpl, ok := c.Locals(RouteTemplateKey).(string); ok && tpl != "" {
		return tpl
	}
	return unmatchedRoute
}
