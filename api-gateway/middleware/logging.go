package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/catalog-admin/pkg/logger"
)

// StructuredLoggingMiddleware emits one structured log line per gateway
// request, leveled by the response status. Trace ids reach the line through
// the logger's context hook.
func StructuredLoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		event := logger.Info(c.UserContext())
		switch {
		case status >= 500:
			event = logger.Error(c.UserContext())
		case status >= 400:
			event = logger.Warn(c.UserContext())
		}

		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Int("response_size", len(c.Response().Body())).
			Str("request_id", c.Get("X-Request-Id"))
		if err != nil {
			event = event.Err(err)
		}
		event.Msg("Gateway request")

		return err
	}
}
