package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/comerciolibre/backend/pkg/logger"
)

// StructuredLoggingMiddleware writes one zerolog line per proxied request,
// leveled by outcome: 5xx logs at error, 4xx at warn, everything else at
// info. Trace correlation comes from the logger's context integration.
func StructuredLoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		ctx := c.UserContext()
		status := c.Response().StatusCode()

		event := logger.Info(ctx)
		switch {
		case status >= fiber.StatusInternalServerError:
			event = logger.Error(ctx)
		case status >= fiber.StatusBadRequest:
			event = logger.Warn(ctx)
		}
		if err != nil {
			event = event.Err(err)
		}

		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("backend", DetermineServiceFromPath(c.Path())).
			Str("ip", c.IP()).
			Str("request_id", c.Get("X-Request-Id")).
			Int("status", status).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Int("bytes", len(c.Response().Body())).
			Msg("Request proxied")

		return err
	}
}
