package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// sensitiveParams are query parameters that may carry a customer address
// or position. They are logged as present/absent only.
var sensitiveParams = map[string]bool{
	"address":  true,
	"q":        true,
	"lat":      true,
	"lng":      true,
	"from_lat": true,
	"from_lng": true,
	"to_lat":   true,
	"to_lng":   true,
}

// AccessLogMiddleware logs one structured line per request with the
// matched route, status, latency and redacted query keys.
func AccessLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		method := c.Method()
		path := c.Path()

		err := c.Next()

		status := c.Response().StatusCode()
		attrs := []slog.Attr{
			slog.String("method", method),
			slog.String("path", path),
			slog.String("route", c.Route().Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes_out", len(c.Response().Body())),
		}
		if q := redactedQuery(c); len(q) > 0 {
			attrs = append(attrs, slog.Any("query", q))
		}

		level := slog.LevelInfo
		switch {
		case err != nil || status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}

		LoggerFromCtx(c.UserContext()).LogAttrs(c.UserContext(), level, "http request", attrs...)
		return err
	}
}

func redactedQuery(c *fiber.Ctx) map[string]string {
	out := map[string]string{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		key := string(k)
		if sensitiveParams[key] {
			out[key] = "[redacted]"
			return
		}
		out[key] = string(v)
	})
	return out
}
