package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on GET responses the handler left
// unmarked. Zone decisions and estimates are per-customer and never cached
// by shared caches.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}
		if c.Response().StatusCode() >= 400 {
			c.Set("Cache-Control", "no-store")
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10"

		case path == "/metrics":
			ttl = "no-cache"

		case strings.HasSuffix(path, "/delivery-zone"),
			strings.HasPrefix(path, "/v1/delivery/"),
			strings.HasSuffix(path, "/zone-checks"):
			ttl = "private, no-store"

		case path == "/v1/restaurants/nearby":
			ttl = "public, max-age=300"

		case strings.HasPrefix(path, "/v1/geo/geocode"),
			strings.HasPrefix(path, "/v1/geo/reverse"):
			ttl = "public, max-age=86400" // addresses rarely move

		case strings.HasPrefix(path, "/v1/geo/autocomplete"):
			ttl = "public, max-age=3600"

		case path == "/v1/geo/status":
			ttl = "public, max-age=60"

		case strings.HasPrefix(path, "/v1/restaurants"):
			ttl = "public, max-age=600"

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=300"
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
