package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/tiffin/internal/pkg/metrics"
)

const handlerTimeout = 15 * time.Second

// deliveryCheckSunset is when GET /v1/delivery/check goes away.
var deliveryCheckSunset = time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)

// RouterOptions tunes edge behaviour that differs between production and tests.
type RouterOptions struct {
	RateLimit   int    // requests per minute per IP, 0 disables
	OpenAPIPath string // defaults to api/openapi.yaml
}

// DefaultRouterOptions are the production settings.
var DefaultRouterOptions = RouterOptions{RateLimit: 120}

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies, opts RouterOptions) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	if opts.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        opts.RateLimit,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
			},
		}))
	}

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())
	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{
			Path:        "/v1/delivery/check",
			SunsetDate:  deliveryCheckSunset,
			Alternative: "/v1/restaurants/{id}/delivery-zone",
		},
	}))

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	with := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, handlerTimeout)
	}

	// Restaurants ("nearby" before ":id")
	v1.Get("/restaurants", with(ListRestaurantsHandler(deps)))
	v1.Get("/restaurants/nearby", with(NearbyRestaurantsHandler(deps)))
	v1.Get("/restaurants/:id", with(GetRestaurantHandler(deps)))
	v1.Get("/restaurants/:id/locations", with(RestaurantLocationsHandler(deps)))
	v1.Get("/restaurants/:id/delivery-zone", with(DeliveryZoneHandler(deps)))
	v1.Get("/restaurants/:id/zone-checks", with(RestaurantZoneChecksHandler(deps)))

	// Delivery
	v1.Get("/delivery/check", with(DeliveryCheckHandler(deps)))
	v1.Get("/delivery/estimate", with(EstimateHandler(deps)))
	v1.Post("/delivery/estimate", with(EstimateRouteHandler(deps)))

	// Geo provider passthrough
	v1.Get("/geo/status", GeoStatusHandler(deps))
	v1.Get("/geo/geocode", with(GeocodeHandler(deps)))
	v1.Get("/geo/reverse", with(ReverseGeocodeHandler(deps)))
	v1.Get("/geo/autocomplete", with(AutocompleteHandler(deps)))
	v1.Get("/geo/route", with(RouteHandler(deps)))
	v1.Get("/geo/isodistance", with(IsodistanceHandler(deps)))

	app.Post("/graphql", with(GraphQLHandler(deps)))

	// API documentation (Swagger UI)
	SetupDocs(app, opts.OpenAPIPath)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
