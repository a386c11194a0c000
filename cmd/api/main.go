package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/samirrijal/tiffin/internal/adapters/geo"
	"github.com/samirrijal/tiffin/internal/adapters/http"
	natsadapter "github.com/samirrijal/tiffin/internal/adapters/nats"
	"github.com/samirrijal/tiffin/internal/adapters/postgres"
	"github.com/samirrijal/tiffin/internal/adapters/valkey"
	"github.com/samirrijal/tiffin/internal/core/domain"
	"github.com/samirrijal/tiffin/internal/core/ports"
	"github.com/samirrijal/tiffin/internal/core/usecases"
	"github.com/samirrijal/tiffin/internal/pkg/config"
	"github.com/samirrijal/tiffin/internal/pkg/logging"
	"github.com/samirrijal/tiffin/internal/pkg/metrics"
	"github.com/samirrijal/tiffin/internal/pkg/telemetry"
)

var version = "dev"

func main() {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load("tiffin-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go reportPoolStats(ctx, db)

	// Cache (optional)
	var (
		cache       ports.CacheService
		cachePinger http.Pinger
	)
	if vc, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable, caching disabled", "error", err)
	} else {
		defer vc.Close()
		cache, cachePinger = vc, vc
	}

	// NATS (optional): JetStream publisher for zone checks, raw conn for /ws
	var events ports.EventPublisher
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, zone checks will not be audited", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	// Geo provider
	provider, err := geo.NewProvider(cfg.Geo, logger)
	if err != nil {
		log.Fatalf("geo provider: %v", err)
	}

	// Repos
	locationRepo := postgres.NewLocationRepo(db)
	restaurantRepo := postgres.NewRestaurantRepo(db)
	zoneCheckRepo := postgres.NewZoneCheckRepo(db)

	// Use cases
	deps := &http.Dependencies{
		Restaurants: usecases.NewRestaurantService(restaurantRepo, locationRepo, zoneCheckRepo),
		Delivery: usecases.NewDeliveryService(restaurantRepo, locationRepo, provider, events, cache, usecases.DeliveryConfig{
			Policy:         domain.ZonePolicy(cfg.Delivery.ZonePolicy),
			NearbyRadiusKm: cfg.Delivery.NearbyRadiusKm,
		}),
		Geo:     usecases.NewGeoService(provider, cfg.Geo.Provider, cache),
		NATS:    natsConn,
		DB:      db,
		Cache:   cachePinger,
		Version: version,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Tiffin Delivery API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps, http.DefaultRouterOptions)

	slog.Info("delivery zones configured",
		"policy", deps.Delivery.Policy(),
		"geo_provider", cfg.Geo.Provider,
		"geo_configured", provider.Configured(),
	)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "version", version)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// reportPoolStats publishes pgx pool gauges every 15s.
func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Pool.Stat())
		}
	}
}
