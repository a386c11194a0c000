package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	natsadapter "github.com/samirrijal/tiffin/internal/adapters/nats"
	"github.com/samirrijal/tiffin/internal/adapters/postgres"
	"github.com/samirrijal/tiffin/internal/core/domain"
	"github.com/samirrijal/tiffin/internal/core/usecases"
	"github.com/samirrijal/tiffin/internal/pkg/config"
	"github.com/samirrijal/tiffin/internal/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("tiffin-auditor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	audit := usecases.NewAuditService(postgres.NewZoneCheckRepo(db))

	err = sub.SubscribeZoneChecks(ctx, func(ctx context.Context, event *domain.ZoneCheckEvent) error {
		err := audit.Record(ctx, event)
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			// Redelivery cannot fix a bad event; ack and move on.
			slog.Warn("dropping invalid zone check", "event_id", event.ID, "error", err)
			return nil
		}
		return err
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("zone check auditor started")
	<-ctx.Done()
	slog.Info("auditor stopped")
}
