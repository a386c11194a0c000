package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/tiffin/internal/adapters/geo"
	natsadapter "github.com/samirrijal/tiffin/internal/adapters/nats"
	"github.com/samirrijal/tiffin/internal/adapters/postgres"
	"github.com/samirrijal/tiffin/internal/core/ports"
	"github.com/samirrijal/tiffin/internal/core/usecases"
	"github.com/samirrijal/tiffin/internal/pkg/config"
	"github.com/samirrijal/tiffin/internal/pkg/logging"
	"github.com/samirrijal/tiffin/internal/workflows"
)

func main() {
	backfill := flag.Bool("backfill", false, "start a geocoding workflow for every location without coordinates, then exit")
	limit := flag.Int("limit", 500, "maximum locations to enqueue with -backfill")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load("tiffin-geocoder")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(logger),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	provider, err := geo.NewProvider(cfg.Geo, logger)
	if err != nil {
		log.Fatalf("geo provider: %v", err)
	}

	var events ports.EventPublisher
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, geocoded locations will not be announced", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}

	locations := usecases.NewLocationService(postgres.NewLocationRepo(db), provider, events)

	taskQueue := cfg.Temporal.TaskQueue
	if taskQueue == "" {
		taskQueue = workflows.TaskQueue
	}

	if *backfill {
		if !provider.Configured() {
			log.Fatal("backfill needs a geo provider api key")
		}
		if err := enqueuePending(ctx, c, locations, taskQueue, *limit); err != nil {
			log.Fatalf("backfill: %v", err)
		}
		return
	}

	w := worker.New(c, taskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.GeocodeLocationWorkflow)
	w.RegisterActivity(&workflows.LocationActivities{Locations: locations})

	slog.Info("geocoder worker started", "task_queue", taskQueue, "geo_configured", provider.Configured())
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

// enqueuePending starts one workflow per ungeocoded location. Workflow IDs
// are derived from the location, so re-running a backfill is harmless.
func enqueuePending(ctx context.Context, c client.Client, locations *usecases.LocationService, taskQueue string, limit int) error {
	pending, err := locations.Pending(ctx, limit)
	if err != nil {
		return err
	}

	started := 0
	for _, loc := range pending {
		opts := client.StartWorkflowOptions{
			ID:                       workflows.WorkflowID(loc.ID),
			TaskQueue:                taskQueue,
			WorkflowExecutionTimeout: 10 * time.Minute,
		}
		run, err := c.ExecuteWorkflow(ctx, opts, workflows.GeocodeLocationWorkflow, workflows.GeocodeLocationInput{LocationID: loc.ID})
		if err != nil {
			slog.Error("start geocoding workflow failed", "location_id", loc.ID, "error", err)
			continue
		}
		started++
		slog.Debug("geocoding workflow started", "location_id", loc.ID, "run_id", run.GetRunID())
	}

	slog.Info("backfill enqueued", "pending", len(pending), "started", started)
	return nil
}
