package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/samirrijal/tiffin/internal/adapters/postgres"
	"github.com/samirrijal/tiffin/internal/core/domain"
	"github.com/samirrijal/tiffin/internal/pkg/config"
	"github.com/samirrijal/tiffin/internal/pkg/logging"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "parse and report without writing")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: importer [-dry-run] <restaurants.csv>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load("tiffin-importer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer f.Close()

	restaurants, err := parseCSV(f)
	if err != nil {
		log.Fatalf("parse %s: %v", flag.Arg(0), err)
	}

	locations, missing := 0, 0
	for _, r := range restaurants {
		for _, l := range r.Locations {
			locations++
			if _, ok := l.Coordinate(); !ok {
				missing++
			}
		}
	}
	slog.Info("parsed import file", "restaurants", len(restaurants), "locations", locations, "without_coordinates", missing)
	if *dryRun {
		return
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := importAll(ctx, postgres.NewRestaurantRepo(db), postgres.NewLocationRepo(db), restaurants); err != nil {
		log.Fatalf("import: %v", err)
	}
	if missing > 0 {
		slog.Info("run the geocoder with -backfill to locate addresses", "pending", missing)
	}
}

type restaurantWriter interface {
	Upsert(ctx context.Context, r *domain.Restaurant) error
}

type locationWriter interface {
	UpsertBatch(ctx context.Context, locations []domain.RestaurantLocation) error
}

func importAll(ctx context.Context, restaurants restaurantWriter, locations locationWriter, rs []domain.Restaurant) error {
	for i := range rs {
		r := &rs[i]
		if err := restaurants.Upsert(ctx, r); err != nil {
			return fmt.Errorf("restaurant %s: %w", r.Slug, err)
		}
		for j := range r.Locations {
			r.Locations[j].RestaurantID = r.ID
		}
		if err := locations.UpsertBatch(ctx, r.Locations); err != nil {
			return fmt.Errorf("locations of %s: %w", r.Slug, err)
		}
		slog.Info("imported restaurant", "slug", r.Slug, "id", r.ID, "locations", len(r.Locations))
	}
	return nil
}
