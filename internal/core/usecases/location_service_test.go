package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/tiffin/internal/core/domain"
	"github.com/samirrijal/tiffin/internal/core/usecases"
)

func TestLocationService_GeocodeSkipsLocated(t *testing.T) {
	locations := &mockLocationRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.RestaurantLocation, error) {
			l := location(id, 31.5, 74.3)
			l.Address = "Mall Road, Lahore"
			return &l, nil
		},
	}
	geo := &mockGeo{
		configured: true,
		geocodeFn: func(ctx context.Context, address string) (*domain.GeocodeResult, error) {
			t.Error("located branches must not be geocoded")
			return nil, nil
		},
	}
	svc := usecases.NewLocationService(locations, geo, nil)

	res, err := svc.Geocode(context.Background(), "l1")
	if err != nil || res != nil {
		t.Fatalf("Geocode = %v, %v", res, err)
	}
}

func TestLocationService_GeocodeAddress(t *testing.T) {
	locations := &mockLocationRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.RestaurantLocation, error) {
			return &domain.RestaurantLocation{ID: id, Address: "Mall Road, Lahore"}, nil
		},
	}
	geo := &mockGeo{
		configured: true,
		geocodeFn: func(ctx context.Context, address string) (*domain.GeocodeResult, error) {
			if address != "Mall Road, Lahore" {
				t.Errorf("address = %q", address)
			}
			return &domain.GeocodeResult{Lat: 31.56, Lng: 74.32, Formatted: "Mall Road, Lahore, Pakistan"}, nil
		},
	}
	svc := usecases.NewLocationService(locations, geo, nil)

	res, err := svc.Geocode(context.Background(), "l1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res == nil || res.Lat != 31.56 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestLocationService_GeocodeMissingLocation(t *testing.T) {
	svc := usecases.NewLocationService(&mockLocationRepo{}, &mockGeo{configured: true}, nil)

	_, err := svc.Geocode(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocationService_SaveAndPublish(t *testing.T) {
	var saved domain.Coordinate
	locations := &mockLocationRepo{
		updateCoordinatesFn: func(ctx context.Context, id string, p domain.Coordinate) error {
			saved = p
			return nil
		},
	}
	pub := &mockPublisher{}
	svc := usecases.NewLocationService(locations, &mockGeo{}, pub)

	res := domain.GeocodeResult{Lat: 31.56, Lng: 74.32, Formatted: "Mall Road"}
	if err := svc.SaveCoordinates(context.Background(), "l1", res.Coordinate()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.PublishGeocoded(context.Background(), "l1", res)

	if saved != res.Coordinate() {
		t.Errorf("saved %+v", saved)
	}
	if len(pub.geocoded) != 1 || pub.geocoded[0].LocationID != "l1" {
		t.Errorf("unexpected events %+v", pub.geocoded)
	}

	if err := svc.SaveCoordinates(context.Background(), "l1", domain.Coordinate{Lat: 100}); err == nil {
		t.Error("expected validation error for lat 100")
	}
}
