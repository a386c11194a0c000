package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/tiffin/internal/core/domain"
	"github.com/samirrijal/tiffin/internal/core/usecases"
)

func TestGeoService_GeocodeCachesMatches(t *testing.T) {
	calls := 0
	geo := &mockGeo{
		configured: true,
		geocodeFn: func(ctx context.Context, address string) (*domain.GeocodeResult, error) {
			calls++
			return &domain.GeocodeResult{Lat: 31.52, Lng: 74.35, Formatted: "Lahore, Pakistan", City: "Lahore"}, nil
		},
	}
	svc := usecases.NewGeoService(geo, "geoapify", newMemCache())

	for i := 0; i < 2; i++ {
		res, err := svc.Geocode(context.Background(), "  Lahore ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res == nil || res.City != "Lahore" {
			t.Fatalf("unexpected result %+v", res)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 provider call, got %d", calls)
	}
}

func TestGeoService_GeocodeValidation(t *testing.T) {
	svc := usecases.NewGeoService(&mockGeo{}, "geoapify", nil)

	_, err := svc.Geocode(context.Background(), "   ")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "address" {
		t.Fatalf("expected address ValidationError, got %v", err)
	}
}

func TestGeoService_GeocodePropagatesProviderError(t *testing.T) {
	geo := &mockGeo{
		configured: true,
		geocodeFn: func(ctx context.Context, address string) (*domain.GeocodeResult, error) {
			return nil, &domain.ProviderError{Op: "geocode", StatusCode: 500, Err: errors.New("boom")}
		},
	}
	svc := usecases.NewGeoService(geo, "geoapify", newMemCache())

	_, err := svc.Geocode(context.Background(), "Lahore")
	var perr *domain.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
}

func TestGeoService_ReverseAbsentNotCached(t *testing.T) {
	cache := newMemCache()
	svc := usecases.NewGeoService(&mockGeo{}, "geoapify", cache)

	_, found, err := svc.ReverseGeocode(context.Background(), customer)
	if err != nil || found {
		t.Fatalf("found=%v err=%v", found, err)
	}
	if cache.sets != 0 {
		t.Errorf("absent answers must not be cached")
	}
}

func TestGeoService_AutocompleteClampsLimit(t *testing.T) {
	var gotLimit int
	geo := &mockGeo{
		configured: true,
		autocompleteFn: func(ctx context.Context, q string, limit int) []domain.GeocodeResult {
			gotLimit = limit
			return nil
		},
	}
	svc := usecases.NewGeoService(geo, "geoapify", nil)

	got, err := svc.Autocomplete(context.Background(), "Lah", 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty slice, got %#v", got)
	}
	if gotLimit != 20 {
		t.Errorf("limit = %d, want 20", gotLimit)
	}
}

func TestGeoService_IsodistanceValidation(t *testing.T) {
	svc := usecases.NewGeoService(&mockGeo{}, "geoapify", nil)

	_, err := svc.CheckIsodistance(context.Background(), customer, 0, customer)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "radius_km" {
		t.Fatalf("expected radius_km ValidationError, got %v", err)
	}
}

func TestGeoService_Status(t *testing.T) {
	svc := usecases.NewGeoService(&mockGeo{configured: true}, "google", nil)

	st := svc.Status()
	if st.Provider != "google" || !st.Configured || st.Fallback != "haversine" {
		t.Errorf("unexpected status %+v", st)
	}
}
