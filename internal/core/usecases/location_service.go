package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samirrijal/tiffin/internal/core/domain"
	"github.com/samirrijal/tiffin/internal/core/ports"
)

// LocationService fills in missing location coordinates from addresses.
type LocationService struct {
	locations ports.LocationRepository
	geo       ports.GeoProvider
	events    ports.EventPublisher
}

// NewLocationService creates a new LocationService. events may be nil.
func NewLocationService(locations ports.LocationRepository, geo ports.GeoProvider, events ports.EventPublisher) *LocationService {
	return &LocationService{locations: locations, geo: geo, events: events}
}

// Pending returns locations that have an address but no coordinates.
func (s *LocationService) Pending(ctx context.Context, limit int) ([]domain.RestaurantLocation, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.locations.ListMissingCoordinates(ctx, limit)
}

// Geocode resolves the address of a location. It returns nil when the
// location already has coordinates, has no address, or nothing matched.
func (s *LocationService) Geocode(ctx context.Context, locationID string) (*domain.GeocodeResult, error) {
	loc, err := s.locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("get location %s: %w", locationID, err)
	}
	if _, ok := loc.Coordinate(); ok || loc.Address == "" {
		return nil, nil
	}
	if !s.geo.Configured() {
		return nil, nil
	}
	return s.geo.Geocode(ctx, loc.Address)
}

func (s *LocationService) SaveCoordinates(ctx context.Context, locationID string, point domain.Coordinate) error {
	if err := point.Validate(); err != nil {
		return err
	}
	return s.locations.UpdateCoordinates(ctx, locationID, point)
}

// PublishGeocoded announces new coordinates. Publishing is best effort.
func (s *LocationService) PublishGeocoded(ctx context.Context, locationID string, res domain.GeocodeResult) {
	if s.events == nil {
		return
	}
	event := &domain.LocationGeocodedEvent{
		LocationID: locationID,
		Point:      res.Coordinate(),
		Formatted:  res.Formatted,
		GeocodedAt: time.Now().UTC(),
	}
	if err := s.events.PublishLocationGeocoded(ctx, event); err != nil {
		slog.WarnContext(ctx, "publish location geocoded failed", "location_id", locationID, "error", err)
	}
}
