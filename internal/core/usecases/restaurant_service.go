package usecases

import (
	"context"

	"github.com/samirrijal/tiffin/internal/core/domain"
	"github.com/samirrijal/tiffin/internal/core/ports"
)

// RestaurantService handles restaurant read operations.
type RestaurantService struct {
	restaurants ports.RestaurantRepository
	locations   ports.LocationRepository
	zoneChecks  ports.ZoneCheckRepository
}

// NewRestaurantService creates a new RestaurantService. zoneChecks may be nil.
func NewRestaurantService(restaurants ports.RestaurantRepository, locations ports.LocationRepository, zoneChecks ports.ZoneCheckRepository) *RestaurantService {
	return &RestaurantService{restaurants: restaurants, locations: locations, zoneChecks: zoneChecks}
}

// ListActive returns active restaurants with their locations.
func (s *RestaurantService) ListActive(ctx context.Context) ([]domain.Restaurant, error) {
	return s.restaurants.ListActive(ctx)
}

// Get returns a restaurant with its locations attached.
func (s *RestaurantService) Get(ctx context.Context, id string) (*domain.Restaurant, error) {
	r, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	locations, err := s.locations.ListByRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Locations = locations
	return r, nil
}

// Locations returns the locations of an existing restaurant.
func (s *RestaurantService) Locations(ctx context.Context, id string) ([]domain.RestaurantLocation, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Locations == nil {
		return []domain.RestaurantLocation{}, nil
	}
	return r.Locations, nil
}

// ZoneChecks returns the most recent audited zone checks of a restaurant.
func (s *RestaurantService) ZoneChecks(ctx context.Context, id string, limit int) ([]domain.ZoneCheckEvent, error) {
	if _, err := s.restaurants.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if s.zoneChecks == nil {
		return []domain.ZoneCheckEvent{}, nil
	}
	events, err := s.zoneChecks.ListByRestaurant(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.ZoneCheckEvent{}
	}
	return events, nil
}
