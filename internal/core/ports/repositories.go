package ports

import (
	"context"

	"github.com/samirrijal/tiffin/internal/core/domain"
)

// RestaurantRepository reads restaurants. GetByID returns domain.ErrNotFound
// when the restaurant does not exist.
type RestaurantRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Restaurant, error)
	// ListActive returns active restaurants with their locations attached
	// in listing order.
	ListActive(ctx context.Context) ([]domain.Restaurant, error)
	Upsert(ctx context.Context, r *domain.Restaurant) error
}

// LocationRepository reads and updates restaurant locations.
type LocationRepository interface {
	ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.RestaurantLocation, error)
	GetByID(ctx context.Context, id string) (*domain.RestaurantLocation, error)
	ListMissingCoordinates(ctx context.Context, limit int) ([]domain.RestaurantLocation, error)
	UpdateCoordinates(ctx context.Context, id string, point domain.Coordinate) error
	UpsertBatch(ctx context.Context, locations []domain.RestaurantLocation) error
}

// ZoneCheckRepository persists the delivery-zone audit trail.
type ZoneCheckRepository interface {
	Insert(ctx context.Context, event *domain.ZoneCheckEvent) error
	ListByRestaurant(ctx context.Context, restaurantID string, limit int) ([]domain.ZoneCheckEvent, error)
}
