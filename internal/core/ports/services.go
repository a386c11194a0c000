package ports

import (
	"context"

	"github.com/samirrijal/tiffin/internal/core/domain"
)

// GeoProvider answers geospatial questions from a remote service.
//
// A provider without credentials is "absent": lookups return no answer
// rather than an error. Transport and HTTP failures surface as
// *domain.ProviderError, except from CheckIsodistance and Autocomplete,
// which always resolve.
type GeoProvider interface {
	Configured() bool
	Geocode(ctx context.Context, address string) (*domain.GeocodeResult, error)
	ReverseGeocode(ctx context.Context, point domain.Coordinate) (formatted string, found bool, err error)
	Route(ctx context.Context, from, to domain.Coordinate, mode domain.TravelMode) (*domain.RouteResult, error)
	CheckIsodistance(ctx context.Context, center domain.Coordinate, radiusKm float64, point domain.Coordinate) bool
	Autocomplete(ctx context.Context, query string, limit int) []domain.GeocodeResult
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishZoneCheck(ctx context.Context, event *domain.ZoneCheckEvent) error
	PublishLocationGeocoded(ctx context.Context, event *domain.LocationGeocodedEvent) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeZoneChecks(ctx context.Context, handler func(ctx context.Context, event *domain.ZoneCheckEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
