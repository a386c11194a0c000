package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/tiffin/internal/core/domain"
)

// --- Mock RestaurantRepository ---

type mockRestaurantRepo struct {
	getByIDFn    func(ctx context.Context, id string) (*domain.Restaurant, error)
	listActiveFn func(ctx context.Context) ([]domain.Restaurant, error)
}

func (m *mockRestaurantRepo) Upsert(ctx context.Context, r *domain.Restaurant) error { return nil }

func (m *mockRestaurantRepo) GetByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRestaurantRepo) ListActive(ctx context.Context) ([]domain.Restaurant, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx)
	}
	return nil, nil
}

// --- Mock LocationRepository ---

type mockLocationRepo struct {
	listByRestaurantFn  func(ctx context.Context, restaurantID string) ([]domain.RestaurantLocation, error)
	getByIDFn           func(ctx context.Context, id string) (*domain.RestaurantLocation, error)
	listMissingFn       func(ctx context.Context, limit int) ([]domain.RestaurantLocation, error)
	updateCoordinatesFn func(ctx context.Context, id string, point domain.Coordinate) error
}

func (m *mockLocationRepo) UpsertBatch(ctx context.Context, l []domain.RestaurantLocation) error {
	return nil
}

func (m *mockLocationRepo) ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.RestaurantLocation, error) {
	if m.listByRestaurantFn != nil {
		return m.listByRestaurantFn(ctx, restaurantID)
	}
	return nil, nil
}

func (m *mockLocationRepo) GetByID(ctx context.Context, id string) (*domain.RestaurantLocation, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockLocationRepo) ListMissingCoordinates(ctx context.Context, limit int) ([]domain.RestaurantLocation, error) {
	if m.listMissingFn != nil {
		return m.listMissingFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockLocationRepo) UpdateCoordinates(ctx context.Context, id string, point domain.Coordinate) error {
	if m.updateCoordinatesFn != nil {
		return m.updateCoordinatesFn(ctx, id, point)
	}
	return nil
}

// --- Mock ZoneCheckRepository ---

type mockZoneCheckRepo struct {
	insertFn func(ctx context.Context, e *domain.ZoneCheckEvent) error
	listFn   func(ctx context.Context, restaurantID string, limit int) ([]domain.ZoneCheckEvent, error)
}

func (m *mockZoneCheckRepo) Insert(ctx context.Context, e *domain.ZoneCheckEvent) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, e)
	}
	return nil
}

func (m *mockZoneCheckRepo) ListByRestaurant(ctx context.Context, restaurantID string, limit int) ([]domain.ZoneCheckEvent, error) {
	if m.listFn != nil {
		return m.listFn(ctx, restaurantID, limit)
	}
	return nil, nil
}

// --- Mock GeoProvider ---

type mockGeo struct {
	configured     bool
	geocodeFn      func(ctx context.Context, address string) (*domain.GeocodeResult, error)
	reverseFn      func(ctx context.Context, p domain.Coordinate) (string, bool, error)
	routeFn        func(ctx context.Context, from, to domain.Coordinate, mode domain.TravelMode) (*domain.RouteResult, error)
	isodistanceFn  func(ctx context.Context, center domain.Coordinate, radiusKm float64, p domain.Coordinate) bool
	autocompleteFn func(ctx context.Context, q string, limit int) []domain.GeocodeResult
}

func (m *mockGeo) Configured() bool { return m.configured }

func (m *mockGeo) Geocode(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	if m.geocodeFn != nil {
		return m.geocodeFn(ctx, address)
	}
	return nil, nil
}

func (m *mockGeo) ReverseGeocode(ctx context.Context, p domain.Coordinate) (string, bool, error) {
	if m.reverseFn != nil {
		return m.reverseFn(ctx, p)
	}
	return "", false, nil
}

func (m *mockGeo) Route(ctx context.Context, from, to domain.Coordinate, mode domain.TravelMode) (*domain.RouteResult, error) {
	if m.routeFn != nil {
		return m.routeFn(ctx, from, to, mode)
	}
	return nil, nil
}

func (m *mockGeo) CheckIsodistance(ctx context.Context, center domain.Coordinate, radiusKm float64, p domain.Coordinate) bool {
	if m.isodistanceFn != nil {
		return m.isodistanceFn(ctx, center, radiusKm, p)
	}
	return false
}

func (m *mockGeo) Autocomplete(ctx context.Context, q string, limit int) []domain.GeocodeResult {
	if m.autocompleteFn != nil {
		return m.autocompleteFn(ctx, q, limit)
	}
	return []domain.GeocodeResult{}
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu         sync.Mutex
	zoneChecks []domain.ZoneCheckEvent
	geocoded   []domain.LocationGeocodedEvent
	err        error
}

func (m *mockPublisher) PublishZoneCheck(ctx context.Context, e *domain.ZoneCheckEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zoneChecks = append(m.zoneChecks, *e)
	return m.err
}

func (m *mockPublisher) PublishLocationGeocoded(ctx context.Context, e *domain.LocationGeocodedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.geocoded = append(m.geocoded, *e)
	return m.err
}

// --- In-memory CacheService ---

var errMiss = errors.New("miss")

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, errMiss
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// --- helpers ---

func ptr(v float64) *float64 { return &v }

func location(id string, lat, lng float64) domain.RestaurantLocation {
	return domain.RestaurantLocation{ID: id, RestaurantID: "r1", Name: id, Lat: ptr(lat), Lng: ptr(lng), Status: domain.LocationOpen}
}

func restaurantFound(ctx context.Context, id string) (*domain.Restaurant, error) {
	return &domain.Restaurant{ID: id, Name: "Tiffin House", Status: domain.RestaurantActive}, nil
}
