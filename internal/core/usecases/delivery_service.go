package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"

	"github.com/samirrijal/tiffin/internal/core/domain"
	"github.com/samirrijal/tiffin/internal/core/ports"
	"github.com/samirrijal/tiffin/internal/pkg/geospatial"
	"github.com/samirrijal/tiffin/internal/pkg/metrics"
	"github.com/samirrijal/tiffin/internal/pkg/pricing"
)

const (
	DefaultNearbyRadiusKm = 15.0

	nearbyCacheTTL         = 300
	nearbyGeohashPrecision = 6
)

// DeliveryConfig tunes the delivery-zone decisions.
type DeliveryConfig struct {
	Policy         domain.ZonePolicy
	NearbyRadiusKm float64
}

// DeliveryService resolves delivery zones, nearby restaurants and estimates.
type DeliveryService struct {
	restaurants ports.RestaurantRepository
	locations   ports.LocationRepository
	geo         ports.GeoProvider
	events      ports.EventPublisher
	cache       ports.CacheService
	cfg         DeliveryConfig
	now         func() time.Time
}

// NewDeliveryService creates a new DeliveryService. geo, events and cache
// may be nil.
func NewDeliveryService(
	restaurants ports.RestaurantRepository,
	locations ports.LocationRepository,
	geo ports.GeoProvider,
	events ports.EventPublisher,
	cache ports.CacheService,
	cfg DeliveryConfig,
) *DeliveryService {
	if cfg.Policy == "" {
		cfg.Policy = domain.ZonePolicyRadius
	}
	if cfg.NearbyRadiusKm <= 0 {
		cfg.NearbyRadiusKm = DefaultNearbyRadiusKm
	}
	return &DeliveryService{
		restaurants: restaurants,
		locations:   locations,
		geo:         geo,
		events:      events,
		cache:       cache,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Policy returns the zone policy decisions are made with.
func (s *DeliveryService) Policy() domain.ZonePolicy { return s.cfg.Policy }

// CheckDeliveryZone decides whether restaurantID can deliver to point. The
// nearest coordinate-bearing location decides; ties keep list order.
func (s *DeliveryService) CheckDeliveryZone(ctx context.Context, restaurantID string, point domain.Coordinate) (*domain.DeliveryZoneDecision, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}

	rest, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if rest == nil {
		return nil, domain.ErrNotFound
	}

	locations, err := s.locations.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	var (
		nearest     *domain.RestaurantLocation
		nearestAt   domain.Coordinate
		nearestDist float64
	)
	for i := range locations {
		c, ok := locations[i].Coordinate()
		if !ok {
			continue
		}
		d := geospatial.Distance(point, c)
		if nearest == nil || d < nearestDist {
			nearest, nearestAt, nearestDist = &locations[i], c, d
		}
	}

	decision := &domain.DeliveryZoneDecision{Policy: s.cfg.Policy}
	if nearest != nil {
		radius := nearest.DeliveryRadiusKm()
		decision.DistanceKm = &nearestDist
		decision.RadiusKm = &radius
		decision.NearestLocation = nearest
		decision.CanDeliver = s.inZone(ctx, nearestAt, radius, point, nearestDist)
		if decision.CanDeliver {
			est := pricing.Estimate(nearestDist)
			est.Source = domain.EstimateFromHaversine
			decision.Estimate = &est
		}
	}

	result := "rejected"
	if decision.CanDeliver {
		result = "accepted"
	} else if nearest == nil {
		result = "unlocated"
	}
	metrics.ZoneChecks.WithLabelValues(string(s.cfg.Policy), result).Inc()

	s.publishZoneCheck(ctx, restaurantID, point, decision)
	return decision, nil
}

func (s *DeliveryService) inZone(ctx context.Context, center domain.Coordinate, radiusKm float64, point domain.Coordinate, distanceKm float64) bool {
	if s.cfg.Policy == domain.ZonePolicyIsoline && s.geo != nil {
		return s.geo.CheckIsodistance(ctx, center, radiusKm, point)
	}
	return distanceKm <= radiusKm
}

func (s *DeliveryService) publishZoneCheck(ctx context.Context, restaurantID string, point domain.Coordinate, d *domain.DeliveryZoneDecision) {
	if s.events == nil {
		return
	}
	event := &domain.ZoneCheckEvent{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		Point:        point,
		CanDeliver:   d.CanDeliver,
		DistanceKm:   d.DistanceKm,
		Policy:       d.Policy,
		CheckedAt:    s.now().UTC(),
	}
	if d.NearestLocation != nil {
		event.LocationID = d.NearestLocation.ID
	}
	if err := s.events.PublishZoneCheck(ctx, event); err != nil {
		slog.WarnContext(ctx, "publish zone check failed", "restaurant_id", restaurantID, "error", err)
	}
}

// NearbyRestaurants lists active restaurants with an open location within
// radiusKm of point. Each restaurant is attached to the first qualifying
// location in listing order, not necessarily its nearest one. Results are
// stably sorted by ascending distance.
func (s *DeliveryService) NearbyRestaurants(ctx context.Context, point domain.Coordinate, radiusKm float64) (*domain.NearbyResult, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		radiusKm = s.cfg.NearbyRadiusKm
	}

	restaurants, err := s.nearbyCandidates(ctx, point, radiusKm)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.NearbyRestaurant, 0)
	for _, r := range restaurants {
		if r.Status != domain.RestaurantActive {
			continue
		}
		for _, loc := range r.Locations {
			if loc.Status != domain.LocationOpen {
				continue
			}
			c, ok := loc.Coordinate()
			if !ok {
				continue
			}
			d := geospatial.Distance(point, c)
			if d > radiusKm {
				continue
			}
			rest := r
			rest.Locations = nil
			matches = append(matches, domain.NearbyRestaurant{Restaurant: rest, Location: loc, DistanceKm: d})
			break
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceKm < matches[j].DistanceKm
	})

	return &domain.NearbyResult{Restaurants: matches, Total: len(matches)}, nil
}

// nearbyCandidates returns the active restaurants that own an open location
// within radiusKm of some point of the geohash cell containing point. The
// set is cached per cell and radius; callers still filter by their own
// distance, so every point of the cell gets an exact answer.
func (s *DeliveryService) nearbyCandidates(ctx context.Context, point domain.Coordinate, radiusKm float64) ([]domain.Restaurant, error) {
	cell := geohash.EncodeWithPrecision(point.Lat, point.Lng, nearbyGeohashPrecision)
	cacheKey := fmt.Sprintf("delivery:nearby:%s:%s", cell, strconv.FormatFloat(radiusKm, 'f', -1, 64))

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached []domain.Restaurant
			if err := json.Unmarshal(data, &cached); err == nil {
				metrics.CacheHits.WithLabelValues("nearby").Inc()
				return cached, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("nearby").Inc()
	}

	restaurants, err := s.restaurants.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}

	center, reach := cellReach(cell)
	limitMeters := (radiusKm+reach)*1000 + 10 // rounding slack of Distance

	candidates := make([]domain.Restaurant, 0)
	for _, r := range restaurants {
		if r.Status != domain.RestaurantActive {
			continue
		}
		for _, loc := range r.Locations {
			c, ok := loc.Coordinate()
			if !ok || loc.Status != domain.LocationOpen {
				continue
			}
			if geospatial.Haversine(center.Lat, center.Lng, c.Lat, c.Lng) <= limitMeters {
				candidates = append(candidates, r)
				break
			}
		}
	}

	if s.cache != nil {
		if data, err := json.Marshal(candidates); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, nearbyCacheTTL)
		}
	}
	return candidates, nil
}

// cellReach returns the center of a geohash cell and the distance in km from
// it to the farthest corner.
func cellReach(cell string) (domain.Coordinate, float64) {
	box := geohash.BoundingBox(cell)
	lat, lng := box.Center()
	center := domain.Coordinate{Lat: lat, Lng: lng}

	var reach float64
	for _, corner := range [][2]float64{
		{box.MinLat, box.MinLng}, {box.MinLat, box.MaxLng},
		{box.MaxLat, box.MinLng}, {box.MaxLat, box.MaxLng},
	} {
		if d := geospatial.Haversine(lat, lng, corner[0], corner[1]) / 1000; d > reach {
			reach = d
		}
	}
	return center, reach
}

// Estimate prices a known distance.
func (s *DeliveryService) Estimate(distanceKm float64) domain.DeliveryEstimate {
	return pricing.Estimate(distanceKm)
}

// EstimateBetween prices the trip between two points. The routed distance
// is used when the provider answers; otherwise the straight-line distance.
func (s *DeliveryService) EstimateBetween(ctx context.Context, from, to domain.Coordinate, mode domain.TravelMode) (domain.DeliveryEstimate, error) {
	if err := from.Validate(); err != nil {
		return domain.DeliveryEstimate{}, err
	}
	if err := to.Validate(); err != nil {
		return domain.DeliveryEstimate{}, err
	}

	if s.geo != nil && s.geo.Configured() {
		route, err := s.geo.Route(ctx, from, to, mode)
		switch {
		case err != nil:
			slog.WarnContext(ctx, "route lookup failed, estimating from straight-line distance", "error", err)
		case route != nil:
			est := pricing.Estimate(geospatial.Round2(route.DistanceMeters / 1000))
			est.Source = domain.EstimateFromRoute
			return est, nil
		}
		metrics.GeoFallbacks.WithLabelValues("route").Inc()
	}

	est := pricing.Estimate(geospatial.Distance(from, to))
	est.Source = domain.EstimateFromHaversine
	return est, nil
}
