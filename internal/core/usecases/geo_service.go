package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mmcloughlin/geohash"

	"github.com/samirrijal/tiffin/internal/core/domain"
	"github.com/samirrijal/tiffin/internal/core/ports"
	"github.com/samirrijal/tiffin/internal/pkg/metrics"
)

const (
	geocodeCacheTTL      = 24 * 60 * 60
	reverseCacheTTL      = 24 * 60 * 60
	autocompleteCacheTTL = 60 * 60

	maxAutocompleteLimit = 20
)

// GeoStatus describes the active geo provider.
type GeoStatus struct {
	Provider   string `json:"provider"`
	Configured bool   `json:"configured"`
	Fallback   string `json:"fallback"`
}

// GeoService validates geo requests and caches provider answers.
type GeoService struct {
	provider ports.GeoProvider
	name     string
	cache    ports.CacheService
}

// NewGeoService creates a new GeoService. cache may be nil.
func NewGeoService(provider ports.GeoProvider, name string, cache ports.CacheService) *GeoService {
	return &GeoService{provider: provider, name: name, cache: cache}
}

func (s *GeoService) Status() GeoStatus {
	return GeoStatus{
		Provider:   s.name,
		Configured: s.provider.Configured(),
		Fallback:   "haversine",
	}
}

// Geocode returns the best match for address, or nil when there is none.
func (s *GeoService) Geocode(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, &domain.ValidationError{Field: "address", Reason: "required"}
	}

	key := "geo:geocode:" + strings.ToLower(address)
	var cached domain.GeocodeResult
	if s.fromCache(ctx, "geocode", key, &cached) {
		return &cached, nil
	}

	res, err := s.provider.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}
	if res != nil {
		s.toCache(ctx, key, res, geocodeCacheTTL)
	}
	return res, nil
}

// ReverseGeocode returns the formatted address at point.
func (s *GeoService) ReverseGeocode(ctx context.Context, point domain.Coordinate) (string, bool, error) {
	if err := point.Validate(); err != nil {
		return "", false, err
	}

	key := "geo:reverse:" + geohash.EncodeWithPrecision(point.Lat, point.Lng, 9)
	var cached string
	if s.fromCache(ctx, "reverse", key, &cached) {
		return cached, true, nil
	}

	formatted, found, err := s.provider.ReverseGeocode(ctx, point)
	if err != nil || !found {
		return "", false, err
	}
	s.toCache(ctx, key, formatted, reverseCacheTTL)
	return formatted, true, nil
}

// Autocomplete never fails on provider errors; it validates only the query.
func (s *GeoService) Autocomplete(ctx context.Context, query string, limit int) ([]domain.GeocodeResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &domain.ValidationError{Field: "q", Reason: "required"}
	}
	if limit <= 0 {
		limit = 5
	}
	if limit > maxAutocompleteLimit {
		limit = maxAutocompleteLimit
	}

	key := fmt.Sprintf("geo:autocomplete:%s:%d", strings.ToLower(query), limit)
	var cached []domain.GeocodeResult
	if s.fromCache(ctx, "autocomplete", key, &cached) {
		return cached, nil
	}

	results := s.provider.Autocomplete(ctx, query, limit)
	if results == nil {
		results = []domain.GeocodeResult{}
	}
	if len(results) > 0 {
		s.toCache(ctx, key, results, autocompleteCacheTTL)
	}
	return results, nil
}

func (s *GeoService) Route(ctx context.Context, from, to domain.Coordinate, mode domain.TravelMode) (*domain.RouteResult, error) {
	if err := from.Validate(); err != nil {
		return nil, err
	}
	if err := to.Validate(); err != nil {
		return nil, err
	}
	return s.provider.Route(ctx, from, to, mode)
}

func (s *GeoService) CheckIsodistance(ctx context.Context, center domain.Coordinate, radiusKm float64, point domain.Coordinate) (bool, error) {
	if err := center.Validate(); err != nil {
		return false, err
	}
	if err := point.Validate(); err != nil {
		return false, err
	}
	if radiusKm <= 0 {
		return false, &domain.ValidationError{Field: "radius_km", Reason: "must be positive"}
	}
	return s.provider.CheckIsodistance(ctx, center, radiusKm, point), nil
}

func (s *GeoService) fromCache(ctx context.Context, op, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err == nil && json.Unmarshal(data, dst) == nil {
		metrics.CacheHits.WithLabelValues(op).Inc()
		return true
	}
	metrics.CacheMisses.WithLabelValues(op).Inc()
	return false
}

func (s *GeoService) toCache(ctx context.Context, key string, v any, ttl int) {
	if s.cache == nil {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		_ = s.cache.Set(ctx, key, data, ttl)
	}
}
