// Package googlemaps implements ports.GeoProvider on the Google Maps
// Platform client.
package googlemaps

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"googlemaps.github.io/maps"

	"github.com/samirrijal/tiffin/internal/core/domain"
	"github.com/samirrijal/tiffin/internal/pkg/geospatial"
	"github.com/samirrijal/tiffin/internal/pkg/metrics"
)

const (
	providerName = "google"
	tracerName   = "github.com/samirrijal/tiffin/internal/adapters/googlemaps"
)

// Provider wraps maps.Client. Google has no isoline endpoint, so
// isodistance checks compare the driving distance to the radius.
type Provider struct {
	client *maps.Client
	logger *slog.Logger
}

// New returns a provider. An empty apiKey yields an unconfigured provider
// whose lookups report no answer.
func New(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Provider{logger: logger}
	if apiKey == "" {
		logger.Warn("google maps api key not set, geocoding disabled and zone checks use straight-line distance")
		return p, nil
	}

	opts := []maps.ClientOption{
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(baseURL))
	}
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("googlemaps: new client: %w", err)
	}
	p.client = client
	return p, nil
}

func (p *Provider) Configured() bool { return p.client != nil }

func (p *Provider) Geocode(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	if !p.Configured() {
		p.observe("geocode", "unconfigured")
		return nil, nil
	}
	if strings.TrimSpace(address) == "" {
		return nil, nil
	}

	ctx, span := p.start(ctx, "geocode")
	defer span.End()

	results, err := p.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, p.fail(span, "geocode", err)
	}
	if len(results) == 0 {
		p.observe("geocode", "empty")
		return nil, nil
	}
	p.observe("geocode", "ok")
	res := toGeocodeResult(results[0])
	return &res, nil
}

func (p *Provider) ReverseGeocode(ctx context.Context, point domain.Coordinate) (string, bool, error) {
	if !p.Configured() {
		p.observe("reverse", "unconfigured")
		return "", false, nil
	}

	ctx, span := p.start(ctx, "reverse")
	defer span.End()

	results, err := p.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: point.Lat, Lng: point.Lng},
	})
	if err != nil {
		return "", false, p.fail(span, "reverse", err)
	}
	if len(results) == 0 || results[0].FormattedAddress == "" {
		p.observe("reverse", "empty")
		return "", false, nil
	}
	p.observe("reverse", "ok")
	return results[0].FormattedAddress, true, nil
}

func (p *Provider) Route(ctx context.Context, from, to domain.Coordinate, mode domain.TravelMode) (*domain.RouteResult, error) {
	if !p.Configured() {
		p.observe("route", "unconfigured")
		return nil, nil
	}

	ctx, span := p.start(ctx, "route")
	defer span.End()

	routes, _, err := p.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      latLng(from),
		Destination: latLng(to),
		Mode:        travelMode(mode),
	})
	if err != nil {
		return nil, p.fail(span, "route", err)
	}
	if len(routes) == 0 {
		p.observe("route", "empty")
		return nil, nil
	}

	rt := routes[0]
	out := &domain.RouteResult{}
	for _, leg := range rt.Legs {
		out.DistanceMeters += float64(leg.Distance.Meters)
		out.DurationSeconds += leg.Duration.Seconds()
	}
	if pts, err := rt.OverviewPolyline.Decode(); err == nil {
		out.Geometry = make([]domain.Coordinate, 0, len(pts))
		for _, pt := range pts {
			out.Geometry = append(out.Geometry, domain.Coordinate{Lat: pt.Lat, Lng: pt.Lng})
		}
	}
	p.observe("route", "ok")
	return out, nil
}

// CheckIsodistance treats point as inside when the driving route from
// center is no longer than radiusKm. Failures use straight-line distance.
func (p *Provider) CheckIsodistance(ctx context.Context, center domain.Coordinate, radiusKm float64, point domain.Coordinate) bool {
	fallback := func() bool {
		metrics.GeoFallbacks.WithLabelValues("isodistance").Inc()
		return geospatial.Distance(center, point) <= radiusKm
	}
	if !p.Configured() {
		return fallback()
	}

	route, err := p.Route(ctx, center, point, domain.TravelModeDriving)
	if err != nil || route == nil {
		p.logger.WarnContext(ctx, "driving distance lookup failed, using straight-line distance", "error", err)
		return fallback()
	}
	return route.DistanceMeters/1000 <= radiusKm
}

// Autocomplete returns up to limit geocoding candidates for a partial query.
func (p *Provider) Autocomplete(ctx context.Context, query string, limit int) []domain.GeocodeResult {
	out := []domain.GeocodeResult{}
	if !p.Configured() || strings.TrimSpace(query) == "" {
		return out
	}
	if limit <= 0 {
		limit = 5
	}

	ctx, span := p.start(ctx, "autocomplete")
	defer span.End()

	results, err := p.client.Geocode(ctx, &maps.GeocodingRequest{Address: query})
	if err != nil {
		_ = p.fail(span, "autocomplete", err)
		p.logger.DebugContext(ctx, "autocomplete failed", "error", err)
		return out
	}
	for _, r := range results {
		if len(out) == limit {
			break
		}
		out = append(out, toGeocodeResult(r))
	}
	p.observe("autocomplete", "ok")
	return out
}

func (p *Provider) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "googlemaps."+op)
}

func (p *Provider) fail(span trace.Span, op string, err error) error {
	p.observe(op, "error")
	perr := &domain.ProviderError{Op: op, Err: err}
	span.RecordError(perr)
	span.SetStatus(codes.Error, perr.Error())
	return perr
}

func (p *Provider) observe(op, outcome string) {
	metrics.GeoProviderRequests.WithLabelValues(providerName, op, outcome).Inc()
}

func toGeocodeResult(r maps.GeocodingResult) domain.GeocodeResult {
	res := domain.GeocodeResult{
		Lat:       r.Geometry.Location.Lat,
		Lng:       r.Geometry.Location.Lng,
		Formatted: r.FormattedAddress,
	}
	var number, street string
	for _, comp := range r.AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "locality":
				res.City = comp.LongName
			case "country":
				res.Country = comp.LongName
			case "postal_code":
				res.Postcode = comp.LongName
			case "street_number":
				number = comp.LongName
			case "route":
				street = comp.LongName
			}
		}
	}
	res.AddressLine1 = strings.TrimSpace(number + " " + street)
	if i := strings.Index(r.FormattedAddress, ", "); i >= 0 {
		res.AddressLine2 = r.FormattedAddress[i+2:]
	}
	return res
}

func latLng(c domain.Coordinate) string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lng)
}

func travelMode(m domain.TravelMode) maps.Mode {
	switch m {
	case domain.TravelModeWalking:
		return maps.TravelModeWalking
	case domain.TravelModeCycling:
		return maps.TravelModeBicycling
	default:
		return maps.TravelModeDriving
	}
}
