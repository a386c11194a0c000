// Package geoapify implements ports.GeoProvider against the Geoapify REST API.
package geoapify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/tiffin/internal/core/domain"
	"github.com/samirrijal/tiffin/internal/pkg/geospatial"
	"github.com/samirrijal/tiffin/internal/pkg/metrics"
)

const (
	DefaultBaseURL = "https://api.geoapify.com"

	providerName      = "geoapify"
	tracerName        = "github.com/samirrijal/tiffin/internal/adapters/geoapify"
	maxResponseBytes  = 4 << 20
	defaultSuggestMax = 5
)

// Client talks to Geoapify. The zero-credential client is valid: lookups
// report "no answer" and isodistance checks use straight-line distance.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New builds a client. An empty apiKey is allowed and logged once.
func New(apiKey string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")

	if !c.Configured() {
		c.logger.Warn("geoapify api key not set, geocoding disabled and zone checks use straight-line distance")
	}
	return c
}

func (c *Client) Configured() bool { return c.apiKey != "" }

// Geocode returns the provider's best match for a free-text address, or
// nil when there is none.
func (c *Client) Geocode(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	if !c.Configured() {
		c.observe("geocode", "unconfigured")
		return nil, nil
	}
	if strings.TrimSpace(address) == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("text", address)
	q.Set("limit", "1")
	q.Set("format", "geojson")

	fc, err := c.get(ctx, "geocode", "/v1/geocode/search", q)
	if err != nil {
		return nil, err
	}
	if len(fc.Features) == 0 {
		c.observe("geocode", "empty")
		return nil, nil
	}

	res, err := decodeAddress(fc.Features[0], "features[0]")
	if err != nil {
		c.observe("geocode", "error")
		return nil, &domain.ProviderError{Op: "geocode", Err: err}
	}
	c.observe("geocode", "ok")
	return &res, nil
}

// ReverseGeocode returns the formatted address nearest to point.
func (c *Client) ReverseGeocode(ctx context.Context, point domain.Coordinate) (string, bool, error) {
	if !c.Configured() {
		c.observe("reverse", "unconfigured")
		return "", false, nil
	}

	q := url.Values{}
	q.Set("lat", formatFloat(point.Lat))
	q.Set("lon", formatFloat(point.Lng))
	q.Set("format", "geojson")

	fc, err := c.get(ctx, "reverse", "/v1/geocode/reverse", q)
	if err != nil {
		return "", false, err
	}
	if len(fc.Features) == 0 {
		c.observe("reverse", "empty")
		return "", false, nil
	}

	res, err := decodeAddress(fc.Features[0], "features[0]")
	if err != nil {
		c.observe("reverse", "error")
		return "", false, &domain.ProviderError{Op: "reverse", Err: err}
	}
	c.observe("reverse", "ok")
	return res.Formatted, true, nil
}

// Route returns the provider's route between two points, or nil when the
// provider found none.
func (c *Client) Route(ctx context.Context, from, to domain.Coordinate, mode domain.TravelMode) (*domain.RouteResult, error) {
	if !c.Configured() {
		c.observe("route", "unconfigured")
		return nil, nil
	}

	q := url.Values{}
	q.Set("waypoints", fmt.Sprintf("%s,%s|%s,%s",
		formatFloat(from.Lat), formatFloat(from.Lng),
		formatFloat(to.Lat), formatFloat(to.Lng)))
	q.Set("mode", routingMode(mode))
	q.Set("format", "geojson")

	fc, err := c.get(ctx, "route", "/v1/routing", q)
	if err != nil {
		return nil, err
	}
	if len(fc.Features) == 0 {
		c.observe("route", "empty")
		return nil, nil
	}

	route, err := decodeRoute(fc.Features[0])
	if err != nil {
		c.observe("route", "error")
		return nil, &domain.ProviderError{Op: "route", Err: err}
	}
	c.observe("route", "ok")
	return route, nil
}

// Isoline fetches the driving-distance isoline of radiusKm around center
// and returns the outer ring of each of its parts.
func (c *Client) Isoline(ctx context.Context, center domain.Coordinate, radiusKm float64) ([]domain.IsolinePolygon, error) {
	if !c.Configured() {
		return nil, &domain.ProviderError{Op: "isoline", Err: errors.New("api key not configured")}
	}

	q := url.Values{}
	q.Set("lat", formatFloat(center.Lat))
	q.Set("lon", formatFloat(center.Lng))
	q.Set("type", "distance")
	q.Set("mode", "drive")
	q.Set("range", strconv.Itoa(int(radiusKm*1000)))

	fc, err := c.get(ctx, "isoline", "/v1/isoline", q)
	if err != nil {
		return nil, err
	}
	if len(fc.Features) == 0 {
		c.observe("isoline", "empty")
		return nil, &domain.ProviderError{Op: "isoline", Err: &SchemaError{Path: "features", Reason: "empty"}}
	}

	rings, err := decodeOuterRings(fc.Features[0])
	if err != nil {
		c.observe("isoline", "error")
		return nil, &domain.ProviderError{Op: "isoline", Err: err}
	}
	c.observe("isoline", "ok")
	return rings, nil
}

// CheckIsodistance reports whether point lies inside the driving isoline of
// radiusKm around center. Any provider problem degrades to a straight-line
// distance comparison.
func (c *Client) CheckIsodistance(ctx context.Context, center domain.Coordinate, radiusKm float64, point domain.Coordinate) bool {
	if !c.Configured() {
		metrics.GeoFallbacks.WithLabelValues("isodistance").Inc()
		return geospatial.Distance(center, point) <= radiusKm
	}

	rings, err := c.Isoline(ctx, center, radiusKm)
	if err != nil {
		c.logger.WarnContext(ctx, "isoline lookup failed, using straight-line distance", "error", err)
		metrics.GeoFallbacks.WithLabelValues("isodistance").Inc()
		return geospatial.Distance(center, point) <= radiusKm
	}
	for _, ring := range rings {
		if geospatial.PointInPolygon(point, ring) {
			return true
		}
	}
	return false
}

// Autocomplete returns up to limit address suggestions. Errors yield an
// empty list.
func (c *Client) Autocomplete(ctx context.Context, query string, limit int) []domain.GeocodeResult {
	results := []domain.GeocodeResult{}
	if !c.Configured() {
		c.observe("autocomplete", "unconfigured")
		return results
	}
	if strings.TrimSpace(query) == "" {
		return results
	}
	if limit <= 0 {
		limit = defaultSuggestMax
	}

	q := url.Values{}
	q.Set("text", query)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("format", "geojson")

	fc, err := c.get(ctx, "autocomplete", "/v1/geocode/autocomplete", q)
	if err != nil {
		c.logger.DebugContext(ctx, "autocomplete failed", "error", err)
		return results
	}

	for i, f := range fc.Features {
		if len(results) == limit {
			break
		}
		res, err := decodeAddress(f, fmt.Sprintf("features[%d]", i))
		if err != nil {
			c.observe("autocomplete", "error")
			c.logger.DebugContext(ctx, "autocomplete response malformed", "error", err)
			return []domain.GeocodeResult{}
		}
		results = append(results, res)
	}
	c.observe("autocomplete", "ok")
	return results
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values) (*featureCollection, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "geoapify."+op)
	defer span.End()
	span.SetAttributes(attribute.String("geo.provider", providerName), attribute.String("geo.operation", op))

	start := time.Now()
	defer func() {
		metrics.GeoProviderDuration.WithLabelValues(providerName, op).Observe(time.Since(start).Seconds())
	}()

	fail := func(perr *domain.ProviderError) (*featureCollection, error) {
		c.observe(op, "error")
		span.RecordError(perr)
		span.SetStatus(codes.Error, perr.Error())
		return nil, perr
	}

	q.Set("apiKey", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fail(&domain.ProviderError{Op: op, Err: c.redact(err)})
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(&domain.ProviderError{Op: op, Err: c.redact(err)})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fail(&domain.ProviderError{Op: op, StatusCode: resp.StatusCode, Err: err})
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		return fail(&domain.ProviderError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(snippet(body))})
	}

	fc, err := decodeFeatureCollection(body)
	if err != nil {
		return fail(&domain.ProviderError{Op: op, StatusCode: resp.StatusCode, Err: err})
	}
	return fc, nil
}

func (c *Client) observe(op, outcome string) {
	metrics.GeoProviderRequests.WithLabelValues(providerName, op, outcome).Inc()
}

// redact strips the API key from transport errors, which embed the request URL.
func (c *Client) redact(err error) error {
	if c.apiKey == "" {
		return err
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = strings.ReplaceAll(uerr.URL, url.QueryEscape(c.apiKey), "REDACTED")
		uerr.URL = strings.ReplaceAll(uerr.URL, c.apiKey, "REDACTED")
		return uerr
	}
	return errors.New(strings.ReplaceAll(err.Error(), c.apiKey, "REDACTED"))
}

func routingMode(m domain.TravelMode) string {
	switch m {
	case domain.TravelModeWalking:
		return "walk"
	case domain.TravelModeCycling:
		return "bicycle"
	default:
		return "drive"
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		s = s[:max] + "..."
	}
	if s == "" {
		s = "empty response body"
	}
	return s
}
