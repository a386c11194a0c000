package geoapify

import (
	"encoding/json"
	"fmt"

	"github.com/samirrijal/tiffin/internal/core/domain"
)

// SchemaError reports a provider response that does not match the
// expected GeoJSON shape.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("geoapify: unexpected response shape at %s: %s", e.Path, e.Reason)
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string          `json:"type"`
	Geometry   *geometry       `json:"geometry"`
	Properties json.RawMessage `json:"properties"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// position is a GeoJSON position: longitude first, then latitude.
type position [2]float64

func (p *position) UnmarshalJSON(b []byte) error {
	var raw []float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) < 2 {
		return fmt.Errorf("position needs 2 numbers, got %d", len(raw))
	}
	p[0], p[1] = raw[0], raw[1]
	return nil
}

func (p position) coordinate() domain.Coordinate {
	return domain.Coordinate{Lat: p[1], Lng: p[0]}
}

type addressProperties struct {
	Formatted    string   `json:"formatted"`
	City         string   `json:"city"`
	Country      string   `json:"country"`
	AddressLine1 string   `json:"address_line1"`
	AddressLine2 string   `json:"address_line2"`
	Postcode     string   `json:"postcode"`
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
}

type routeProperties struct {
	Distance *float64 `json:"distance"` // meters
	Time     *float64 `json:"time"`     // seconds
}

func decodeFeatureCollection(body []byte) (*featureCollection, error) {
	var fc featureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, &SchemaError{Path: "$", Reason: err.Error()}
	}
	if fc.Type != "FeatureCollection" {
		return nil, &SchemaError{Path: "type", Reason: fmt.Sprintf("want FeatureCollection, got %q", fc.Type)}
	}
	for i, f := range fc.Features {
		if f.Type != "Feature" {
			return nil, &SchemaError{Path: fmt.Sprintf("features[%d].type", i), Reason: fmt.Sprintf("want Feature, got %q", f.Type)}
		}
	}
	return &fc, nil
}

func decodeAddress(f feature, path string) (domain.GeocodeResult, error) {
	var props addressProperties
	if err := json.Unmarshal(f.Properties, &props); err != nil {
		return domain.GeocodeResult{}, &SchemaError{Path: path + ".properties", Reason: err.Error()}
	}
	if props.Formatted == "" {
		return domain.GeocodeResult{}, &SchemaError{Path: path + ".properties.formatted", Reason: "missing"}
	}

	res := domain.GeocodeResult{
		Formatted:    props.Formatted,
		City:         props.City,
		Country:      props.Country,
		AddressLine1: props.AddressLine1,
		AddressLine2: props.AddressLine2,
		Postcode:     props.Postcode,
	}

	switch {
	case f.Geometry != nil && f.Geometry.Type == "Point":
		var p position
		if err := json.Unmarshal(f.Geometry.Coordinates, &p); err != nil {
			return domain.GeocodeResult{}, &SchemaError{Path: path + ".geometry.coordinates", Reason: err.Error()}
		}
		c := p.coordinate()
		res.Lat, res.Lng = c.Lat, c.Lng
	case props.Lat != nil && props.Lon != nil:
		res.Lat, res.Lng = *props.Lat, *props.Lon
	default:
		return domain.GeocodeResult{}, &SchemaError{Path: path + ".geometry", Reason: "no point geometry or lat/lon properties"}
	}
	return res, nil
}

func decodeRoute(f feature) (*domain.RouteResult, error) {
	var props routeProperties
	if err := json.Unmarshal(f.Properties, &props); err != nil {
		return nil, &SchemaError{Path: "features[0].properties", Reason: err.Error()}
	}
	if props.Distance == nil || props.Time == nil {
		return nil, &SchemaError{Path: "features[0].properties", Reason: "distance and time are required"}
	}
	if f.Geometry == nil {
		return nil, &SchemaError{Path: "features[0].geometry", Reason: "missing"}
	}

	var lines [][]position
	switch f.Geometry.Type {
	case "LineString":
		var line []position
		if err := json.Unmarshal(f.Geometry.Coordinates, &line); err != nil {
			return nil, &SchemaError{Path: "features[0].geometry.coordinates", Reason: err.Error()}
		}
		lines = [][]position{line}
	case "MultiLineString":
		if err := json.Unmarshal(f.Geometry.Coordinates, &lines); err != nil {
			return nil, &SchemaError{Path: "features[0].geometry.coordinates", Reason: err.Error()}
		}
	default:
		return nil, &SchemaError{Path: "features[0].geometry.type", Reason: fmt.Sprintf("unsupported %q", f.Geometry.Type)}
	}

	route := &domain.RouteResult{
		DistanceMeters:  *props.Distance,
		DurationSeconds: *props.Time,
	}
	for _, line := range lines {
		for _, p := range line {
			route.Geometry = append(route.Geometry, p.coordinate())
		}
	}
	return route, nil
}

// decodeOuterRings returns the exterior ring of every polygon. A distance
// isoline split by the road network comes back as a MultiPolygon.
func decodeOuterRings(f feature) ([]domain.IsolinePolygon, error) {
	if f.Geometry == nil {
		return nil, &SchemaError{Path: "features[0].geometry", Reason: "missing"}
	}

	var polys [][][]position
	switch f.Geometry.Type {
	case "Polygon":
		var rings [][]position
		if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err != nil {
			return nil, &SchemaError{Path: "features[0].geometry.coordinates", Reason: err.Error()}
		}
		polys = [][][]position{rings}
	case "MultiPolygon":
		if err := json.Unmarshal(f.Geometry.Coordinates, &polys); err != nil {
			return nil, &SchemaError{Path: "features[0].geometry.coordinates", Reason: err.Error()}
		}
		if len(polys) == 0 {
			return nil, &SchemaError{Path: "features[0].geometry.coordinates", Reason: "empty multipolygon"}
		}
	default:
		return nil, &SchemaError{Path: "features[0].geometry.type", Reason: fmt.Sprintf("unsupported %q", f.Geometry.Type)}
	}

	out := make([]domain.IsolinePolygon, 0, len(polys))
	for i, rings := range polys {
		if len(rings) == 0 || len(rings[0]) < 4 {
			return nil, &SchemaError{
				Path:   fmt.Sprintf("features[0].geometry.coordinates[%d]", i),
				Reason: "ring needs at least 4 positions",
			}
		}
		ring := make(domain.IsolinePolygon, 0, len(rings[0]))
		for _, p := range rings[0] {
			ring = append(ring, p.coordinate())
		}
		out = append(out, ring)
	}
	return out, nil
}
