package domain

import "math"

// Coordinate is a WGS 84 point. Lat is in [-90, 90], Lng in [-180, 180].
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GeocodeResult is a single address match returned by a geo provider.
type GeocodeResult struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Formatted    string  `json:"formatted"`
	City         string  `json:"city,omitempty"`
	Country      string  `json:"country,omitempty"`
	AddressLine1 string  `json:"address_line1,omitempty"`
	AddressLine2 string  `json:"address_line2,omitempty"`
	Postcode     string  `json:"postcode,omitempty"`
}

// Coordinate returns the point of the match.
func (g GeocodeResult) Coordinate() Coordinate {
	return Coordinate{Lat: g.Lat, Lng: g.Lng}
}

// RouteResult is one routed path between two points.
type RouteResult struct {
	DistanceMeters  float64      `json:"distance_meters"`
	DurationSeconds float64      `json:"duration_seconds"`
	Geometry        []Coordinate `json:"geometry"`
}

// IsolinePolygon is a closed ring (first == last) bounding the area
// reachable from a center within a travel budget.
type IsolinePolygon []Coordinate

// TravelMode selects the routing profile.
type TravelMode string

const (
	TravelModeDriving TravelMode = "driving"
	TravelModeWalking TravelMode = "walking"
	TravelModeCycling TravelMode = "cycling"
)

// ParseTravelMode maps user input to a TravelMode. Empty input means driving.
func ParseTravelMode(s string) (TravelMode, error) {
	switch TravelMode(s) {
	case "":
		return TravelModeDriving, nil
	case TravelModeDriving, TravelModeWalking, TravelModeCycling:
		return TravelMode(s), nil
	default:
		return "", &ValidationError{Field: "mode", Reason: "must be one of driving, walking, cycling"}
	}
}

// Validate reports an out-of-range latitude or longitude.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return &ValidationError{Field: "lat", Reason: "must be between -90 and 90"}
	}
	if math.IsNaN(c.Lng) || c.Lng < -180 || c.Lng > 180 {
		return &ValidationError{Field: "lng", Reason: "must be between -180 and 180"}
	}
	return nil
}
