package domain

import (
	"time"
)

// RestaurantStatus is the lifecycle state of a restaurant.
type RestaurantStatus string

const (
	RestaurantActive    RestaurantStatus = "active"
	RestaurantInactive  RestaurantStatus = "inactive"
	RestaurantSuspended RestaurantStatus = "suspended"
)

// LocationStatus is the trading state of a single restaurant branch.
type LocationStatus string

const (
	LocationOpen              LocationStatus = "open"
	LocationClosed            LocationStatus = "closed"
	LocationTemporarilyClosed LocationStatus = "temporarily_closed"
)

// DefaultDeliveryRadiusKm applies when a location has no radius configured.
const DefaultDeliveryRadiusKm = 5.0

// Restaurant is a brand that can own several locations.
type Restaurant struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Slug      string               `json:"slug"`
	Cuisine   string               `json:"cuisine,omitempty"`
	Status    RestaurantStatus     `json:"status"`
	Locations []RestaurantLocation `json:"locations,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// RestaurantLocation is a physical branch. Lat and Lng are optional until
// the address has been geocoded.
type RestaurantLocation struct {
	ID           string         `json:"id"`
	RestaurantID string         `json:"restaurant_id"`
	Name         string         `json:"name"`
	Address      string         `json:"address,omitempty"`
	Lat          *float64       `json:"lat,omitempty"`
	Lng          *float64       `json:"lng,omitempty"`
	Settings     map[string]any `json:"settings,omitempty"`
	Status       LocationStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Coordinate returns the location point and whether both components are set.
func (l RestaurantLocation) Coordinate() (Coordinate, bool) {
	if l.Lat == nil || l.Lng == nil {
		return Coordinate{}, false
	}
	return Coordinate{Lat: *l.Lat, Lng: *l.Lng}, true
}

// DeliveryRadiusKm reads settings.delivery.radius_km, defaulting to 5.
func (l RestaurantLocation) DeliveryRadiusKm() float64 {
	delivery, ok := l.Settings["delivery"].(map[string]any)
	if !ok {
		return DefaultDeliveryRadiusKm
	}
	switch v := delivery["radius_km"].(type) {
	case float64:
		if v > 0 {
			return v
		}
	case int:
		if v > 0 {
			return float64(v)
		}
	case int64:
		if v > 0 {
			return float64(v)
		}
	}
	return DefaultDeliveryRadiusKm
}

// ZonePolicy selects how deliverability is decided.
type ZonePolicy string

const (
	// ZonePolicyRadius compares straight-line distance with the location radius.
	ZonePolicyRadius ZonePolicy = "radius"
	// ZonePolicyIsoline asks the geo provider for a road-network isoline.
	ZonePolicyIsoline ZonePolicy = "isoline"
)

// DeliveryZoneDecision is the computed answer to "can this location serve
// the customer". DistanceKm is nil when no location has coordinates.
type DeliveryZoneDecision struct {
	CanDeliver      bool                `json:"can_deliver"`
	DistanceKm      *float64            `json:"distance_km,omitempty"`
	RadiusKm        *float64            `json:"radius_km,omitempty"`
	NearestLocation *RestaurantLocation `json:"nearest_location,omitempty"`
	Policy          ZonePolicy          `json:"policy"`
	Estimate        *DeliveryEstimate   `json:"estimate,omitempty"`
}

// NearbyRestaurant pairs a restaurant with the location that matched.
type NearbyRestaurant struct {
	Restaurant Restaurant         `json:"restaurant"`
	Location   RestaurantLocation `json:"location"`
	DistanceKm float64            `json:"distance_km"`
}

// NearbyResult lists restaurants sorted by ascending distance.
type NearbyResult struct {
	Restaurants []NearbyRestaurant `json:"restaurants"`
	Total       int                `json:"total"`
}

// EstimateSource tells whether an estimate used a routed distance.
type EstimateSource string

const (
	EstimateFromHaversine EstimateSource = "haversine"
	EstimateFromRoute     EstimateSource = "route"
)

// DeliveryEstimate is the time window and fee for a distance.
type DeliveryEstimate struct {
	DistanceKm float64        `json:"distance_km"`
	TimeWindow string         `json:"time_window"`
	Fee        int            `json:"fee"`
	Source     EstimateSource `json:"source,omitempty"`
}

// ZoneCheckEvent records one delivery-zone decision for auditing.
type ZoneCheckEvent struct {
	ID           string     `json:"id"`
	RestaurantID string     `json:"restaurant_id"`
	Point        Coordinate `json:"point"`
	CanDeliver   bool       `json:"can_deliver"`
	DistanceKm   *float64   `json:"distance_km,omitempty"`
	LocationID   string     `json:"location_id,omitempty"`
	Policy       ZonePolicy `json:"policy"`
	CheckedAt    time.Time  `json:"checked_at"`
}

// LocationGeocodedEvent is emitted after a location received coordinates.
type LocationGeocodedEvent struct {
	LocationID string     `json:"location_id"`
	Point      Coordinate `json:"point"`
	Formatted  string     `json:"formatted"`
	GeocodedAt time.Time  `json:"geocoded_at"`
}
