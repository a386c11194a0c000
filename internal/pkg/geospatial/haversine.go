package geospatial

import (
	"math"

	"github.com/samirrijal/tiffin/internal/core/domain"
)

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// Distance returns the great-circle distance in kilometers between a and b,
// rounded to two decimals.
func Distance(a, b domain.Coordinate) float64 {
	return Round2(Haversine(a.Lat, a.Lng, b.Lat, b.Lng) / 1000)
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
