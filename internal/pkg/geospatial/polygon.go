package geospatial

import "github.com/samirrijal/tiffin/internal/core/domain"

// PointInPolygon applies the even-odd rule to a closed ring, treating
// longitude as x and latitude as y. A ray is cast towards +x and edge
// crossings are counted; an odd count means inside.
func PointInPolygon(p domain.Coordinate, ring []domain.Coordinate) bool {
	x, y := p.Lng, p.Lat
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		xi, yi := ring[i].Lng, ring[i].Lat
		xj, yj := ring[j].Lng, ring[j].Lat
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
