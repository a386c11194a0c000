package geospatial_test

import (
	"testing"

	"github.com/samirrijal/tiffin/internal/core/domain"
	"github.com/samirrijal/tiffin/internal/pkg/geospatial"
)

func square() []domain.Coordinate {
	// x is longitude, y is latitude
	return []domain.Coordinate{
		{Lng: 0, Lat: 0},
		{Lng: 10, Lat: 0},
		{Lng: 10, Lat: 10},
		{Lng: 0, Lat: 10},
		{Lng: 0, Lat: 0},
	}
}

func TestPointInPolygon(t *testing.T) {
	cases := []struct {
		name  string
		point domain.Coordinate
		want  bool
	}{
		{name: "center", point: domain.Coordinate{Lng: 5, Lat: 5}, want: true},
		{name: "outside", point: domain.Coordinate{Lng: 15, Lat: 15}, want: false},
		{name: "left_of_square", point: domain.Coordinate{Lng: -1, Lat: 5}, want: false},
		{name: "near_corner_inside", point: domain.Coordinate{Lng: 9.9, Lat: 0.1}, want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := geospatial.PointInPolygon(tc.point, square()); got != tc.want {
				t.Errorf("PointInPolygon(%v) = %v, want %v", tc.point, got, tc.want)
			}
		})
	}
}

func TestPointInPolygon_Concave(t *testing.T) {
	// U shape: the notch between the arms is outside.
	ring := []domain.Coordinate{
		{Lng: 0, Lat: 0}, {Lng: 9, Lat: 0}, {Lng: 9, Lat: 9}, {Lng: 6, Lat: 9},
		{Lng: 6, Lat: 3}, {Lng: 3, Lat: 3}, {Lng: 3, Lat: 9}, {Lng: 0, Lat: 9}, {Lng: 0, Lat: 0},
	}
	if geospatial.PointInPolygon(domain.Coordinate{Lng: 4.5, Lat: 6}, ring) {
		t.Error("point in the notch should be outside")
	}
	if !geospatial.PointInPolygon(domain.Coordinate{Lng: 1.5, Lat: 6}, ring) {
		t.Error("point in the left arm should be inside")
	}
}

func TestPointInPolygon_EmptyRing(t *testing.T) {
	if geospatial.PointInPolygon(domain.Coordinate{Lat: 1, Lng: 1}, nil) {
		t.Error("empty ring cannot contain a point")
	}
}
