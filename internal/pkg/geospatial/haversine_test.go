package geospatial_test

import (
	"math"
	"testing"

	"github.com/samirrijal/tiffin/internal/core/domain"
	"github.com/samirrijal/tiffin/internal/pkg/geospatial"
)

func TestDistance_SamePointIsZero(t *testing.T) {
	points := []domain.Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: 33.6844, Lng: 73.0479},
		{Lat: -89.9, Lng: 179.9},
		{Lat: 90, Lng: -180},
	}
	for _, p := range points {
		if d := geospatial.Distance(p, p); d != 0 {
			t.Errorf("Distance(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]domain.Coordinate{
		{{Lat: 33.6844, Lng: 73.0479}, {Lat: 31.5497, Lng: 74.3436}},
		{{Lat: 43.263, Lng: -2.935}, {Lat: -12.0464, Lng: -77.0428}},
		{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 180}},
	}
	for _, p := range pairs {
		ab := geospatial.Distance(p[0], p[1])
		ba := geospatial.Distance(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("asymmetric distance: %v vs %v", ab, ba)
		}
	}
}

func TestDistance_KnownPairs(t *testing.T) {
	cases := []struct {
		name string
		a, b domain.Coordinate
		want float64
		tol  float64
	}{
		{
			name: "islamabad_to_lahore",
			a:    domain.Coordinate{Lat: 33.6844, Lng: 73.0479},
			b:    domain.Coordinate{Lat: 31.5497, Lng: 74.3436},
			want: 266.58,
			tol:  0.1,
		},
		{
			name: "meridian_across_equator",
			a:    domain.Coordinate{Lat: 10, Lng: 0},
			b:    domain.Coordinate{Lat: -10, Lng: 0},
			want: 2223.9,
			tol:  0.5,
		},
		{
			name: "antipodal",
			a:    domain.Coordinate{Lat: 0, Lng: 0},
			b:    domain.Coordinate{Lat: 0, Lng: 180},
			want: math.Pi * 6371,
			tol:  0.01,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := geospatial.Distance(tc.a, tc.b)
			if math.Abs(got-tc.want) > tc.tol {
				t.Errorf("got %.2f km, want %.2f ± %.2f", got, tc.want, tc.tol)
			}
		})
	}
}

func TestDistance_RoundedToTwoDecimals(t *testing.T) {
	d := geospatial.Distance(domain.Coordinate{Lat: 33.6844, Lng: 73.0479}, domain.Coordinate{Lat: 33.7, Lng: 73.06})
	if d*100 != math.Round(d*100) {
		t.Errorf("distance %v is not rounded to 2 decimals", d)
	}
}

func TestHaversine_Meters(t *testing.T) {
	m := geospatial.Haversine(10, 0, -10, 0)
	if math.Abs(m-2223900) > 500 {
		t.Errorf("got %.0f m, want ~2223900", m)
	}
}
