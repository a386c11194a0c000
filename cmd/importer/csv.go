package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samirrijal/tiffin/internal/core/domain"
)

// requiredColumns must appear in the header row. lat, lng, radius_km,
// cuisine and status are optional.
var requiredColumns = []string{"restaurant_slug", "restaurant_name", "location_name"}

// parseCSV reads restaurant/location rows. Rows sharing a restaurant_slug
// belong to one restaurant; restaurants keep first-seen order.
func parseCSV(r io.Reader) ([]domain.Restaurant, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var restaurants []domain.Restaurant
	index := map[string]int{}
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		slug := field(rec, "restaurant_slug")
		if slug == "" {
			return nil, fmt.Errorf("line %d: restaurant_slug is empty", line)
		}
		i, ok := index[slug]
		if !ok {
			restaurants = append(restaurants, domain.Restaurant{
				Slug:    slug,
				Name:    field(rec, "restaurant_name"),
				Cuisine: field(rec, "cuisine"),
				Status:  domain.RestaurantActive,
			})
			i = len(restaurants) - 1
			index[slug] = i
		}

		loc, err := parseLocation(rec, field)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		restaurants[i].Locations = append(restaurants[i].Locations, loc)
	}
	return restaurants, nil
}

func parseLocation(rec []string, field func([]string, string) string) (domain.RestaurantLocation, error) {
	loc := domain.RestaurantLocation{
		Name:    field(rec, "location_name"),
		Address: field(rec, "address"),
		Status:  domain.LocationOpen,
	}
	if loc.Name == "" {
		return loc, fmt.Errorf("location_name is empty")
	}
	if s := field(rec, "status"); s != "" {
		switch st := domain.LocationStatus(s); st {
		case domain.LocationOpen, domain.LocationClosed, domain.LocationTemporarilyClosed:
			loc.Status = st
		default:
			return loc, fmt.Errorf("unknown status %q", s)
		}
	}

	lat, lng := field(rec, "lat"), field(rec, "lng")
	switch {
	case lat == "" && lng == "":
		if loc.Address == "" {
			return loc, fmt.Errorf("location %q has neither coordinates nor address", loc.Name)
		}
	case lat == "" || lng == "":
		return loc, fmt.Errorf("location %q has only one of lat/lng", loc.Name)
	default:
		la, err := strconv.ParseFloat(lat, 64)
		if err != nil {
			return loc, fmt.Errorf("lat: %w", err)
		}
		ln, err := strconv.ParseFloat(lng, 64)
		if err != nil {
			return loc, fmt.Errorf("lng: %w", err)
		}
		if err := (domain.Coordinate{Lat: la, Lng: ln}).Validate(); err != nil {
			return loc, err
		}
		loc.Lat, loc.Lng = &la, &ln
	}

	if r := field(rec, "radius_km"); r != "" {
		km, err := strconv.ParseFloat(r, 64)
		if err != nil || km <= 0 {
			return loc, fmt.Errorf("radius_km must be a positive number, got %q", r)
		}
		loc.Settings = map[string]any{"delivery": map[string]any{"radius_km": km}}
	}
	return loc, nil
}
