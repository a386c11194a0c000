package main

import (
	"context"
	"strings"
	"testing"

	"github.com/samirrijal/tiffin/internal/core/domain"
)

const sample = `restaurant_slug,restaurant_name,cuisine,location_name,address,lat,lng,radius_km,status
karahi-house,Karahi House,pakistani,Gulberg,"Main Blvd, Gulberg III, Lahore",31.5204,74.3587,7,open
karahi-house,Karahi House,pakistani,DHA,"Phase 5, DHA, Lahore",,,,
chai-stop,Chai Stop,,Mall Road,,31.5580,74.3240,,temporarily_closed
`

func TestParseCSV(t *testing.T) {
	rs, err := parseCSV(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rs) != 2 {
		t.Fatalf("expected 2 restaurants, got %d", len(rs))
	}

	kh := rs[0]
	if kh.Slug != "karahi-house" || len(kh.Locations) != 2 {
		t.Fatalf("unexpected first restaurant %+v", kh)
	}
	if got := kh.Locations[0].DeliveryRadiusKm(); got != 7 {
		t.Errorf("expected radius 7, got %v", got)
	}
	if _, ok := kh.Locations[1].Coordinate(); ok {
		t.Error("expected DHA without coordinates")
	}
	if kh.Locations[1].DeliveryRadiusKm() != domain.DefaultDeliveryRadiusKm {
		t.Error("expected default radius for DHA")
	}
	if rs[1].Locations[0].Status != domain.LocationTemporarilyClosed {
		t.Errorf("expected temporarily_closed, got %q", rs[1].Locations[0].Status)
	}
}

func TestParseCSV_Errors(t *testing.T) {
	tests := map[string]string{
		"missing column": "restaurant_slug,location_name\nx,y\n",
		"half point":     "restaurant_slug,restaurant_name,location_name,lat,lng\nx,X,Branch,31.5,\n",
		"no address":     "restaurant_slug,restaurant_name,location_name,address\nx,X,Branch,\n",
		"bad lat":        "restaurant_slug,restaurant_name,location_name,lat,lng\nx,X,Branch,95,74\n",
		"bad radius":     "restaurant_slug,restaurant_name,location_name,address,radius_km\nx,X,Branch,Somewhere,-1\n",
		"bad status":     "restaurant_slug,restaurant_name,location_name,address,status\nx,X,Branch,Somewhere,gone\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := parseCSV(strings.NewReader(in)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

type memRestaurants struct{ upserted []string }

func (m *memRestaurants) Upsert(ctx context.Context, r *domain.Restaurant) error {
	r.ID = "id-" + r.Slug
	m.upserted = append(m.upserted, r.Slug)
	return nil
}

type memLocations struct{ batches [][]domain.RestaurantLocation }

func (m *memLocations) UpsertBatch(ctx context.Context, l []domain.RestaurantLocation) error {
	m.batches = append(m.batches, l)
	return nil
}

func TestImportAll_LinksLocations(t *testing.T) {
	rs, err := parseCSV(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}

	restaurants, locations := &memRestaurants{}, &memLocations{}
	if err := importAll(context.Background(), restaurants, locations, rs); err != nil {
		t.Fatal(err)
	}
	if len(locations.batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(locations.batches))
	}
	for _, l := range locations.batches[0] {
		if l.RestaurantID != "id-karahi-house" {
			t.Errorf("expected restaurant id-karahi-house, got %q", l.RestaurantID)
		}
	}
}
