package workflows_test

import (
	"context"
	"errors"
	"testing"

	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/tiffin/internal/core/domain"
	"github.com/samirrijal/tiffin/internal/core/usecases"
	"github.com/samirrijal/tiffin/internal/workflows"
)

type fakeLocations struct {
	loc     *domain.RestaurantLocation
	updated map[string]domain.Coordinate
}

func (f *fakeLocations) ListByRestaurant(ctx context.Context, id string) ([]domain.RestaurantLocation, error) {
	return nil, nil
}

func (f *fakeLocations) GetByID(ctx context.Context, id string) (*domain.RestaurantLocation, error) {
	if f.loc == nil || f.loc.ID != id {
		return nil, domain.ErrNotFound
	}
	return f.loc, nil
}

func (f *fakeLocations) ListMissingCoordinates(ctx context.Context, limit int) ([]domain.RestaurantLocation, error) {
	return nil, nil
}

func (f *fakeLocations) UpdateCoordinates(ctx context.Context, id string, p domain.Coordinate) error {
	if f.updated == nil {
		f.updated = map[string]domain.Coordinate{}
	}
	f.updated[id] = p
	return nil
}

func (f *fakeLocations) UpsertBatch(ctx context.Context, l []domain.RestaurantLocation) error {
	return nil
}

type fakeGeo struct {
	match *domain.GeocodeResult
	err   error
}

func (g *fakeGeo) Configured() bool { return true }
func (g *fakeGeo) Geocode(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	return g.match, g.err
}
func (g *fakeGeo) ReverseGeocode(ctx context.Context, p domain.Coordinate) (string, bool, error) {
	return "", false, nil
}
func (g *fakeGeo) Route(ctx context.Context, a, b domain.Coordinate, m domain.TravelMode) (*domain.RouteResult, error) {
	return nil, nil
}
func (g *fakeGeo) CheckIsodistance(ctx context.Context, c domain.Coordinate, r float64, p domain.Coordinate) bool {
	return false
}
func (g *fakeGeo) Autocomplete(ctx context.Context, q string, limit int) []domain.GeocodeResult {
	return nil
}

type fakePublisher struct {
	geocoded []string
}

func (p *fakePublisher) PublishZoneCheck(ctx context.Context, e *domain.ZoneCheckEvent) error {
	return nil
}
func (p *fakePublisher) PublishLocationGeocoded(ctx context.Context, e *domain.LocationGeocodedEvent) error {
	p.geocoded = append(p.geocoded, e.LocationID)
	return nil
}

func runWorkflow(t *testing.T, locs *fakeLocations, geo *fakeGeo, pub *fakePublisher, locationID string) (workflows.GeocodeLocationResult, error) {
	t.Helper()
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(workflows.GeocodeLocationWorkflow)
	env.RegisterActivity(&workflows.LocationActivities{
		Locations: usecases.NewLocationService(locs, geo, pub),
	})

	env.ExecuteWorkflow(workflows.GeocodeLocationWorkflow, workflows.GeocodeLocationInput{LocationID: locationID})
	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		return workflows.GeocodeLocationResult{}, err
	}
	var res workflows.GeocodeLocationResult
	if err := env.GetWorkflowResult(&res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return res, nil
}

func TestGeocodeLocationWorkflow_SavesAndPublishes(t *testing.T) {
	locs := &fakeLocations{loc: &domain.RestaurantLocation{ID: "l1", Address: "Mall Road, Lahore"}}
	geo := &fakeGeo{match: &domain.GeocodeResult{Lat: 31.56, Lng: 74.32, Formatted: "Mall Road, Lahore, Pakistan"}}
	pub := &fakePublisher{}

	res, err := runWorkflow(t, locs, geo, pub, "l1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Geocoded || res.Point != (domain.Coordinate{Lat: 31.56, Lng: 74.32}) {
		t.Errorf("unexpected result %+v", res)
	}
	if got := locs.updated["l1"]; got != res.Point {
		t.Errorf("stored %+v", got)
	}
	if len(pub.geocoded) != 1 || pub.geocoded[0] != "l1" {
		t.Errorf("published %v", pub.geocoded)
	}
}

func TestGeocodeLocationWorkflow_NoMatch(t *testing.T) {
	locs := &fakeLocations{loc: &domain.RestaurantLocation{ID: "l1", Address: "nowhere"}}
	pub := &fakePublisher{}

	res, err := runWorkflow(t, locs, &fakeGeo{}, pub, "l1")
	if err != nil {
		t.Fatalf("no match must not fail the workflow: %v", err)
	}
	if res.Geocoded || len(locs.updated) != 0 || len(pub.geocoded) != 0 {
		t.Errorf("nothing should be stored or published: %+v %v %v", res, locs.updated, pub.geocoded)
	}
}

func TestGeocodeLocationWorkflow_UnknownLocation(t *testing.T) {
	_, err := runWorkflow(t, &fakeLocations{}, &fakeGeo{}, &fakePublisher{}, "missing")
	if err == nil {
		t.Fatal("expected an error for an unknown location")
	}
}

func TestGeocodeLocationWorkflow_ProviderErrorFails(t *testing.T) {
	locs := &fakeLocations{loc: &domain.RestaurantLocation{ID: "l1", Address: "Mall Road"}}
	geo := &fakeGeo{err: &domain.ProviderError{Op: "geocode", StatusCode: 503, Err: errors.New("unavailable")}}

	_, err := runWorkflow(t, locs, geo, &fakePublisher{}, "l1")
	if err == nil {
		t.Fatal("expected provider failure to surface after retries")
	}
}

func TestWorkflowID(t *testing.T) {
	if got := workflows.WorkflowID("abc"); got != "geocode-location-abc" {
		t.Errorf("WorkflowID = %q", got)
	}
}
