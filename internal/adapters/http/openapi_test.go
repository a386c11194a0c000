package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/tiffin/internal/adapters/http"
)

// findOpenAPISpec locates the openapi.yaml file by walking up from the test directory.
func findOpenAPISpec(t *testing.T) string {
	dir, _ := os.Getwd()

	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "api", "openapi.yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		dir = filepath.Dir(dir)
	}

	t.Fatalf("could not find api/openapi.yaml")
	return ""
}

// TestOpenAPISpec validates the OpenAPI specification is valid.
func TestOpenAPISpec(t *testing.T) {
	specPath := findOpenAPISpec(t)
	data, err := os.ReadFile(specPath)
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}

	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI spec: %v", err)
	}

	if err := spec.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI spec validation failed: %v", err)
	}

	expectedPaths := []string{
		"/v1/health",
		"/v1/ready",
		"/v1/restaurants",
		"/v1/restaurants/nearby",
		"/v1/restaurants/{id}",
		"/v1/restaurants/{id}/locations",
		"/v1/restaurants/{id}/delivery-zone",
		"/v1/restaurants/{id}/zone-checks",
		"/v1/delivery/check",
		"/v1/delivery/estimate",
		"/v1/geo/status",
		"/v1/geo/geocode",
		"/v1/geo/reverse",
		"/v1/geo/autocomplete",
		"/v1/geo/route",
		"/v1/geo/isodistance",
		"/graphql",
	}

	for _, path := range expectedPaths {
		if item := spec.Paths.Find(path); item == nil {
			t.Errorf("expected path %s not found in spec", path)
		}
	}

	expectedSchemas := []string{
		"Coordinate",
		"Restaurant",
		"RestaurantLocation",
		"DeliveryZoneDecision",
		"DeliveryEstimate",
		"NearbyResult",
		"GeocodeResult",
		"RouteResult",
		"ZoneCheckEvent",
		"GeoStatus",
		"APIError",
		"Pagination",
	}

	for _, schema := range expectedSchemas {
		if spec.Components.Schemas[schema] == nil {
			t.Errorf("expected schema %s not found", schema)
		}
	}

	t.Logf("OpenAPI spec valid: %d paths, %d schemas", len(spec.Paths.Map()), len(spec.Components.Schemas))
}

// TestOpenAPIInfo verifies spec metadata.
func TestOpenAPIInfo(t *testing.T) {
	specPath := findOpenAPISpec(t)
	data, err := os.ReadFile(specPath)
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}

	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI spec: %v", err)
	}

	if spec.Info.Title != "Tiffin Delivery API" {
		t.Errorf("expected title 'Tiffin Delivery API', got %q", spec.Info.Title)
	}

	if spec.Info.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", spec.Info.Version)
	}

	if spec.Info.Description == "" {
		t.Error("expected non-empty description")
	}

	if len(spec.Servers) == 0 {
		t.Error("expected at least one server")
	}

	t.Logf("OpenAPI Info: %s v%s @ %s", spec.Info.Title, spec.Info.Version, spec.Servers[0].URL)
}

// TestOpenAPIDeprecatedCheck verifies the query-string zone check is marked deprecated.
func TestOpenAPIDeprecatedCheck(t *testing.T) {
	data, err := os.ReadFile(findOpenAPISpec(t))
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}

	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI spec: %v", err)
	}

	item := spec.Paths.Find("/v1/delivery/check")
	if item == nil || item.Get == nil {
		t.Fatal("expected GET /v1/delivery/check")
	}
	if !item.Get.Deprecated {
		t.Error("expected /v1/delivery/check to be deprecated")
	}

	est := spec.Paths.Find("/v1/delivery/estimate")
	if est == nil || est.Get == nil || est.Post == nil {
		t.Fatal("expected GET and POST /v1/delivery/estimate")
	}
}

func TestDocs_ServersPointAtInstance(t *testing.T) {
	app := fiber.New()
	handler.SetupDocs(app, findOpenAPISpec(t))

	resp, err := app.Test(httptest.NewRequest("GET", "http://api.example.test/docs/openapi.json", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var doc struct {
		Info    struct{ Title string } `json:"info"`
		Servers []struct{ URL string } `json:"servers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Info.Title != "Tiffin Delivery API" {
		t.Errorf("unexpected title %q", doc.Info.Title)
	}
	if len(doc.Servers) != 1 || doc.Servers[0].URL != "http://api.example.test" {
		t.Errorf("unexpected servers %+v", doc.Servers)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/docs", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "<title>Tiffin Delivery API 1.0.0 - Swagger UI</title>") {
		t.Errorf("page title not taken from the document: %s", body)
	}
}

func TestDocs_MissingDocument(t *testing.T) {
	app := fiber.New()
	handler.SetupDocs(app, filepath.Join(t.TempDir(), "missing.yaml"))

	for _, path := range []string{"/docs", "/docs/openapi.yaml", "/docs/openapi.json"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != 404 {
			t.Errorf("%s: expected 404, got %d", path, resp.StatusCode)
		}
	}
}
