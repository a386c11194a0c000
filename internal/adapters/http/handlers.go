package http

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/tiffin/internal/core/domain"
)

// ListRestaurantsHandler returns active restaurants with their locations.
func ListRestaurantsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurants, err := deps.Restaurants.ListActive(c.UserContext())
		if err != nil {
			return handleError(c, err, "restaurants not found")
		}

		page, pg := paginate(c, restaurants, 50, 200)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// GetRestaurantHandler returns a single restaurant by ID.
func GetRestaurantHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurant, err := deps.Restaurants.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return handleError(c, err, "restaurant not found")
		}
		return c.JSON(restaurant)
	}
}

// RestaurantLocationsHandler lists every location of a restaurant,
// geocoded or not.
func RestaurantLocationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		locations, err := deps.Restaurants.Locations(c.UserContext(), c.Params("id"))
		if err != nil {
			return handleError(c, err, "restaurant not found")
		}
		return c.JSON(fiber.Map{
			"locations": locations,
			"total":     len(locations),
		})
	}
}

// RestaurantZoneChecksHandler returns the latest audited zone decisions.
func RestaurantZoneChecksHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		checks, err := deps.Restaurants.ZoneChecks(c.UserContext(), c.Params("id"), c.QueryInt("limit", 20))
		if err != nil {
			return handleError(c, err, "restaurant not found")
		}
		return c.JSON(fiber.Map{
			"zone_checks": checks,
			"total":       len(checks),
		})
	}
}

// NearbyRestaurantsHandler finds restaurants with an open location around
// lat/lng. radius is in km and falls back to the configured default.
func NearbyRestaurantsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		point, err := queryCoordinate(c, "lat", "lng")
		if err != nil {
			return handleError(c, err, "")
		}
		radius, err := optionalQueryFloat(c, "radius", 0)
		if err != nil {
			return handleError(c, err, "")
		}
		if radius < 0 {
			return errValidation(c, &domain.ValidationError{Field: "radius", Reason: "must not be negative"})
		}

		res, err := deps.Delivery.NearbyRestaurants(c.UserContext(), point, radius)
		if err != nil {
			return handleError(c, err, "")
		}
		return c.JSON(res)
	}
}

// DeliveryZoneHandler decides whether a restaurant delivers to lat/lng.
func DeliveryZoneHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return checkZone(c, deps, c.Params("id"))
	}
}

// DeliveryCheckHandler is the query-string form of DeliveryZoneHandler.
func DeliveryCheckHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Query("restaurant_id"))
		if id == "" {
			return errValidation(c, &domain.ValidationError{Field: "restaurant_id", Reason: "required"})
		}
		return checkZone(c, deps, id)
	}
}

func checkZone(c *fiber.Ctx, deps *Dependencies, restaurantID string) error {
	point, err := queryCoordinate(c, "lat", "lng")
	if err != nil {
		return handleError(c, err, "")
	}

	decision, err := deps.Delivery.CheckDeliveryZone(c.UserContext(), restaurantID, point)
	if err != nil {
		return handleError(c, err, "restaurant not found")
	}
	return c.JSON(decision)
}

// EstimateHandler prices a known distance: GET /delivery/estimate?distance_km=
func EstimateHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		km, err := queryFloat(c, "distance_km")
		if err != nil {
			return handleError(c, err, "")
		}
		if km < 0 {
			return errValidation(c, &domain.ValidationError{Field: "distance_km", Reason: "must not be negative"})
		}
		return c.JSON(deps.Delivery.Estimate(km))
	}
}

// EstimateRequest is the body of POST /delivery/estimate.
type EstimateRequest struct {
	From PointInput `json:"from"`
	To   PointInput `json:"to"`
	Mode string     `json:"mode" validate:"omitempty,oneof=driving walking cycling"`
}

// PointInput uses pointers so a missing coordinate is distinguishable from 0.
type PointInput struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

func (p PointInput) coordinate() domain.Coordinate {
	return domain.Coordinate{Lat: *p.Lat, Lng: *p.Lng}
}

// EstimateRouteHandler prices the trip between two points, preferring the
// routed distance when a geo provider is configured.
func EstimateRouteHandler(deps *Dependencies) fiber.Handler {
	validate := newValidator()

	return func(c *fiber.Ctx) error {
		var req EstimateRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return errValidation(c, validationFailure(err))
		}

		mode, err := domain.ParseTravelMode(req.Mode)
		if err != nil {
			return handleError(c, err, "")
		}

		est, err := deps.Delivery.EstimateBetween(c.UserContext(), req.From.coordinate(), req.To.coordinate(), mode)
		if err != nil {
			return handleError(c, err, "")
		}
		return c.JSON(est)
	}
}

// newValidator reports field paths by their JSON names (from.lat, mode).
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationFailure turns the first validator error into a ValidationError.
func validationFailure(err error) *domain.ValidationError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return &domain.ValidationError{Field: "body", Reason: err.Error()}
	}
	fe := verrs[0]

	// Namespace is "EstimateRequest.from.lat"; drop the struct name.
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	reason := "is invalid"
	switch fe.Tag() {
	case "required":
		reason = "required"
	case "oneof":
		reason = "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte", "lte":
		reason = "out of range"
	}
	return &domain.ValidationError{Field: field, Reason: reason}
}
