package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/tiffin/internal/core/domain"
)

// GeoStatusHandler reports which geo provider is active.
func GeoStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Geo.Status())
	}
}

// GeocodeHandler resolves ?address= to its best match. A miss is a 404.
func GeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := deps.Geo.Geocode(c.UserContext(), c.Query("address"))
		if err != nil {
			return handleError(c, err, "")
		}
		if res == nil {
			return errNotFound(c, "no match for address")
		}
		return c.JSON(res)
	}
}

// ReverseGeocodeHandler returns the formatted address at lat/lng.
func ReverseGeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		point, err := queryCoordinate(c, "lat", "lng")
		if err != nil {
			return handleError(c, err, "")
		}

		formatted, ok, err := deps.Geo.ReverseGeocode(c.UserContext(), point)
		if err != nil {
			return handleError(c, err, "")
		}
		if !ok {
			return errNotFound(c, "no address at point")
		}
		return c.JSON(fiber.Map{
			"lat":       point.Lat,
			"lng":       point.Lng,
			"formatted": formatted,
		})
	}
}

// AutocompleteHandler suggests addresses for a partial ?q=. Provider
// failures produce an empty list.
func AutocompleteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		results, err := deps.Geo.Autocomplete(c.UserContext(), c.Query("q"), c.QueryInt("limit", 5))
		if err != nil {
			return handleError(c, err, "")
		}
		return c.JSON(fiber.Map{
			"results": results,
			"total":   len(results),
		})
	}
}

// RouteHandler returns the routed path between two points.
func RouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, err := queryCoordinate(c, "from_lat", "from_lng")
		if err != nil {
			return handleError(c, err, "")
		}
		to, err := queryCoordinate(c, "to_lat", "to_lng")
		if err != nil {
			return handleError(c, err, "")
		}
		mode, err := domain.ParseTravelMode(c.Query("mode"))
		if err != nil {
			return handleError(c, err, "")
		}

		route, err := deps.Geo.Route(c.UserContext(), from, to, mode)
		if err != nil {
			return handleError(c, err, "")
		}
		if route == nil {
			return errNotFound(c, "no route found")
		}
		return c.JSON(route)
	}
}

// IsodistanceHandler answers whether lat/lng lies within radius_km of the
// center by road. It degrades to straight-line distance and never fails on
// provider errors.
func IsodistanceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		center, err := queryCoordinate(c, "center_lat", "center_lng")
		if err != nil {
			return handleError(c, err, "")
		}
		point, err := queryCoordinate(c, "lat", "lng")
		if err != nil {
			return handleError(c, err, "")
		}
		radius, err := queryFloat(c, "radius_km")
		if err != nil {
			return handleError(c, err, "")
		}

		within, err := deps.Geo.CheckIsodistance(c.UserContext(), center, radius, point)
		if err != nil {
			return handleError(c, err, "")
		}
		return c.JSON(fiber.Map{
			"within":    within,
			"radius_km": radius,
		})
	}
}
