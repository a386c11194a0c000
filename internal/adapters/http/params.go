package http

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/tiffin/internal/core/domain"
)

// queryFloat parses a required decimal query parameter.
func queryFloat(c *fiber.Ctx, key string) (float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, &domain.ValidationError{Field: key, Reason: "required"}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &domain.ValidationError{Field: key, Reason: "must be a decimal number"}
	}
	return v, nil
}

// optionalQueryFloat parses a decimal query parameter, returning def when absent.
func optionalQueryFloat(c *fiber.Ctx, key string, def float64) (float64, error) {
	if strings.TrimSpace(c.Query(key)) == "" {
		return def, nil
	}
	return queryFloat(c, key)
}

// queryCoordinate parses and range-checks a lat/lng pair.
func queryCoordinate(c *fiber.Ctx, latKey, lngKey string) (domain.Coordinate, error) {
	lat, err := queryFloat(c, latKey)
	if err != nil {
		return domain.Coordinate{}, err
	}
	lng, err := queryFloat(c, lngKey)
	if err != nil {
		return domain.Coordinate{}, err
	}
	if lat < -90 || lat > 90 {
		return domain.Coordinate{}, &domain.ValidationError{Field: latKey, Reason: "must be between -90 and 90"}
	}
	if lng < -180 || lng > 180 {
		return domain.Coordinate{}, &domain.ValidationError{Field: lngKey, Reason: "must be between -180 and 180"}
	}
	return domain.Coordinate{Lat: lat, Lng: lng}, nil
}
