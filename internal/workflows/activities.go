package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/tiffin/internal/core/domain"
	"github.com/samirrijal/tiffin/internal/core/usecases"
	"github.com/samirrijal/tiffin/internal/pkg/metrics"
)

// LocationActivities holds the activity implementations for the location
// geocoding workflow.
type LocationActivities struct {
	Locations *usecases.LocationService
}

// GeocodeAddress resolves the stored address of a location. A nil result
// means there is nothing to save.
func (a *LocationActivities) GeocodeAddress(ctx context.Context, locationID string) (*domain.GeocodeResult, error) {
	res, err := a.Locations.Geocode(ctx, locationID)
	if err != nil {
		metrics.LocationsGeocoded.WithLabelValues("failed").Inc()
		if errors.Is(err, domain.ErrNotFound) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), "NotFound", err)
		}
		return nil, fmt.Errorf("geocode location %s: %w", locationID, err)
	}
	if res == nil {
		metrics.LocationsGeocoded.WithLabelValues("no_match").Inc()
		activity.GetLogger(ctx).Info("no geocoding match", "locationID", locationID)
	}
	return res, nil
}

// SaveCoordinates stores the resolved point on the location.
func (a *LocationActivities) SaveCoordinates(ctx context.Context, locationID string, point domain.Coordinate) error {
	if err := a.Locations.SaveCoordinates(ctx, locationID, point); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) || errors.Is(err, domain.ErrNotFound) {
			return temporal.NewNonRetryableApplicationError(err.Error(), "InvalidLocation", err)
		}
		return fmt.Errorf("save coordinates %s: %w", locationID, err)
	}
	metrics.LocationsGeocoded.WithLabelValues("geocoded").Inc()
	return nil
}

// PublishLocationGeocoded announces the new coordinates. It never fails.
func (a *LocationActivities) PublishLocationGeocoded(ctx context.Context, locationID string, res domain.GeocodeResult) error {
	a.Locations.PublishGeocoded(ctx, locationID, res)
	return nil
}
