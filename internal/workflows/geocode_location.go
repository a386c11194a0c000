package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/tiffin/internal/core/domain"
)

// TaskQueue is the default task queue of the geocoder worker.
const TaskQueue = "location-geocoding"

// GeocodeLocationInput is the input for the location geocoding workflow.
type GeocodeLocationInput struct {
	LocationID string
}

// GeocodeLocationResult reports what the workflow stored.
type GeocodeLocationResult struct {
	Geocoded  bool
	Point     domain.Coordinate
	Formatted string
}

// WorkflowID is the deterministic workflow ID for a location, so a backfill
// never runs two workflows for the same branch.
func WorkflowID(locationID string) string {
	return "geocode-location-" + locationID
}

// GeocodeLocationWorkflow geocodes a location address, saves the point and
// announces it. No match ends the workflow without error.
func GeocodeLocationWorkflow(ctx workflow.Context, input GeocodeLocationInput) (GeocodeLocationResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting location geocoding workflow", "locationID", input.LocationID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Geocode
	var match *domain.GeocodeResult
	if err := workflow.ExecuteActivity(ctx, "GeocodeAddress", input.LocationID).Get(ctx, &match); err != nil {
		return GeocodeLocationResult{}, err
	}
	if match == nil {
		return GeocodeLocationResult{}, nil
	}

	// Step 2: Save coordinates
	point := match.Coordinate()
	if err := workflow.ExecuteActivity(ctx, "SaveCoordinates", input.LocationID, point).Get(ctx, nil); err != nil {
		return GeocodeLocationResult{}, err
	}

	// Step 3: Announce, best effort
	pubCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})
	if err := workflow.ExecuteActivity(pubCtx, "PublishLocationGeocoded", input.LocationID, *match).Get(ctx, nil); err != nil {
		logger.Warn("publish failed", "error", err)
	}

	logger.Info("Location geocoded", "locationID", input.LocationID, "formatted", match.Formatted)
	return GeocodeLocationResult{Geocoded: true, Point: point, Formatted: match.Formatted}, nil
}
