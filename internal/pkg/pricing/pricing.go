// Package pricing maps a delivery distance to a time window and a fee.
package pricing

import "github.com/samirrijal/tiffin/internal/core/domain"

// band is one step of the tariff. Each band includes its upper bound.
type band struct {
	maxKm      float64
	timeWindow string
	fee        int
}

var bands = []band{
	{maxKm: 2, timeWindow: "15-25 min", fee: 25},
	{maxKm: 5, timeWindow: "25-35 min", fee: 35},
	{maxKm: 10, timeWindow: "35-45 min", fee: 45},
	{maxKm: 15, timeWindow: "45-60 min", fee: 55},
}

const (
	overflowTimeWindow = "60+ min"
	overflowFee        = 65
)

func lookup(distanceKm float64) (string, int) {
	for _, b := range bands {
		if distanceKm <= b.maxKm {
			return b.timeWindow, b.fee
		}
	}
	return overflowTimeWindow, overflowFee
}

// TimeWindow returns the expected delivery window for distanceKm.
func TimeWindow(distanceKm float64) string {
	w, _ := lookup(distanceKm)
	return w
}

// Fee returns the delivery fee for distanceKm.
func Fee(distanceKm float64) int {
	_, f := lookup(distanceKm)
	return f
}

// Estimate bundles the time window and fee for distanceKm.
func Estimate(distanceKm float64) domain.DeliveryEstimate {
	w, f := lookup(distanceKm)
	return domain.DeliveryEstimate{
		DistanceKm: distanceKm,
		TimeWindow: w,
		Fee:        f,
	}
}
