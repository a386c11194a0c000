package pricing

import "testing"

func TestBands(t *testing.T) {
	cases := []struct {
		km     float64
		window string
		fee    int
	}{
		{0, "15-25 min", 25},
		{2, "15-25 min", 25},
		{2.01, "25-35 min", 35},
		{5, "25-35 min", 35},
		{5.5, "35-45 min", 45},
		{10, "35-45 min", 45},
		{10.01, "45-60 min", 55},
		{15, "45-60 min", 55},
		{15.01, "60+ min", 65},
		{120, "60+ min", 65},
	}

	for _, tc := range cases {
		if got := TimeWindow(tc.km); got != tc.window {
			t.Errorf("TimeWindow(%v) = %q, want %q", tc.km, got, tc.window)
		}
		if got := Fee(tc.km); got != tc.fee {
			t.Errorf("Fee(%v) = %d, want %d", tc.km, got, tc.fee)
		}
	}
}

func TestEstimate(t *testing.T) {
	e := Estimate(4)
	if e.DistanceKm != 4 || e.TimeWindow != "25-35 min" || e.Fee != 35 {
		t.Errorf("unexpected estimate: %+v", e)
	}
}
