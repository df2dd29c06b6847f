package delivery

import (
	"testing"
)

func TestHaversineKm(t *testing.T) {
	// Same point.
	if d := HaversineKm(23.8103, 90.4125, 23.8103, 90.4125); d != 0 {
		t.Errorf("HaversineKm(same point) = %v, want 0", d)
	}

	// Dhaka to Chittagong is roughly 214 km great-circle.
	d := HaversineKm(23.8103, 90.4125, 22.3569, 91.7832)
	if d < 205 || d > 225 {
		t.Errorf("HaversineKm(Dhaka, Chittagong) = %v, want ~214", d)
	}
}

func TestEstimator_Monotonicity(t *testing.T) {
	e := NewEstimator(0)

	// Increasing distance with a fixed vehicle never decreases duration.
	prev := -1
	for i := 1; i <= 20; i++ {
		est := e.Estimate(23.8, 90.4, 23.8, 90.4+float64(i)*0.01, "motorcycle")
		if est.DurationMin < prev {
			t.Fatalf("duration decreased at step %d: %d < %d", i, est.DurationMin, prev)
		}
		prev = est.DurationMin
	}
}

func TestEstimator_VehicleSpeeds(t *testing.T) {
	e := NewEstimator(0)

	// A fixed stretch, different speed classes.
	lat1, lon1, lat2, lon2 := 23.8, 90.4, 23.8, 90.5

	moto := e.Estimate(lat1, lon1, lat2, lon2, "motorcycle")
	bicycle := e.Estimate(lat1, lon1, lat2, lon2, "bicycle")
	van := e.Estimate(lat1, lon1, lat2, lon2, "van")

	if !(bicycle.DurationMin > van.DurationMin && van.DurationMin > moto.DurationMin) {
		t.Errorf("speed ordering wrong: moto=%d van=%d bicycle=%d",
			moto.DurationMin, van.DurationMin, bicycle.DurationMin)
	}

	// Unknown vehicles fall back to motorcycle speed.
	unknown := e.Estimate(lat1, lon1, lat2, lon2, "hovercraft")
	if unknown.DurationMin != moto.DurationMin {
		t.Errorf("unknown vehicle duration = %d, want motorcycle's %d",
			unknown.DurationMin, moto.DurationMin)
	}
}

func TestEstimator_AppliesRoadFactor(t *testing.T) {
	straight := NewEstimator(1)
	road := NewEstimator(1.4)

	s := straight.Estimate(23.8, 90.4, 23.9, 90.5, "van")
	r := road.Estimate(23.8, 90.4, 23.9, 90.5, "van")

	ratio := r.DistanceKm / s.DistanceKm
	if ratio < 1.399 || ratio > 1.401 {
		t.Errorf("road factor ratio = %v, want 1.4", ratio)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "arriving now"},
		{1, "1 min"},
		{45, "45 min"},
		{59, "59 min"},
		{60, "1h"},
		{61, "1h 1m"},
		{125, "2h 5m"},
		{180, "3h"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.minutes); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestNearDestination(t *testing.T) {
	tests := []struct {
		distance  float64
		threshold float64
		want      bool
	}{
		{0.4, 0.5, true},
		{0.5, 0.5, true},
		{0.6, 0.5, false},
	}

	for _, tt := range tests {
		if got := NearDestination(tt.distance, tt.threshold); got != tt.want {
			t.Errorf("NearDestination(%v, %v) = %v, want %v", tt.distance, tt.threshold, got, tt.want)
		}
	}
}
