package delivery

import (
	"fmt"
	"math"
)

const (
	earthRadiusKm     = 6371
	defaultRoadFactor = 1.4
)

// Average road speeds per vehicle class, in km/h.
var vehicleSpeeds = map[string]float64{
	"motorcycle": 25,
	"bicycle":    12,
	"van":        20,
}

const defaultVehicle = "motorcycle"

// HaversineKm returns the great-circle distance in kilometers between
// two coordinates.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Estimate is a computed delivery ETA.
type Estimate struct {
	DistanceKm  float64 `json:"distance_km"`
	DurationMin int     `json:"duration_min"`
	Display     string  `json:"display"`
}

// Estimator computes delivery ETAs from rider and destination
// coordinates. Straight-line distance is scaled by a road factor to
// approximate actual routing.
type Estimator struct {
	roadFactor float64
}

// NewEstimator creates an estimator with the given road factor; zero or
// negative selects the default of 1.4.
func NewEstimator(roadFactor float64) *Estimator {
	if roadFactor <= 0 {
		roadFactor = defaultRoadFactor
	}
	return &Estimator{roadFactor: roadFactor}
}

// Estimate computes distance and duration between two points for the
// given vehicle type. Unrecognized vehicles fall back to motorcycle
// speed.
func (e *Estimator) Estimate(lat1, lon1, lat2, lon2 float64, vehicle string) Estimate {
	roadKm := HaversineKm(lat1, lon1, lat2, lon2) * e.roadFactor

	speed, ok := vehicleSpeeds[vehicle]
	if !ok {
		speed = vehicleSpeeds[defaultVehicle]
	}

	minutes := int(math.Round(roadKm / speed * 60))

	return Estimate{
		DistanceKm:  roadKm,
		DurationMin: minutes,
		Display:     FormatDuration(minutes),
	}
}

// FormatDuration renders a minute count for the tracking UI.
func FormatDuration(minutes int) string {
	if minutes < 1 {
		return "arriving now"
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}

	h := minutes / 60
	m := minutes % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// NearDestination reports whether the rider is within the notification
// threshold of the destination.
func NearDestination(distanceKm, thresholdKm float64) bool {
	return distanceKm <= thresholdKm
}
