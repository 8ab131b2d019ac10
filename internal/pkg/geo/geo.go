package geo

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Policy is a snapshot of the office location rule used to validate punches.
type Policy struct {
	Office        Point
	MaxDistanceKm float64
	Enabled       bool
}

type Result struct {
	IsValid    bool     `json:"is_valid"`
	Message    string   `json:"message,omitempty"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// DistanceKm returns the great-circle distance between two points using the haversine formula.
func DistanceKm(a, b Point) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// Validate decides whether p is close enough to the office under policy.
// Coordinate range checks belong to request validation, not here.
func Validate(p Point, policy Policy) Result {
	if !policy.Enabled {
		return Result{IsValid: true}
	}

	distance := DistanceKm(p, policy.Office)
	if distance <= policy.MaxDistanceKm {
		return Result{IsValid: true, DistanceKm: &distance}
	}

	return Result{
		IsValid:    false,
		DistanceKm: &distance,
		Message: fmt.Sprintf("You are %.2f km away from office. Maximum allowed distance is %s km",
			distance, formatKm(policy.MaxDistanceKm)),
	}
}

func formatKm(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%g", v)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
