// Package geo provides pure great-circle geometry used by route
// matching and proximity monitoring. No road-network awareness:
// straight-line distance is a documented approximation.
package geo

import (
	"math"

	"taxilink/internal/domain"
)

const earthRadiusKm = 6371.0

// DistanceKm returns the Haversine great-circle distance between two
// points in kilometres. Symmetric; 0 for identical points.
func DistanceKm(a, b domain.Coordinate) float64 {
	dLat := degreesToRadians(b.Latitude - a.Latitude)
	dLng := degreesToRadians(b.Longitude - a.Longitude)

	rLat1 := degreesToRadians(a.Latitude)
	rLat2 := degreesToRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
