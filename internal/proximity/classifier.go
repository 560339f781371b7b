// Package proximity tracks a driver's approach to a ride's pickup point
// and decides when the passenger should be alerted.
package proximity

import (
	"fmt"
	"math"
)

// Status is a coarse bucketing of driver-to-pickup distance.
type Status string

const (
	StatusFar         Status = "far"
	StatusApproaching Status = "approaching"
	StatusNear        Status = "near"
	StatusArrived     Status = "arrived"
)

// Distance bands in kilometres. Boundaries are inclusive on the lower
// band: exactly 0.1km counts as arrived, exactly 1km as near.
const (
	arrivedThresholdKm     = 0.1
	nearThresholdKm        = 1.0
	approachingThresholdKm = 3.0
)

// DefaultAverageSpeedKmh is the assumed minibus speed for ETA estimates.
const DefaultAverageSpeedKmh = 30.0

// Classify maps a driver-to-pickup distance to a Status.
func Classify(distanceKm float64) Status {
	switch {
	case distanceKm <= arrivedThresholdKm:
		return StatusArrived
	case distanceKm <= nearThresholdKm:
		return StatusNear
	case distanceKm <= approachingThresholdKm:
		return StatusApproaching
	default:
		return StatusFar
	}
}

// priority orders statuses by urgency for escalation checks.
func (s Status) priority() int {
	switch s {
	case StatusApproaching:
		return 1
	case StatusNear:
		return 2
	case StatusArrived:
		return 3
	default:
		return 0
	}
}

// EstimateEtaMinutes converts a straight-line distance to an arrival
// estimate at the given average speed. Pass 0 for the default speed.
func EstimateEtaMinutes(distanceKm, averageSpeedKmh float64) float64 {
	if averageSpeedKmh <= 0 {
		averageSpeedKmh = DefaultAverageSpeedKmh
	}
	return (distanceKm / averageSpeedKmh) * 60
}

// FormatDistance renders a distance for alert messages: metres below a
// kilometre, one-decimal kilometres otherwise.
func FormatDistance(distanceKm float64) string {
	if distanceKm < 1 {
		return fmt.Sprintf("%.0fm", distanceKm*1000)
	}
	return fmt.Sprintf("%.1fkm", distanceKm)
}

// FormatEta renders an ETA for alert messages.
func FormatEta(etaMinutes float64) string {
	if etaMinutes < 1 {
		return "less than 1 minute"
	}
	if etaMinutes < 60 {
		return fmt.Sprintf("%d minutes", int(math.Round(etaMinutes)))
	}
	hours := int(etaMinutes) / 60
	minutes := int(etaMinutes) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
