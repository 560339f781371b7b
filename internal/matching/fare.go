package matching

import "taxilink/internal/domain"

// Flat minibus-taxi fare schedule: R15 per started 10 minutes of
// estimated trip duration, never below the base fare.
const (
	baseFareRand     = 15.0
	fareBlockSeconds = 600
	farePerBlockRand = 15.0
)

// FareForDuration converts an estimated trip duration into a fare in
// rand. Zero or negative durations fall back to the minimum fare.
func FareForDuration(durationSeconds int) float64 {
	if durationSeconds <= 0 {
		return baseFareRand
	}
	blocks := durationSeconds / fareBlockSeconds
	if durationSeconds%fareBlockSeconds != 0 {
		blocks++
	}
	fare := float64(blocks) * farePerBlockRand
	if fare < baseFareRand {
		return baseFareRand
	}
	return fare
}

// RouteFare returns a route's advertised fare, falling back to the
// duration-based schedule when the route carries none.
func RouteFare(route domain.Route) float64 {
	if route.Fare > 0 {
		return route.Fare
	}
	return FareForDuration(route.EstimatedDurationSeconds)
}
