// Package matching implements route scoring and the taxi search
// pipeline. Everything here is pure computation over caller-supplied
// snapshots; fetching routes, drivers and locations is the service
// layer's job.
package matching

import (
	"math"

	"taxilink/internal/domain"
	"taxilink/internal/geo"
)

// Score weights. Pickup accuracy matters more than drop-off accuracy
// for the rider, so the start side dominates.
const (
	startProximityWeight = 0.6
	endProximityWeight   = 0.4
)

// RouteScore is the proximity assessment of one route against an
// origin/destination pair. Lower TotalScore is better; +Inf means the
// route cannot serve the journey at all.
type RouteScore struct {
	TotalScore       float64
	StartProximityKm float64
	EndProximityKm   float64
	NearestStartStop *domain.Stop
	NearestEndStop   *domain.Stop
	IsDirectRoute    bool
}

// ScoreRoute finds the stop nearest the origin and the stop nearest the
// destination (independent scans; both may pick the same stop) and
// combines their distances into a weighted score. A route with no stops
// scores +Inf and never panics. The route is direct only when the
// origin-side stop precedes the destination-side stop in travel order.
func ScoreRoute(route domain.Route, origin, destination domain.Coordinate) RouteScore {
	if len(route.Stops) == 0 {
		return RouteScore{
			TotalScore:       math.Inf(1),
			StartProximityKm: math.Inf(1),
			EndProximityKm:   math.Inf(1),
		}
	}

	startIdx, startDist := nearestStop(route.Stops, origin)
	endIdx, endDist := nearestStop(route.Stops, destination)

	startStop := route.Stops[startIdx]
	endStop := route.Stops[endIdx]

	return RouteScore{
		TotalScore:       startProximityWeight*startDist + endProximityWeight*endDist,
		StartProximityKm: startDist,
		EndProximityKm:   endDist,
		NearestStartStop: &startStop,
		NearestEndStop:   &endStop,
		IsDirectRoute:    startStop.Order < endStop.Order,
	}
}

// nearestStop does a linear scan keeping the first strictly smaller
// distance, so equal distances resolve to the earliest stop.
func nearestStop(stops []domain.Stop, point domain.Coordinate) (int, float64) {
	best := 0
	bestDist := geo.DistanceKm(stops[0].Coordinates, point)
	for i := 1; i < len(stops); i++ {
		if d := geo.DistanceKm(stops[i].Coordinates, point); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, bestDist
}
