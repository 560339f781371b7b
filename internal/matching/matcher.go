package matching

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"taxilink/internal/domain"
	"taxilink/internal/geo"
)

// Default search thresholds.
const (
	DefaultMaxOriginDistanceKm      = 1.0
	DefaultMaxDestinationDistanceKm = 1.0
	DefaultMaxTaxiDistanceKm        = 2.0
	DefaultMaxResults               = 10

	// Routes whose scores differ by less than this are treated as
	// equally good; the closer driver wins within the tier.
	scoreTieBandKm = 0.1
)

// Placeholder shown when a driver has no vehicle or profile record.
const notAvailable = "Not available"

// ErrInvalidConfig indicates a caller bug in the search configuration.
var ErrInvalidConfig = errors.New("invalid matching config")

// Config bounds the search. Zero values fall back to defaults.
type Config struct {
	MaxOriginDistanceKm      float64
	MaxDestinationDistanceKm float64
	MaxTaxiDistanceKm        float64
	MaxResults               int
}

// DefaultConfig returns the standard search thresholds.
func DefaultConfig() Config {
	return Config{
		MaxOriginDistanceKm:      DefaultMaxOriginDistanceKm,
		MaxDestinationDistanceKm: DefaultMaxDestinationDistanceKm,
		MaxTaxiDistanceKm:        DefaultMaxTaxiDistanceKm,
		MaxResults:               DefaultMaxResults,
	}
}

func (c *Config) applyDefaults() {
	if c.MaxOriginDistanceKm == 0 {
		c.MaxOriginDistanceKm = DefaultMaxOriginDistanceKm
	}
	if c.MaxDestinationDistanceKm == 0 {
		c.MaxDestinationDistanceKm = DefaultMaxDestinationDistanceKm
	}
	if c.MaxTaxiDistanceKm == 0 {
		c.MaxTaxiDistanceKm = DefaultMaxTaxiDistanceKm
	}
	if c.MaxResults == 0 {
		c.MaxResults = DefaultMaxResults
	}
}

func (c Config) validate() error {
	if c.MaxResults < 0 {
		return fmt.Errorf("%w: max results %d is negative", ErrInvalidConfig, c.MaxResults)
	}
	if c.MaxOriginDistanceKm < 0 || c.MaxDestinationDistanceKm < 0 || c.MaxTaxiDistanceKm < 0 {
		return fmt.Errorf("%w: distance thresholds must be non-negative", ErrInvalidConfig)
	}
	return nil
}

// Snapshot is the read-only world state a search runs against. All
// slices are externally fetched; the matcher performs no I/O.
type Snapshot struct {
	Routes    []domain.Route
	Drivers   []domain.DriverProfile
	Locations []domain.LiveLocation
	Users     []domain.User
	Vehicles  []domain.Vehicle
}

// RouteInfo is the per-route score summary carried on results.
// Distances are rounded to two decimals for presentation.
type RouteInfo struct {
	RouteID          string
	RouteName        string
	TaxiAssociation  string
	FareRand         float64
	TotalScore       float64
	StartProximityKm float64
	EndProximityKm   float64
	NearestStartStop string
	NearestEndStop   string
}

// TaxiMatch is one ranked driver result.
type TaxiMatch struct {
	DriverProfileID    string
	UserID             string
	DriverName         string
	PhoneNumber        string
	VehicleModel       string
	VehicleColor       string
	LicensePlate       string
	Location           domain.Coordinate
	LocationUpdatedAt  int64
	DistanceToOriginKm float64
	Route              RouteInfo
}

// Result is what a search always returns. An empty search is a normal
// outcome (Success true, explanatory Message); Success false means the
// caller-supplied data was malformed beyond computing anything.
type Result struct {
	Success            bool
	Message            string
	AvailableTaxis     []TaxiMatch
	MatchingRoutes     []RouteInfo
	TotalTaxisFound    int
	TotalRoutesChecked int
	ValidRoutesFound   int
}

// FindMatches runs the full search: score active routes, keep those
// passing the proximity and directionality gates, collect drivers
// assigned to them whose live position is near the origin, and rank.
// It never panics on empty or partially missing data; a config error is
// a caller bug and is returned as a plain error.
func FindMatches(snap Snapshot, origin, destination domain.Coordinate, cfg Config) (Result, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}

	if !origin.Valid() || !destination.Valid() {
		return Result{
			Success: false,
			Message: "invalid pickup or destination coordinates",
		}, nil
	}

	type scoredRoute struct {
		route domain.Route
		score RouteScore
	}

	var (
		activeCount int
		qualifying  []scoredRoute
	)
	for _, route := range snap.Routes {
		if !route.IsActive {
			continue
		}
		activeCount++

		score := ScoreRoute(route, origin, destination)
		if math.IsInf(score.TotalScore, 1) {
			continue
		}
		if score.StartProximityKm > cfg.MaxOriginDistanceKm {
			continue
		}
		if score.EndProximityKm > cfg.MaxDestinationDistanceKm {
			continue
		}
		if !score.IsDirectRoute {
			continue
		}
		qualifying = append(qualifying, scoredRoute{route: route, score: score})
	}

	if len(qualifying) == 0 {
		return Result{
			Success:            true,
			Message:            "No taxi routes found that pass near both your pickup and destination",
			TotalRoutesChecked: activeCount,
		}, nil
	}

	// Index the snapshot for the driver pass.
	locationByUser := make(map[string]domain.LiveLocation, len(snap.Locations))
	for _, loc := range snap.Locations {
		if loc.Role.IsDriver() {
			locationByUser[loc.UserID] = loc
		}
	}
	userByID := make(map[string]domain.User, len(snap.Users))
	for _, u := range snap.Users {
		userByID[u.ID] = u
	}
	vehicleByProfile := make(map[string]domain.Vehicle, len(snap.Vehicles))
	for _, v := range snap.Vehicles {
		vehicleByProfile[v.DriverProfileID] = v
	}

	var matches []TaxiMatch
	routeInfos := make([]RouteInfo, 0, len(qualifying))

	for _, sr := range qualifying {
		info := buildRouteInfo(sr.route, sr.score)
		routeInfos = append(routeInfos, info)

		for _, driver := range snap.Drivers {
			if driver.AssignedRouteID != sr.route.ID {
				continue
			}
			loc, ok := locationByUser[driver.UserID]
			if !ok {
				continue
			}
			dist := geo.DistanceKm(loc.Coordinates, origin)
			if dist > cfg.MaxTaxiDistanceKm {
				continue
			}
			matches = append(matches, buildTaxiMatch(driver, loc, dist, info, userByID, vehicleByProfile))
		}
	}

	// Best-scoring route tier first, closest driver within a tier.
	sort.SliceStable(matches, func(i, j int) bool {
		if math.Abs(matches[i].Route.TotalScore-matches[j].Route.TotalScore) < scoreTieBandKm {
			return matches[i].DistanceToOriginKm < matches[j].DistanceToOriginKm
		}
		return matches[i].Route.TotalScore < matches[j].Route.TotalScore
	})
	sort.SliceStable(routeInfos, func(i, j int) bool {
		return routeInfos[i].TotalScore < routeInfos[j].TotalScore
	})

	totalTaxis := len(matches)
	if len(matches) > cfg.MaxResults {
		matches = matches[:cfg.MaxResults]
	}

	message := fmt.Sprintf("Found %d taxis on %d matching routes", totalTaxis, len(qualifying))
	if totalTaxis == 0 {
		message = "Routes match your trip but no taxis are nearby right now"
	}

	return Result{
		Success:            true,
		Message:            message,
		AvailableTaxis:     matches,
		MatchingRoutes:     routeInfos,
		TotalTaxisFound:    totalTaxis,
		TotalRoutesChecked: activeCount,
		ValidRoutesFound:   len(qualifying),
	}, nil
}

func buildRouteInfo(route domain.Route, score RouteScore) RouteInfo {
	info := RouteInfo{
		RouteID:          route.ID,
		RouteName:        route.Name,
		TaxiAssociation:  route.TaxiAssociation,
		FareRand:         RouteFare(route),
		TotalScore:       round2(score.TotalScore),
		StartProximityKm: round2(score.StartProximityKm),
		EndProximityKm:   round2(score.EndProximityKm),
	}
	if score.NearestStartStop != nil {
		info.NearestStartStop = score.NearestStartStop.Name
	}
	if score.NearestEndStop != nil {
		info.NearestEndStop = score.NearestEndStop.Name
	}
	return info
}

func buildTaxiMatch(
	driver domain.DriverProfile,
	loc domain.LiveLocation,
	distanceKm float64,
	info RouteInfo,
	users map[string]domain.User,
	vehicles map[string]domain.Vehicle,
) TaxiMatch {
	match := TaxiMatch{
		DriverProfileID:    driver.ID,
		UserID:             driver.UserID,
		DriverName:         notAvailable,
		PhoneNumber:        notAvailable,
		VehicleModel:       notAvailable,
		VehicleColor:       notAvailable,
		LicensePlate:       notAvailable,
		Location:           loc.Coordinates,
		LocationUpdatedAt:  loc.UpdatedAt.UnixMilli(),
		DistanceToOriginKm: round2(distanceKm),
		Route:              info,
	}
	if user, ok := users[driver.UserID]; ok {
		if user.Name != "" {
			match.DriverName = user.Name
		}
		if user.PhoneNumber != "" {
			match.PhoneNumber = user.PhoneNumber
		}
	}
	if vehicle, ok := vehicles[driver.ID]; ok {
		if vehicle.Model != "" {
			match.VehicleModel = vehicle.Model
		}
		if vehicle.Color != "" {
			match.VehicleColor = vehicle.Color
		}
		if vehicle.LicensePlate != "" {
			match.LicensePlate = vehicle.LicensePlate
		}
	}
	return match
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
