package service

import (
	"context"
	"errors"

	"taxilink/internal/domain"
	"taxilink/internal/matching"
	"taxilink/internal/redis"
	"taxilink/internal/repository"
)

// MatchService assembles the world state a taxi search runs against
// and delegates the ranking itself to the matching package.
type MatchService struct {
	routeRepo     repository.RouteRepository
	driverRepo    repository.DriverRepository
	vehicleRepo   repository.VehicleRepository
	userRepo      repository.UserRepository
	locationStore redis.LocationStoreInterface
	cacheStore    *redis.CacheStore
	cfg           matching.Config
}

// NewMatchService creates a new MatchService. cacheStore may be nil;
// every lookup then goes straight to the repositories.
func NewMatchService(
	routeRepo repository.RouteRepository,
	driverRepo repository.DriverRepository,
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	locationStore redis.LocationStoreInterface,
	cacheStore *redis.CacheStore,
	cfg matching.Config,
) *MatchService {
	return &MatchService{
		routeRepo:     routeRepo,
		driverRepo:    driverRepo,
		vehicleRepo:   vehicleRepo,
		userRepo:      userRepo,
		locationStore: locationStore,
		cacheStore:    cacheStore,
		cfg:           cfg,
	}
}

// FindTaxis runs a full search for taxis serving a pickup/destination
// pair. Non-zero fields in overrides replace the service-wide search
// thresholds for this request only. Malformed coordinates are a
// validation error; an empty result set is a normal outcome carried
// inside the Result.
func (s *MatchService) FindTaxis(ctx context.Context, origin, destination domain.Coordinate, overrides matching.Config) (matching.Result, error) {
	if !origin.Valid() {
		return matching.Result{}, ErrInvalidPickupLocation
	}
	if !destination.Valid() {
		return matching.Result{}, ErrInvalidDestinationLocation
	}

	cfg := s.cfg
	if overrides.MaxOriginDistanceKm != 0 {
		cfg.MaxOriginDistanceKm = overrides.MaxOriginDistanceKm
	}
	if overrides.MaxDestinationDistanceKm != 0 {
		cfg.MaxDestinationDistanceKm = overrides.MaxDestinationDistanceKm
	}
	if overrides.MaxTaxiDistanceKm != 0 {
		cfg.MaxTaxiDistanceKm = overrides.MaxTaxiDistanceKm
	}
	if overrides.MaxResults != 0 {
		cfg.MaxResults = overrides.MaxResults
	}

	routes, err := s.activeRoutes(ctx)
	if err != nil {
		return matching.Result{}, err
	}

	drivers, err := s.driverRepo.GetAll(ctx)
	if err != nil {
		return matching.Result{}, err
	}

	// GEO prefilter: only drivers already near the pickup can appear in
	// the results, so nothing outside the radius is worth enriching.
	radiusKm := cfg.MaxTaxiDistanceKm
	if radiusKm <= 0 {
		radiusKm = matching.DefaultMaxTaxiDistanceKm
	}
	locations, err := s.locationStore.FindNearbyDrivers(ctx, origin, radiusKm)
	if err != nil {
		return matching.Result{}, err
	}

	users, vehicles, err := s.enrichmentData(ctx, drivers, locations)
	if err != nil {
		return matching.Result{}, err
	}

	snap := matching.Snapshot{
		Routes:    routes,
		Drivers:   drivers,
		Locations: locations,
		Users:     users,
		Vehicles:  vehicles,
	}
	return matching.FindMatches(snap, origin, destination, cfg)
}

// activeRoutes returns the active route set, served from cache when
// possible. Cache errors degrade to a repository read.
func (s *MatchService) activeRoutes(ctx context.Context) ([]domain.Route, error) {
	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetActiveRoutes(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	routes, err := s.routeRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetActiveRoutes(ctx, routes)
	}
	return routes, nil
}

// enrichmentData loads the users and vehicles backing the drivers whose
// live position survived the GEO prefilter.
func (s *MatchService) enrichmentData(
	ctx context.Context,
	drivers []domain.DriverProfile,
	locations []domain.LiveLocation,
) ([]domain.User, []domain.Vehicle, error) {
	nearbyUsers := make(map[string]bool, len(locations))
	for _, loc := range locations {
		nearbyUsers[loc.UserID] = true
	}

	var userIDs, profileIDs []string
	for _, d := range drivers {
		if !nearbyUsers[d.UserID] {
			continue
		}
		userIDs = append(userIDs, d.UserID)
		profileIDs = append(profileIDs, d.ID)
	}
	if len(userIDs) == 0 {
		return nil, nil, nil
	}

	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, nil, err
	}

	vehicles, err := s.vehicles(ctx, profileIDs)
	if err != nil {
		return nil, nil, err
	}
	return users, vehicles, nil
}

// vehicles batch-loads vehicles, cache first, then repository for the
// misses. Drivers with no vehicle on record are simply absent; matching
// substitutes placeholders.
func (s *MatchService) vehicles(ctx context.Context, profileIDs []string) ([]domain.Vehicle, error) {
	var (
		vehicles []domain.Vehicle
		missing  = profileIDs
	)

	if s.cacheStore != nil {
		cached, miss, err := s.cacheStore.GetVehiclesBatch(ctx, profileIDs)
		if err == nil {
			for _, v := range cached {
				vehicles = append(vehicles, *v)
			}
			missing = miss
		}
	}

	for _, id := range missing {
		vehicle, err := s.vehicleRepo.GetByDriverProfile(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		vehicles = append(vehicles, *vehicle)
		if s.cacheStore != nil {
			_ = s.cacheStore.SetVehicle(ctx, vehicle)
		}
	}
	return vehicles, nil
}
