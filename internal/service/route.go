package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"taxilink/internal/domain"
	"taxilink/internal/matching"
	"taxilink/internal/redis"
	"taxilink/internal/repository"
)

// RouteService manages taxi routes and their stop lists.
type RouteService struct {
	routeRepo  repository.RouteRepository
	cacheStore *redis.CacheStore
}

// NewRouteService creates a new RouteService.
func NewRouteService(routeRepo repository.RouteRepository, cacheStore *redis.CacheStore) *RouteService {
	return &RouteService{routeRepo: routeRepo, cacheStore: cacheStore}
}

// CreateRouteRequest contains the parameters for registering a route.
type CreateRouteRequest struct {
	Name                     string
	TaxiAssociation          string
	Fare                     float64
	EstimatedDurationSeconds int
	Stops                    []CreateStopRequest
}

// CreateStopRequest is one stop within a route registration.
type CreateStopRequest struct {
	Name  string
	Lat   float64
	Lng   float64
	Order int
}

// Create validates and persists a new route. Routes start active. A
// route with no explicit fare gets one derived from its estimated
// duration.
func (s *RouteService) Create(ctx context.Context, req CreateRouteRequest) (*domain.Route, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidRoute)
	}
	if len(req.Stops) < 2 {
		return nil, fmt.Errorf("%w: a route needs at least two stops", ErrInvalidRoute)
	}

	route := &domain.Route{
		ID:                       uuid.NewString(),
		Name:                     req.Name,
		TaxiAssociation:          req.TaxiAssociation,
		Fare:                     req.Fare,
		EstimatedDurationSeconds: req.EstimatedDurationSeconds,
		IsActive:                 true,
		Stops:                    make([]domain.Stop, 0, len(req.Stops)),
	}

	for _, stop := range req.Stops {
		coords := domain.Coordinate{Latitude: stop.Lat, Longitude: stop.Lng}
		if !coords.Valid() {
			return nil, fmt.Errorf("%w: stop %q has invalid coordinates", ErrInvalidRoute, stop.Name)
		}
		route.Stops = append(route.Stops, domain.Stop{
			ID:          uuid.NewString(),
			Name:        stop.Name,
			Coordinates: coords,
			Order:       stop.Order,
		})
	}

	if route.Fare <= 0 {
		route.Fare = matching.FareForDuration(route.EstimatedDurationSeconds)
	}

	if err := s.routeRepo.Create(ctx, route); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return route, nil
}

// GetByID retrieves a route with its stops.
func (s *RouteService) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	if id == "" {
		return nil, ErrInvalidRouteID
	}
	return s.routeRepo.GetByID(ctx, id)
}

// GetAll retrieves every route.
func (s *RouteService) GetAll(ctx context.Context) ([]domain.Route, error) {
	return s.routeRepo.GetAll(ctx)
}

// SetActive flips a route's availability for matching.
func (s *RouteService) SetActive(ctx context.Context, id string, active bool) error {
	if id == "" {
		return ErrInvalidRouteID
	}
	if err := s.routeRepo.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *RouteService) invalidateCache(ctx context.Context) {
	if s.cacheStore == nil {
		return
	}
	_ = s.cacheStore.InvalidateActiveRoutes(ctx)
}
