package repository

import (
	"context"

	"taxilink/internal/domain"
)

// RouteRepository defines the persistence operations for taxi routes
// and their ordered stop lists.
type RouteRepository interface {
	// Create persists a new route with its stops.
	Create(ctx context.Context, route *domain.Route) error

	// GetByID retrieves a route, stops included, by ID.
	GetByID(ctx context.Context, id string) (*domain.Route, error)

	// GetActive retrieves all active routes with their stops.
	GetActive(ctx context.Context) ([]domain.Route, error)

	// GetAll retrieves every route.
	GetAll(ctx context.Context) ([]domain.Route, error)

	// SetActive flips a route's availability for matching.
	SetActive(ctx context.Context, id string, active bool) error
}
