package repository

import (
	"context"

	"taxilink/internal/domain"
)

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// UpdateStatus moves a ride through its lifecycle.
	UpdateStatus(ctx context.Context, id string, status domain.RideStatus) error
}

// UserRepository defines the persistence operations for user accounts.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByIDs retrieves the users for a set of IDs; absent IDs are
	// simply missing from the result.
	GetByIDs(ctx context.Context, ids []string) ([]domain.User, error)
}
