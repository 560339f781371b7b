package repository

import (
	"context"

	"taxilink/internal/domain"
)

// DriverRepository defines persistence for driver profiles and their
// route assignments.
type DriverRepository interface {
	// Create persists a new driver profile.
	Create(ctx context.Context, profile *domain.DriverProfile) error

	// GetByID retrieves a driver profile by ID.
	GetByID(ctx context.Context, id string) (*domain.DriverProfile, error)

	// GetByUserID retrieves the profile backing a user account.
	GetByUserID(ctx context.Context, userID string) (*domain.DriverProfile, error)

	// GetByRoute retrieves every profile assigned to a route.
	GetByRoute(ctx context.Context, routeID string) ([]domain.DriverProfile, error)

	// GetAll retrieves all driver profiles.
	GetAll(ctx context.Context) ([]domain.DriverProfile, error)

	// AssignRoute points a driver profile at a route.
	AssignRoute(ctx context.Context, id, routeID string) error
}

// DriverRegistrar persists a new driver profile together with its
// vehicle as one atomic write. vehicle may be nil; either both rows
// land or neither does.
type DriverRegistrar interface {
	RegisterDriver(ctx context.Context, profile *domain.DriverProfile, vehicle *domain.Vehicle) error
}

// VehicleRepository defines persistence for vehicles. A driver profile
// may have no vehicle on record; matching substitutes placeholders.
type VehicleRepository interface {
	// Upsert creates or replaces the vehicle for a driver profile.
	Upsert(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByDriverProfile retrieves a driver's vehicle.
	GetByDriverProfile(ctx context.Context, driverProfileID string) (*domain.Vehicle, error)

	// GetAll retrieves all vehicles.
	GetAll(ctx context.Context) ([]domain.Vehicle, error)
}
