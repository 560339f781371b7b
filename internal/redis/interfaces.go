package redis

import (
	"context"
	"time"

	"taxilink/internal/domain"
)

// LocationStoreInterface defines the interface for live location
// operations.
type LocationStoreInterface interface {
	UpdateLocation(ctx context.Context, loc domain.LiveLocation) error
	GetLocation(ctx context.Context, userID string) (*domain.LiveLocation, error)
	FindNearbyDrivers(ctx context.Context, center domain.Coordinate, radiusKm float64) ([]domain.LiveLocation, error)
	RemoveLocation(ctx context.Context, userID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireMonitorLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error)
	RefreshMonitorLock(ctx context.Context, rideID string, ttl time.Duration) error
	ReleaseMonitorLock(ctx context.Context, rideID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
)
