package postgres

import (
	"context"
	"database/sql"
	"errors"

	"taxilink/internal/domain"
	"taxilink/internal/repository"
)

// RideRepository is a PostgreSQL implementation of
// repository.RideRepository.
type RideRepository struct {
	db *sql.DB
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{db: db}
}

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `INSERT INTO rides (id, passenger_id, driver_id, route_id, pickup_lat, pickup_lng, destination_lat, destination_lng, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query,
		ride.ID, ride.PassengerID, ride.DriverID, ride.RouteID,
		ride.Pickup.Latitude, ride.Pickup.Longitude,
		ride.Destination.Latitude, ride.Destination.Longitude,
		ride.Status, ride.CreatedAt,
	)
	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT id, passenger_id, driver_id, COALESCE(route_id, ''), pickup_lat, pickup_lng, destination_lat, destination_lng, status, created_at
	          FROM rides WHERE id = $1`

	var ride domain.Ride
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ride.ID,
		&ride.PassengerID,
		&ride.DriverID,
		&ride.RouteID,
		&ride.Pickup.Latitude,
		&ride.Pickup.Longitude,
		&ride.Destination.Latitude,
		&ride.Destination.Longitude,
		&ride.Status,
		&ride.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &ride, nil
}

// UpdateStatus moves a ride through its lifecycle.
func (r *RideRepository) UpdateStatus(ctx context.Context, id string, status domain.RideStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE rides SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
