package postgres

import (
	"context"
	"database/sql"
	"errors"

	"taxilink/internal/domain"
	"taxilink/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of
// repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

// Create adds a new driver profile.
func (r *DriverRepository) Create(ctx context.Context, profile *domain.DriverProfile) error {
	query := `INSERT INTO driver_profiles (id, user_id, assigned_route_id) VALUES ($1, $2, NULLIF($3, ''))`
	_, err := r.q.ExecContext(ctx, query, profile.ID, profile.UserID, profile.AssignedRouteID)
	return err
}

// GetByID retrieves a driver profile by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.DriverProfile, error) {
	query := `SELECT id, user_id, COALESCE(assigned_route_id, '') FROM driver_profiles WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByUserID retrieves the profile backing a user account.
func (r *DriverRepository) GetByUserID(ctx context.Context, userID string) (*domain.DriverProfile, error) {
	query := `SELECT id, user_id, COALESCE(assigned_route_id, '') FROM driver_profiles WHERE user_id = $1`
	return r.scanOne(ctx, query, userID)
}

// GetByRoute retrieves every profile assigned to a route.
func (r *DriverRepository) GetByRoute(ctx context.Context, routeID string) ([]domain.DriverProfile, error) {
	query := `SELECT id, user_id, COALESCE(assigned_route_id, '') FROM driver_profiles WHERE assigned_route_id = $1 ORDER BY id`
	return r.scanMany(ctx, query, routeID)
}

// GetAll retrieves all driver profiles.
func (r *DriverRepository) GetAll(ctx context.Context) ([]domain.DriverProfile, error) {
	query := `SELECT id, user_id, COALESCE(assigned_route_id, '') FROM driver_profiles ORDER BY id`
	return r.scanMany(ctx, query)
}

// AssignRoute points a driver profile at a route.
func (r *DriverRepository) AssignRoute(ctx context.Context, id, routeID string) error {
	query := `UPDATE driver_profiles SET assigned_route_id = $1 WHERE id = $2`
	result, err := r.q.ExecContext(ctx, query, routeID, id)
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

func (r *DriverRepository) scanOne(ctx context.Context, query string, arg any) (*domain.DriverProfile, error) {
	var profile domain.DriverProfile
	err := r.q.QueryRowContext(ctx, query, arg).Scan(&profile.ID, &profile.UserID, &profile.AssignedRouteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *DriverRepository) scanMany(ctx context.Context, query string, args ...any) ([]domain.DriverProfile, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.DriverProfile
	for rows.Next() {
		var profile domain.DriverProfile
		if err := rows.Scan(&profile.ID, &profile.UserID, &profile.AssignedRouteID); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}
