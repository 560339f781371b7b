package postgres

import (
	"context"
	"database/sql"
	"errors"

	"taxilink/internal/domain"
	"taxilink/internal/repository"
)

// VehicleRepository is a PostgreSQL implementation of
// repository.VehicleRepository.
type VehicleRepository struct {
	q Querier
}

// NewVehicleRepository creates a new PostgreSQL vehicle repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{q: db}
}

// NewVehicleRepositoryWithTx creates a vehicle repository using a transaction.
func NewVehicleRepositoryWithTx(tx *sql.Tx) *VehicleRepository {
	return &VehicleRepository{q: tx}
}

// Upsert creates or replaces the vehicle for a driver profile.
func (r *VehicleRepository) Upsert(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `INSERT INTO vehicles (driver_profile_id, license_plate, model, color, year, is_available)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (driver_profile_id) DO UPDATE
	          SET license_plate = EXCLUDED.license_plate,
	              model = EXCLUDED.model,
	              color = EXCLUDED.color,
	              year = EXCLUDED.year,
	              is_available = EXCLUDED.is_available`
	_, err := r.q.ExecContext(ctx, query,
		vehicle.DriverProfileID, vehicle.LicensePlate, vehicle.Model, vehicle.Color, vehicle.Year, vehicle.IsAvailable)
	return err
}

// GetByDriverProfile retrieves a driver's vehicle.
func (r *VehicleRepository) GetByDriverProfile(ctx context.Context, driverProfileID string) (*domain.Vehicle, error) {
	query := `SELECT driver_profile_id, COALESCE(license_plate, ''), COALESCE(model, ''), COALESCE(color, ''), COALESCE(year, 0), is_available
	          FROM vehicles WHERE driver_profile_id = $1`

	var vehicle domain.Vehicle
	err := r.q.QueryRowContext(ctx, query, driverProfileID).Scan(
		&vehicle.DriverProfileID,
		&vehicle.LicensePlate,
		&vehicle.Model,
		&vehicle.Color,
		&vehicle.Year,
		&vehicle.IsAvailable,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// GetAll retrieves all vehicles.
func (r *VehicleRepository) GetAll(ctx context.Context) ([]domain.Vehicle, error) {
	query := `SELECT driver_profile_id, COALESCE(license_plate, ''), COALESCE(model, ''), COALESCE(color, ''), COALESCE(year, 0), is_available
	          FROM vehicles ORDER BY driver_profile_id`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var vehicle domain.Vehicle
		if err := rows.Scan(
			&vehicle.DriverProfileID,
			&vehicle.LicensePlate,
			&vehicle.Model,
			&vehicle.Color,
			&vehicle.Year,
			&vehicle.IsAvailable,
		); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, rows.Err()
}
