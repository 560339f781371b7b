package postgres

import (
	"context"
	"database/sql"

	"taxilink/internal/domain"
)

// DriverRegistrar is a PostgreSQL implementation of
// repository.DriverRegistrar. Profile and vehicle land in one
// transaction so a failed vehicle write never strands an orphan
// profile.
type DriverRegistrar struct {
	db *sql.DB
}

// NewDriverRegistrar creates a new PostgreSQL driver registrar.
func NewDriverRegistrar(db *sql.DB) *DriverRegistrar {
	return &DriverRegistrar{db: db}
}

// RegisterDriver persists a driver profile and, when vehicle is
// non-nil, its vehicle atomically.
func (r *DriverRegistrar) RegisterDriver(ctx context.Context, profile *domain.DriverProfile, vehicle *domain.Vehicle) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Create transaction-scoped repositories.
	txDriverRepo := NewDriverRepositoryWithTx(tx)
	txVehicleRepo := NewVehicleRepositoryWithTx(tx)

	if err = txDriverRepo.Create(ctx, profile); err != nil {
		return err
	}
	if vehicle != nil {
		if err = txVehicleRepo.Upsert(ctx, vehicle); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}
