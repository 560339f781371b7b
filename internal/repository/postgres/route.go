package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"taxilink/internal/domain"
	"taxilink/internal/repository"
)

// RouteRepository is a PostgreSQL implementation of
// repository.RouteRepository. Stops live in their own table, keyed by
// route and ordered by stop_order.
type RouteRepository struct {
	db *sql.DB
}

// NewRouteRepository creates a new PostgreSQL route repository.
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create persists a route and its stops in one transaction.
func (r *RouteRepository) Create(ctx context.Context, route *domain.Route) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO routes (id, name, is_active, fare, estimated_duration_seconds, taxi_association)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		route.ID, route.Name, route.IsActive, route.Fare, route.EstimatedDurationSeconds, route.TaxiAssociation,
	)
	if err != nil {
		return err
	}

	for _, stop := range route.Stops {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO stops (id, route_id, name, latitude, longitude, stop_order)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			stop.ID, route.ID, stop.Name, stop.Coordinates.Latitude, stop.Coordinates.Longitude, stop.Order,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID retrieves a route with its ordered stops.
func (r *RouteRepository) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	query := `SELECT id, name, is_active, fare, estimated_duration_seconds, COALESCE(taxi_association, '')
	          FROM routes WHERE id = $1`

	var route domain.Route
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&route.ID,
		&route.Name,
		&route.IsActive,
		&route.Fare,
		&route.EstimatedDurationSeconds,
		&route.TaxiAssociation,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	stops, err := r.stopsForRoutes(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	route.Stops = stops[id]
	return &route, nil
}

// GetActive retrieves all active routes with their stops.
func (r *RouteRepository) GetActive(ctx context.Context) ([]domain.Route, error) {
	return r.list(ctx, `SELECT id, name, is_active, fare, estimated_duration_seconds, COALESCE(taxi_association, '')
	                    FROM routes WHERE is_active ORDER BY name`)
}

// GetAll retrieves every route with its stops.
func (r *RouteRepository) GetAll(ctx context.Context) ([]domain.Route, error) {
	return r.list(ctx, `SELECT id, name, is_active, fare, estimated_duration_seconds, COALESCE(taxi_association, '')
	                    FROM routes ORDER BY name`)
}

// SetActive flips a route's availability for matching.
func (r *RouteRepository) SetActive(ctx context.Context, id string, active bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE routes SET is_active = $1 WHERE id = $2`, active, id)
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

func (r *RouteRepository) list(ctx context.Context, query string) ([]domain.Route, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []domain.Route
	var ids []string
	for rows.Next() {
		var route domain.Route
		if err := rows.Scan(
			&route.ID,
			&route.Name,
			&route.IsActive,
			&route.Fare,
			&route.EstimatedDurationSeconds,
			&route.TaxiAssociation,
		); err != nil {
			return nil, err
		}
		routes = append(routes, route)
		ids = append(ids, route.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stops, err := r.stopsForRoutes(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range routes {
		routes[i].Stops = stops[routes[i].ID]
	}
	return routes, nil
}

// stopsForRoutes loads the ordered stop lists for a set of routes.
func (r *RouteRepository) stopsForRoutes(ctx context.Context, routeIDs []string) (map[string][]domain.Stop, error) {
	result := make(map[string][]domain.Stop, len(routeIDs))
	if len(routeIDs) == 0 {
		return result, nil
	}

	query := `SELECT id, route_id, name, latitude, longitude, stop_order
	          FROM stops WHERE route_id = ANY($1) ORDER BY route_id, stop_order`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(routeIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			stop    domain.Stop
			routeID string
		)
		if err := rows.Scan(&stop.ID, &routeID, &stop.Name, &stop.Coordinates.Latitude, &stop.Coordinates.Longitude, &stop.Order); err != nil {
			return nil, err
		}
		result[routeID] = append(result[routeID], stop)
	}
	return result, rows.Err()
}
