package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"taxilink/internal/domain"
)

// CacheStore caches read-mostly matching inputs in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	// Routes change rarely (association updates, not per-trip).
	ActiveRoutesCacheTTL = 5 * time.Minute
	// Vehicle assignments change on shift handover.
	VehicleCacheTTL = 2 * time.Minute
)

// Keys
const (
	activeRoutesKey    = "cache:routes:active"
	vehicleCachePrefix = "cache:vehicle:"
)

// GetActiveRoutes returns the cached active-route snapshot, or nil on
// a cache miss.
func (s *CacheStore) GetActiveRoutes(ctx context.Context) ([]domain.Route, error) {
	data, err := s.client.Get(ctx, activeRoutesKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var routes []domain.Route
	if err := json.Unmarshal(data, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

// SetActiveRoutes stores the active-route snapshot.
func (s *CacheStore) SetActiveRoutes(ctx context.Context, routes []domain.Route) error {
	data, err := json.Marshal(routes)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, activeRoutesKey, data, ActiveRoutesCacheTTL).Err()
}

// InvalidateActiveRoutes drops the route snapshot (route created or
// deactivated).
func (s *CacheStore) InvalidateActiveRoutes(ctx context.Context) error {
	return s.client.Del(ctx, activeRoutesKey).Err()
}

// GetVehicle returns a cached vehicle for a driver profile, or nil on
// a cache miss.
func (s *CacheStore) GetVehicle(ctx context.Context, driverProfileID string) (*domain.Vehicle, error) {
	data, err := s.client.Get(ctx, vehicleCachePrefix+driverProfileID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var vehicle domain.Vehicle
	if err := json.Unmarshal(data, &vehicle); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// SetVehicle caches a vehicle record.
func (s *CacheStore) SetVehicle(ctx context.Context, vehicle *domain.Vehicle) error {
	data, err := json.Marshal(vehicle)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, vehicleCachePrefix+vehicle.DriverProfileID, data, VehicleCacheTTL).Err()
}

// GetVehiclesBatch retrieves multiple vehicles from cache using a
// pipeline. Returns found vehicles keyed by profile ID plus the IDs
// that missed.
func (s *CacheStore) GetVehiclesBatch(ctx context.Context, driverProfileIDs []string) (map[string]*domain.Vehicle, []string, error) {
	if len(driverProfileIDs) == 0 {
		return make(map[string]*domain.Vehicle), nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make(map[string]*redis.StringCmd, len(driverProfileIDs))
	for _, id := range driverProfileIDs {
		cmds[id] = pipe.Get(ctx, vehicleCachePrefix+id)
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, driverProfileIDs, err
	}

	result := make(map[string]*domain.Vehicle)
	var missing []string
	for id, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			missing = append(missing, id)
			continue
		}
		var vehicle domain.Vehicle
		if err := json.Unmarshal(data, &vehicle); err != nil {
			missing = append(missing, id)
			continue
		}
		result[id] = &vehicle
	}
	return result, missing, nil
}
