package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"taxilink/internal/domain"
)

const (
	driverGeoKey      = "locations:drivers:geo"
	locationKeyPrefix = "locations:user:"
	locationTTL       = 10 * time.Minute // stale GPS reports age out
)

// storedLocation is the JSON shape of a live location snapshot.
type storedLocation struct {
	UserID    string  `json:"user_id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Role      string  `json:"role"`
	UpdatedAt int64   `json:"updated_at"`
}

// LocationStore keeps live user positions: a GEO index for radius
// queries over drivers plus a per-user latest snapshot.
type LocationStore struct {
	client *redis.Client
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(client *redis.Client) *LocationStore {
	return &LocationStore{client: client}
}

// UpdateLocation records a user's latest position. Driver-role users
// also land in the GEO index used by matching.
func (s *LocationStore) UpdateLocation(ctx context.Context, loc domain.LiveLocation) error {
	stored := storedLocation{
		UserID:    loc.UserID,
		Lat:       loc.Coordinates.Latitude,
		Lng:       loc.Coordinates.Longitude,
		Role:      string(loc.Role),
		UpdatedAt: loc.UpdatedAt.UnixMilli(),
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, locationKeyPrefix+loc.UserID, data, locationTTL)
	if loc.Role.IsDriver() {
		pipe.GeoAdd(ctx, driverGeoKey, &redis.GeoLocation{
			Name:      loc.UserID,
			Longitude: loc.Coordinates.Longitude,
			Latitude:  loc.Coordinates.Latitude,
		})
	}
	_, err = pipe.Exec(ctx)
	return err
}

// GetLocation returns the latest snapshot for a user, or nil when the
// user has no live location.
func (s *LocationStore) GetLocation(ctx context.Context, userID string) (*domain.LiveLocation, error) {
	data, err := s.client.Get(ctx, locationKeyPrefix+userID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var stored storedLocation
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	loc := fromStored(stored)
	return &loc, nil
}

// FindNearbyDrivers returns driver locations within radiusKm of the
// given point, closest first.
func (s *LocationStore) FindNearbyDrivers(ctx context.Context, center domain.Coordinate, radiusKm float64) ([]domain.LiveLocation, error) {
	results, err := s.client.GeoRadius(ctx, driverGeoKey, center.Longitude, center.Latitude, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	locations := make([]domain.LiveLocation, 0, len(results))
	for _, r := range results {
		// Prefer the snapshot for role and freshness; the GEO entry
		// alone still yields a usable driver position.
		if snap, err := s.GetLocation(ctx, r.Name); err == nil && snap != nil {
			locations = append(locations, *snap)
			continue
		}
		locations = append(locations, domain.LiveLocation{
			UserID:      r.Name,
			Coordinates: domain.Coordinate{Latitude: r.Latitude, Longitude: r.Longitude},
			Role:        domain.RoleDriver,
		})
	}
	return locations, nil
}

// RemoveLocation drops a user from the live index (driver went
// offline).
func (s *LocationStore) RemoveLocation(ctx context.Context, userID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, locationKeyPrefix+userID)
	pipe.ZRem(ctx, driverGeoKey, userID)
	_, err := pipe.Exec(ctx)
	return err
}

func fromStored(stored storedLocation) domain.LiveLocation {
	return domain.LiveLocation{
		UserID:      stored.UserID,
		Coordinates: domain.Coordinate{Latitude: stored.Lat, Longitude: stored.Lng},
		Role:        domain.LocationRole(stored.Role),
		UpdatedAt:   time.UnixMilli(stored.UpdatedAt),
	}
}
