package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis. The monitor lock
// keeps two service instances from running duplicate proximity
// monitors for the same ride.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireMonitorLock attempts to acquire the monitoring lock for a
// ride. Returns true if acquired, false if another instance holds it.
func (s *LockStore) AcquireMonitorLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:monitor:%s", rideID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// RefreshMonitorLock extends the lock while monitoring is active.
func (s *LockStore) RefreshMonitorLock(ctx context.Context, rideID string, ttl time.Duration) error {
	key := fmt.Sprintf("lock:monitor:%s", rideID)
	return s.client.Expire(ctx, key, ttl).Err()
}

// ReleaseMonitorLock releases the monitoring lock for a ride.
func (s *LockStore) ReleaseMonitorLock(ctx context.Context, rideID string) error {
	key := fmt.Sprintf("lock:monitor:%s", rideID)
	return s.client.Del(ctx, key).Err()
}
