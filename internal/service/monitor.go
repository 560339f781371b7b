package service

import (
	"context"
	"log"
	"sync"
	"time"

	"taxilink/internal/domain"
	"taxilink/internal/proximity"
	"taxilink/internal/redis"
	"taxilink/internal/repository"
)

const (
	monitorLockTTL     = 2 * time.Minute
	monitorLockRefresh = 45 * time.Second
)

// MonitorService starts and stops proximity monitoring for rides. A
// ride is monitored by exactly one instance at a time; a Redis lock
// refreshed in the background enforces that across processes.
type MonitorService struct {
	rideRepo      repository.RideRepository
	locationStore redis.LocationStoreInterface
	lockStore     redis.LockStoreInterface
	coordinator   *proximity.Coordinator

	mu           sync.Mutex
	rideByDriver map[string]string // driver user ID -> ride ID
	stopRefresh  chan struct{}
	refreshDone  chan struct{}
	closeOnce    sync.Once
}

// NewMonitorService creates a new MonitorService and starts its lock
// refresher. Call Close on shutdown.
func NewMonitorService(
	rideRepo repository.RideRepository,
	locationStore redis.LocationStoreInterface,
	lockStore redis.LockStoreInterface,
	coordinator *proximity.Coordinator,
) *MonitorService {
	s := &MonitorService{
		rideRepo:      rideRepo,
		locationStore: locationStore,
		lockStore:     lockStore,
		coordinator:   coordinator,
		rideByDriver:  make(map[string]string),
		stopRefresh:   make(chan struct{}),
		refreshDone:   make(chan struct{}),
	}
	go s.refreshLocks()
	return s
}

// Start begins proximity monitoring for an active ride. The driver's
// last known position seeds the monitor; when there is none yet, the
// monitor idles until a location update arrives.
func (s *MonitorService) Start(ctx context.Context, rideID string) error {
	if rideID == "" {
		return ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return err
	}
	if ride.Status != domain.RideStatusActive {
		return ErrRideNotActive
	}
	if ride.DriverID == "" {
		return ErrRideHasNoDriver
	}

	locked, err := s.lockStore.AcquireMonitorLock(ctx, rideID, monitorLockTTL)
	if err != nil {
		return err
	}
	if !locked {
		return ErrMonitorLockHeld
	}

	var driverLocation *domain.Coordinate
	if loc, err := s.locationStore.GetLocation(ctx, ride.DriverID); err == nil && loc != nil {
		coords := loc.Coordinates
		driverLocation = &coords
	}

	s.mu.Lock()
	s.rideByDriver[ride.DriverID] = ride.ID
	s.mu.Unlock()

	started := s.coordinator.StartMonitoring(proximity.RideInfo{
		RideID:         ride.ID,
		DriverID:       ride.DriverID,
		PassengerID:    ride.PassengerID,
		Pickup:         ride.Pickup,
		DriverLocation: driverLocation,
	})
	if !started {
		// Shutdown raced us; undo the lock we just took so another
		// instance can claim the ride without waiting out the TTL.
		s.mu.Lock()
		delete(s.rideByDriver, ride.DriverID)
		s.mu.Unlock()
		_ = s.lockStore.ReleaseMonitorLock(ctx, rideID)
		return ErrMonitorClosed
	}
	return nil
}

// Stop ends monitoring for a ride and releases its lock. Idempotent.
func (s *MonitorService) Stop(ctx context.Context, rideID string) error {
	if rideID == "" {
		return ErrInvalidRideID
	}

	s.coordinator.StopMonitoring(rideID)

	s.mu.Lock()
	for driverID, id := range s.rideByDriver {
		if id == rideID {
			delete(s.rideByDriver, driverID)
		}
	}
	s.mu.Unlock()

	return s.lockStore.ReleaseMonitorLock(ctx, rideID)
}

// IsMonitoring reports whether a ride has an active monitor here.
func (s *MonitorService) IsMonitoring(rideID string) bool {
	return s.coordinator.IsMonitoring(rideID)
}

// OnDriverLocation routes a fresh driver position to the monitor for
// that driver's ride, if any.
func (s *MonitorService) OnDriverLocation(driverUserID string, coords domain.Coordinate) {
	s.mu.Lock()
	rideID, ok := s.rideByDriver[driverUserID]
	s.mu.Unlock()
	if !ok {
		return
	}
	s.coordinator.UpdateDriverLocation(rideID, coords)
}

// Close stops the lock refresher and every active monitor. Idempotent;
// any Start after Close fails with ErrMonitorClosed.
func (s *MonitorService) Close() {
	s.closeOnce.Do(func() {
		close(s.stopRefresh)
		<-s.refreshDone
		s.coordinator.Close()
	})
}

// refreshLocks keeps monitor locks alive for as long as their monitors
// run. A ride whose lock lapses becomes claimable by another instance,
// so losing a refresh is logged but not fatal.
func (s *MonitorService) refreshLocks() {
	defer close(s.refreshDone)

	ticker := time.NewTicker(monitorLockRefresh)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopRefresh:
			return
		case <-ticker.C:
			s.mu.Lock()
			rideIDs := make([]string, 0, len(s.rideByDriver))
			for _, rideID := range s.rideByDriver {
				rideIDs = append(rideIDs, rideID)
			}
			s.mu.Unlock()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			for _, rideID := range rideIDs {
				if err := s.lockStore.RefreshMonitorLock(ctx, rideID, monitorLockTTL); err != nil {
					log.Printf("monitor: failed to refresh lock for ride %s: %v", rideID, err)
				}
			}
			cancel()
		}
	}
}
