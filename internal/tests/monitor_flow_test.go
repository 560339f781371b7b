package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"taxilink/internal/domain"
	"taxilink/internal/proximity"
	"taxilink/internal/service"
)

// alertRecorder collects alerts from the coordinator.
type alertRecorder struct {
	alerts chan proximity.Alert
}

func newAlertRecorder() *alertRecorder {
	return &alertRecorder{alerts: make(chan proximity.Alert, 16)}
}

func (r *alertRecorder) OnAlert(alert proximity.Alert) {
	r.alerts <- alert
}

func (r *alertRecorder) wait(t *testing.T) proximity.Alert {
	t.Helper()
	select {
	case alert := <-r.alerts:
		return alert
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for alert")
		return proximity.Alert{}
	}
}

func (r *alertRecorder) assertNone(t *testing.T, wait time.Duration) {
	t.Helper()
	select {
	case alert := <-r.alerts:
		t.Fatalf("unexpected alert: %+v", alert)
	case <-time.After(wait):
	}
}

type monitorFixture struct {
	svc           *service.MonitorService
	recorder      *alertRecorder
	rideRepo      *MockRideRepository
	locationStore *MockLocationStore
	lockStore     *MockLockStore
}

func newMonitorFixture(t *testing.T) *monitorFixture {
	t.Helper()

	recorder := newAlertRecorder()
	coordinator := proximity.NewCoordinator(recorder, proximity.Config{
		CheckInterval: 5 * time.Millisecond,
	})
	rideRepo := NewMockRideRepository()
	locationStore := NewMockLocationStore()
	lockStore := NewMockLockStore()

	svc := service.NewMonitorService(rideRepo, locationStore, lockStore, coordinator)
	t.Cleanup(svc.Close)

	return &monitorFixture{
		svc:           svc,
		recorder:      recorder,
		rideRepo:      rideRepo,
		locationStore: locationStore,
		lockStore:     lockStore,
	}
}

func activeRide() *domain.Ride {
	return &domain.Ride{
		ID:          "ride-1",
		PassengerID: "user-p1",
		DriverID:    "user-d1",
		RouteID:     "route-1",
		Pickup:      domain.Coordinate{Latitude: -26.2678, Longitude: 27.8585},
		Destination: domain.Coordinate{Latitude: -26.2041, Longitude: 28.0473},
		Status:      domain.RideStatusActive,
		CreatedAt:   time.Now(),
	}
}

func TestMonitorFlow_AlertOnApproachingDriver(t *testing.T) {
	f := newMonitorFixture(t)
	f.rideRepo.AddRide(activeRide())
	// ~2km north of the pickup.
	f.locationStore.SetLocation(domain.LiveLocation{
		UserID:      "user-d1",
		Coordinates: domain.Coordinate{Latitude: -26.2498, Longitude: 27.8585},
		Role:        domain.RoleDriver,
		UpdatedAt:   time.Now(),
	})

	if err := f.svc.Start(context.Background(), "ride-1"); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if !f.svc.IsMonitoring("ride-1") {
		t.Fatal("expected ride-1 to be monitored")
	}
	if !f.lockStore.IsLocked("ride-1") {
		t.Fatal("expected monitor lock to be held")
	}

	alert := f.recorder.wait(t)
	if alert.Status != proximity.StatusApproaching {
		t.Errorf("alert status = %q, want approaching", alert.Status)
	}
	if alert.PassengerID != "user-p1" {
		t.Errorf("alert recipient = %q, want user-p1", alert.PassengerID)
	}
}

func TestMonitorFlow_RideNotActive(t *testing.T) {
	f := newMonitorFixture(t)
	ride := activeRide()
	ride.Status = domain.RideStatusCompleted
	f.rideRepo.AddRide(ride)

	err := f.svc.Start(context.Background(), "ride-1")
	if !errors.Is(err, service.ErrRideNotActive) {
		t.Fatalf("expected ErrRideNotActive, got %v", err)
	}
	if f.svc.IsMonitoring("ride-1") {
		t.Fatal("completed ride must not be monitored")
	}
}

func TestMonitorFlow_LockHeldElsewhere(t *testing.T) {
	f := newMonitorFixture(t)
	f.rideRepo.AddRide(activeRide())
	f.lockStore.ForceAcquireFailure = true

	err := f.svc.Start(context.Background(), "ride-1")
	if !errors.Is(err, service.ErrMonitorLockHeld) {
		t.Fatalf("expected ErrMonitorLockHeld, got %v", err)
	}
	if f.svc.IsMonitoring("ride-1") {
		t.Fatal("lock-contended ride must not be monitored")
	}
}

func TestMonitorFlow_StopReleasesLock(t *testing.T) {
	f := newMonitorFixture(t)
	f.rideRepo.AddRide(activeRide())

	if err := f.svc.Start(context.Background(), "ride-1"); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := f.svc.Stop(context.Background(), "ride-1"); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
	if f.svc.IsMonitoring("ride-1") {
		t.Fatal("expected monitoring to end")
	}
	if f.lockStore.IsLocked("ride-1") {
		t.Fatal("expected monitor lock to be released")
	}

	// Stop again is a no-op.
	if err := f.svc.Stop(context.Background(), "ride-1"); err != nil {
		t.Fatalf("second Stop returned error: %v", err)
	}
}

func TestMonitorFlow_LocationUpdateWakesIdleMonitor(t *testing.T) {
	f := newMonitorFixture(t)
	f.rideRepo.AddRide(activeRide())
	// No seeded driver location: the monitor starts idle.

	if err := f.svc.Start(context.Background(), "ride-1"); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	f.recorder.assertNone(t, 50*time.Millisecond)

	// Driver GPS comes in ~2km out.
	f.svc.OnDriverLocation("user-d1", domain.Coordinate{Latitude: -26.2498, Longitude: 27.8585})

	alert := f.recorder.wait(t)
	if alert.Status != proximity.StatusApproaching {
		t.Errorf("alert status = %q, want approaching", alert.Status)
	}
}

func TestMonitorFlow_UnknownDriverLocationIgnored(t *testing.T) {
	f := newMonitorFixture(t)
	f.rideRepo.AddRide(activeRide())

	if err := f.svc.Start(context.Background(), "ride-1"); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	// A location report from a driver on no monitored ride is dropped.
	f.svc.OnDriverLocation("user-d9", domain.Coordinate{Latitude: -26.2498, Longitude: 27.8585})
	f.recorder.assertNone(t, 50*time.Millisecond)
}

func TestMonitorFlow_StartAfterCloseReleasesLock(t *testing.T) {
	f := newMonitorFixture(t)
	f.rideRepo.AddRide(activeRide())

	f.svc.Close()

	err := f.svc.Start(context.Background(), "ride-1")
	if !errors.Is(err, service.ErrMonitorClosed) {
		t.Fatalf("Start after Close returned %v, want ErrMonitorClosed", err)
	}
	if f.lockStore.IsLocked("ride-1") {
		t.Fatal("expected monitor lock to be released after refused Start")
	}
	if f.svc.IsMonitoring("ride-1") {
		t.Fatal("expected no monitor after Close")
	}
}
