package proximity

import (
	"testing"
	"time"

	"taxilink/internal/domain"
)

var (
	pickupPoint = domain.Coordinate{Latitude: -26.2041, Longitude: 28.0473}
	// Roughly 2km from the pickup: classified approaching.
	approachingPoint = domain.Coordinate{Latitude: -26.2221, Longitude: 28.0473}
	// Roughly 500m from the pickup: classified near.
	nearPoint = domain.Coordinate{Latitude: -26.2086, Longitude: 28.0473}
)

type chanSink struct {
	alerts chan Alert
}

func newChanSink() *chanSink {
	return &chanSink{alerts: make(chan Alert, 16)}
}

func (s *chanSink) OnAlert(alert Alert) { s.alerts <- alert }

func (s *chanSink) wait(t *testing.T, timeout time.Duration) Alert {
	t.Helper()
	select {
	case alert := <-s.alerts:
		return alert
	case <-time.After(timeout):
		t.Fatal("timed out waiting for alert")
		return Alert{}
	}
}

func (s *chanSink) assertNone(t *testing.T, window time.Duration) {
	t.Helper()
	select {
	case alert := <-s.alerts:
		t.Fatalf("unexpected alert: %s (%s)", alert.Title, alert.Status)
	case <-time.After(window):
	}
}

// ---------------------------------------------------------------------------
// shouldAlert decision table
// ---------------------------------------------------------------------------

func TestShouldAlert_FirstApproachFires(t *testing.T) {
	if !shouldAlert(StatusApproaching, "", time.Time{}, false, time.Now()) {
		t.Error("first approaching tick must alert")
	}
}

func TestShouldAlert_RepeatApproachingSilent(t *testing.T) {
	now := time.Now()
	if shouldAlert(StatusApproaching, StatusApproaching, now.Add(-10*time.Second), true, now) {
		t.Error("second approaching tick must not alert")
	}
	// Even outside the rate-limit window: no escalation, not first.
	if shouldAlert(StatusApproaching, StatusApproaching, now.Add(-3*time.Minute), true, now) {
		t.Error("steady approaching state must stay silent")
	}
}

func TestShouldAlert_RateLimitBlocksEscalation(t *testing.T) {
	now := time.Now()
	if shouldAlert(StatusNear, StatusApproaching, now.Add(-30*time.Second), true, now) {
		t.Error("escalation within the 2-minute window must be rate-limited")
	}
}

func TestShouldAlert_EscalationFiresAfterWindow(t *testing.T) {
	now := time.Now()
	if !shouldAlert(StatusNear, StatusApproaching, now.Add(-2*time.Minute), true, now) {
		t.Error("escalation to near after the window must alert")
	}
}

func TestShouldAlert_FarToNearSkipsIntermediate(t *testing.T) {
	if !shouldAlert(StatusNear, StatusFar, time.Time{}, false, time.Now()) {
		t.Error("jump straight from far to near must alert")
	}
}

func TestShouldAlert_ArrivedEntryFires(t *testing.T) {
	now := time.Now()
	if !shouldAlert(StatusArrived, StatusNear, now.Add(-3*time.Minute), true, now) {
		t.Error("entering arrived must alert")
	}
	if shouldAlert(StatusArrived, StatusArrived, now.Add(-3*time.Minute), true, now) {
		t.Error("steady arrived state must stay silent")
	}
}

func TestShouldAlert_FarNeverFires(t *testing.T) {
	if shouldAlert(StatusFar, "", time.Time{}, false, time.Now()) {
		t.Error("far must never alert")
	}
	if shouldAlert(StatusFar, StatusNear, time.Now().Add(-3*time.Minute), true, time.Now()) {
		t.Error("dropping back to far must not alert")
	}
}

// ---------------------------------------------------------------------------
// Coordinator lifecycle
// ---------------------------------------------------------------------------

func fastConfig() Config {
	return Config{CheckInterval: 5 * time.Millisecond}
}

func TestCoordinator_AlertsOnApproach(t *testing.T) {
	sink := newChanSink()
	c := NewCoordinator(sink, fastConfig())
	defer c.Close()

	loc := approachingPoint
	c.StartMonitoring(RideInfo{
		RideID:         "ride-1",
		DriverID:       "driver-1",
		PassengerID:    "passenger-1",
		Pickup:         pickupPoint,
		DriverLocation: &loc,
	})

	alert := sink.wait(t, time.Second)
	if alert.Status != StatusApproaching {
		t.Errorf("status = %s, want approaching", alert.Status)
	}
	if alert.Type != AlertInfo || alert.Title != "Driver Approaching" {
		t.Errorf("unexpected alert rendering: %s / %s", alert.Type, alert.Title)
	}
	if alert.RideID != "ride-1" || alert.PassengerID != "passenger-1" {
		t.Error("alert must carry ride and passenger identifiers")
	}
	if alert.EtaMinutes <= 0 {
		t.Error("expected a positive ETA")
	}

	// Subsequent ticks at the same distance are de-duplicated.
	sink.assertNone(t, 50*time.Millisecond)
}

func TestCoordinator_StopIsIdempotent(t *testing.T) {
	c := NewCoordinator(newChanSink(), fastConfig())
	defer c.Close()

	loc := approachingPoint
	c.StartMonitoring(RideInfo{RideID: "ride-1", Pickup: pickupPoint, DriverLocation: &loc})

	c.StopMonitoring("ride-1")
	c.StopMonitoring("ride-1")
	c.StopMonitoring("never-started")

	if c.IsMonitoring("ride-1") {
		t.Error("ride must not be monitored after stop")
	}
}

func TestCoordinator_StartReplacesExistingMonitor(t *testing.T) {
	sink := newChanSink()
	c := NewCoordinator(sink, fastConfig())
	defer c.Close()

	loc := approachingPoint
	c.StartMonitoring(RideInfo{RideID: "ride-1", Pickup: pickupPoint, DriverLocation: &loc})
	sink.wait(t, time.Second)

	// Replacing resets the per-ride state: the fresh monitor alerts
	// again for the same approach.
	c.StartMonitoring(RideInfo{RideID: "ride-1", Pickup: pickupPoint, DriverLocation: &loc})

	alert := sink.wait(t, time.Second)
	if alert.Status != StatusApproaching {
		t.Errorf("replacement monitor status = %s, want approaching", alert.Status)
	}
	if !c.IsMonitoring("ride-1") {
		t.Error("ride must still be monitored after replacement")
	}
}

func TestCoordinator_MissingLocationSkipsTicksThenRecovers(t *testing.T) {
	sink := newChanSink()
	c := NewCoordinator(sink, fastConfig())
	defer c.Close()

	c.StartMonitoring(RideInfo{RideID: "ride-1", Pickup: pickupPoint})

	// No driver location yet: ticks run but stay silent.
	sink.assertNone(t, 50*time.Millisecond)

	c.UpdateDriverLocation("ride-1", nearPoint)

	alert := sink.wait(t, time.Second)
	if alert.Status != StatusNear {
		t.Errorf("status = %s, want near", alert.Status)
	}
	if alert.Type != AlertWarning {
		t.Errorf("near alert type = %s, want warning", alert.Type)
	}
}

func TestCoordinator_UpdateLocationForUnmonitoredRideIsNoop(t *testing.T) {
	c := NewCoordinator(newChanSink(), fastConfig())
	defer c.Close()

	c.UpdateDriverLocation("ghost-ride", nearPoint)

	if c.IsMonitoring("ghost-ride") {
		t.Error("location update must not create a monitor")
	}
}

func TestCoordinator_CloseDrainsAllMonitors(t *testing.T) {
	c := NewCoordinator(newChanSink(), fastConfig())

	loc := approachingPoint
	for _, rideID := range []string{"r1", "r2", "r3"} {
		c.StartMonitoring(RideInfo{RideID: rideID, Pickup: pickupPoint, DriverLocation: &loc})
	}

	c.Close()

	for _, rideID := range []string{"r1", "r2", "r3"} {
		if c.IsMonitoring(rideID) {
			t.Errorf("ride %s still monitored after Close", rideID)
		}
	}

	// Starting after Close is refused, and the caller is told so.
	if c.StartMonitoring(RideInfo{RideID: "late", Pickup: pickupPoint, DriverLocation: &loc}) {
		t.Error("StartMonitoring on a closed coordinator returned true")
	}
	if c.IsMonitoring("late") {
		t.Error("closed coordinator must not accept new monitors")
	}
}

func TestCoordinator_IndependentRidesAlertIndependently(t *testing.T) {
	sink := newChanSink()
	c := NewCoordinator(sink, fastConfig())
	defer c.Close()

	locA := approachingPoint
	locB := nearPoint
	c.StartMonitoring(RideInfo{RideID: "ride-a", Pickup: pickupPoint, DriverLocation: &locA})
	c.StartMonitoring(RideInfo{RideID: "ride-b", Pickup: pickupPoint, DriverLocation: &locB})

	seen := map[string]Status{}
	for i := 0; i < 2; i++ {
		alert := sink.wait(t, time.Second)
		seen[alert.RideID] = alert.Status
	}

	if seen["ride-a"] != StatusApproaching || seen["ride-b"] != StatusNear {
		t.Errorf("per-ride statuses = %v, want ride-a approaching and ride-b near", seen)
	}
}
