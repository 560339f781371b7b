package proximity

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"taxilink/internal/domain"
	"taxilink/internal/geo"
)

// Alerts for one ride are never sent closer together than this,
// regardless of status changes in between.
const minAlertInterval = 2 * time.Minute

// DefaultCheckInterval is how often a monitored ride is re-evaluated.
const DefaultCheckInterval = 30 * time.Second

// AlertType maps to the visual treatment of the in-app banner.
type AlertType string

const (
	AlertInfo    AlertType = "info"
	AlertWarning AlertType = "warning"
	AlertSuccess AlertType = "success"
)

// Alert is the payload handed to the delivery layer when a monitored
// ride crosses an alert-worthy proximity boundary.
type Alert struct {
	ID          string
	RideID      string
	DriverID    string
	PassengerID string
	Title       string
	Message     string
	Type        AlertType
	DistanceKm  float64
	EtaMinutes  float64
	Status      Status
	Timestamp   time.Time
}

// AlertSink receives alerts for delivery. Implementations must not
// block; delivery failures are theirs to log and must not affect
// monitoring.
type AlertSink interface {
	OnAlert(alert Alert)
}

// Config tunes a Coordinator. Zero values select defaults.
type Config struct {
	CheckInterval   time.Duration
	AverageSpeedKmh float64
}

// RideInfo describes the ride a monitor attaches to. DriverLocation may
// be nil when the driver has not reported a position yet; ticks skip
// until one arrives.
type RideInfo struct {
	RideID         string
	DriverID       string
	PassengerID    string
	Pickup         domain.Coordinate
	DriverLocation *domain.Coordinate
}

// monitor is the per-ride state machine. Each monitor owns one ticker
// goroutine; all field access goes through mu so location updates may
// race with ticks safely (last write wins).
type monitor struct {
	mu          sync.Mutex
	rideID      string
	driverID    string
	passengerID string
	pickup      domain.Coordinate
	location    *domain.Coordinate
	lastStatus  Status
	lastAlertAt time.Time
	hasAlerted  bool

	stop chan struct{}
	done chan struct{}
}

// Coordinator runs proximity monitoring for any number of rides.
// Monitors are fully independent; the ride map is the only shared
// state. Create one per process (or per test) and Close it on teardown.
type Coordinator struct {
	mu       sync.Mutex
	monitors map[string]*monitor
	sink     AlertSink
	cfg      Config
	closed   bool
}

// NewCoordinator creates a Coordinator delivering alerts to sink.
func NewCoordinator(sink AlertSink, cfg Config) *Coordinator {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultCheckInterval
	}
	if cfg.AverageSpeedKmh <= 0 {
		cfg.AverageSpeedKmh = DefaultAverageSpeedKmh
	}
	return &Coordinator{
		monitors: make(map[string]*monitor),
		sink:     sink,
		cfg:      cfg,
	}
}

// StartMonitoring begins periodic proximity evaluation for a ride.
// Starting an already-monitored ride replaces the prior monitor.
// Returns false once the coordinator is closed; callers must treat
// that as a refusal, not a success.
func (c *Coordinator) StartMonitoring(ride RideInfo) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}

	if old, ok := c.monitors[ride.RideID]; ok {
		stopAndWait(old)
	}

	m := &monitor{
		rideID:      ride.RideID,
		driverID:    ride.DriverID,
		passengerID: ride.PassengerID,
		pickup:      ride.Pickup,
		location:    ride.DriverLocation,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	c.monitors[ride.RideID] = m

	go c.run(m)
	return true
}

// StopMonitoring cancels monitoring for a ride and discards its state.
// Idempotent; when it returns, no further ticks fire for that ride.
func (c *Coordinator) StopMonitoring(rideID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.monitors[rideID]
	if !ok {
		return
	}
	delete(c.monitors, rideID)
	stopAndWait(m)
}

// UpdateDriverLocation records a fresh driver position for a monitored
// ride. The next scheduled tick picks it up; no immediate evaluation.
// No-op for rides not being monitored.
func (c *Coordinator) UpdateDriverLocation(rideID string, coordinates domain.Coordinate) {
	c.mu.Lock()
	m, ok := c.monitors[rideID]
	c.mu.Unlock()
	if !ok {
		return
	}

	m.mu.Lock()
	m.location = &coordinates
	m.mu.Unlock()
}

// IsMonitoring reports whether a ride currently has an active monitor.
func (c *Coordinator) IsMonitoring(rideID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.monitors[rideID]
	return ok
}

// Close stops every active monitor. The coordinator cannot be reused.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for rideID, m := range c.monitors {
		stopAndWait(m)
		delete(c.monitors, rideID)
	}
}

func stopAndWait(m *monitor) {
	close(m.stop)
	<-m.done
}

func (c *Coordinator) run(m *monitor) {
	ticker := time.NewTicker(c.cfg.CheckInterval)
	defer ticker.Stop()
	defer close(m.done)

	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			c.tick(m, now)
		}
	}
}

// tick evaluates one monitor. A missing or invalid location skips this
// tick only; monitoring continues.
func (c *Coordinator) tick(m *monitor, now time.Time) {
	m.mu.Lock()

	if m.location == nil || !m.location.Valid() || !m.pickup.Valid() {
		m.mu.Unlock()
		log.Printf("proximity: ride %s tick skipped, no usable driver location", m.rideID)
		return
	}

	distance := geo.DistanceKm(*m.location, m.pickup)
	current := Classify(distance)

	if !shouldAlert(current, m.lastStatus, m.lastAlertAt, m.hasAlerted, now) {
		m.mu.Unlock()
		return
	}

	// Bookkeeping follows the decision to alert, not delivery success.
	m.lastStatus = current
	m.lastAlertAt = now
	m.hasAlerted = true
	alert := buildAlert(m, current, distance, c.cfg.AverageSpeedKmh, now)
	m.mu.Unlock()

	// Delivery must never block or kill the tick loop.
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("proximity: alert sink panicked for ride %s: %v", alert.RideID, r)
			}
		}()
		c.sink.OnAlert(alert)
	}()
}

// shouldAlert decides whether a tick's status warrants an alert. The
// escalation rule and the enter-near / enter-arrived rules overlap for
// some transitions; all are evaluated independently on purpose.
func shouldAlert(current, previous Status, lastAlertAt time.Time, hasAlerted bool, now time.Time) bool {
	if hasAlerted && now.Sub(lastAlertAt) < minAlertInterval {
		return false
	}
	if current.priority() > previous.priority() {
		return true
	}
	if current == StatusApproaching && !hasAlerted {
		return true
	}
	if current == StatusNear && previous != StatusNear {
		return true
	}
	if current == StatusArrived && previous != StatusArrived {
		return true
	}
	return false
}

func buildAlert(m *monitor, status Status, distanceKm float64, speedKmh float64, now time.Time) Alert {
	eta := EstimateEtaMinutes(distanceKm, speedKmh)

	alert := Alert{
		ID:          uuid.NewString(),
		RideID:      m.rideID,
		DriverID:    m.driverID,
		PassengerID: m.passengerID,
		DistanceKm:  distanceKm,
		EtaMinutes:  eta,
		Status:      status,
		Timestamp:   now,
	}

	switch status {
	case StatusNear:
		alert.Type = AlertWarning
		alert.Title = "Driver Nearby"
		alert.Message = "Your driver is " + FormatDistance(distanceKm) + " away, please be ready"
	case StatusArrived:
		alert.Type = AlertSuccess
		alert.Title = "Driver Arrived"
		alert.Message = "Your driver has arrived at the pickup point"
	default:
		alert.Type = AlertInfo
		alert.Title = "Driver Approaching"
		alert.Message = "Your driver is " + FormatDistance(distanceKm) + " away, ETA " + FormatEta(eta)
	}

	return alert
}
