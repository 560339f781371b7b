package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"taxilink/internal/domain"
	"taxilink/internal/geo"
	"taxilink/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK ROUTE REPOSITORY
// ──────────────────────────────────────────────

// MockRouteRepository is a mock implementation of RouteRepository.
type MockRouteRepository struct {
	mu     sync.RWMutex
	routes map[string]*domain.Route

	// Counters for verification
	CreateCallCount    int32
	GetActiveCallCount int32

	// Error injection
	CreateError    error
	GetActiveError error
}

// NewMockRouteRepository creates a new mock route repository.
func NewMockRouteRepository() *MockRouteRepository {
	return &MockRouteRepository{
		routes: make(map[string]*domain.Route),
	}
}

// AddRoute adds a route to the mock repository.
func (m *MockRouteRepository) AddRoute(route *domain.Route) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route.ID] = route
}

func (m *MockRouteRepository) Create(ctx context.Context, route *domain.Route) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route.ID] = route
	return nil
}

func (m *MockRouteRepository) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	route, ok := m.routes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *route
	return &copy, nil
}

func (m *MockRouteRepository) GetActive(ctx context.Context) ([]domain.Route, error) {
	atomic.AddInt32(&m.GetActiveCallCount, 1)
	if m.GetActiveError != nil {
		return nil, m.GetActiveError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []domain.Route
	for _, r := range m.routes {
		if r.IsActive {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *MockRouteRepository) GetAll(ctx context.Context) ([]domain.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]domain.Route, 0, len(m.routes))
	for _, r := range m.routes {
		result = append(result, *r)
	}
	return result, nil
}

func (m *MockRouteRepository) SetActive(ctx context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	route, ok := m.routes[id]
	if !ok {
		return repository.ErrNotFound
	}
	route.IsActive = active
	return nil
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu       sync.RWMutex
	profiles map[string]*domain.DriverProfile

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
	GetAllError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		profiles: make(map[string]*domain.DriverProfile),
	}
}

// AddProfile adds a driver profile to the mock repository.
func (m *MockDriverRepository) AddProfile(profile *domain.DriverProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.ID] = profile
}

func (m *MockDriverRepository) Create(ctx context.Context, profile *domain.DriverProfile) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.ID] = profile
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.DriverProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	profile, ok := m.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *profile
	return &copy, nil
}

func (m *MockDriverRepository) GetByUserID(ctx context.Context, userID string) (*domain.DriverProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.profiles {
		if p.UserID == userID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockDriverRepository) GetByRoute(ctx context.Context, routeID string) ([]domain.DriverProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []domain.DriverProfile
	for _, p := range m.profiles {
		if p.AssignedRouteID == routeID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *MockDriverRepository) GetAll(ctx context.Context) ([]domain.DriverProfile, error) {
	if m.GetAllError != nil {
		return nil, m.GetAllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]domain.DriverProfile, 0, len(m.profiles))
	for _, p := range m.profiles {
		result = append(result, *p)
	}
	return result, nil
}

func (m *MockDriverRepository) AssignRoute(ctx context.Context, id, routeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	profile.AssignedRouteID = routeID
	return nil
}

// ──────────────────────────────────────────────
// MOCK VEHICLE REPOSITORY
// ──────────────────────────────────────────────

// MockVehicleRepository is a mock implementation of VehicleRepository.
type MockVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]*domain.Vehicle // keyed by driver profile ID

	// Counters for verification
	UpsertCallCount int32

	// Error injection
	UpsertError error
}

// NewMockVehicleRepository creates a new mock vehicle repository.
func NewMockVehicleRepository() *MockVehicleRepository {
	return &MockVehicleRepository{
		vehicles: make(map[string]*domain.Vehicle),
	}
}

// AddVehicle adds a vehicle to the mock repository.
func (m *MockVehicleRepository) AddVehicle(vehicle *domain.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[vehicle.DriverProfileID] = vehicle
}

func (m *MockVehicleRepository) Upsert(ctx context.Context, vehicle *domain.Vehicle) error {
	atomic.AddInt32(&m.UpsertCallCount, 1)
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[vehicle.DriverProfileID] = vehicle
	return nil
}

func (m *MockVehicleRepository) GetByDriverProfile(ctx context.Context, driverProfileID string) (*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vehicle, ok := m.vehicles[driverProfileID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *vehicle
	return &copy, nil
}

func (m *MockVehicleRepository) GetAll(ctx context.Context) ([]domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]domain.Vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		result = append(result, *v)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK DRIVER REGISTRAR
// ──────────────────────────────────────────────

// MockDriverRegistrar is a mock implementation of DriverRegistrar. It
// writes through to the driver and vehicle mocks all-or-nothing: an
// injected failure on either write leaves both untouched.
type MockDriverRegistrar struct {
	Drivers  *MockDriverRepository
	Vehicles *MockVehicleRepository
}

// NewMockDriverRegistrar creates a registrar over existing mock repos.
func NewMockDriverRegistrar(drivers *MockDriverRepository, vehicles *MockVehicleRepository) *MockDriverRegistrar {
	return &MockDriverRegistrar{Drivers: drivers, Vehicles: vehicles}
}

func (m *MockDriverRegistrar) RegisterDriver(ctx context.Context, profile *domain.DriverProfile, vehicle *domain.Vehicle) error {
	if m.Drivers.CreateError != nil {
		atomic.AddInt32(&m.Drivers.CreateCallCount, 1)
		return m.Drivers.CreateError
	}
	if vehicle != nil && m.Vehicles.UpsertError != nil {
		return m.Vehicles.UpsertError
	}
	if err := m.Drivers.Create(ctx, profile); err != nil {
		return err
	}
	if vehicle != nil {
		return m.Vehicles.Upsert(ctx, vehicle)
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Error injection
	CreateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []domain.User
	for _, id := range ids {
		if user, ok := m.users[id]; ok {
			result = append(result, *user)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.Ride

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) UpdateStatus(ctx context.Context, id string, status domain.RideStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return repository.ErrNotFound
	}
	ride.Status = status
	return nil
}

// GetRide returns the ride by ID (for test assertions).
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is a mock implementation of LocationStoreInterface.
type MockLocationStore struct {
	mu        sync.RWMutex
	locations map[string]domain.LiveLocation

	// Counters
	UpdateLocationCallCount int32

	// Error injection
	UpdateLocationError    error
	FindNearbyDriversError error
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{
		locations: make(map[string]domain.LiveLocation),
	}
}

// SetLocation seeds a live location (for test setup).
func (m *MockLocationStore) SetLocation(loc domain.LiveLocation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[loc.UserID] = loc
}

func (m *MockLocationStore) UpdateLocation(ctx context.Context, loc domain.LiveLocation) error {
	atomic.AddInt32(&m.UpdateLocationCallCount, 1)
	if m.UpdateLocationError != nil {
		return m.UpdateLocationError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[loc.UserID] = loc
	return nil
}

func (m *MockLocationStore) GetLocation(ctx context.Context, userID string) (*domain.LiveLocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	loc, ok := m.locations[userID]
	if !ok {
		return nil, nil
	}
	copy := loc
	return &copy, nil
}

func (m *MockLocationStore) FindNearbyDrivers(ctx context.Context, center domain.Coordinate, radiusKm float64) ([]domain.LiveLocation, error) {
	if m.FindNearbyDriversError != nil {
		return nil, m.FindNearbyDriversError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []domain.LiveLocation
	for _, loc := range m.locations {
		if !loc.Role.IsDriver() {
			continue
		}
		if geo.DistanceKm(loc.Coordinates, center) <= radiusKm {
			result = append(result, loc)
		}
	}
	return result, nil
}

func (m *MockLocationStore) RemoveLocation(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locations, userID)
	return nil
}

// HasLocation checks if a user has a live location.
func (m *MockLocationStore) HasLocation(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.locations[userID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	RefreshCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireMonitorLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if expiry, exists := m.locks[rideID]; exists && time.Now().Before(expiry) {
		return false, nil // Lock still held.
	}
	m.locks[rideID] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) RefreshMonitorLock(ctx context.Context, rideID string, ttl time.Duration) error {
	atomic.AddInt32(&m.RefreshCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[rideID] = time.Now().Add(ttl)
	return nil
}

func (m *MockLockStore) ReleaseMonitorLock(ctx context.Context, rideID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, rideID)
	return nil
}

// IsLocked checks if a ride's monitor lock is held (for assertions).
func (m *MockLockStore) IsLocked(rideID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks[rideID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)
