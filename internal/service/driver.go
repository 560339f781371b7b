package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"taxilink/internal/domain"
	"taxilink/internal/redis"
	"taxilink/internal/repository"
)

// DriverService manages driver profiles, their vehicles, and their
// live positions.
type DriverService struct {
	driverRepo    repository.DriverRepository
	registrar     repository.DriverRegistrar
	locationStore redis.LocationStoreInterface
	cacheStore    *redis.CacheStore
	monitors      *MonitorService
}

// NewDriverService creates a new DriverService. monitors may be nil
// when no proximity monitoring runs in this process.
func NewDriverService(
	driverRepo repository.DriverRepository,
	registrar repository.DriverRegistrar,
	locationStore redis.LocationStoreInterface,
	cacheStore *redis.CacheStore,
	monitors *MonitorService,
) *DriverService {
	return &DriverService{
		driverRepo:    driverRepo,
		registrar:     registrar,
		locationStore: locationStore,
		cacheStore:    cacheStore,
		monitors:      monitors,
	}
}

// RegisterRequest contains the parameters for registering a driver.
type RegisterRequest struct {
	UserID       string
	RouteID      string // optional; assignment can happen later
	LicensePlate string
	Model        string
	Color        string
	Year         int
}

// Register creates a driver profile for a user, with its vehicle when
// the request carries one.
func (s *DriverService) Register(ctx context.Context, req RegisterRequest) (*domain.DriverProfile, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}

	existing, err := s.driverRepo.GetByUserID(ctx, req.UserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDriverAlreadyRegistered
	}

	profile := &domain.DriverProfile{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		AssignedRouteID: req.RouteID,
	}
	var vehicle *domain.Vehicle
	if req.LicensePlate != "" || req.Model != "" {
		vehicle = &domain.Vehicle{
			DriverProfileID: profile.ID,
			LicensePlate:    req.LicensePlate,
			Model:           req.Model,
			Color:           req.Color,
			Year:            req.Year,
			IsAvailable:     true,
		}
	}

	// Profile and vehicle persist together or not at all.
	if err := s.registrar.RegisterDriver(ctx, profile, vehicle); err != nil {
		return nil, err
	}

	if vehicle != nil && s.cacheStore != nil {
		_ = s.cacheStore.SetVehicle(ctx, vehicle)
	}
	return profile, nil
}

// AssignRoute points a driver profile at a route.
func (s *DriverService) AssignRoute(ctx context.Context, profileID, routeID string) error {
	if profileID == "" {
		return ErrInvalidDriverID
	}
	if routeID == "" {
		return ErrInvalidRouteID
	}
	return s.driverRepo.AssignRoute(ctx, profileID, routeID)
}

// GetByID retrieves a driver profile.
func (s *DriverService) GetByID(ctx context.Context, id string) (*domain.DriverProfile, error) {
	if id == "" {
		return nil, ErrInvalidDriverID
	}
	return s.driverRepo.GetByID(ctx, id)
}

// GetAll retrieves every driver profile.
func (s *DriverService) GetAll(ctx context.Context) ([]domain.DriverProfile, error) {
	return s.driverRepo.GetAll(ctx)
}

// GetByRoute retrieves the driver profiles assigned to a route.
func (s *DriverService) GetByRoute(ctx context.Context, routeID string) ([]domain.DriverProfile, error) {
	if routeID == "" {
		return nil, ErrInvalidRouteID
	}
	return s.driverRepo.GetByRoute(ctx, routeID)
}

// UpdateLocation records a user's live position. Driver positions also
// feed any active proximity monitor for that driver's ride.
func (s *DriverService) UpdateLocation(ctx context.Context, userID string, coords domain.Coordinate, role domain.LocationRole) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	if !coords.Valid() {
		return ErrInvalidLocation
	}
	if role == "" {
		role = domain.RoleDriver
	}

	loc := domain.LiveLocation{
		UserID:      userID,
		Coordinates: coords,
		Role:        role,
		UpdatedAt:   time.Now(),
	}
	if err := s.locationStore.UpdateLocation(ctx, loc); err != nil {
		return err
	}

	if s.monitors != nil && role.IsDriver() {
		s.monitors.OnDriverLocation(userID, coords)
	}
	return nil
}
