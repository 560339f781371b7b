package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taxilink/internal/domain"
	"taxilink/internal/repository"
)

// RideService manages ride records. A ride is what ties a passenger,
// a driver, and a route together for proximity monitoring.
type RideService struct {
	rideRepo repository.RideRepository
	userRepo repository.UserRepository
}

// NewRideService creates a new RideService.
func NewRideService(rideRepo repository.RideRepository, userRepo repository.UserRepository) *RideService {
	return &RideService{rideRepo: rideRepo, userRepo: userRepo}
}

// CreateRideRequest contains the parameters for creating a ride.
type CreateRideRequest struct {
	PassengerID    string
	DriverID       string
	RouteID        string
	PickupLat      float64
	PickupLng      float64
	DestinationLat float64
	DestinationLng float64
}

// Create validates and persists a new ride in the ACTIVE state. The
// flow here is hail-style: the passenger picked a taxi from search
// results, so the driver is known up front.
func (s *RideService) Create(ctx context.Context, req CreateRideRequest) (*domain.Ride, error) {
	if req.PassengerID == "" {
		return nil, ErrInvalidUserID
	}
	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
	}

	pickup := domain.Coordinate{Latitude: req.PickupLat, Longitude: req.PickupLng}
	if !pickup.Valid() {
		return nil, ErrInvalidPickupLocation
	}
	destination := domain.Coordinate{Latitude: req.DestinationLat, Longitude: req.DestinationLng}
	if !destination.Valid() {
		return nil, ErrInvalidDestinationLocation
	}

	if _, err := s.userRepo.GetByID(ctx, req.PassengerID); err != nil {
		return nil, err
	}

	ride := &domain.Ride{
		ID:          uuid.NewString(),
		PassengerID: req.PassengerID,
		DriverID:    req.DriverID,
		RouteID:     req.RouteID,
		Pickup:      pickup,
		Destination: destination,
		Status:      domain.RideStatusActive,
		CreatedAt:   time.Now(),
	}
	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}
	return ride, nil
}

// GetByID retrieves a ride.
func (s *RideService) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	if id == "" {
		return nil, ErrInvalidRideID
	}
	return s.rideRepo.GetByID(ctx, id)
}

// Complete marks a ride COMPLETED.
func (s *RideService) Complete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidRideID
	}
	return s.rideRepo.UpdateStatus(ctx, id, domain.RideStatusCompleted)
}

// Cancel marks a ride CANCELLED.
func (s *RideService) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidRideID
	}
	return s.rideRepo.UpdateStatus(ctx, id, domain.RideStatusCancelled)
}
