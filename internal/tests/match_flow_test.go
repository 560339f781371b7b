package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"taxilink/internal/domain"
	"taxilink/internal/matching"
	"taxilink/internal/service"
)

// Soweto pickup and Johannesburg CBD drop-off.
var (
	flowOrigin      = domain.Coordinate{Latitude: -26.2678, Longitude: 27.8585}
	flowDestination = domain.Coordinate{Latitude: -26.2041, Longitude: 28.0473}
)

func sowetoCBDRoute() *domain.Route {
	return &domain.Route{
		ID:              "route-1",
		Name:            "Soweto - Johannesburg CBD",
		TaxiAssociation: "Greater Soweto Taxi Association",
		Fare:            18,
		IsActive:        true,
		Stops: []domain.Stop{
			{ID: "s1", Name: "Bara Rank", Coordinates: domain.Coordinate{Latitude: -26.2700, Longitude: 27.8600}, Order: 1},
			{ID: "s2", Name: "Orlando East", Coordinates: domain.Coordinate{Latitude: -26.2485, Longitude: 27.9220}, Order: 2},
			{ID: "s3", Name: "Bree Street Rank", Coordinates: domain.Coordinate{Latitude: -26.2023, Longitude: 28.0411}, Order: 3},
		},
	}
}

func newMatchFixture() (*service.MatchService, *MockRouteRepository, *MockDriverRepository, *MockVehicleRepository, *MockUserRepository, *MockLocationStore) {
	routeRepo := NewMockRouteRepository()
	driverRepo := NewMockDriverRepository()
	vehicleRepo := NewMockVehicleRepository()
	userRepo := NewMockUserRepository()
	locationStore := NewMockLocationStore()

	svc := service.NewMatchService(routeRepo, driverRepo, vehicleRepo, userRepo, locationStore, nil, matching.DefaultConfig())
	return svc, routeRepo, driverRepo, vehicleRepo, userRepo, locationStore
}

func TestMatchFlow_FindsTaxiWithEnrichedDetails(t *testing.T) {
	svc, routeRepo, driverRepo, vehicleRepo, userRepo, locationStore := newMatchFixture()

	routeRepo.AddRoute(sowetoCBDRoute())
	driverRepo.AddProfile(&domain.DriverProfile{ID: "profile-1", UserID: "user-d1", AssignedRouteID: "route-1"})
	userRepo.AddUser(&domain.User{ID: "user-d1", Name: "Sipho Dlamini", PhoneNumber: "+27821234567"})
	vehicleRepo.AddVehicle(&domain.Vehicle{
		DriverProfileID: "profile-1",
		LicensePlate:    "ND 123-456",
		Model:           "Toyota Quantum",
		Color:           "White",
		IsAvailable:     true,
	})
	locationStore.SetLocation(domain.LiveLocation{
		UserID:      "user-d1",
		Coordinates: domain.Coordinate{Latitude: -26.2690, Longitude: 27.8590},
		Role:        domain.RoleDriver,
		UpdatedAt:   time.Now(),
	})

	result, err := svc.FindTaxis(context.Background(), flowOrigin, flowDestination, matching.Config{})
	if err != nil {
		t.Fatalf("FindTaxis returned error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got message %q", result.Message)
	}
	if len(result.AvailableTaxis) != 1 {
		t.Fatalf("expected 1 taxi, got %d", len(result.AvailableTaxis))
	}

	taxi := result.AvailableTaxis[0]
	if taxi.DriverName != "Sipho Dlamini" {
		t.Errorf("driver name = %q, want enriched name", taxi.DriverName)
	}
	if taxi.VehicleModel != "Toyota Quantum" {
		t.Errorf("vehicle model = %q, want Toyota Quantum", taxi.VehicleModel)
	}
	if taxi.Route.RouteID != "route-1" {
		t.Errorf("route id = %q, want route-1", taxi.Route.RouteID)
	}
	if result.ValidRoutesFound != 1 {
		t.Errorf("valid routes = %d, want 1", result.ValidRoutesFound)
	}
}

func TestMatchFlow_FarAwayDriverExcluded(t *testing.T) {
	svc, routeRepo, driverRepo, _, userRepo, locationStore := newMatchFixture()

	routeRepo.AddRoute(sowetoCBDRoute())
	driverRepo.AddProfile(&domain.DriverProfile{ID: "profile-1", UserID: "user-d1", AssignedRouteID: "route-1"})
	userRepo.AddUser(&domain.User{ID: "user-d1", Name: "Sipho Dlamini", PhoneNumber: "+27821234567"})
	// Parked at the destination rank, ~19km from the pickup.
	locationStore.SetLocation(domain.LiveLocation{
		UserID:      "user-d1",
		Coordinates: domain.Coordinate{Latitude: -26.2023, Longitude: 28.0411},
		Role:        domain.RoleDriver,
		UpdatedAt:   time.Now(),
	})

	result, err := svc.FindTaxis(context.Background(), flowOrigin, flowDestination, matching.Config{})
	if err != nil {
		t.Fatalf("FindTaxis returned error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got message %q", result.Message)
	}
	if len(result.AvailableTaxis) != 0 {
		t.Fatalf("expected no taxis, got %d", len(result.AvailableTaxis))
	}
	// The route itself still qualifies.
	if result.ValidRoutesFound != 1 {
		t.Errorf("valid routes = %d, want 1", result.ValidRoutesFound)
	}
}

func TestMatchFlow_RadiusOverrideWidensSearch(t *testing.T) {
	svc, routeRepo, driverRepo, _, userRepo, locationStore := newMatchFixture()

	routeRepo.AddRoute(sowetoCBDRoute())
	driverRepo.AddProfile(&domain.DriverProfile{ID: "profile-1", UserID: "user-d1", AssignedRouteID: "route-1"})
	userRepo.AddUser(&domain.User{ID: "user-d1", Name: "Sipho Dlamini", PhoneNumber: "+27821234567"})
	// Parked at the destination rank, far outside the default radius.
	locationStore.SetLocation(domain.LiveLocation{
		UserID:      "user-d1",
		Coordinates: domain.Coordinate{Latitude: -26.2023, Longitude: 28.0411},
		Role:        domain.RoleDriver,
		UpdatedAt:   time.Now(),
	})

	result, err := svc.FindTaxis(context.Background(), flowOrigin, flowDestination, matching.Config{MaxTaxiDistanceKm: 25})
	if err != nil {
		t.Fatalf("FindTaxis returned error: %v", err)
	}
	if len(result.AvailableTaxis) != 1 {
		t.Fatalf("expected 1 taxi with widened radius, got %d", len(result.AvailableTaxis))
	}
}

func TestMatchFlow_MissingVehicleGetsPlaceholders(t *testing.T) {
	svc, routeRepo, driverRepo, _, userRepo, locationStore := newMatchFixture()

	routeRepo.AddRoute(sowetoCBDRoute())
	driverRepo.AddProfile(&domain.DriverProfile{ID: "profile-1", UserID: "user-d1", AssignedRouteID: "route-1"})
	userRepo.AddUser(&domain.User{ID: "user-d1", Name: "Sipho Dlamini", PhoneNumber: "+27821234567"})
	locationStore.SetLocation(domain.LiveLocation{
		UserID:      "user-d1",
		Coordinates: domain.Coordinate{Latitude: -26.2690, Longitude: 27.8590},
		Role:        domain.RoleDriver,
		UpdatedAt:   time.Now(),
	})

	result, err := svc.FindTaxis(context.Background(), flowOrigin, flowDestination, matching.Config{})
	if err != nil {
		t.Fatalf("FindTaxis returned error: %v", err)
	}
	if len(result.AvailableTaxis) != 1 {
		t.Fatalf("expected 1 taxi, got %d", len(result.AvailableTaxis))
	}
	if got := result.AvailableTaxis[0].VehicleModel; got != "Not available" {
		t.Errorf("vehicle model = %q, want placeholder", got)
	}
}

func TestMatchFlow_InvalidPickupRejected(t *testing.T) {
	svc, _, _, _, _, _ := newMatchFixture()

	badOrigin := domain.Coordinate{Latitude: 91, Longitude: 27.8585}
	_, err := svc.FindTaxis(context.Background(), badOrigin, flowDestination, matching.Config{})
	if !errors.Is(err, service.ErrInvalidPickupLocation) {
		t.Fatalf("expected ErrInvalidPickupLocation, got %v", err)
	}
}

func TestMatchFlow_RepositoryErrorPropagates(t *testing.T) {
	svc, routeRepo, _, _, _, _ := newMatchFixture()
	routeRepo.GetActiveError = ErrMockTimeout

	_, err := svc.FindTaxis(context.Background(), flowOrigin, flowDestination, matching.Config{})
	if !errors.Is(err, ErrMockTimeout) {
		t.Fatalf("expected mock timeout to propagate, got %v", err)
	}
}
