package matching

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"taxilink/internal/domain"
)

func testSnapshot() Snapshot {
	route := corridorRoute()
	route.Fare = 18
	route.TaxiAssociation = "Greater Soweto Taxi Association"

	return Snapshot{
		Routes: []domain.Route{route},
		Drivers: []domain.DriverProfile{
			{ID: "profile-1", UserID: "user-d1", AssignedRouteID: route.ID},
			{ID: "profile-2", UserID: "user-d2", AssignedRouteID: route.ID},
		},
		Locations: []domain.LiveLocation{
			// user-d1 right at the origin, user-d2 roughly 1.4km away.
			{UserID: "user-d1", Coordinates: testOrigin, Role: domain.RoleDriver, UpdatedAt: time.Now()},
			{UserID: "user-d2", Coordinates: domain.Coordinate{Latitude: -26.2615, Longitude: 27.8716}, Role: domain.RoleBoth, UpdatedAt: time.Now()},
		},
		Users: []domain.User{
			{ID: "user-d1", Name: "Sipho Dlamini", PhoneNumber: "+27 82 000 0001"},
			{ID: "user-d2", Name: "Thabo Nkosi", PhoneNumber: "+27 82 000 0002"},
		},
		Vehicles: []domain.Vehicle{
			{DriverProfileID: "profile-1", LicensePlate: "ND 123-456", Model: "Toyota Quantum", Color: "White", Year: 2019, IsAvailable: true},
		},
	}
}

func TestFindMatches_RanksDriversByDistance(t *testing.T) {
	result, err := FindMatches(testSnapshot(), testOrigin, testDestination, Config{})
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}

	if !result.Success {
		t.Fatalf("expected success, got message %q", result.Message)
	}
	if len(result.AvailableTaxis) != 2 {
		t.Fatalf("expected 2 taxis, got %d", len(result.AvailableTaxis))
	}
	if result.AvailableTaxis[0].UserID != "user-d1" {
		t.Errorf("closest driver should rank first, got %s", result.AvailableTaxis[0].UserID)
	}
	if result.AvailableTaxis[0].DistanceToOriginKm > result.AvailableTaxis[1].DistanceToOriginKm {
		t.Error("taxis on one route tier must be ordered closest-first")
	}
	if result.TotalTaxisFound != 2 || result.ValidRoutesFound != 1 || result.TotalRoutesChecked != 1 {
		t.Errorf("counts = (%d taxis, %d valid, %d checked), want (2, 1, 1)",
			result.TotalTaxisFound, result.ValidRoutesFound, result.TotalRoutesChecked)
	}
}

func TestFindMatches_BetterRouteTierWinsOverCloserDriver(t *testing.T) {
	snap := testSnapshot()

	// A second qualifying route whose stops sit a bit farther from both
	// endpoints (score delta well above the 0.1 tie band), with a driver
	// parked exactly on the origin.
	farther := corridorRoute()
	farther.ID = "route-detour"
	farther.Name = "Soweto - CBD via Booysens"
	for i := range farther.Stops {
		farther.Stops[i].ID = "d" + farther.Stops[i].ID
		farther.Stops[i].Coordinates.Latitude += 0.006
		farther.Stops[i].Coordinates.Longitude += 0.006
	}
	snap.Routes = append(snap.Routes, farther)
	snap.Drivers = append(snap.Drivers, domain.DriverProfile{
		ID: "profile-3", UserID: "user-d3", AssignedRouteID: farther.ID,
	})
	snap.Locations = append(snap.Locations, domain.LiveLocation{
		UserID: "user-d3", Coordinates: testOrigin, Role: domain.RoleDriver, UpdatedAt: time.Now(),
	})

	result, err := FindMatches(snap, testOrigin, testDestination, Config{})
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if len(result.AvailableTaxis) != 3 {
		t.Fatalf("expected 3 taxis, got %d", len(result.AvailableTaxis))
	}
	last := result.AvailableTaxis[len(result.AvailableTaxis)-1]
	if last.UserID != "user-d3" {
		t.Errorf("driver on the worse-scored route must rank last, got %s", last.UserID)
	}
	if len(result.MatchingRoutes) != 2 {
		t.Fatalf("expected 2 matching routes, got %d", len(result.MatchingRoutes))
	}
	if result.MatchingRoutes[0].RouteID != "route-soweto-cbd" {
		t.Errorf("matching routes must be sorted by score ascending, got %s first", result.MatchingRoutes[0].RouteID)
	}
}

func TestFindMatches_ThresholdFiltering(t *testing.T) {
	snap := testSnapshot()
	// Route ~100km east of both endpoints.
	for r := range snap.Routes {
		for i := range snap.Routes[r].Stops {
			snap.Routes[r].Stops[i].Coordinates.Longitude += 1.0
		}
	}

	result, err := FindMatches(snap, testOrigin, testDestination, Config{})
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}

	if !result.Success {
		t.Error("no qualifying routes is a normal outcome, not a failure")
	}
	if len(result.AvailableTaxis) != 0 || result.ValidRoutesFound != 0 {
		t.Errorf("expected zero matches, got %d taxis / %d valid routes",
			len(result.AvailableTaxis), result.ValidRoutesFound)
	}
	if !strings.Contains(result.Message, "No taxi routes found") {
		t.Errorf("expected explanatory empty-state message, got %q", result.Message)
	}
}

func TestFindMatches_RejectsReversedRoute(t *testing.T) {
	snap := testSnapshot()
	for i := range snap.Routes[0].Stops {
		snap.Routes[0].Stops[i].Order = len(snap.Routes[0].Stops) - i
	}

	result, err := FindMatches(snap, testOrigin, testDestination, Config{})
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if result.ValidRoutesFound != 0 {
		t.Error("route traversed in reverse must not qualify, even within thresholds")
	}
}

func TestFindMatches_SkipsInactiveAndEmptyRoutes(t *testing.T) {
	snap := testSnapshot()
	inactive := corridorRoute()
	inactive.ID = "route-inactive"
	inactive.IsActive = false
	snap.Routes = append(snap.Routes,
		inactive,
		domain.Route{ID: "route-empty", Name: "No Stops", IsActive: true},
	)

	result, err := FindMatches(snap, testOrigin, testDestination, Config{})
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if result.TotalRoutesChecked != 2 {
		t.Errorf("TotalRoutesChecked = %d, want 2 (inactive routes are not checked)", result.TotalRoutesChecked)
	}
	if result.ValidRoutesFound != 1 {
		t.Errorf("ValidRoutesFound = %d, want 1 (empty-stop route must never match)", result.ValidRoutesFound)
	}
}

func TestFindMatches_DriverBeyondTaxiRadiusExcluded(t *testing.T) {
	snap := testSnapshot()
	// Move the second driver ~20km away from the origin.
	snap.Locations[1].Coordinates = domain.Coordinate{Latitude: -26.2041, Longitude: 28.0473}

	result, err := FindMatches(snap, testOrigin, testDestination, Config{})
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if len(result.AvailableTaxis) != 1 {
		t.Fatalf("expected 1 taxi, got %d", len(result.AvailableTaxis))
	}
	if result.AvailableTaxis[0].UserID != "user-d1" {
		t.Errorf("remaining taxi should be user-d1, got %s", result.AvailableTaxis[0].UserID)
	}
}

func TestFindMatches_PassengerLocationsIgnored(t *testing.T) {
	snap := testSnapshot()
	snap.Locations[0].Role = domain.RolePassenger

	result, err := FindMatches(snap, testOrigin, testDestination, Config{})
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	for _, taxi := range result.AvailableTaxis {
		if taxi.UserID == "user-d1" {
			t.Error("a passenger-role location must not surface as a taxi")
		}
	}
}

func TestFindMatches_MissingVehicleUsesPlaceholders(t *testing.T) {
	result, err := FindMatches(testSnapshot(), testOrigin, testDestination, Config{})
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}

	var withoutVehicle *TaxiMatch
	for i := range result.AvailableTaxis {
		if result.AvailableTaxis[i].DriverProfileID == "profile-2" {
			withoutVehicle = &result.AvailableTaxis[i]
		}
	}
	if withoutVehicle == nil {
		t.Fatal("expected profile-2 in results")
	}
	if withoutVehicle.VehicleModel != "Not available" || withoutVehicle.LicensePlate != "Not available" {
		t.Errorf("missing vehicle must fall back to placeholders, got %q / %q",
			withoutVehicle.VehicleModel, withoutVehicle.LicensePlate)
	}
}

func TestFindMatches_TruncatesToMaxResults(t *testing.T) {
	snap := testSnapshot()
	result, err := FindMatches(snap, testOrigin, testDestination, Config{MaxResults: 1})
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if len(result.AvailableTaxis) != 1 {
		t.Fatalf("expected truncation to 1, got %d", len(result.AvailableTaxis))
	}
	if result.TotalTaxisFound != 2 {
		t.Errorf("TotalTaxisFound = %d, want pre-truncation count 2", result.TotalTaxisFound)
	}
}

func TestFindMatches_InvalidCoordinatesFailGracefully(t *testing.T) {
	bad := domain.Coordinate{Latitude: math.NaN(), Longitude: 28.0}

	result, err := FindMatches(testSnapshot(), bad, testDestination, Config{})
	if err != nil {
		t.Fatalf("malformed coordinates must not return an error: %v", err)
	}
	if result.Success {
		t.Error("expected Success == false for NaN coordinates")
	}
	if result.Message == "" {
		t.Error("expected a descriptive message")
	}
}

func TestFindMatches_NegativeMaxResultsIsCallerBug(t *testing.T) {
	_, err := FindMatches(testSnapshot(), testOrigin, testDestination, Config{MaxResults: -1})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestFindMatches_EmptySnapshot(t *testing.T) {
	result, err := FindMatches(Snapshot{}, testOrigin, testDestination, Config{})
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if !result.Success {
		t.Error("empty world is a normal empty outcome")
	}
	if len(result.AvailableTaxis) != 0 || len(result.MatchingRoutes) != 0 {
		t.Error("expected empty match lists")
	}
}

func TestFindMatches_RoundsForPresentation(t *testing.T) {
	result, err := FindMatches(testSnapshot(), testOrigin, testDestination, Config{})
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	for _, taxi := range result.AvailableTaxis {
		if taxi.DistanceToOriginKm != round2(taxi.DistanceToOriginKm) {
			t.Errorf("DistanceToOriginKm %f not rounded to 2 decimals", taxi.DistanceToOriginKm)
		}
		if taxi.Route.TotalScore != round2(taxi.Route.TotalScore) {
			t.Errorf("route TotalScore %f not rounded to 2 decimals", taxi.Route.TotalScore)
		}
	}
}
