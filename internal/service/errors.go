package service

import "errors"

var (
	// ErrInvalidPickupLocation is returned when pickup coordinates are invalid.
	ErrInvalidPickupLocation = errors.New("invalid pickup location")

	// ErrInvalidDestinationLocation is returned when destination coordinates are invalid.
	ErrInvalidDestinationLocation = errors.New("invalid destination location")

	// ErrInvalidLocation is returned when location coordinates are invalid.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidUserID is returned when user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidRouteID is returned when route ID is empty.
	ErrInvalidRouteID = errors.New("invalid route id")

	// ErrInvalidRideID is returned when ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidRoute is returned when a route payload fails validation.
	ErrInvalidRoute = errors.New("invalid route")

	// ErrRideNotActive is returned when monitoring is requested for a ride
	// that is not in the ACTIVE state.
	ErrRideNotActive = errors.New("ride not active")

	// ErrRideHasNoDriver is returned when monitoring is requested for a
	// ride without an assigned driver.
	ErrRideHasNoDriver = errors.New("ride has no assigned driver")

	// ErrMonitorLockHeld is returned when another instance already
	// monitors the ride.
	ErrMonitorLockHeld = errors.New("ride already monitored")

	// ErrMonitorClosed is returned when monitoring is requested after
	// the service has shut down.
	ErrMonitorClosed = errors.New("monitoring is shutting down")

	// ErrDriverAlreadyRegistered is returned when a user already has a
	// driver profile.
	ErrDriverAlreadyRegistered = errors.New("driver already registered")
)
