package domain

import "time"

// RideStatus represents the current status of a ride.
type RideStatus string

const (
	RideStatusRequested RideStatus = "REQUESTED"
	RideStatusActive    RideStatus = "ACTIVE"
	RideStatusCompleted RideStatus = "COMPLETED"
	RideStatusCancelled RideStatus = "CANCELLED"
)

// Ride is a booked trip between a passenger and a driver on a route.
// Proximity monitoring attaches to a ride's pickup point.
type Ride struct {
	ID          string
	PassengerID string
	DriverID    string
	RouteID     string
	Pickup      Coordinate
	Destination Coordinate
	Status      RideStatus
	CreatedAt   time.Time
}
