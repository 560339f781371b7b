package domain

import "time"

// LocationRole identifies which side of a trip a live location belongs to.
type LocationRole string

const (
	RoleDriver    LocationRole = "driver"
	RolePassenger LocationRole = "passenger"
	RoleBoth      LocationRole = "both"
)

// IsDriver reports whether the role covers driving.
func (r LocationRole) IsDriver() bool {
	return r == RoleDriver || r == RoleBoth
}

// LiveLocation is the latest known position of a user. It is ephemeral
// and externally maintained; matching only reads the newest snapshot.
type LiveLocation struct {
	UserID      string
	Coordinates Coordinate
	Role        LocationRole
	UpdatedAt   time.Time
}
