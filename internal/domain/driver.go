package domain

// DriverProfile links a driver's user account to the route they work.
// Many drivers may share one route.
type DriverProfile struct {
	ID              string
	UserID          string
	AssignedRouteID string
}

// Vehicle is optional enrichment for a driver profile. Absence must not
// fail matching; callers substitute "Not available" placeholders.
type Vehicle struct {
	DriverProfileID string
	LicensePlate    string
	Model           string
	Color           string
	Year            int
	IsAvailable     bool
}
