package domain

// Stop is a named boarding point along a route. Order defines the
// position in the direction of travel and is unique within a route.
type Stop struct {
	ID          string
	Name        string
	Coordinates Coordinate
	Order       int
}

// Route is a fixed minibus-taxi route with an ordered stop list.
// Routes are immutable inputs to matching; persistence owns mutation.
type Route struct {
	ID                       string
	Name                     string
	Stops                    []Stop
	IsActive                 bool
	Fare                     float64
	EstimatedDurationSeconds int
	TaxiAssociation          string
}
