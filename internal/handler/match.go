package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxilink/internal/domain"
	"taxilink/internal/matching"
	"taxilink/internal/service"
)

// MatchHandler handles HTTP requests for taxi searches.
type MatchHandler struct {
	matchService *service.MatchService
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(matchService *service.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// SearchRequest is the HTTP request body for a taxi search. The
// threshold fields are optional per-request overrides; zero keeps the
// configured default.
type SearchRequest struct {
	OriginLat      float64 `json:"origin_lat"`
	OriginLng      float64 `json:"origin_lng"`
	DestinationLat float64 `json:"destination_lat"`
	DestinationLng float64 `json:"destination_lng"`

	MaxOriginDistanceKm      float64 `json:"max_origin_distance_km"`
	MaxDestinationDistanceKm float64 `json:"max_destination_distance_km"`
	MaxTaxiDistanceKm        float64 `json:"max_taxi_distance_km"`
	MaxResults               int     `json:"max_results"`
}

// RouteInfoResponse is the per-route score summary on search results.
type RouteInfoResponse struct {
	RouteID          string  `json:"route_id"`
	RouteName        string  `json:"route_name"`
	TaxiAssociation  string  `json:"taxi_association"`
	Fare             float64 `json:"fare"`
	TotalScore       float64 `json:"total_score"`
	StartProximityKm float64 `json:"start_proximity_km"`
	EndProximityKm   float64 `json:"end_proximity_km"`
	NearestStartStop string  `json:"nearest_start_stop"`
	NearestEndStop   string  `json:"nearest_end_stop"`
}

// TaxiMatchResponse is one ranked driver on search results.
type TaxiMatchResponse struct {
	DriverProfileID    string            `json:"driver_profile_id"`
	UserID             string            `json:"user_id"`
	DriverName         string            `json:"driver_name"`
	PhoneNumber        string            `json:"phone_number"`
	VehicleModel       string            `json:"vehicle_model"`
	VehicleColor       string            `json:"vehicle_color"`
	LicensePlate       string            `json:"license_plate"`
	Lat                float64           `json:"lat"`
	Lng                float64           `json:"lng"`
	LocationUpdatedAt  int64             `json:"location_updated_at"`
	DistanceToOriginKm float64           `json:"distance_to_origin_km"`
	Route              RouteInfoResponse `json:"route"`
}

// SearchResponse is the full search result.
type SearchResponse struct {
	Success            bool                `json:"success"`
	Message            string              `json:"message"`
	AvailableTaxis     []TaxiMatchResponse `json:"available_taxis"`
	MatchingRoutes     []RouteInfoResponse `json:"matching_routes"`
	TotalTaxisFound    int                 `json:"total_taxis_found"`
	TotalRoutesChecked int                 `json:"total_routes_checked"`
	ValidRoutesFound   int                 `json:"valid_routes_found"`
}

// Search handles POST /v1/matches/search
func (h *MatchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	origin := domain.Coordinate{Latitude: req.OriginLat, Longitude: req.OriginLng}
	destination := domain.Coordinate{Latitude: req.DestinationLat, Longitude: req.DestinationLng}
	overrides := matching.Config{
		MaxOriginDistanceKm:      req.MaxOriginDistanceKm,
		MaxDestinationDistanceKm: req.MaxDestinationDistanceKm,
		MaxTaxiDistanceKm:        req.MaxTaxiDistanceKm,
		MaxResults:               req.MaxResults,
	}

	result, err := h.matchService.FindTaxis(c.Request.Context(), origin, destination, overrides)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSearchResponse(result))
}

func toSearchResponse(result matching.Result) SearchResponse {
	resp := SearchResponse{
		Success:            result.Success,
		Message:            result.Message,
		AvailableTaxis:     make([]TaxiMatchResponse, 0, len(result.AvailableTaxis)),
		MatchingRoutes:     make([]RouteInfoResponse, 0, len(result.MatchingRoutes)),
		TotalTaxisFound:    result.TotalTaxisFound,
		TotalRoutesChecked: result.TotalRoutesChecked,
		ValidRoutesFound:   result.ValidRoutesFound,
	}
	for _, m := range result.AvailableTaxis {
		resp.AvailableTaxis = append(resp.AvailableTaxis, TaxiMatchResponse{
			DriverProfileID:    m.DriverProfileID,
			UserID:             m.UserID,
			DriverName:         m.DriverName,
			PhoneNumber:        m.PhoneNumber,
			VehicleModel:       m.VehicleModel,
			VehicleColor:       m.VehicleColor,
			LicensePlate:       m.LicensePlate,
			Lat:                m.Location.Latitude,
			Lng:                m.Location.Longitude,
			LocationUpdatedAt:  m.LocationUpdatedAt,
			DistanceToOriginKm: m.DistanceToOriginKm,
			Route:              toRouteInfoResponse(m.Route),
		})
	}
	for _, r := range result.MatchingRoutes {
		resp.MatchingRoutes = append(resp.MatchingRoutes, toRouteInfoResponse(r))
	}
	return resp
}

func toRouteInfoResponse(info matching.RouteInfo) RouteInfoResponse {
	return RouteInfoResponse{
		RouteID:          info.RouteID,
		RouteName:        info.RouteName,
		TaxiAssociation:  info.TaxiAssociation,
		Fare:             info.FareRand,
		TotalScore:       info.TotalScore,
		StartProximityKm: info.StartProximityKm,
		EndProximityKm:   info.EndProximityKm,
		NearestStartStop: info.NearestStartStop,
		NearestEndStop:   info.NearestEndStop,
	}
}
