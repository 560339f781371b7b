package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxilink/internal/domain"
	"taxilink/internal/service"
)

// RouteHandler handles HTTP requests for routes.
type RouteHandler struct {
	routeService *service.RouteService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(routeService *service.RouteService) *RouteHandler {
	return &RouteHandler{routeService: routeService}
}

// CreateRouteRequest is the HTTP request body for route registration.
type CreateRouteRequest struct {
	Name                     string             `json:"name"`
	TaxiAssociation          string             `json:"taxi_association"`
	Fare                     float64            `json:"fare"`
	EstimatedDurationSeconds int                `json:"estimated_duration_seconds"`
	Stops                    []RouteStopRequest `json:"stops"`
}

// RouteStopRequest is one stop within a route registration.
type RouteStopRequest struct {
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Order int     `json:"order"`
}

// RouteResponse is the HTTP response for route data.
type RouteResponse struct {
	ID                       string              `json:"id"`
	Name                     string              `json:"name"`
	TaxiAssociation          string              `json:"taxi_association"`
	Fare                     float64             `json:"fare"`
	EstimatedDurationSeconds int                 `json:"estimated_duration_seconds"`
	IsActive                 bool                `json:"is_active"`
	Stops                    []RouteStopResponse `json:"stops"`
}

// RouteStopResponse is one stop on a route response.
type RouteStopResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Order int     `json:"order"`
}

// Create handles POST /v1/routes
func (h *RouteHandler) Create(c *gin.Context) {
	var req CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	svcReq := service.CreateRouteRequest{
		Name:                     req.Name,
		TaxiAssociation:          req.TaxiAssociation,
		Fare:                     req.Fare,
		EstimatedDurationSeconds: req.EstimatedDurationSeconds,
	}
	for _, stop := range req.Stops {
		svcReq.Stops = append(svcReq.Stops, service.CreateStopRequest{
			Name:  stop.Name,
			Lat:   stop.Lat,
			Lng:   stop.Lng,
			Order: stop.Order,
		})
	}

	route, err := h.routeService.Create(c.Request.Context(), svcReq)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toRouteResponse(*route))
}

// GetByID handles GET /v1/routes/:id
func (h *RouteHandler) GetByID(c *gin.Context) {
	route, err := h.routeService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRouteResponse(*route))
}

// GetAll handles GET /v1/routes
func (h *RouteHandler) GetAll(c *gin.Context) {
	routes, err := h.routeService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RouteResponse, 0, len(routes))
	for _, route := range routes {
		response = append(response, toRouteResponse(route))
	}
	c.JSON(http.StatusOK, response)
}

// SetActiveRequest is the HTTP request body for route activation.
type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// SetActive handles PATCH /v1/routes/:id/active
func (h *RouteHandler) SetActive(c *gin.Context) {
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.routeService.SetActive(c.Request.Context(), c.Param("id"), req.IsActive); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "route updated"})
}

func toRouteResponse(route domain.Route) RouteResponse {
	resp := RouteResponse{
		ID:                       route.ID,
		Name:                     route.Name,
		TaxiAssociation:          route.TaxiAssociation,
		Fare:                     route.Fare,
		EstimatedDurationSeconds: route.EstimatedDurationSeconds,
		IsActive:                 route.IsActive,
		Stops:                    make([]RouteStopResponse, 0, len(route.Stops)),
	}
	for _, stop := range route.Stops {
		resp.Stops = append(resp.Stops, RouteStopResponse{
			ID:    stop.ID,
			Name:  stop.Name,
			Lat:   stop.Coordinates.Latitude,
			Lng:   stop.Coordinates.Longitude,
			Order: stop.Order,
		})
	}
	return resp
}
