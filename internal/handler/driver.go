package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxilink/internal/domain"
	"taxilink/internal/service"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	driverService *service.DriverService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// RegisterDriverRequest is the HTTP request body for driver registration.
type RegisterDriverRequest struct {
	UserID       string `json:"user_id"`
	RouteID      string `json:"route_id"`
	LicensePlate string `json:"license_plate"`
	Model        string `json:"model"`
	Color        string `json:"color"`
	Year         int    `json:"year"`
}

// DriverResponse is the HTTP response for driver profile data.
type DriverResponse struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	AssignedRouteID string `json:"assigned_route_id,omitempty"`
}

// Register handles POST /v1/drivers/register
func (h *DriverHandler) Register(c *gin.Context) {
	var req RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	profile, err := h.driverService.Register(c.Request.Context(), service.RegisterRequest{
		UserID:       req.UserID,
		RouteID:      req.RouteID,
		LicensePlate: req.LicensePlate,
		Model:        req.Model,
		Color:        req.Color,
		Year:         req.Year,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toDriverResponse(profile))
}

// GetByID handles GET /v1/drivers/:id
func (h *DriverHandler) GetByID(c *gin.Context) {
	profile, err := h.driverService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDriverResponse(profile))
}

// GetAll handles GET /v1/drivers
func (h *DriverHandler) GetAll(c *gin.Context) {
	profiles, err := h.driverService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DriverResponse, 0, len(profiles))
	for _, p := range profiles {
		response = append(response, toDriverResponse(&p))
	}
	c.JSON(http.StatusOK, response)
}

// ListByRoute handles GET /v1/routes/:id/drivers
func (h *DriverHandler) ListByRoute(c *gin.Context) {
	profiles, err := h.driverService.GetByRoute(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DriverResponse, 0, len(profiles))
	for _, p := range profiles {
		response = append(response, toDriverResponse(&p))
	}
	c.JSON(http.StatusOK, response)
}

// AssignRouteRequest is the HTTP request body for route assignment.
type AssignRouteRequest struct {
	RouteID string `json:"route_id"`
}

// AssignRoute handles PATCH /v1/drivers/:id/route
func (h *DriverHandler) AssignRoute(c *gin.Context) {
	var req AssignRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.driverService.AssignRoute(c.Request.Context(), c.Param("id"), req.RouteID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "route assigned"})
}

// UpdateLocationRequest is the HTTP request body for a location report.
type UpdateLocationRequest struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Role string  `json:"role"`
}

// UpdateLocation handles PUT /v1/users/:id/location
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	coords := domain.Coordinate{Latitude: req.Lat, Longitude: req.Lng}
	err := h.driverService.UpdateLocation(c.Request.Context(), c.Param("id"), coords, domain.LocationRole(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "location updated"})
}

func toDriverResponse(p *domain.DriverProfile) DriverResponse {
	return DriverResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		AssignedRouteID: p.AssignedRouteID,
	}
}
