package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxilink/internal/domain"
	"taxilink/internal/service"
)

// RideHandler handles HTTP requests for rides and their proximity
// monitors.
type RideHandler struct {
	rideService    *service.RideService
	monitorService *service.MonitorService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService, monitorService *service.MonitorService) *RideHandler {
	return &RideHandler{rideService: rideService, monitorService: monitorService}
}

// CreateRideRequest is the HTTP request body for creating a ride.
type CreateRideRequest struct {
	PassengerID    string  `json:"passenger_id"`
	DriverID       string  `json:"driver_id"`
	RouteID        string  `json:"route_id"`
	PickupLat      float64 `json:"pickup_lat"`
	PickupLng      float64 `json:"pickup_lng"`
	DestinationLat float64 `json:"destination_lat"`
	DestinationLng float64 `json:"destination_lng"`
}

// RideResponse is the HTTP response for ride data.
type RideResponse struct {
	ID             string  `json:"id"`
	PassengerID    string  `json:"passenger_id"`
	DriverID       string  `json:"driver_id"`
	RouteID        string  `json:"route_id,omitempty"`
	PickupLat      float64 `json:"pickup_lat"`
	PickupLng      float64 `json:"pickup_lng"`
	DestinationLat float64 `json:"destination_lat"`
	DestinationLng float64 `json:"destination_lng"`
	Status         string  `json:"status"`
	IsMonitored    bool    `json:"is_monitored"`
}

// Create handles POST /v1/rides
func (h *RideHandler) Create(c *gin.Context) {
	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.Create(c.Request.Context(), service.CreateRideRequest{
		PassengerID:    req.PassengerID,
		DriverID:       req.DriverID,
		RouteID:        req.RouteID,
		PickupLat:      req.PickupLat,
		PickupLng:      req.PickupLng,
		DestinationLat: req.DestinationLat,
		DestinationLng: req.DestinationLng,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.toRideResponse(ride))
}

// GetByID handles GET /v1/rides/:id
func (h *RideHandler) GetByID(c *gin.Context) {
	ride, err := h.rideService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toRideResponse(ride))
}

// StartMonitoring handles POST /v1/rides/:id/monitor
func (h *RideHandler) StartMonitoring(c *gin.Context) {
	rideID := c.Param("id")
	if err := h.monitorService.Start(c.Request.Context(), rideID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "monitoring started", "ride_id": rideID})
}

// StopMonitoring handles DELETE /v1/rides/:id/monitor
func (h *RideHandler) StopMonitoring(c *gin.Context) {
	rideID := c.Param("id")
	if err := h.monitorService.Stop(c.Request.Context(), rideID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "monitoring stopped", "ride_id": rideID})
}

// Complete handles POST /v1/rides/:id/complete. Completing a ride also
// ends its monitor.
func (h *RideHandler) Complete(c *gin.Context) {
	rideID := c.Param("id")
	if err := h.rideService.Complete(c.Request.Context(), rideID); err != nil {
		respondError(c, err)
		return
	}
	_ = h.monitorService.Stop(c.Request.Context(), rideID)
	c.JSON(http.StatusOK, gin.H{"message": "ride completed", "ride_id": rideID})
}

// Cancel handles POST /v1/rides/:id/cancel. Cancelling a ride also
// ends its monitor.
func (h *RideHandler) Cancel(c *gin.Context) {
	rideID := c.Param("id")
	if err := h.rideService.Cancel(c.Request.Context(), rideID); err != nil {
		respondError(c, err)
		return
	}
	_ = h.monitorService.Stop(c.Request.Context(), rideID)
	c.JSON(http.StatusOK, gin.H{"message": "ride cancelled", "ride_id": rideID})
}

func (h *RideHandler) toRideResponse(ride *domain.Ride) RideResponse {
	return RideResponse{
		ID:             ride.ID,
		PassengerID:    ride.PassengerID,
		DriverID:       ride.DriverID,
		RouteID:        ride.RouteID,
		PickupLat:      ride.Pickup.Latitude,
		PickupLng:      ride.Pickup.Longitude,
		DestinationLat: ride.Destination.Latitude,
		DestinationLng: ride.Destination.Longitude,
		Status:         string(ride.Status),
		IsMonitored:    h.monitorService.IsMonitoring(ride.ID),
	}
}
