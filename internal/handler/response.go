package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxilink/internal/matching"
	"taxilink/internal/repository"
	"taxilink/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidRouteID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidRoute),
		errors.Is(err, service.ErrInvalidPickupLocation),
		errors.Is(err, service.ErrInvalidDestinationLocation),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, matching.ErrInvalidConfig):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrRideNotActive),
		errors.Is(err, service.ErrRideHasNoDriver),
		errors.Is(err, service.ErrMonitorLockHeld),
		errors.Is(err, service.ErrDriverAlreadyRegistered):
		return http.StatusConflict

	// Shutting down
	case errors.Is(err, service.ErrMonitorClosed):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
