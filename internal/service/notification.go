package service

import (
	"log"
	"time"

	"taxilink/internal/proximity"
)

// Notification is the push payload handed to the delivery channel.
type Notification struct {
	ID          string
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService delivers proximity alerts to passengers. It
// implements proximity.AlertSink.
type NotificationService struct {
	// In a real system, this would have:
	// - Push notification client (FCM, APNS)
	// - SMS client
	// - WebSocket connections for real-time
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// OnAlert converts a proximity alert into a passenger notification and
// dispatches it. Ticks must never block on delivery, so failures are
// logged and swallowed here.
func (s *NotificationService) OnAlert(alert proximity.Alert) {
	notification := Notification{
		ID:          alert.ID,
		RecipientID: alert.PassengerID,
		Title:       alert.Title,
		Message:     alert.Message,
		Data: map[string]interface{}{
			"ride_id":     alert.RideID,
			"driver_id":   alert.DriverID,
			"status":      string(alert.Status),
			"distance_km": alert.DistanceKm,
			"eta_minutes": alert.EtaMinutes,
			"alert_type":  string(alert.Type),
		},
		CreatedAt: alert.Timestamp,
	}
	s.send(notification)
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(notification Notification) {
	// In a real implementation, this would:
	// 1. Store the notification
	// 2. Send push via FCM/APNS
	// 3. Broadcast via WebSocket for in-app banners

	log.Printf("[NOTIFICATION] Recipient=%s, Title=%s, Message=%s",
		notification.RecipientID, notification.Title, notification.Message)
}
