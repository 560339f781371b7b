package handler

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"taxilink/internal/domain"
	"taxilink/internal/service"
)

const (
	streamReadLimit  = 4096
	streamPongWait   = 60 * time.Second
	streamPingPeriod = 45 * time.Second
	streamWriteWait  = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Mobile clients connect from app webviews; origin checks
		// happen at the gateway.
		return true
	},
}

// StreamHandler ingests driver GPS streams over WebSocket. Each frame
// is one position report; the connection stays open for the shift.
type StreamHandler struct {
	driverService *service.DriverService
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(driverService *service.DriverService) *StreamHandler {
	return &StreamHandler{driverService: driverService}
}

// locationFrame is one inbound GPS report.
type locationFrame struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ackFrame is the per-report acknowledgement.
type ackFrame struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Stream handles GET /v1/drivers/:id/stream
func (h *StreamHandler) Stream(c *gin.Context) {
	driverUserID := c.Param("id")
	if driverUserID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing driver id"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		log.Printf("stream: upgrade failed for driver %s: %v", driverUserID, err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(streamReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	// Pings and acks share the connection; gorilla allows only one
	// writer at a time.
	var writeMu sync.Mutex

	stopPing := make(chan struct{})
	defer close(stopPing)
	go h.pingLoop(conn, &writeMu, stopPing)

	for {
		var frame locationFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("stream: driver %s disconnected: %v", driverUserID, err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))

		coords := domain.Coordinate{Latitude: frame.Lat, Longitude: frame.Lng}
		ack := ackFrame{OK: true}
		if err := h.driverService.UpdateLocation(c.Request.Context(), driverUserID, coords, domain.RoleDriver); err != nil {
			ack = ackFrame{OK: false, Error: err.Error()}
		}

		writeMu.Lock()
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		err := conn.WriteJSON(ack)
		writeMu.Unlock()
		if err != nil {
			return
		}
	}
}

func (h *StreamHandler) pingLoop(conn *websocket.Conn, writeMu *sync.Mutex, stop <-chan struct{}) {
	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			writeMu.Lock()
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
