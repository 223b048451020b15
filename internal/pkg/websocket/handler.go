package websocket

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler for WebSocket connections
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger,
	}
}

// HandleConnection godoc
// @Summary Establish a WebSocket connection for real-time seat updates
// @Description Upgrades the HTTP connection to WebSocket. The client then sends {"type":"join","courseId":"cs101"} to subscribe to a course's seat updates, or {"type":"statistics"} to request an immediate statistics push.
// @Tags realtime
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		logger: h.logger.With().Str("remoteAddr", conn.RemoteAddr().String()).Logger(),
	}
	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
