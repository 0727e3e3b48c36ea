package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sori-music/backend/internal/realtime"
	"github.com/sori-music/backend/pkg/logger"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades authenticated clients onto the realtime hub
type WSHandler struct {
	hub *realtime.Hub
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *realtime.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// RegisterWSRoutes registers the websocket route
func (h *WSHandler) RegisterWSRoutes(g *echo.Group) {
	g.GET("/ws", h.Connect)
}

// Connect upgrades the request and keeps the connection registered until the
// client goes away. Incoming frames are drained and discarded; the socket is
// push-only.
func (h *WSHandler) Connect(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.L.Warn("websocket upgrade failed", zap.Uint("user_id", userID), zap.Error(err))
		return err
	}
	defer conn.Close()

	h.hub.Add(userID, conn)
	defer h.hub.Remove(userID, conn)

	logger.L.Info("websocket connected", zap.Uint("user_id", userID))

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	logger.L.Info("websocket disconnected", zap.Uint("user_id", userID))
	return nil
}
