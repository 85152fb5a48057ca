package handler

import (
	"net/http"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/finsightapp/finsight-backend/internal/domain"
	"github.com/finsightapp/finsight-backend/internal/middleware"
	"github.com/finsightapp/finsight-backend/internal/notify"
)

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub            *notify.Hub
	users          middleware.UserProvider
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *notify.Hub, users middleware.UserProvider, allowedOrigins []string) *WebSocketHandler {
	// Build origin lookup map
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		users:          users,
		allowedOrigins: originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Allow requests with no Origin header (e.g., same-origin or non-browser clients)
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS handles WebSocket connection requests at GET /ws. The user is
// identified by a userId query parameter or the X-User-ID header; browsers
// cannot set headers on WebSocket upgrades, hence the query fallback.
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	raw := c.QueryParam("userId")
	if raw == "" {
		raw = c.Request().Header.Get(middleware.UserIDHeader)
	}
	if raw == "" {
		log.Debug().Msg("WebSocket connection rejected: missing user ID")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user ID")
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		log.Debug().Err(err).Msg("WebSocket connection rejected: malformed user ID")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid user ID")
	}

	if _, err := h.users.GetByID(userID); err != nil {
		if err == domain.ErrUserNotFound {
			log.Debug().Str("user_id", userID.String()).Msg("WebSocket connection rejected: unknown user")
			return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("WebSocket user lookup failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "user lookup failed")
	}

	// Upgrade HTTP connection to WebSocket
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	// Create client and register with hub
	client := notify.NewClient(conn, userID, h.hub)
	h.hub.Register(client)

	log.Info().
		Str("user_id", userID.String()).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	// Start read/write pumps in goroutines
	go client.WritePump()
	go client.ReadPump()

	return nil
}
