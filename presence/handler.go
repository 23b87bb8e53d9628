package presence

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// Handler upgrades an authenticated request to a websocket and keeps the
// registry in sync for the lifetime of the connection.
func Handler(registry *Registry, log zerolog.Logger) gin.HandlerFunc {
	logger := log.With().Str("component", "presence").Logger()

	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Error().Err(err).Msg("websocket upgrade failed")
			return
		}

		connection := Connection{
			ID:          uuid.NewString(),
			UserID:      userID,
			Role:        c.GetString("role"),
			ConnectedAt: time.Now().UTC(),
		}
		registry.Register(connection)
		logger.Info().Str("user_id", userID).Str("connection_id", connection.ID).Msg("connected")

		defer func() {
			registry.Deregister(connection.ID)
			conn.Close()
			logger.Info().Str("user_id", userID).Str("connection_id", connection.ID).Msg("disconnected")
		}()

		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
					return
				}
			}
		}
	}
}
