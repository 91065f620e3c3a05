package rest

import (
	"direct-chat/auth"
	"direct-chat/contract"
	"direct-chat/sink"
	"log/slog"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
)

// WebsocketHandler upgrades an authenticated request into the user's live connection.
type WebsocketHandler struct {
	presence   contract.IPresenceRegistry
	upgrader   websocket.Upgrader
	bufferSize int
	log        *slog.Logger
}

func NewWebsocketHandler(presence contract.IPresenceRegistry, allowedOrigins []string,
	bufferSize int, log *slog.Logger) *WebsocketHandler {
	return &WebsocketHandler{
		presence:   presence,
		bufferSize: bufferSize,
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin) || slices.Contains(allowedOrigins, "*")
			},
		},
	}
}

// ServeHTTP handles GET /ws. The previous connection of the same user is closed.
func (h *WebsocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		h.log.Debug("Websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	connection := sink.NewWebsocketSink(userID, conn, h.bufferSize, h.log)
	if replaced := h.presence.Connect(userID, connection); replaced != nil {
		_ = replaced.Close()
	}
	h.log.Info("User connected", "user_id", userID, "online", h.presence.Count())

	connection.Serve()

	if h.presence.Disconnect(userID, connection) {
		h.log.Info("User disconnected", "user_id", userID, "online", h.presence.Count())
	}
}
