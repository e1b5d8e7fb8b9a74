package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/taskwire/taskwire-api/internal/domain"
	"github.com/taskwire/taskwire-api/internal/platform/logger"
	"github.com/taskwire/taskwire-api/internal/realtime"
)

// WSHandler upgrades authenticated requests to websocket connections and
// forwards the user's realtime events until either side disconnects.
type WSHandler struct {
	hub          *realtime.Hub
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
}

// NewWSHandler creates a new WSHandler publishing from the given hub.
func NewWSHandler(hub *realtime.Hub, writeTimeout time.Duration) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Token-authenticated endpoint; browser clients connect from
			// arbitrary origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		writeTimeout: writeTimeout,
	}
}

// Serve handles GET /api/ws.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	log := logger.FromContextOrDefault(r.Context(), slog.Default())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error to the client.
		log.Debug("websocket upgrade failed", "error", err, "user_id", userID)
		return
	}

	sub := h.hub.Subscribe(userID)
	if sub == nil {
		// Hub is shutting down.
		_ = conn.Close()
		return
	}

	log.Debug("websocket connected", "user_id", userID)

	done := make(chan struct{})
	go h.readPump(conn, done)
	h.writePump(conn, sub, done, log)

	h.hub.Unsubscribe(sub)
	_ = conn.Close()
	log.Debug("websocket disconnected", "user_id", userID)
}

// readPump discards inbound frames; its job is noticing the peer going away.
func (h *WSHandler) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards hub events to the connection until the subscription is
// closed or the reader reports a disconnect.
func (h *WSHandler) writePump(
	conn *websocket.Conn,
	sub *realtime.Subscription,
	done <-chan struct{},
	log *slog.Logger,
) {
	for {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Debug("websocket write failed", "error", err, "user_id", sub.UserID())
				return
			}
		case <-done:
			return
		}
	}
}
