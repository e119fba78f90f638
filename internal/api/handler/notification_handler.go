package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"dormhop/backend/internal/notify"
	"dormhop/backend/pkg/response"
)

// NotificationHandler websocket endpoint for knock events
type NotificationHandler struct {
	hub      *notify.Hub
	upgrader websocket.Upgrader
}

// NewNotificationHandler creates a NotificationHandler. Requests without an
// Origin header (native clients) are always accepted.
func NewNotificationHandler(hub *notify.Hub, allowOrigins []string) *NotificationHandler {
	allowed := make(map[string]bool, len(allowOrigins))
	for _, o := range allowOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}
	return &NotificationHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

// Connect GET /api/v1/ws/notifications
func (h *NotificationHandler) Connect(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if h.hub == nil {
		response.Error(c, http.StatusServiceUnavailable, 10006, "notifications are disabled")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already answered
		_ = c.Error(err)
		return
	}
	h.hub.Serve(userID, conn)
}
