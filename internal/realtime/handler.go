package realtime

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"vendorhub/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// HTTP upgrade handler to WebSocket connections

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// allow all origins for development purpose; can restrict later
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades the request and starts a notification session: a
// snapshot of the most recent notifications (bounded by ?since=<id> after a
// reconnect) is queued first, then the session joins the live feed. Live
// events already covered by the snapshot are filtered by id.
func WSHandler(hub *Hub, svc service.NotificationService, recentLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}
		uid := userID.(string)

		var since int64
		if s := c.Query("since"); s != "" {
			if parsed, err := strconv.ParseInt(s, 10, 64); err == nil && parsed > 0 {
				since = parsed
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		notifications, err := svc.ListForUser(ctx, uid, false, recentLimit, since)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		unread, err := svc.UnreadCount(ctx, uid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		snapshot, err := NewSnapshotMessage(notifications, unread).ToJSON()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build snapshot"})
			return
		}

		// newest-first ordering: element 0 is the snapshot's high-water mark
		sinceID := since
		if len(notifications) > 0 && notifications[0].ID > sinceID {
			sinceID = notifications[0].ID
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error response
			return
		}

		client := NewClient(uuid.New().String(), uid, sinceID, conn, hub)

		// queue the snapshot before joining the live feed so it is always
		// the first frame the peer sees
		client.SendChannel <- snapshot
		hub.Register <- client

		go client.ReadPump()
		go client.WritePump()
	}
}
