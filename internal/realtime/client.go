package realtime

import (
	"time"

	"github.com/gorilla/websocket"
)

const ( // ping pong(2-way heartbeat) to keep connection alive
	WriteWait      = 10 * time.Second    // max time write a message to the peer
	PongWait       = 60 * time.Second    // max time to wait for pong from peer => no pong = no connection
	PingPeriod     = (PongWait * 9) / 10 // ping before pong wait expires, slack for network jitter
	MaxMessageSize = 512                 // maximum message size allowed from peer

	sendBufferSize = 64
)

// Client is one authenticated websocket session. A user with several open
// tabs holds several clients; the hub routes by UserID to all of them.
type Client struct {
	ID          string          // unique client ID
	UserID      string          // user ID from auth token (JWT claims)
	Conn        *websocket.Conn // WebSocket connection
	SendChannel chan []byte     // channel for outbound messages
	Hub         *Hub            // reference to the central Hub

	// sinceID is the newest notification id covered by the snapshot this
	// client already received; live events at or below it are dropped so a
	// slow snapshot racing a fast insert cannot duplicate entries.
	sinceID int64
}

// constructor new client
func NewClient(id, userID string, sinceID int64, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:          id,
		UserID:      userID,
		Conn:        conn,
		SendChannel: make(chan []byte, sendBufferSize),
		Hub:         hub,
		sinceID:     sinceID,
	}
}

// ReadPump drains the connection. Clients do not send application frames;
// reading only services pong handling and surfaces disconnects.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

// WritePump writes queued messages and heartbeats to the peer.
func (c *Client) WritePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.SendChannel:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				// hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
