package realtime

import (
	"context"
	"log/slog"

	"vendorhub/internal/api/models"
)

// Hub routes committed notifications to the owner's open websocket
// sessions. Each connection runs its own read/write goroutines; all state
// changes funnel through the hub's channels to avoid race conditions.
type Hub struct {
	clients    map[string]map[*Client]bool // keyed by user id
	Register   chan *Client
	Unregister chan *Client
	deliver    chan *models.Notification
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		deliver:    make(chan *models.Notification, 256),
		logger:     logger,
	}
}

// Deliver hands a notification to the hub for fan-out. Never blocks the
// caller; when the hub is saturated the event is dropped and the client
// recovers it from its next snapshot.
func (h *Hub) Deliver(n *models.Notification) {
	select {
	case h.deliver <- n:
	default:
		h.logger.Warn("realtime delivery queue full, dropping event", "notification_id", n.ID)
	}
}

// Run owns the client registry until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.Register:
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.logger.Debug("websocket client registered", "user_id", client.UserID, "client_id", client.ID)

		case client := <-h.Unregister:
			if sessions, ok := h.clients[client.UserID]; ok {
				if _, ok := sessions[client]; ok {
					delete(sessions, client)
					close(client.SendChannel)
					if len(sessions) == 0 {
						delete(h.clients, client.UserID)
					}
				}
			}

		case n := <-h.deliver:
			h.fanOut(n)

		case <-ctx.Done():
			for _, sessions := range h.clients {
				for client := range sessions {
					close(client.SendChannel)
				}
			}
			h.clients = make(map[string]map[*Client]bool)
			return
		}
	}
}

func (h *Hub) fanOut(n *models.Notification) {
	sessions, ok := h.clients[n.UserID]
	if !ok {
		return
	}

	payload, err := NewNotificationMessage(n).ToJSON()
	if err != nil {
		return
	}

	for client := range sessions {
		if n.ID <= client.sinceID {
			// already covered by the snapshot this session received
			continue
		}
		select {
		case client.SendChannel <- payload:
		default:
			// slow consumer: drop the session, the read pump notices the
			// closed connection and unregisters
			delete(sessions, client)
			close(client.SendChannel)
			client.Conn.Close()
		}
	}
	if len(sessions) == 0 {
		delete(h.clients, n.UserID)
	}
}
