package realtime

import (
	"encoding/json"
	"log/slog"
	"time"

	"vendorhub/internal/api/models"
)

// Message protocol definitions

// Message types pushed to browser clients.
type MessageType string

const (
	// TypeSnapshot carries the recent-notification backlog sent once on
	// connect, before any live events.
	TypeSnapshot MessageType = "snapshot"
	// TypeNotification carries a single freshly inserted notification.
	TypeNotification MessageType = "notification"
)

// Message is the frame sent over the notification websocket.
type Message struct {
	Type          MessageType           `json:"type"`
	Notification  *models.Notification  `json:"notification,omitempty"`
	Notifications []models.Notification `json:"notifications,omitempty"`
	UnreadCount   int64                 `json:"unread_count"`
	Timestamp     time.Time             `json:"timestamp"`
}

func NewSnapshotMessage(notifications []models.Notification, unread int64) *Message {
	return &Message{
		Type:          TypeSnapshot,
		Notifications: notifications,
		UnreadCount:   unread,
		Timestamp:     time.Now().UTC(),
	}
}

func NewNotificationMessage(n *models.Notification) *Message {
	return &Message{
		Type:         TypeNotification,
		Notification: n,
		Timestamp:    time.Now().UTC(),
	}
}

// ToJSON: marshal Message struct to JSON
func (m *Message) ToJSON() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		slog.Error("Failed to marshal message to JSON", "error", err)
		return nil, err
	}
	return data, nil
}
