package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"vendorhub/internal/api/models"

	"github.com/redis/go-redis/v9"
)

// NotificationChannel is the Redis pub/sub channel carrying committed
// notification inserts from the dispatcher to every API instance's hub.
const NotificationChannel = "notifications:feed"

// Publisher relays committed notifications onto the Redis feed. It
// implements service.NotificationPublisher.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, n *models.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, NotificationChannel, payload).Err()
}

// Bridge subscribes to the Redis feed and hands each event to the hub.
// Reconnection of the underlying subscription is go-redis's concern; the
// bridge itself has no retry state.
type Bridge struct {
	client *redis.Client
	hub    *Hub
	logger *slog.Logger
}

func NewBridge(client *redis.Client, hub *Hub, logger *slog.Logger) *Bridge {
	return &Bridge{client: client, hub: hub, logger: logger}
}

// Run consumes the feed until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) {
	pubsub := b.client.Subscribe(ctx, NotificationChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var n models.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				b.logger.Warn("dropping malformed realtime payload", "error", err)
				continue
			}
			b.hub.Deliver(&n)
		case <-ctx.Done():
			return
		}
	}
}
