package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/honeynil/financial-monitor/internal/infrastructure/redis"
	"github.com/honeynil/financial-monitor/internal/models"
)

// Channel is namespaced to this application so unrelated services sharing the
// same Redis never cross-deliver.
const Channel = "financial-monitor:transactions"

// RedisBackplane shares broadcasts across server processes. Publish goes to
// Redis only; the subscription loop is the single path into the local hub, so
// every process (the publisher included) delivers each event exactly once to
// its own subscribers.
type RedisBackplane struct {
	client redis.PubSubClient
	hub    *Hub
}

func NewRedisBackplane(client redis.PubSubClient, hub *Hub) *RedisBackplane {
	return &RedisBackplane{client: client, hub: hub}
}

func (b *RedisBackplane) Publish(ctx context.Context, tx models.Transaction) error {
	payload, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, Channel, payload)
}

// Run pumps backplane messages into the local hub until ctx is cancelled.
func (b *RedisBackplane) Run(ctx context.Context) {
	for payload := range b.client.Subscribe(ctx, Channel) {
		var tx models.Transaction
		if err := json.Unmarshal(payload, &tx); err != nil {
			slog.Error("failed to unmarshal backplane message", "error", err)
			continue
		}
		b.hub.Publish(ctx, tx)
	}
	slog.Info("backplane subscription closed")
}
