package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// PubSubClient defines the interface for the Redis pub/sub operations used by
// the broadcast backplane.
type PubSubClient interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) <-chan []byte
	Close() error
}

// Client is the implementation of PubSubClient.
type Client struct {
	client *redis.Client
}

func NewClient(addr string) *Client {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		slog.Error("failed to connect to Redis", "addr", addr, "error", err)
		panic(err)
	}

	slog.Info("connected to Redis", "addr", addr)
	return &Client{client: client}
}

func (c *Client) Publish(ctx context.Context, channel string, payload []byte) error {
	return c.client.Publish(ctx, channel, payload).Err()
}

// Subscribe returns a channel of raw message payloads. The channel closes when
// ctx is cancelled or the subscription drops.
func (c *Client) Subscribe(ctx context.Context, channel string) <-chan []byte {
	pubsub := c.client.Subscribe(ctx, channel)
	out := make(chan []byte)

	go func() {
		defer close(out)
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				out <- []byte(msg.Payload)
			}
		}
	}()

	return out
}

func (c *Client) Close() error {
	return c.client.Close()
}
