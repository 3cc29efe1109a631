package broadcast

import (
	"context"
	"testing"
	"time"

	"github.com/honeynil/financial-monitor/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleTransaction(id string) models.Transaction {
	return models.Transaction{
		ID:        id,
		Amount:    decimal.NewFromInt(10),
		Currency:  "USD",
		Status:    models.StatusPending,
		Timestamp: time.Now().UTC(),
	}
}

func TestHub_FanOut(t *testing.T) {
	hub := NewHub()
	ctx := context.Background()

	subs := []*Subscriber{hub.Subscribe(), hub.Subscribe(), hub.Subscribe()}
	defer func() {
		for _, sub := range subs {
			hub.Unsubscribe(sub)
		}
	}()

	tx := sampleTransaction("fan-1")
	assert.NoError(t, hub.Publish(ctx, tx))

	for _, sub := range subs {
		select {
		case got := <-sub.Events():
			assert.Equal(t, "fan-1", got.ID)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestHub_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()
	ctx := context.Background()

	slow := hub.Subscribe()
	defer hub.Unsubscribe(slow)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Overflow the subscriber buffer without anyone draining it.
		for i := 0; i < subscriberBuffer*2; i++ {
			hub.Publish(ctx, sampleTransaction("slow"))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	ctx := context.Background()

	sub := hub.Subscribe()
	hub.Unsubscribe(sub)

	assert.NoError(t, hub.Publish(ctx, sampleTransaction("gone")))

	_, open := <-sub.Events()
	assert.False(t, open, "channel must be closed after unsubscribe")
}

func TestHub_UnsubscribeTwice(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)
}
