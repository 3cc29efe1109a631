package broadcast

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/honeynil/financial-monitor/internal/infrastructure/observability"
	"github.com/honeynil/financial-monitor/internal/models"
)

// subscriberBuffer bounds how far a subscriber may fall behind before events
// are dropped for it.
const subscriberBuffer = 16

// Subscriber is one connected client of the hub.
type Subscriber struct {
	id string
	ch chan models.Transaction
}

func (s *Subscriber) ID() string { return s.id }

// Events delivers accepted transactions. The channel is closed on Unsubscribe.
func (s *Subscriber) Events() <-chan models.Transaction { return s.ch }

// Hub is the in-process subscriber registry. Publish fans out to every current
// subscriber without blocking: a subscriber whose buffer is full misses the
// event (delivery is best-effort).
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[*Subscriber]struct{})}
}

func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{
		id: uuid.NewString(),
		ch: make(chan models.Transaction, subscriberBuffer),
	}

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	observability.BroadcastSubscribers.Inc()
	slog.Info("subscriber connected", "subscriber_id", sub.id)
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	_, exists := h.subscribers[sub]
	if exists {
		delete(h.subscribers, sub)
		// Publish sends under RLock, so closing under the write lock
		// cannot race with an in-flight send.
		close(sub.ch)
	}
	h.mu.Unlock()

	if exists {
		observability.BroadcastSubscribers.Dec()
		slog.Info("subscriber disconnected", "subscriber_id", sub.id)
	}
}

func (h *Hub) Publish(ctx context.Context, tx models.Transaction) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		select {
		case sub.ch <- tx:
		default:
			observability.BroadcastDropped.Inc()
			slog.Warn("dropping event for slow subscriber", "subscriber_id", sub.id, "transaction_id", tx.ID)
		}
	}
	return nil
}
