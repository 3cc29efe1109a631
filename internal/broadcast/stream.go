package broadcast

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// EventName is the single logical channel dashboard clients listen on.
const EventName = "transaction.accepted"

const heartbeatInterval = 15 * time.Second

// StreamHandler serves the persistent push channel as Server-Sent Events.
// Reconnect/backoff is the client's job (EventSource does it natively).
type StreamHandler struct {
	hub *Hub
}

func NewStreamHandler(hub *Hub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case tx, ok := <-sub.Events():
			if !ok {
				return
			}
			payload, err := json.Marshal(tx)
			if err != nil {
				slog.Error("failed to marshal event payload", "transaction_id", tx.ID, "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", EventName, payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
