package realtime

import (
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"kvcache/internal/cache"
)

// Client represents a single websocket client connection.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Client interface {
	ID() string
	Send(message []byte) bool
	Close()
}

// Hub maintains active subscriber connections and broadcasts cache events to them.
type Hub struct {
	mu               sync.RWMutex
	subjectToClients map[string]map[Client]struct{}
	logger           zerolog.Logger
}

var _ cache.Observer = (*Hub)(nil)

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		subjectToClients: make(map[string]map[Client]struct{}),
		logger:           logger.With().Str("component", "realtime").Logger(),
	}
}

// Register adds a client under a subject (the authenticated client id).
func (h *Hub) Register(subject string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subjectToClients[subject]; !ok {
		h.subjectToClients[subject] = make(map[Client]struct{})
	}
	h.subjectToClients[subject][client] = struct{}{}
	h.logger.Debug().Str("subject", subject).Str("client", client.ID()).Msg("Subscriber registered")
}

// Unregister removes a client; if the subject has no more clients, cleans up map.
func (h *Hub) Unregister(subject string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.subjectToClients[subject]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.subjectToClients, subject)
		}
	}
}

// Subscribers returns the number of registered clients.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.subjectToClients {
		n += len(clients)
	}
	return n
}

// Broadcast sends a message to every registered client.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.subjectToClients {
		for c := range clients {
			if ok := c.Send(message); !ok {
				// buffer full or connection gone; the handler cleans it up on its side
				h.logger.Debug().Str("client", c.ID()).Msg("Dropped event for slow subscriber")
			}
		}
	}
}

// Observe forwards mutations and sweeps. Lookups are not broadcast.
func (h *Hub) Observe(evt cache.Event) {
	switch evt.Type {
	case cache.EventPut, cache.EventDelete, cache.EventSweep, cache.EventSweepFailed:
	default:
		return
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to encode cache event")
		return
	}

	h.Broadcast(msg)
}
