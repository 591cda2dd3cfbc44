// internal/messaging/hub.go

package messaging

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Hub tracks online users and routes realtime events to them. One
// connection per user; a newer connection replaces the old one.
type Hub struct {
	clients    map[int64]*Client
	clientsMux sync.RWMutex

	register   chan *Client
	unregister chan *Client

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[int64]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (h *Hub) Run() {
	defer h.cleanup()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-h.ctx.Done():
			return
		}
	}
}

// Shutdown stops the hub loop and closes every connection.
func (h *Hub) Shutdown() {
	h.cancel()
}

// SendEvent pushes an event to a user. It reports whether the user was
// online and the frame was queued.
func (h *Hub) SendEvent(userID int64, eventType string, data interface{}) bool {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshalling %s event: %v", eventType, err)
		return false
	}

	frame, err := json.Marshal(WSMessage{
		Type:      eventType,
		Data:      payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		return false
	}

	h.clientsMux.RLock()
	client, online := h.clients[userID]
	h.clientsMux.RUnlock()
	if !online {
		return false
	}

	queued, open := client.trySend(frame)
	if !open {
		return false
	}
	if !queued {
		// slow consumer, drop the connection
		go func() { h.unregister <- client }()
		return false
	}

	wsEventsSent.WithLabelValues(eventType).Inc()
	return true
}

func (h *Hub) registerClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	if old, exists := h.clients[client.userID]; exists {
		old.close()
	}
	h.clients[client.userID] = client
	wsConnections.Set(float64(len(h.clients)))

	log.Printf("User %d connected. Total clients: %d", client.userID, len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	if current, exists := h.clients[client.userID]; exists && current == client {
		client.close()
		delete(h.clients, client.userID)
		wsConnections.Set(float64(len(h.clients)))
		log.Printf("User %d disconnected. Total clients: %d", client.userID, len(h.clients))
	}
}

func (h *Hub) cleanup() {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	for _, client := range h.clients {
		client.close()
	}
	h.clients = make(map[int64]*Client)
	wsConnections.Set(0)
}
