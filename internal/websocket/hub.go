// Package websocket pushes dashboard updates to connected browsers. The hub
// fans a single summary event out to every client after each successful chain
// upload; clients never push state back beyond ping/pong keepalives.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"gexcli/pkg/contracts/domain"
)

// Message type constants
const (
	TypeConnection     = "connection"
	TypeSummaryUpdated = "summary:updated"
)

// Envelope is the wire format for every hub message
type Envelope struct {
	Type      string      `json:"type"`
	Session   string      `json:"session,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger *slog.Logger

	totalConnections int64
	messagesSent     int64

	quit    chan struct{}
	running bool
}

// NewHub creates a hub
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		quit:       make(chan struct{}),
	}
}

// Start launches the hub loop once
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
}

// Stop terminates the hub loop and disconnects all clients
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	close(h.quit)

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	h.logger.Info("hub stopped")
}

func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.totalConnections++
			h.mu.Unlock()

			h.logger.Info("client registered",
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("total_clients", count))

			h.sendTo(client, Envelope{
				Type:      TypeConnection,
				Data:      map[string]interface{}{"status": "connected", "client_id": client.id},
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				count := len(h.clients)
				h.mu.Unlock()

				h.logger.Info("client unregistered",
					slog.String("client_id", client.id),
					slog.Int("total_clients", count),
					slog.Duration("connection_duration", time.Since(client.connectedAt)))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			var sent int64
			for _, client := range clients {
				select {
				case client.send <- message:
					sent++
				default:
					// Slow consumer, drop the connection
					h.mu.Lock()
					if _, ok := h.clients[client]; ok {
						close(client.send)
						delete(h.clients, client)
					}
					h.mu.Unlock()

					h.logger.Warn("client send buffer full, disconnecting",
						slog.String("client_id", client.id))
				}
			}

			h.mu.Lock()
			h.messagesSent += sent
			h.mu.Unlock()
		}
	}
}

// sendTo delivers a message to a single client, dropping it when the client
// buffer is full.
func (h *Hub) sendTo(client *Client, env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("failed to marshal message", slog.String("error", err.Error()))
		return
	}

	select {
	case client.send <- data:
	default:
		h.logger.Warn("dropping message, client buffer full",
			slog.String("client_id", client.id))
	}
}

// BroadcastSummary pushes a dashboard summary update to all connected
// clients. It satisfies the service layer's broadcaster dependency.
func (h *Hub) BroadcastSummary(sessionID string, summary domain.DashboardSummary) {
	env := Envelope{
		Type:      TypeSummaryUpdated,
		Session:   sessionID,
		Data:      summary,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("failed to marshal summary broadcast",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID))
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("broadcast channel full, dropping summary update",
			slog.String("session_id", sessionID))
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats reports cumulative hub counters
func (h *Hub) Stats() (totalConnections, messagesSent int64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalConnections, h.messagesSent
}
