package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/factorycore/internal/application/common"
	"github.com/andrescamacho/factorycore/internal/application/simulation"
)

// Hub maintains the set of connected clients, fans tick reports out to all
// of them and routes their actions to the mediator.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex

	mediator    common.Mediator
	logger      common.Logger
	sendBuffer  int
	actionRate  rate.Limit
	actionBurst int

	upgrader websocket.Upgrader
}

var _ simulation.ReportPublisher = (*Hub)(nil)

// Option configures a Hub
type Option func(*Hub)

// WithActionRate limits how many actions each client may send
func WithActionRate(limit rate.Limit, burst int) Option {
	return func(h *Hub) {
		h.actionRate = limit
		h.actionBurst = burst
	}
}

// WithCheckOrigin replaces the upgrader's origin check
func WithCheckOrigin(check func(r *http.Request) bool) Option {
	return func(h *Hub) {
		h.upgrader.CheckOrigin = check
	}
}

// NewHub creates a hub. A nil mediator disables inbound actions.
func NewHub(mediator common.Mediator, logger common.Logger, sendBuffer int, opts ...Option) *Hub {
	if sendBuffer < 1 {
		sendBuffer = 1
	}
	h := &Hub{
		clients:     make(map[*Client]bool),
		broadcast:   make(chan []byte, sendBuffer),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		done:        make(chan struct{}),
		mediator:    mediator,
		logger:      logger,
		sendBuffer:  sendBuffer,
		actionRate:  rate.Limit(5),
		actionBurst: 10,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run handles registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Log(common.LevelInfo, "[Stream] Hub shutting down", nil)
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Log(common.LevelInfo, fmt.Sprintf("[Stream] Client %s connected", client.remote), map[string]interface{}{
				"clients": total,
			})
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Log(common.LevelInfo, fmt.Sprintf("[Stream] Client %s disconnected", client.remote), nil)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer
					close(client.send)
					delete(h.clients, client)
					h.logger.Log(common.LevelWarning, fmt.Sprintf("[Stream] Dropped slow client %s", client.remote), nil)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish implements simulation.ReportPublisher. It never blocks the tick
// loop: when the broadcast queue is full the report is dropped.
func (h *Hub) Publish(report *simulation.TickReport) {
	payload, err := json.Marshal(envelope{Type: "tick", Data: report})
	if err != nil {
		h.logger.Log(common.LevelError, fmt.Sprintf("[Stream] Failed to encode tick %d: %v", report.Tick, err), nil)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Log(common.LevelWarning, fmt.Sprintf("[Stream] Broadcast queue full, dropped tick %d", report.Tick), nil)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// SetMediator attaches the mediator actions are dispatched through. The
// driver publishes to the hub, so the daemon builds the hub first.
func (h *Hub) SetMediator(m common.Mediator) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mediator = m
}

func (h *Hub) currentMediator() common.Mediator {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mediator
}

// ServeHTTP upgrades the request and starts the client pumps
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Log(common.LevelWarning, fmt.Sprintf("[Stream] Failed to upgrade websocket connection: %v", err), nil)
		return
	}

	client := newClient(h, conn, r.RemoteAddr)
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// deliver queues a message for one client if it is still registered
func (h *Hub) deliver(client *Client, message []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[client] {
		return false
	}
	select {
	case client.send <- message:
		return true
	default:
		return false
	}
}

// envelope tags every server message with its kind
type envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
