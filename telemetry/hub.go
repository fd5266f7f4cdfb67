package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/evdnx/zonerecovery/logger"
	"github.com/evdnx/zonerecovery/zone"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub broadcasts cycle events as JSON text frames to every connected
// websocket client.
type Hub struct {
	log       logger.Logger
	broadcast chan []byte

	lock    sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewHub creates a hub whose broadcast queue holds up to buffer messages.
// Messages published while the queue is full are dropped.
func NewHub(buffer int, log logger.Logger) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Hub{
		log:       log,
		broadcast: make(chan []byte, buffer),
		clients:   make(map[*websocket.Conn]bool),
	}
}

// Run delivers queued messages until ctx is cancelled, then closes every
// client connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.lock.Lock()
			for client := range h.clients {
				client.Close()
				delete(h.clients, client)
			}
			h.lock.Unlock()
			return
		case message := <-h.broadcast:
			h.lock.Lock()
			for client := range h.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					client.Close()
					delete(h.clients, client)
				}
			}
			h.lock.Unlock()
		}
	}
}

// Broadcast queues msg without blocking the caller.
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("hub_queue_full", logger.Int("clients", h.Clients()))
	}
}

func (h *Hub) OnCycleEvent(ev zone.Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("hub_encode_failed", logger.Err(err))
		return
	}
	h.Broadcast(msg)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and registers the connection. The client
// is dropped once its read side fails.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws_upgrade_failed", logger.Err(err))
		return
	}
	h.lock.Lock()
	h.clients[conn] = true
	h.lock.Unlock()

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.lock.Lock()
				if h.clients[conn] {
					conn.Close()
					delete(h.clients, conn)
				}
				h.lock.Unlock()
				return
			}
		}
	}()
}
