package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"go-asset-ledger/internal/ledger"

	"github.com/gofiber/contrib/websocket"
)

// Client is the part of a websocket connection the hub writes to.
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub fans committed ledger events out to connected front-ends.
type Hub struct {
	Clients    map[Client]bool
	Register   chan Client
	Unregister chan Client
	Broadcast  chan []byte
	log        *slog.Logger
	mutex      sync.Mutex

	quit     chan struct{}
	stopOnce sync.Once
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		Clients:    make(map[Client]bool),
		Register:   make(chan Client),
		Unregister: make(chan Client),
		Broadcast:  make(chan []byte, 64),
		log:        log,
		quit:       make(chan struct{}),
	}
}

// Publish implements ledger.Notifier. It never blocks the ledger: when the
// broadcast buffer is full the event is dropped.
func (h *Hub) Publish(ev ledger.Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.Warn("encode ledger event", "error", err)
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		h.log.Warn("websocket broadcast buffer full, dropping event", "type", ev.Type)
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Join registers conn. It returns false once the hub has stopped.
func (h *Hub) Join(conn Client) bool {
	select {
	case h.Register <- conn:
		return true
	case <-h.quit:
		return false
	}
}

// Leave unregisters conn; after Stop it returns without waiting.
func (h *Hub) Leave(conn Client) {
	select {
	case h.Unregister <- conn:
	case <-h.quit:
	}
}

// Stop makes Run close every client and return.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// Run serves the hub until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.quit:
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.log.Debug("websocket client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
