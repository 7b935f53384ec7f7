package notifyhub

import (
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/moyoez/uploadkit/tool"
	"github.com/moyoez/uploadkit/types"
)

// Hub fans notifications out to the connected WebSocket clients.
type Hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]*sync.Mutex
}

func New() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = &sync.Mutex{}
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast sends the notification as JSON to every connection. Writes to
// one connection are serialized.
func (h *Hub) Broadcast(notification *types.Notification) {
	if notification == nil {
		return
	}
	payload, err := sonic.Marshal(notification)
	if err != nil {
		tool.DefaultLogger.Errorf("[NotifyHub] Failed to marshal notification: %v", err)
		return
	}

	h.mu.RLock()
	targets := make(map[*websocket.Conn]*sync.Mutex, len(h.conns))
	for c, m := range h.conns {
		targets[c] = m
	}
	h.mu.RUnlock()

	for conn, writeMu := range targets {
		writeMu.Lock()
		err := conn.WriteMessage(websocket.TextMessage, payload)
		writeMu.Unlock()
		if err != nil {
			tool.DefaultLogger.Debugf("[NotifyHub] Dropping client: %v", err)
			h.Unregister(conn)
		}
	}
}
