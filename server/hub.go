package server

import (
	"encoding/json"
	"sync"
)

// Hub fans session updates out to the websocket clients watching them.
type Hub struct {
	mu        sync.Mutex
	clients   map[string]map[*Client]struct{}
	broadcast chan sessionMessage
}

type Client struct {
	session string
	send    chan []byte
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type sessionMessage struct {
	session string
	msg     wsMessage
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[string]map[*Client]struct{}),
		broadcast: make(chan sessionMessage, 32),
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case m := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[m.session] {
				client.sendJSON(m.msg)
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.clients[c.session] == nil {
		h.clients[c.session] = make(map[*Client]struct{})
	}
	h.clients[c.session][c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if watchers, ok := h.clients[c.session]; ok {
		if _, ok := watchers[c]; ok {
			delete(watchers, c)
			close(c.send)
		}
		if len(watchers) == 0 {
			delete(h.clients, c.session)
		}
	}
	h.mu.Unlock()
}

// Watchers counts the clients of one session.
func (h *Hub) Watchers(session string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[session])
}

// Publish queues msg for every watcher of session. It drops the message
// rather than block when the hub is backed up.
func (h *Hub) Publish(session, typ string, payload any) {
	select {
	case h.broadcast <- sessionMessage{session: session, msg: wsMessage{Type: typ, Payload: mustMarshal(payload)}}:
	default:
	}
}

func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
