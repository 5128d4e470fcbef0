package main

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// transcriptEvent is the union of the partial and final transcript events.
type transcriptEvent struct {
	EventType     string  `json:"eventType"`
	StreamID      string  `json:"streamId"`
	Provider      string  `json:"provider"`
	SessionID     string  `json:"sessionId,omitempty"`
	SegmentID     string  `json:"segmentId"`
	Text          string  `json:"text"`
	Confidence    float64 `json:"confidence,omitempty"`
	AudioOffsetMs int64   `json:"audioOffsetMs,omitempty"`
	Timestamp     int64   `json:"timestamp"`
}

// hub fans transcript events out to every connected browser.
type hub struct {
	log zerolog.Logger

	broadcast  chan transcriptEvent
	register   chan *websocket.Conn
	unregister chan *websocket.Conn

	mu      sync.RWMutex
	clients map[*websocket.Conn]struct{}
}

func newHub(log zerolog.Logger) *hub {
	return &hub{
		log:        log,
		clients:    make(map[*websocket.Conn]struct{}),
		broadcast:  make(chan transcriptEvent, 100),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *hub) run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = struct{}{}
			h.mu.Unlock()
			h.log.Info().Int("clients", h.count()).Msg("Client connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()
			h.log.Info().Int("clients", h.count()).Msg("Client disconnected")

		case event := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteJSON(event); err != nil {
					h.log.Warn().Err(err).Msg("Write failed, dropping client")
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

var upgrader = websocket.Upgrader{
	// local dev only
	CheckOrigin: func(*http.Request) bool { return true },
}

func (h *hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	h.register <- conn

	go func() {
		defer func() { h.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
