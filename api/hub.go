package api

import (
	"net/http"
	"sync"

	"bauernschach/engine"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Hub fans engine events out to the connected websocket clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the renderer may be served from another port
	},
}

type message struct {
	Action string `json:"action"`
	Data   any    `json:"data"`
}

// Upgrade turns the request into a websocket connection.
func (h *Hub) Upgrade(c *gin.Context) (*websocket.Conn, error) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("failed to upgrade connection")
		return nil, err
	}
	return conn, nil
}

// Join sends greeting as a "state" message and registers conn for
// broadcasts. Callers serialize it against the events that follow greeting.
func (h *Hub) Join(conn *websocket.Conn, greeting any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := conn.WriteJSON(message{Action: "state", Data: greeting}); err != nil {
		log.Warn().Err(err).Msg("failed to send state")
		_ = conn.Close()
		return err
	}
	h.clients[conn] = struct{}{}
	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("websocket client connected")
	return nil
}

// Listen blocks until the client goes away, then unregisters it.
func (h *Hub) Listen(conn *websocket.Conn) {
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		_ = conn.Close()
		log.Info().Str("remote", conn.RemoteAddr().String()).Msg("websocket client disconnected")
	}()

	// Clients only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends one message to every client, dropping clients that fail.
func (h *Hub) Broadcast(action string, data any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(message{Action: action, Data: data}); err != nil {
			log.Warn().Err(err).Msg("failed to send message")
			_ = conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Notify implements engine.Notifier.
func (h *Hub) Notify(ev engine.Event) {
	h.Broadcast(string(ev.Type), ev)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
