package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"heritage/appstate"
	"heritage/sessions"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client is one websocket connection following a visitor session.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
	Room string
}

type broadcastMsg struct {
	Room string
	Data []byte
}

// outboundPayload is what every client of a session receives after a
// state change.
type outboundPayload struct {
	Action    string         `json:"action"`
	State     appstate.State `json:"state"`
	CartCount int            `json:"cartCount"`
	Subtotal  int64          `json:"subtotal"`
	Timestamp int64          `json:"timestamp"`
}

// Hub fans state updates out to the connections of each session. Rooms
// are keyed by session id.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	quit       chan struct{}
	done       chan struct{}
	mu         sync.Mutex
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg, 256),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.Room] == nil {
				h.rooms[c.Room] = make(map[*Client]bool)
			}
			h.rooms[c.Room][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(c)
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.rooms[m.Room] {
				select {
				case c.Send <- m.Data:
				default:
					h.removeLocked(c)
				}
			}
			h.mu.Unlock()

		case <-h.quit:
			h.mu.Lock()
			for _, conns := range h.rooms {
				for c := range conns {
					h.removeLocked(c)
				}
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) removeLocked(c *Client) {
	conns := h.rooms[c.Room]
	if conns == nil || !conns[c] {
		return
	}
	delete(conns, c)
	close(c.Send)
	if len(conns) == 0 {
		delete(h.rooms, c.Room)
	}
}

// Stop closes every connection and ends Run.
func (h *Hub) Stop() {
	select {
	case <-h.quit:
	default:
		close(h.quit)
	}
	<-h.done
}

// Publish queues st for every connection of the session. It never blocks:
// when the queue is full the update is dropped and the next one catches
// the clients up.
func (h *Hub) Publish(sessionID string, st appstate.State) {
	data, err := json.Marshal(outboundPayload{
		Action:    "state",
		State:     st,
		CartCount: st.CartCount(),
		Subtotal:  st.CartSubtotal(),
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		h.log.Error().Err(err).Msg("encode state update")
		return
	}
	select {
	case h.broadcast <- broadcastMsg{Room: sessionID, Data: data}:
	default:
		h.log.Warn().Str("session_id", sessionID).Msg("state update dropped, hub busy")
	}
}

// Connections is the number of open connections for a session.
func (h *Hub) Connections(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[sessionID])
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// SetAllowedOrigins restricts websocket upgrades to the CORS origins. An
// empty list or "*" accepts any origin.
func SetAllowedOrigins(origins []string) {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			upgrader.CheckOrigin = func(*http.Request) bool { return true }
			return
		}
		allowed[o] = true
	}
	if len(allowed) == 0 {
		upgrader.CheckOrigin = func(*http.Request) bool { return true }
		return
	}
	upgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}

// WebSocketHandler serves GET /api/session/stream. The first message is
// the current state; later ones follow every dispatch.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		sess, ok := sessions.FromContext(r.Context())
		if !ok {
			http.Error(w, "no session", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		client := &Client{
			Conn: conn,
			Send: make(chan []byte, 16),
			Room: sess.ID,
		}

		select {
		case hub.register <- client:
		case <-hub.quit:
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
			conn.Close()
			return
		}
		go writePump(client)
		go readPump(client, hub)

		hub.Publish(sess.ID, sess.Store.State())
	}
}

func writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for the client going away; state changes come in
// through the REST endpoints.
func readPump(c *Client, hub *Hub) {
	defer func() {
		select {
		case hub.unregister <- c:
		case <-hub.quit:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
