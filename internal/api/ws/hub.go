// Package ws streams room events to WebSocket clients. The feed is one
// way: clients act through the JSON API and only listen here. Private
// events reach only the connections of the player they concern.
package ws

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/quailholm/wolfgame-go/internal/api/middleware"
	"github.com/quailholm/wolfgame-go/internal/dispatch"
	"github.com/quailholm/wolfgame-go/internal/model"
)

// connection is one client socket. Writes are serialized per connection;
// gorilla/websocket does not allow concurrent writers.
type connection struct {
	id       string
	playerID model.PlayerID
	conn     *websocket.Conn
	writeMu  sync.Mutex
}

func (c *connection) write(message []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// Hub fans room events out to their WebSocket subscribers
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	rooms map[model.RoomCode]map[*connection]struct{}
}

var _ dispatch.Dispatcher = (*Hub)(nil)

// NewHub creates a WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger.With(slog.String("component", "ws-hub")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		rooms: make(map[model.RoomCode]map[*connection]struct{}),
	}
}

// Handler upgrades GET /api/v1/rooms/{code}/events. The auth middleware
// runs first, so a session is always on the context.
func (h *Hub) Handler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])
	if sess.RoomCode != code {
		http.Error(w, "session does not belong to this room", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	c := &connection{
		id:       uuid.NewString(),
		playerID: sess.PlayerID,
		conn:     conn,
	}
	h.add(code, c)
	h.logger.Debug("client connected",
		slog.String("room", string(code)),
		slog.String("player", string(sess.PlayerID)),
		slog.String("conn", c.id))

	go h.readLoop(code, c)
}

// readLoop drains inbound frames until the peer goes away. Frames carry
// no meaning on this feed; the loop exists to notice the close.
func (h *Hub) readLoop(code model.RoomCode, c *connection) {
	defer func() {
		h.remove(code, c)
		_ = c.conn.Close()
		h.logger.Debug("client disconnected",
			slog.String("room", string(code)),
			slog.String("conn", c.id))
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast implements dispatch.Dispatcher
func (h *Hub) Broadcast(event model.Event) {
	h.deliver(event, "")
}

// SendToPlayer implements dispatch.Dispatcher
func (h *Hub) SendToPlayer(playerID model.PlayerID, event model.Event) {
	h.deliver(event, playerID)
}

// RoomClosed implements dispatch.Dispatcher. Every connection to the room
// is closed and forgotten.
func (h *Hub) RoomClosed(code model.RoomCode) {
	h.mu.Lock()
	conns := h.rooms[code]
	delete(h.rooms, code)
	h.mu.Unlock()

	for c := range conns {
		_ = c.conn.Close()
	}
	if len(conns) > 0 {
		h.logger.Debug("room connections dropped",
			slog.String("room", string(code)),
			slog.Int("count", len(conns)))
	}
}

// Shutdown closes every connection on every room
func (h *Hub) Shutdown() {
	h.mu.Lock()
	rooms := h.rooms
	h.rooms = make(map[model.RoomCode]map[*connection]struct{})
	h.mu.Unlock()

	for _, conns := range rooms {
		for c := range conns {
			_ = c.conn.Close()
		}
	}
}

// deliver sends an event to the room's connections, or to one player's
// connections when only is set. A failed write drops that connection.
func (h *Hub) deliver(event model.Event, only model.PlayerID) {
	message, err := encodeEvent(event)
	if err != nil {
		h.logger.Error("event encoding failed",
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return
	}

	h.mu.RLock()
	targets := make([]*connection, 0, len(h.rooms[event.RoomCode]))
	for c := range h.rooms[event.RoomCode] {
		if only == "" || c.playerID == only {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(message); err != nil {
			h.logger.Debug("write failed, dropping client",
				slog.String("conn", c.id),
				slog.Any("error", err))
			h.remove(event.RoomCode, c)
			_ = c.conn.Close()
		}
	}
}

func (h *Hub) add(code model.RoomCode, c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[code]; !ok {
		h.rooms[code] = make(map[*connection]struct{})
	}
	h.rooms[code][c] = struct{}{}
}

func (h *Hub) remove(code model.RoomCode, c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[code]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.rooms, code)
		}
	}
}
