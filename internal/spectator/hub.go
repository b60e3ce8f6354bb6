// Package spectator serves live table state to watchers over WebSocket and
// plain HTTP.
package spectator

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/pokerarena/internal/game"
)

// DefaultRecentLog is how many activity log entries each state message carries
const DefaultRecentLog = 50

// Message is what spectators receive on the socket
type Message struct {
	Type  string `json:"type"` // Always "state" for now
	State View   `json:"state"`
}

// View is a published state with the activity log trimmed to recent entries.
// The full log is available from /log.
type View struct {
	game.GameState
	ActivityLog []game.LogEntry `json:"activityLog"`
	LogLength   int             `json:"logLength"`
}

// Hub is a state sink that fans snapshots out to connected spectators. The
// latest snapshot is kept so late joiners and HTTP polling see the table
// straight away.
type Hub struct {
	logger    *log.Logger
	upgrader  websocket.Upgrader
	recent    int
	hideCards bool

	mu      sync.RWMutex
	latest  *game.GameState
	payload []byte
	clients map[*client]struct{}
	closed  bool
}

// Option configures a Hub
type Option func(*Hub)

// WithLogger sets the hub logger
func WithLogger(logger *log.Logger) Option {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithRecentLog sets how many log entries are sent with each state
func WithRecentLog(n int) Option {
	return func(h *Hub) {
		if n >= 0 {
			h.recent = n
		}
	}
}

// WithHiddenCards hides hole cards until showdown, and folded cards always
func WithHiddenCards() Option {
	return func(h *Hub) {
		h.hideCards = true
	}
}

// NewHub creates a hub with no spectators
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		recent:  DefaultRecentLog,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			// Read-only stream; any origin may watch
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	h.logger = h.logger.WithPrefix("spectator")
	return h
}

// Publish implements game.StateSink. It never blocks on slow spectators;
// a spectator whose buffer is full is disconnected.
func (h *Hub) Publish(s game.GameState) {
	if h.hideCards {
		s = hideHoleCards(s)
	}
	payload, err := json.Marshal(Message{Type: "state", State: h.view(s)})
	if err != nil {
		h.logger.Error("Failed to encode state", "version", s.Version, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.latest = &s
	h.payload = payload

	for c := range h.clients {
		if !c.offer(payload) {
			h.logger.Warn("Spectator too slow, disconnecting", "remote", c.remote)
			h.drop(c)
		}
	}
}

// Latest returns the last published state
func (h *Hub) Latest() (game.GameState, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.latest == nil {
		return game.GameState{}, false
	}
	return *h.latest, true
}

// Clients returns the number of connected spectators
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every spectator and stops accepting new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.drop(c)
	}
}

func (h *Hub) view(s game.GameState) View {
	recent := s.ActivityLog.Last(h.recent)
	if recent == nil {
		recent = []game.LogEntry{}
	}
	return View{
		GameState:   s,
		ActivityLog: recent,
		LogLength:   s.ActivityLog.Len(),
	}
}

// register adds c and queues the latest state for it. It reports false once
// the hub is closed.
func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	if h.payload != nil {
		c.offer(h.payload)
	}
	h.logger.Info("Spectator connected", "remote", c.remote, "total", len(h.clients))
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		h.drop(c)
		h.logger.Info("Spectator disconnected", "remote", c.remote, "total", len(h.clients))
	}
}

// drop must be called with mu held
func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	c.close()
}

// hideHoleCards leaves only the hands shown down visible
func hideHoleCards(s game.GameState) game.GameState {
	players := make([]game.Player, len(s.Players))
	copy(players, s.Players)
	for i := range players {
		if s.Phase != game.PhaseShowdown || !players[i].IsActive {
			players[i].Hand = nil
		}
	}
	s.Players = players
	return s
}
