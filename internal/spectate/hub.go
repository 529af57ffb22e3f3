package spectate

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"asteroids/internal/game"
	"asteroids/internal/telemetry"
)

// ScoreSource supplies the high-score table served at /scores.
type ScoreSource interface {
	TopScores(limit int) ([]telemetry.HighScore, error)
}

type Options struct {
	MaxConns      int
	MaxConnsPerIP int
}

// Hub tracks connected spectators and broadcasts telemetry frames to them.
type Hub struct {
	runID string
	log   *zap.Logger
	opts  Options

	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	// Connection limiting (accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int

	auth   *Auth
	scores ScoreSource
}

var _ game.Telemetry = (*Hub)(nil)

func NewHub(runID string, opts Options, auth *Auth, scores ScoreSource, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		runID:      runID,
		log:        log,
		opts:       opts,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		ipConns:    make(map[string]int),
		auth:       auth,
		scores:     scores,
	}
}

// enlist hands c to Run. It reports false once Run has returned.
func (h *Hub) enlist(c *Client) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= h.opts.MaxConns {
		return false
	}
	if h.ipConns[ip] >= h.opts.MaxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes registrations and broadcasts until ctx is done, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				c.Send(msg)
			}
			h.mu.RUnlock()

		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) RecordEvent(e game.Event) {
	h.publish(telemetry.EventFrame(h.runID, e))
}

func (h *Hub) RecordSnapshot(s game.Snapshot) {
	h.publish(telemetry.SnapshotFrame(h.runID, s))
}

// publish encodes f and queues it without blocking the caller.
func (h *Hub) publish(f telemetry.Frame) {
	if h.ClientCount() == 0 {
		return
	}
	data, err := telemetry.EncodeFrame(f)
	if err != nil {
		h.log.Warn("encode spectator frame", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- data:
	default:
		// spectators are best effort
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
