// Package stream serves read-only simulation snapshots to external
// renderers over websocket. The simulation loop publishes frames at a
// configured interval; slow or broken clients lose frames rather than
// ever blocking the loop.
package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/ripple/fluid"
)

// Frame is one broadcast snapshot.
type Frame struct {
	Tick      int32                 `json:"tick"`
	Particles []fluid.ParticleState `json:"particles"`
}

// writeTimeout bounds how long a single write to a client may take
// inside its writer goroutine.
const writeTimeout = 200 * time.Millisecond

// sendBuffer is the per-client frame backlog. When it fills, further
// frames are dropped for that client until its writer catches up.
const sendBuffer = 8

// client pairs a connection with its buffered outgoing queue. All
// writes happen on the client's own writer goroutine so the publisher
// never touches the socket.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server accepts websocket clients and pushes the latest published
// frame to each of them.
type Server struct {
	addr     string
	interval time.Duration
	upgrader websocket.Upgrader

	mu       sync.Mutex
	clients  map[*client]bool
	lastSent time.Time
	dropped  int

	httpSrv *http.Server
}

// NewServer creates a snapshot server listening on addr, broadcasting
// at most once per interval.
func NewServer(addr string, interval time.Duration) *Server {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return &Server{
		addr:     addr,
		interval: interval,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]bool),
	}
}

// Run starts the HTTP listener. Blocks until the server is closed;
// intended for its own goroutine.
func (s *Server) Run() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	s.httpSrv = &http.Server{Addr: s.addr, Handler: mux}
	slog.Info("snapshot stream listening", "addr", s.addr)

	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Close shuts down the listener and disconnects all clients.
func (s *Server) Close() {
	if s.httpSrv != nil {
		s.httpSrv.Close()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
		c.conn.Close()
	}
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// DroppedFrames returns how many per-client frame sends were skipped
// because a client's queue was full.
func (s *Server) DroppedFrames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Publish broadcasts a frame to all clients, throttled to the
// configured interval. The frame is marshaled once and handed to each
// client's queue with a non-blocking send, so Publish never waits on a
// socket and the caller may reuse its snapshot buffer afterwards.
func (s *Server) Publish(frame Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.clients) == 0 {
		return
	}
	now := time.Now()
	if now.Sub(s.lastSent) < s.interval {
		return
	}
	s.lastSent = now

	payload, err := json.Marshal(frame)
	if err != nil {
		slog.Error("marshaling snapshot frame", "error", err)
		return
	}

	for c := range s.clients {
		select {
		case c.send <- payload:
		default:
			s.dropped++
		}
	}
}

// remove unregisters a client and closes its queue and connection.
// Safe to call from both the reader and writer goroutines; only the
// first call does anything.
func (s *Server) remove(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.clients[c] {
		return
	}
	delete(s.clients, c)
	close(c.send)
	c.conn.Close()
}

// handleWS upgrades a connection and registers it for broadcasts.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	s.mu.Lock()
	s.clients[c] = true
	count := len(s.clients)
	s.mu.Unlock()

	slog.Info("stream client connected", "remote", conn.RemoteAddr().String(), "clients", count)

	go s.writePump(c)
	go s.readPump(c)
}

// writePump drains the client's queue onto its socket. A failed or
// timed-out write unregisters the client.
func (s *Server) writePump(c *client) {
	for payload := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			slog.Info("dropping slow stream client", "error", err)
			s.remove(c)
			return
		}
	}
}

// readPump consumes and discards client messages to notice disconnects.
func (s *Server) readPump(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			s.remove(c)
			return
		}
	}
}
