// Package observer implements an optional, read-only live view of a
// running simulation: a single WebSocket endpoint that broadcasts a JSON
// snapshot of the particle array after each step. It never reads anything
// back from the client and never touches the simulation's own state, so
// turning it on or off cannot affect a run's determinism.
package observer

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/particle"
)

const (
	writeWait        = 1 * time.Second
	minPublishPeriod = 200 * time.Millisecond
)

var upgrader = websocket.Upgrader{}

// snapshot is the wire shape pushed to every connected client.
type snapshot struct {
	Step      int                  `json:"step"`
	Particles []particle.Particle `json:"particles"`
}

// Server broadcasts Publish calls to every connected WebSocket client on
// /ws. The zero value is not usable; construct with New.
type Server struct {
	addr string

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	last time.Time
}

// New returns a Server that will listen on addr once Serve is called.
func New(addr string) *Server {
	return &Server{addr: addr, clients: make(map[*websocket.Conn]struct{})}
}

// Serve blocks, serving the /ws endpoint until the process exits or
// ListenAndServe fails.
func (s *Server) Serve() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWebsocket)
	if err := http.ListenAndServe(s.addr, mux); err != nil {
		return fmt.Errorf("observer: serve: %w", err)
	}
	return nil
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("observer: upgrade: %v", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	// This endpoint is publish-only; block on reads purely to notice the
	// client going away (a closed connection errors the read).
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish is a disksim.StepObserver: it broadcasts state for step to every
// connected client, dropping the update if the minimum publish interval
// hasn't elapsed since the last one, so a burst of fast steps can't starve
// slow clients or stall the simulation waiting on a write.
func (s *Server) Publish(step int, state []particle.Particle) {
	s.mu.Lock()
	if time.Since(s.last) < minPublishPeriod {
		s.mu.Unlock()
		return
	}
	s.last = time.Now()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	if len(conns) == 0 {
		return
	}

	snap := snapshot{Step: step, Particles: append([]particle.Particle(nil), state...)}
	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("observer: marshal snapshot: %v", err)
		return
	}

	for _, c := range conns {
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("observer: write: %v", err)
		}
	}
}
