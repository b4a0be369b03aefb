// Package server exposes the session core over a local HTTP API: REST
// endpoints for control and a websocket feed of session snapshots for UI
// clients. It is a thin boundary; every state transition goes through the
// session controller.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"focusd/internal/session"
)

const (
	pingInterval  = 30 * time.Second
	readDeadline  = 60 * time.Second
	writeDeadline = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Localhost service; origin checks add nothing here.
	},
}

// Server broadcasts session snapshots to websocket clients and routes REST
// control requests to the session controller.
type Server struct {
	ctrl      *session.Controller
	clients   map[*client]bool
	clientsMu sync.RWMutex
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	server *Server
}

// frame is one websocket message. A nil session means nothing is active.
type frame struct {
	Type    string            `json:"type"`
	Session *session.Snapshot `json:"session"`
}

type startRequest struct {
	DurationMS  int64  `json:"duration_ms"`
	ActivityID  string `json:"activity_id,omitempty"`
	MusicChoice string `json:"music_choice,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a status server and hooks the controller's change feed.
func New(ctrl *session.Controller) *Server {
	s := &Server{
		ctrl:    ctrl,
		clients: make(map[*client]bool),
	}
	ctrl.OnChange = s.Broadcast
	return s
}

// Handler returns an http.Handler with all routes configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// WebSocket endpoint.
	mux.HandleFunc("/ws", s.handleWebSocket)

	// REST API endpoints.
	mux.HandleFunc("GET /session", s.handleGetSession)
	mux.HandleFunc("POST /session", s.handleStartSession)
	mux.HandleFunc("POST /session/pause", s.handlePause)
	mux.HandleFunc("POST /session/resume", s.handleResume)
	mux.HandleFunc("DELETE /session", s.handleStopSession)
	mux.HandleFunc("POST /tick", s.handleTick)

	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, frame{Type: "session", Session: s.ctrl.Current()})
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	snap, err := s.ctrl.Start(time.Duration(req.DurationMS)*time.Millisecond, req.ActivityID, req.MusicChoice)
	switch {
	case errors.Is(err, session.ErrInvalidDuration):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	case errors.Is(err, session.ErrSessionActive):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, frame{Type: "session", Session: snap})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	snap, err := s.ctrl.Pause()
	if err != nil {
		writeControlError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, frame{Type: "session", Session: snap})
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	snap, err := s.ctrl.Resume()
	if err != nil {
		writeControlError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, frame{Type: "session", Session: snap})
}

func (s *Server) handleStopSession(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.Stop(); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTick lets an external host scheduler (cron, systemd timer, launchd)
// drive re-evaluation through HTTP instead of the CLI.
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	outcome := s.ctrl.OnBackgroundTick(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"outcome": outcome.String()})
}

func writeControlError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrNoSession) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// Broadcast pushes a snapshot frame to every connected client. Slow clients
// are skipped, not waited on.
func (s *Server) Broadcast(snap *session.Snapshot) {
	data, err := json.Marshal(frame{Type: "session", Session: snap})
	if err != nil {
		return
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// handleWebSocket upgrades an HTTP connection to WebSocket.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade error: %v", err)
		return
	}

	c := &client{
		conn:   conn,
		send:   make(chan []byte, 64),
		server: s,
	}

	s.clientsMu.Lock()
	s.clients[c] = true
	s.clientsMu.Unlock()

	// Send the current state to the new client immediately.
	if data, err := json.Marshal(frame{Type: "session", Session: s.ctrl.Current()}); err == nil {
		c.send <- data
	}

	go c.writePump()
	go c.readPump()
}

// readPump discards inbound messages; the feed is one-way. It exists to
// notice disconnects and answer pings.
func (c *client) readPump() {
	defer func() {
		c.server.removeClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read error: %v", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) removeClient(c *client) {
	s.clientsMu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	s.clientsMu.Unlock()
}
