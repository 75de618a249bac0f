// Package server keeps track of connected players so a shutdown can reach all of them.
// Every connection plays its own session; nothing else is shared.
package server

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// GameServer is the interface clients use to announce themselves.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID uuid.UUID)
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID        uuid.UUID
	Username  string
	Connected time.Time
	EventsCh  chan ClientEvent // Events sent to the client; closed on unregister
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
)

// Server tracks connected clients.
type Server struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*ClientHandle
	logger  *log.Logger
}

// NewServer creates an empty registry. A nil logger uses the default logger.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		clients: make(map[uuid.UUID]*ClientHandle),
		logger:  logger,
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	handle := &ClientHandle{
		ID:        uuid.New(),
		Username:  username,
		Connected: time.Now(),
		EventsCh:  make(chan ClientEvent, 4),
	}

	s.mu.Lock()
	s.clients[handle.ID] = handle
	n := len(s.clients)
	s.mu.Unlock()

	s.logger.Info("client registered", "id", handle.ID, "user", username, "clients", n)
	return handle
}

// UnregisterClient removes a client and closes its event channel. Unknown IDs are ignored.
func (s *Server) UnregisterClient(clientID uuid.UUID) {
	s.mu.Lock()
	handle, ok := s.clients[clientID]
	if ok {
		delete(s.clients, clientID)
		close(handle.EventsCh)
	}
	n := len(s.clients)
	s.mu.Unlock()

	if ok {
		s.logger.Info("client unregistered", "id", clientID, "user", handle.Username,
			"played", time.Since(handle.Connected).Round(time.Second), "clients", n)
	}
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Shutdown notifies all connected clients and waits for them to disconnect,
// up to the given timeout. Reports whether every client left in time.
func (s *Server) Shutdown(timeout time.Duration) bool {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if s.Clients() == 0 {
			return true
		}
		select {
		case <-deadline:
			s.logger.Warn("shutdown timed out", "clients", s.Clients())
			return false
		case <-ticker.C:
		}
	}
}
