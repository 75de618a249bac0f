package server

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietServer() *Server {
	return NewServer(log.New(io.Discard))
}

func TestRegisterUnregister(t *testing.T) {
	s := quietServer()
	a := s.RegisterClient("alice")
	b := s.RegisterClient("bob")

	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "alice", a.Username)
	assert.Equal(t, 2, s.Clients())

	s.UnregisterClient(a.ID)
	assert.Equal(t, 1, s.Clients())
	_, open := <-a.EventsCh
	assert.False(t, open, "events channel closes on unregister")

	// Second unregister and unknown IDs are no-ops.
	s.UnregisterClient(a.ID)
	s.UnregisterClient(uuid.New())
	assert.Equal(t, 1, s.Clients())
}

func TestShutdownNotifiesClients(t *testing.T) {
	s := quietServer()
	h := s.RegisterClient("carol")

	go func() {
		ev := <-h.EventsCh
		if ev.Type == EventServerShutdown {
			s.UnregisterClient(h.ID)
		}
	}()

	require.True(t, s.Shutdown(time.Second))
	assert.Zero(t, s.Clients())
}

func TestShutdownTimesOut(t *testing.T) {
	s := quietServer()
	s.RegisterClient("dave")

	start := time.Now()
	assert.False(t, s.Shutdown(100*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, 1, s.Clients())
}

func TestShutdownWithoutClients(t *testing.T) {
	assert.True(t, quietServer().Shutdown(time.Second))
}
