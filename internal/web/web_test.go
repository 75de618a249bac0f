package web

import (
	"encoding/json"
	"io"
	"math/rand"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/maze/internal/game"
	"github.com/tomz197/maze/internal/loop"
	"github.com/tomz197/maze/internal/loop/server"
)

// idleClock hands out tickers that never fire.
type idleClock struct{}

type idleTicker struct{ ch chan time.Time }

func (idleClock) NewTicker(time.Duration) game.Ticker { return idleTicker{ch: make(chan time.Time)} }
func (t idleTicker) C() <-chan time.Time               { return t.ch }
func (t idleTicker) Stop()                             {}

// received mirrors ServerMessage with the state decoded loosely.
type received struct {
	Type  string `json:"type"`
	State struct {
		Grid       [][]bool `json:"grid"`
		Items      []any    `json:"items"`
		TotalItems int      `json:"totalItems"`
		Remaining  int      `json:"remaining"`
		State      string   `json:"state"`
	} `json:"state"`
	Message string `json:"message"`
}

func newTestServer(t *testing.T, registry server.GameServer) *httptest.Server {
	t.Helper()
	h := &Handler{
		Server: registry,
		NewSession: func() (*game.Session, error) {
			return game.NewSession(game.DefaultConfig(), rand.New(rand.NewSource(3)), idleClock{})
		},
		Logger:          log.New(io.Discard),
		ShutdownDisplay: 20 * time.Millisecond,
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func next(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg received
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHandlerSendsInitialState(t *testing.T) {
	conn := dial(t, newTestServer(t, nil))

	msg := next(t, conn)
	assert.Equal(t, TypeState, msg.Type)
	assert.Equal(t, "running", msg.State.State)
	assert.Equal(t, 80, msg.State.Remaining)
	assert.Equal(t, 10, msg.State.TotalItems)
	assert.Len(t, msg.State.Items, 10)
	require.Len(t, msg.State.Grid, 30)
	assert.Len(t, msg.State.Grid[0], 30)
	assert.True(t, msg.State.Grid[15][15], "player starts on an open cell")
}

func TestHandlerRendersAfterKeys(t *testing.T) {
	conn := dial(t, newTestServer(t, nil))
	first := next(t, conn)

	// Unknown keys and malformed frames are dropped without a render.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(ClientMessage{Key: "F5"}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Key: "Enter"}))

	msg := next(t, conn)
	assert.Equal(t, TypeState, msg.Type)
	assert.Equal(t, "running", msg.State.State)
	assert.Equal(t, 80, msg.State.Remaining)
	assert.NotEqual(t, first.State.Grid, msg.State.Grid, "reset generates a new maze")
}

func TestHandlerShutdownNotice(t *testing.T) {
	registry := server.NewServer(log.New(io.Discard))
	conn := dial(t, newTestServer(t, registry))
	next(t, conn)
	require.Eventually(t, func() bool { return registry.Clients() == 1 }, time.Second, 5*time.Millisecond)

	done := make(chan bool, 1)
	go func() { done <- registry.Shutdown(2 * time.Second) }()

	msg := next(t, conn)
	assert.Equal(t, TypeNotice, msg.Type)
	assert.Equal(t, loop.ShutdownNotice, msg.Message)

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.True(t, <-done, "client unregisters after the notice")
}

func TestServerMessageJSON(t *testing.T) {
	data, err := json.Marshal(ServerMessage{Type: TypeNotice, Message: "bye"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"notice","message":"bye"}`, string(data))
}
