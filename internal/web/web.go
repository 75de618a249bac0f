// Package web serves maze sessions to browsers over websockets.
//
// The browser sends key names ({"key":"ArrowUp"}) and receives the session
// state after every key and tick ({"type":"state","state":{...}}), plus
// notices ({"type":"notice","message":"..."}) when the server goes down.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/tomz197/maze/internal/game"
	"github.com/tomz197/maze/internal/input"
	"github.com/tomz197/maze/internal/loop"
	"github.com/tomz197/maze/internal/loop/server"
)

const writeTimeout = 5 * time.Second

// Message types sent to the browser.
const (
	TypeState  = "state"
	TypeNotice = "notice"
)

// ServerMessage is one frame sent to the browser.
type ServerMessage struct {
	Type    string         `json:"type"`
	State   *game.Snapshot `json:"state,omitempty"`
	Message string         `json:"message,omitempty"`
}

// ClientMessage is one key press sent by the browser.
type ClientMessage struct {
	Key string `json:"key"`
}

// Handler upgrades requests to websockets and plays one session per connection.
type Handler struct {
	Server     server.GameServer // Optional; receives shutdown notices
	NewSession func() (*game.Session, error)
	Logger     *log.Logger // Optional

	// ShutdownDisplay is passed to the loop; zero uses its default.
	ShutdownDisplay time.Duration

	upgrader websocket.Upgrader
}

// ServeHTTP plays a session until the socket closes or the server shuts down.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.Logger
	if logger == nil {
		logger = log.Default()
	}

	sess, err := h.NewSession()
	if err != nil {
		logger.Error("cannot create session", "err", err)
		http.Error(w, "cannot create session", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		sess.Close()
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	keys := make(chan input.Key)
	go readKeys(ctx, conn, keys, logger)

	l := &loop.Loop{
		Session:         sess,
		Keys:            keys,
		Renderer:        &socketRenderer{conn: conn},
		Logger:          logger,
		ShutdownDisplay: h.ShutdownDisplay,
	}
	if h.Server != nil {
		handle := h.Server.RegisterClient(r.RemoteAddr)
		defer h.Server.UnregisterClient(handle.ID)
		l.Events = handle.EventsCh
	}

	if err := l.Run(ctx); err != nil {
		logger.Debug("session ended", "remote", r.RemoteAddr, "err", err)
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

// readKeys forwards recognised key names until the socket fails, then closes keys.
func readKeys(ctx context.Context, conn *websocket.Conn, keys chan<- input.Key, logger *log.Logger) {
	defer close(keys)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Debug("ignoring malformed message", "err", err)
			continue
		}
		k, ok := input.KeyFromName(msg.Key)
		if !ok {
			continue
		}
		select {
		case keys <- k:
		case <-ctx.Done():
			return
		}
	}
}

// socketRenderer sends snapshots as JSON frames. Only the loop goroutine writes.
type socketRenderer struct {
	conn *websocket.Conn
}

func (s *socketRenderer) Render(snap game.Snapshot) error {
	return s.send(ServerMessage{Type: TypeState, State: &snap})
}

func (s *socketRenderer) Notice(msg string) error {
	return s.send(ServerMessage{Type: TypeNotice, Message: msg})
}

func (s *socketRenderer) send(m ServerMessage) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(m)
}
