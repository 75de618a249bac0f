// Package loop drives a game session from key presses and countdown ticks.
package loop

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/maze/internal/game"
	"github.com/tomz197/maze/internal/input"
	"github.com/tomz197/maze/internal/loop/config"
	"github.com/tomz197/maze/internal/loop/server"
)

// ShutdownNotice is shown when the server is going down.
const ShutdownNotice = "Server is shutting down. Thanks for playing!"

// Renderer presents session state. Implementations never mutate the session.
type Renderer interface {
	Render(snap game.Snapshot) error
	Notice(msg string) error
}

// Loop serializes keys, ticks and server events onto one goroutine.
type Loop struct {
	Session  *game.Session
	Keys     <-chan input.Key
	Events   <-chan server.ClientEvent // Optional
	Renderer Renderer
	Logger   *log.Logger // Optional

	// ShutdownDisplay is how long the shutdown notice stays up.
	// Zero means config.ShutdownDisplay.
	ShutdownDisplay time.Duration
}

// Run renders the initial state, then handles events until the player quits,
// the key channel closes, the context is cancelled, or a shutdown notice has
// been displayed. Each key or tick is followed by exactly one render.
// The session's ticker is stopped on return.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Session.Close()

	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}
	display := l.ShutdownDisplay
	if display == 0 {
		display = config.ShutdownDisplay
	}

	if err := l.Renderer.Render(l.Session.Snapshot()); err != nil {
		return err
	}

	events := l.Events
	var shutdown <-chan time.Time // armed once the shutdown notice is up

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-shutdown:
			return nil

		case k, ok := <-l.Keys:
			if !ok || k == input.KeyQuit {
				return nil
			}
			if shutdown != nil {
				continue
			}
			prev := l.Session.State()
			l.Session.Handle(k)
			if state := l.Session.State(); state != prev {
				logger.Debug("state changed", "from", prev, "to", state, "key", k)
			}

		case <-l.Session.Ticks():
			l.Session.Tick()
			if state := l.Session.State(); state.Terminal() {
				logger.Debug("state changed", "to", state)
			}

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Type == server.EventServerShutdown && shutdown == nil {
				l.Session.Close()
				if err := l.Renderer.Notice(ShutdownNotice); err != nil {
					return err
				}
				shutdown = time.After(display)
			}
			continue
		}

		if err := l.Renderer.Render(l.Session.Snapshot()); err != nil {
			return err
		}
	}
}
