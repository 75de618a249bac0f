package client

import (
	"bufio"
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/tomz197/maze/internal/draw"
	"github.com/tomz197/maze/internal/game"
	"github.com/tomz197/maze/internal/input"
	"github.com/tomz197/maze/internal/loop"
	"github.com/tomz197/maze/internal/loop/server"
)

// Client plays one session on one terminal connection.
type Client struct {
	server  server.GameServer
	session *game.Session
	screen  *Screen
	writer  io.Writer
	stream  *input.Stream
	opts    ClientOptions
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Server       server.GameServer // Optional; receives shutdown notices
	Logger       *log.Logger
}

// NewClient creates a client reading keys from r and drawing to w.
func NewClient(sess *game.Session, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Client{
		server:  opts.Server,
		session: sess,
		screen:  NewScreen(w, opts.TermSizeFunc),
		writer:  w,
		stream:  input.StartStream(r),
		opts:    opts,
	}
}

// Run plays until the player quits or disconnects, or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	defer c.stream.Stop()
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	l := &loop.Loop{
		Session:  c.session,
		Keys:     c.stream.Keys(),
		Renderer: c.screen,
		Logger:   c.opts.Logger,
	}

	if c.server != nil {
		handle := c.server.RegisterClient(c.opts.Username)
		defer c.server.UnregisterClient(handle.ID)
		l.Events = handle.EventsCh
	}

	err := l.Run(ctx)

	draw.ClearScreen(c.writer)
	return err
}
