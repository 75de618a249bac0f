// Package game implements the maze session state machine: movement, item
// collection, the countdown and resets.
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	envconfig "github.com/tomz197/maze/internal/config"
	"github.com/tomz197/maze/internal/input"
	"github.com/tomz197/maze/internal/loop/config"
	"github.com/tomz197/maze/internal/maze"
)

// Configuration errors.
var (
	ErrGridTooSmall    = errors.New("grid is too small")
	ErrItemCount       = errors.New("item count out of range")
	ErrInvalidDuration = errors.New("session duration must be positive")
)

// minDimension is the smallest grid side that still has a room to move into.
const minDimension = 3

// Config holds the session parameters.
type Config struct {
	Cols         int
	Rows         int
	Items        int           // Items placed on every reset
	Duration     int           // Session length in seconds
	TickInterval time.Duration // Real time between two ticks
}

// DefaultConfig returns the standard 600x600 canvas with 20px cells.
func DefaultConfig() Config {
	cols, rows := maze.Dimensions(config.CanvasWidth, config.CanvasHeight, config.CellSize)
	return Config{
		Cols:         cols,
		Rows:         rows,
		Items:        config.ItemCount,
		Duration:     config.SessionSeconds,
		TickInterval: config.TickInterval,
	}
}

// ConfigFromEnv returns DefaultConfig with SESSION_SECONDS and ITEM_COUNT
// overrides applied. The result still has to pass Validate.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.Duration = envconfig.GetEnvInt("SESSION_SECONDS", cfg.Duration)
	cfg.Items = envconfig.GetEnvInt("ITEM_COUNT", cfg.Items)
	return cfg
}

// Start returns the centre cell, where the player begins every session.
func (c Config) Start() maze.Cell {
	return maze.Cell{Col: c.Cols / 2, Row: c.Rows / 2}
}

// Validate checks that a session built from c can always place its items.
func (c Config) Validate() error {
	if c.Cols < minDimension || c.Rows < minDimension {
		return fmt.Errorf("%w: %dx%d", ErrGridTooSmall, c.Cols, c.Rows)
	}
	// The generator always opens every room, so this bound is static.
	if free := maze.RoomCount(c.Cols, c.Rows, c.Start()) - 1; c.Items < 1 || c.Items > free {
		return fmt.Errorf("%w: %d items, at most %d", ErrItemCount, c.Items, free)
	}
	if c.Duration <= 0 || c.TickInterval <= 0 {
		return ErrInvalidDuration
	}
	return nil
}

// Session owns one game: the maze, the player, the items and the countdown.
// It is not safe for concurrent use; a single loop goroutine drives it.
type Session struct {
	cfg    Config
	grid   *maze.Grid
	rng    maze.Rand
	clock  Clock
	ticker Ticker // nil while stopped
	logger *log.Logger

	player    maze.Cell
	items     []maze.Cell
	remaining int
	state     State
	message   string
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession validates cfg and starts a fresh running session.
// A nil rng is seeded from the wall clock; a nil clock uses RealClock.
func NewSession(cfg Config, rng maze.Rand, clock Clock, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if clock == nil {
		clock = RealClock{}
	}

	s := &Session{
		cfg:    cfg,
		grid:   maze.NewGrid(cfg.Cols, cfg.Rows),
		rng:    rng,
		clock:  clock,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Reset()
	return s, nil
}

// Reset regenerates the maze and items and restarts the countdown. Valid in any state.
func (s *Session) Reset() {
	s.stopTicker()

	start := s.cfg.Start()
	s.player = start
	maze.Generate(s.grid, start, s.rng)

	items, err := maze.PlaceItems(s.grid, s.cfg.Items, start, s.rng)
	if err != nil {
		// Unreachable for a validated config.
		s.logger.Error("placing items", "err", err)
	}
	s.items = items

	s.remaining = s.cfg.Duration
	s.message = ""
	s.state = StateRunning
	s.ticker = s.clock.NewTicker(s.cfg.TickInterval)

	s.logger.Debug("session reset", "open", s.grid.OpenCount(), "items", len(s.items), "seconds", s.remaining)
}

// Move steps the player one cell in dir. Walls and the grid edge absorb the move.
func (s *Session) Move(dir Direction) {
	if s.state != StateRunning {
		return
	}

	next := s.player.Add(dir.DC, dir.DR)
	if !s.grid.IsOpen(next) {
		return
	}
	s.player = next

	for i, it := range s.items {
		if it != next {
			continue
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		if len(s.items) == 0 {
			s.finish(StateWon, VictoryMessage)
		}
		return
	}
}

// Tick counts down one second and ends the session when time runs out.
func (s *Session) Tick() {
	if s.state != StateRunning {
		return
	}
	s.remaining--
	if s.remaining <= 0 {
		s.finish(StateTimedOut, TimeoutMessage)
	}
}

// Handle applies a decoded key. Quit and unknown keys are ignored.
func (s *Session) Handle(k input.Key) {
	switch k {
	case input.KeyUp:
		s.Move(Up)
	case input.KeyDown:
		s.Move(Down)
	case input.KeyLeft:
		s.Move(Left)
	case input.KeyRight:
		s.Move(Right)
	case input.KeyReset:
		s.Reset()
	}
}

// Ticks returns the active ticker channel, or nil once the session has ended.
// Receiving from the nil channel blocks forever, which disables the tick case of a select.
func (s *Session) Ticks() <-chan time.Time {
	if s.ticker == nil {
		return nil
	}
	return s.ticker.C()
}

// Close cancels the countdown ticker.
func (s *Session) Close() {
	s.stopTicker()
}

// State returns the current phase.
func (s *Session) State() State {
	return s.state
}

// Player returns the player's cell.
func (s *Session) Player() maze.Cell {
	return s.player
}

// Remaining returns the seconds left on the countdown.
func (s *Session) Remaining() int {
	return s.remaining
}

// Items returns a copy of the uncollected item cells.
func (s *Session) Items() []maze.Cell {
	return append([]maze.Cell{}, s.items...)
}

// Grid returns the maze. Callers must not modify it.
func (s *Session) Grid() *maze.Grid {
	return s.grid
}

// Snapshot copies the state for rendering.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Grid:       s.grid.Matrix(),
		Player:     s.player,
		Items:      s.Items(),
		TotalItems: s.cfg.Items,
		Remaining:  s.remaining,
		State:      s.state,
		Message:    s.message,
	}
}

func (s *Session) finish(state State, msg string) {
	s.state = state
	s.message = msg
	s.stopTicker()
	s.logger.Debug("session ended", "state", state, "remaining", s.remaining, "items", len(s.items))
}

func (s *Session) stopTicker() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}
