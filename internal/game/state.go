package game

import (
	"github.com/tomz197/maze/internal/maze"
)

// State represents the session phase.
type State int

const (
	StateRunning  State = iota // Player can move, timer ticks
	StateWon                   // All items collected
	StateTimedOut              // Countdown reached zero
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateWon:
		return "won"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name for JSON snapshots.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether the state freezes the session until a reset.
func (s State) Terminal() bool {
	return s == StateWon || s == StateTimedOut
}

// End-screen messages.
const (
	VictoryMessage = "Victory! Press Enter to play again."
	TimeoutMessage = "Time's up! Press Enter to play again."
)

// Direction is a cardinal step on the grid.
type Direction struct {
	DC, DR int
}

var (
	Up    = Direction{DC: 0, DR: -1}
	Down  = Direction{DC: 0, DR: 1}
	Left  = Direction{DC: -1, DR: 0}
	Right = Direction{DC: 1, DR: 0}
)

// Snapshot is a read-only copy of the session handed to renderers.
type Snapshot struct {
	Grid       [][]bool    `json:"grid"` // [row][col], true if open
	Player     maze.Cell   `json:"player"`
	Items      []maze.Cell `json:"items"`
	TotalItems int         `json:"totalItems"`
	Remaining  int         `json:"remaining"`
	State      State       `json:"state"`
	Message    string      `json:"message"`
}

// Cols returns the grid width.
func (s Snapshot) Cols() int {
	if len(s.Grid) == 0 {
		return 0
	}
	return len(s.Grid[0])
}

// Rows returns the grid height.
func (s Snapshot) Rows() int {
	return len(s.Grid)
}
