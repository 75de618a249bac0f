package client

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/maze/internal/draw"
	"github.com/tomz197/maze/internal/game"
	"github.com/tomz197/maze/internal/maze"
)

var sgr = regexp.MustCompile("\x1b\\[[0-9;]*m")

func plain(b *bytes.Buffer) string {
	return sgr.ReplaceAllString(b.String(), "")
}

func snapshot(state game.State) game.Snapshot {
	grid := make([][]bool, 30)
	for row := range grid {
		grid[row] = make([]bool, 30)
		for col := range grid[row] {
			grid[row][col] = row%2 == 1 || col%2 == 1
		}
	}
	snap := game.Snapshot{
		Grid:       grid,
		Player:     maze.Cell{Col: 15, Row: 15},
		Items:      []maze.Cell{{Col: 1, Row: 1}, {Col: 3, Row: 5}},
		TotalItems: 10,
		Remaining:  80,
		State:      state,
	}
	switch state {
	case game.StateWon:
		snap.Message = game.VictoryMessage
	case game.StateTimedOut:
		snap.Message = game.TimeoutMessage
	}
	return snap
}

func TestScreenRenderRunning(t *testing.T) {
	var out bytes.Buffer
	s := NewScreen(&out, draw.FixedSize(80, 24))

	require.NoError(t, s.Render(snapshot(game.StateRunning)))
	got := plain(&out)
	assert.Contains(t, got, "\033[H\033[2J", "first frame clears the screen")
	assert.Contains(t, got, "Time: 80s")
	assert.Contains(t, got, "Items: 8/10")
	assert.Contains(t, got, "┌")
	assert.Contains(t, got, controlsHint)
	assert.NotContains(t, got, "too small")

	out.Reset()
	require.NoError(t, s.Render(snapshot(game.StateRunning)))
	assert.NotContains(t, plain(&out), "\033[2J", "unchanged layout is drawn over")
}

func TestScreenRenderTooSmall(t *testing.T) {
	var out bytes.Buffer
	s := NewScreen(&out, draw.FixedSize(20, 10))

	require.NoError(t, s.Render(snapshot(game.StateRunning)))
	got := plain(&out)
	assert.Contains(t, got, "Terminal too small: need 32x18, have 20x10")
	assert.NotContains(t, got, "Time:")
}

func TestScreenRenderEndScreens(t *testing.T) {
	tests := []struct {
		state game.State
		want  string
	}{
		{game.StateWon, "Victory!"},
		{game.StateTimedOut, "Time's up!"},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			var out bytes.Buffer
			s := NewScreen(&out, draw.FixedSize(80, 24))

			require.NoError(t, s.Render(snapshot(tt.state)))
			got := plain(&out)
			assert.Contains(t, got, tt.want)
			assert.Contains(t, got, "again.")
			assert.NotContains(t, got, "Time:", "HUD is hidden once the session ends")
		})
	}
}

func TestScreenClearsOnStateChange(t *testing.T) {
	var out bytes.Buffer
	s := NewScreen(&out, draw.FixedSize(80, 24))
	require.NoError(t, s.Render(snapshot(game.StateRunning)))

	out.Reset()
	require.NoError(t, s.Render(snapshot(game.StateWon)))
	assert.Contains(t, plain(&out), "\033[2J")
}

func TestScreenNotice(t *testing.T) {
	var out bytes.Buffer
	s := NewScreen(&out, draw.FixedSize(80, 24))

	require.NoError(t, s.Notice("Server is shutting down."))
	got := plain(&out)
	assert.Contains(t, got, "\033[2J")
	assert.Contains(t, got, "\033[12;28HServer is shutting down.")
}
