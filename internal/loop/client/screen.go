package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/tomz197/maze/internal/draw"
	"github.com/tomz197/maze/internal/game"
	"github.com/tomz197/maze/internal/loop/config"
)

// fallback terminal size when the size function fails
const (
	fallbackWidth  = 80
	fallbackHeight = 24
)

const controlsHint = "Arrows/WASD move · Enter restart · Q quit"

// Screen draws session snapshots to a terminal.
type Screen struct {
	chunkWriter  *draw.ChunkWriter // Accumulates the frame for chunked output
	canvas       *draw.Canvas
	termSizeFunc draw.TermSizeFunc

	hudStyle     lipgloss.Style
	endStyle     lipgloss.Style
	endBackStyle lipgloss.Style

	// Previous frame layout; any change triggers a full clear.
	drawn      bool
	prevWidth  int
	prevHeight int
	prevState  game.State
}

// NewScreen creates a screen writing to w. Colours are always emitted
// since w is often an SSH channel rather than a detectable TTY.
func NewScreen(w io.Writer, termSizeFunc draw.TermSizeFunc) *Screen {
	r := lipgloss.NewRenderer(w, termenv.WithProfile(termenv.ANSI256))
	return &Screen{
		chunkWriter:  draw.NewChunkWriter(w),
		canvas:       draw.NewCanvas(r, 0, 0),
		termSizeFunc: termSizeFunc,
		hudStyle:     r.NewStyle().Foreground(draw.ColorPlayer).Bold(true),
		endStyle:     r.NewStyle().Foreground(draw.ColorPlayer).Background(draw.ColorEndBack),
		endBackStyle: r.NewStyle().Background(draw.ColorEndBack),
	}
}

// Render draws one frame: HUD, bordered maze, items and player while running,
// the end message once the session is over.
func (s *Screen) Render(snap game.Snapshot) error {
	width, height := s.termSize()
	cw := s.chunkWriter

	if !s.drawn || width != s.prevWidth || height != s.prevHeight || snap.State != s.prevState {
		cw.ClearScreen()
		s.drawn = true
		s.prevWidth, s.prevHeight, s.prevState = width, height, snap.State
	}

	cols, rows := snap.Cols(), snap.Rows()
	s.canvas.Resize(cols, rows)
	frameWidth := s.canvas.Width() + 2
	frameHeight := s.canvas.Height() + 2 + config.HUDRows
	if width < frameWidth || height < frameHeight {
		msg := fmt.Sprintf("Terminal too small: need %dx%d, have %dx%d", frameWidth, frameHeight, width, height)
		writeCentered(cw, width/2, height/2, msg)
		return cw.Flush()
	}

	left := (width-frameWidth)/2 + 1
	top := (height-frameHeight)/2 + 1
	s.canvas.SetOffset(left, top+config.HUDRows)

	if snap.State.Terminal() {
		s.drawEndScreen(snap.Message)
		return cw.Flush()
	}

	for row, line := range snap.Grid {
		for col, open := range line {
			if !open {
				s.canvas.Set(col, row, draw.PaintWall)
			}
		}
	}
	for _, it := range snap.Items {
		s.canvas.Set(it.Col, it.Row, draw.PaintItem)
	}
	s.canvas.Set(snap.Player.Col, snap.Player.Row, draw.PaintPlayer)

	s.canvas.Render(cw)
	s.canvas.RenderBorder(cw)

	// HUD: timer on the left, item count on the right.
	cw.WriteAt(left, top, s.hudStyle.Render(fmt.Sprintf("Time: %2ds", snap.Remaining)))
	collected := fmt.Sprintf("Items: %d/%d", snap.TotalItems-len(snap.Items), snap.TotalItems)
	cw.WriteAt(left+frameWidth-len(collected), top, s.hudStyle.Render(collected))

	if height >= top+frameHeight {
		writeCentered(cw, left+frameWidth/2, top+frameHeight, controlsHint)
	}

	return cw.Flush()
}

// Notice clears the terminal and shows msg centred.
func (s *Screen) Notice(msg string) error {
	width, height := s.termSize()
	cw := s.chunkWriter
	cw.ClearScreen()
	writeCentered(cw, width/2, height/2, msg)
	s.drawn = false
	return cw.Flush()
}

// drawEndScreen fills the maze area with the dark end background and centres msg on it,
// wrapped to the maze width.
func (s *Screen) drawEndScreen(msg string) {
	cw := s.chunkWriter
	left := s.canvas.OffsetCol() + 1
	top := s.canvas.OffsetRow() + 1
	width := s.canvas.Width()
	height := s.canvas.Height()

	blank := s.endBackStyle.Render(strings.Repeat(" ", width))
	for row := 0; row < height; row++ {
		cw.WriteAt(left, top+row, blank)
	}

	lines := strings.Split(s.endStyle.Width(width).Align(lipgloss.Center).Render(msg), "\n")
	first := top + (height-len(lines))/2
	for i, line := range lines {
		cw.WriteAt(left, first+i, line)
	}
}

func (s *Screen) termSize() (int, int) {
	width, height, err := s.termSizeFunc()
	if err != nil || width <= 0 || height <= 0 {
		return fallbackWidth, fallbackHeight
	}
	return width, height
}

// writeCentered writes msg centred on column centerX of the given row.
func writeCentered(cw *draw.ChunkWriter, centerX, row int, msg string) {
	col := centerX - lipgloss.Width(msg)/2
	if col < 1 {
		col = 1
	}
	if row < 1 {
		row = 1
	}
	cw.WriteAt(col, row, msg)
}
