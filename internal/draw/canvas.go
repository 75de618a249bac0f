package draw

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Paint is what occupies one canvas cell.
type Paint uint8

const (
	PaintFloor Paint = iota
	PaintWall
	PaintItem
	PaintPlayer
	paintCount
)

// Colours taken from the browser version of the game.
const (
	ColorWall    = lipgloss.Color("#00E600")
	ColorItem    = lipgloss.Color("#FFFF00")
	ColorPlayer  = lipgloss.Color("#BE3CFA")
	ColorBorder  = lipgloss.Color("#00D000")
	ColorEndBack = lipgloss.Color("#080808")
)

var paintColors = [paintCount]lipgloss.Color{
	PaintWall:   ColorWall,
	PaintItem:   ColorItem,
	PaintPlayer: ColorPlayer,
}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// One cell is one column wide and half a row tall, which keeps cells roughly square.
type Canvas struct {
	cols  int
	rows  int
	cells []Paint // Flat slice: [row * cols + col]

	// 0-based terminal offsets of the top-left cell (border excluded).
	offsetCol int
	offsetRow int

	// Style and glyph for every (top, bottom) pair of paints.
	pairStyles [paintCount][paintCount]lipgloss.Style
	pairGlyphs [paintCount][paintCount]string
	border     lipgloss.Style

	rowBuf strings.Builder // Reused per rendered row
}

// NewCanvas creates a canvas of cols x rows cells styled by r.
func NewCanvas(r *lipgloss.Renderer, cols, rows int) *Canvas {
	c := &Canvas{
		border: r.NewStyle().Foreground(ColorBorder),
	}
	for top := Paint(0); top < paintCount; top++ {
		for bottom := Paint(0); bottom < paintCount; bottom++ {
			c.pairStyles[top][bottom], c.pairGlyphs[top][bottom] = pairStyle(r, top, bottom)
		}
	}
	c.Resize(cols, rows)
	return c
}

// pairStyle picks the half-block glyph and colours showing top above bottom.
// Floor is left to the terminal background.
func pairStyle(r *lipgloss.Renderer, top, bottom Paint) (lipgloss.Style, string) {
	s := r.NewStyle()
	switch {
	case top == PaintFloor && bottom == PaintFloor:
		return s, string(BlockEmpty)
	case top == bottom:
		return s.Foreground(paintColors[top]), string(BlockFull)
	case bottom == PaintFloor:
		return s.Foreground(paintColors[top]), string(BlockUpperHalf)
	case top == PaintFloor:
		return s.Foreground(paintColors[bottom]), string(BlockLowerHalf)
	default:
		return s.Foreground(paintColors[top]).Background(paintColors[bottom]), string(BlockUpperHalf)
	}
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Resize reallocates the cells if the dimensions changed. Contents are cleared.
func (c *Canvas) Resize(cols, rows int) {
	if cols != c.cols || rows != c.rows {
		c.cols = cols
		c.rows = rows
		c.cells = make([]Paint, cols*rows)
		return
	}
	c.Clear()
}

// SetOffset sets the 0-based terminal column and row of the first cell.
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear paints every cell as floor.
func (c *Canvas) Clear() {
	clear(c.cells)
}

// Set paints the cell at col, row. Out-of-range cells are ignored.
func (c *Canvas) Set(col, row int, p Paint) {
	if col >= 0 && col < c.cols && row >= 0 && row < c.rows && p < paintCount {
		c.cells[row*c.cols+col] = p
	}
}

// At returns the paint of a cell, PaintFloor when out of range.
func (c *Canvas) At(col, row int) Paint {
	if col >= 0 && col < c.cols && row >= 0 && row < c.rows {
		return c.cells[row*c.cols+col]
	}
	return PaintFloor
}

// Width returns the canvas width in terminal columns.
func (c *Canvas) Width() int {
	return c.cols
}

// Height returns the canvas height in terminal rows.
func (c *Canvas) Height() int {
	return (c.rows + 1) / 2
}

// Render outputs the canvas using half-block characters, grouping runs of
// equal cell pairs into a single styled string to keep escape sequences down.
func (c *Canvas) Render(w io.Writer) {
	for termRow := 0; termRow < c.Height(); termRow++ {
		c.rowBuf.Reset()
		writeCursor(&c.rowBuf, c.offsetCol+1, c.offsetRow+termRow+1)

		top, bottom := termRow*2, termRow*2+1
		start := 0
		for col := 1; col <= c.cols; col++ {
			if col < c.cols && c.At(col, top) == c.At(start, top) && c.At(col, bottom) == c.At(start, bottom) {
				continue
			}
			t, b := c.At(start, top), c.At(start, bottom)
			c.rowBuf.WriteString(c.pairStyles[t][b].Render(strings.Repeat(c.pairGlyphs[t][b], col-start)))
			start = col
		}
		io.WriteString(w, c.rowBuf.String())
	}
}

// RenderBorder draws a box one cell outside the canvas area.
// Nothing is drawn when the offsets leave no room for it.
func (c *Canvas) RenderBorder(w io.Writer) {
	if c.offsetCol < 1 || c.offsetRow < 1 {
		return
	}
	left := c.offsetCol
	right := c.offsetCol + c.Width() + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.Height() + 1
	line := strings.Repeat("─", c.Width())

	var buf strings.Builder
	writeCursor(&buf, left, top)
	buf.WriteString(c.border.Render("┌" + line + "┐"))
	for row := top + 1; row < bottom; row++ {
		writeCursor(&buf, left, row)
		buf.WriteString(c.border.Render("│"))
		writeCursor(&buf, right, row)
		buf.WriteString(c.border.Render("│"))
	}
	writeCursor(&buf, left, bottom)
	buf.WriteString(c.border.Render("└" + line + "┘"))

	io.WriteString(w, buf.String())
}

// writeCursor appends an ANSI cursor position sequence for a 1-based position.
func writeCursor(b *strings.Builder, col, row int) {
	b.WriteString("\033[")
	b.WriteString(strconv.Itoa(row))
	b.WriteByte(';')
	b.WriteString(strconv.Itoa(col))
	b.WriteByte('H')
}
