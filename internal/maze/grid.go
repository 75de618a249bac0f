// Package maze holds the wall/open grid, the maze generator and item placement.
package maze

// Cell is a (column, row) position on the grid.
type Cell struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Add returns the cell shifted by dc columns and dr rows.
func (c Cell) Add(dc, dr int) Cell {
	return Cell{Col: c.Col + dc, Row: c.Row + dr}
}

// Grid is a fixed-size matrix of wall/open cells.
// The shape never changes after NewGrid; contents change only during generation.
type Grid struct {
	cols  int
	rows  int
	cells []bool // Flat slice: [row * cols + col] - true if open
}

// Dimensions derives grid columns and rows from a canvas size and cell size.
func Dimensions(width, height, cellSize int) (cols, rows int) {
	if cellSize <= 0 {
		return 0, 0
	}
	return width / cellSize, height / cellSize
}

// NewGrid creates a grid where every cell is a wall.
func NewGrid(cols, rows int) *Grid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &Grid{
		cols:  cols,
		rows:  rows,
		cells: make([]bool, cols*rows),
	}
}

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	return g.cols
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return g.rows
}

// InBounds reports whether c lies on the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.Col >= 0 && c.Col < g.cols && c.Row >= 0 && c.Row < g.rows
}

// IsOpen reports whether c is in bounds and open.
func (g *Grid) IsOpen(c Cell) bool {
	return g.InBounds(c) && g.cells[c.Row*g.cols+c.Col]
}

// IsWall reports whether c is in bounds and a wall.
func (g *Grid) IsWall(c Cell) bool {
	return g.InBounds(c) && !g.cells[c.Row*g.cols+c.Col]
}

// Open marks c as open. Out-of-bounds cells are ignored.
func (g *Grid) Open(c Cell) {
	if g.InBounds(c) {
		g.cells[c.Row*g.cols+c.Col] = true
	}
}

// Fill resets every cell to a wall.
func (g *Grid) Fill() {
	clear(g.cells)
}

// OpenCount returns the number of open cells.
func (g *Grid) OpenCount() int {
	n := 0
	for _, open := range g.cells {
		if open {
			n++
		}
	}
	return n
}

// Matrix returns a row-major copy of the grid, true meaning open.
func (g *Grid) Matrix() [][]bool {
	m := make([][]bool, g.rows)
	for row := range m {
		m[row] = make([]bool, g.cols)
		copy(m[row], g.cells[row*g.cols:(row+1)*g.cols])
	}
	return m
}

// String draws the grid with '#' for walls and '.' for open cells.
func (g *Grid) String() string {
	buf := make([]byte, 0, (g.cols+1)*g.rows)
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			if g.cells[row*g.cols+col] {
				buf = append(buf, '.')
			} else {
				buf = append(buf, '#')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
