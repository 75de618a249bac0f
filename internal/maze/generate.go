package maze

// Rand is the random source used for carving and placement.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// directions lists the cardinal steps: up, down, left, right.
var directions = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// candidate is an unvisited room two steps away and the corridor leading to it.
type candidate struct {
	room     Cell
	corridor Cell
}

// Generate carves a perfect maze into g with a randomized depth-first search
// starting at start. Cells sharing start's parity on both axes are rooms;
// the cells between two rooms are corridors. The grid is refilled with walls
// first, so every call yields a fresh maze.
func Generate(g *Grid, start Cell, rng Rand) {
	g.Fill()
	if !g.InBounds(start) {
		return
	}

	g.Open(start)
	stack := []Cell{start}
	var neighbors [4]candidate

	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		n := 0
		for _, d := range directions {
			next := cur.Add(2*d[0], 2*d[1])
			if g.IsWall(next) {
				neighbors[n] = candidate{room: next, corridor: cur.Add(d[0], d[1])}
				n++
			}
		}

		if n == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		pick := neighbors[rng.Intn(n)]
		g.Open(pick.room)
		g.Open(pick.corridor)
		stack = append(stack, pick.room)
	}

	// Start must stay open whatever happened above.
	g.Open(start)
}

// RoomCount returns how many room cells Generate opens for a cols x rows grid
// started at start. It is the guaranteed minimum of open cells.
func RoomCount(cols, rows int, start Cell) int {
	if start.Col < 0 || start.Col >= cols || start.Row < 0 || start.Row >= rows {
		return 0
	}
	return latticeSize(cols, start.Col) * latticeSize(rows, start.Row)
}

// latticeSize counts the positions in [0, size) with the same parity as origin.
func latticeSize(size, origin int) int {
	first := origin % 2
	if first >= size {
		return 0
	}
	return (size - first + 1) / 2
}

// IsPerfect reports whether the open cells form a spanning tree:
// all open cells are connected and there are no cycles.
func IsPerfect(g *Grid) bool {
	nodes, edges := 0, 0
	var first Cell
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			c := Cell{Col: col, Row: row}
			if !g.IsOpen(c) {
				continue
			}
			if nodes == 0 {
				first = c
			}
			nodes++
			if g.IsOpen(c.Add(1, 0)) {
				edges++
			}
			if g.IsOpen(c.Add(0, 1)) {
				edges++
			}
		}
	}
	if nodes == 0 || edges != nodes-1 {
		return false
	}
	return len(reachable(g, first)) == nodes
}

// reachable returns every open cell connected to from.
func reachable(g *Grid, from Cell) map[Cell]struct{} {
	seen := map[Cell]struct{}{from: {}}
	queue := []Cell{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range directions {
			next := cur.Add(d[0], d[1])
			if _, ok := seen[next]; ok || !g.IsOpen(next) {
				continue
			}
			seen[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return seen
}
