package maze

import (
	"errors"
	"fmt"
)

// ErrCannotPlaceItems is returned when the grid has fewer free open cells than requested items.
var ErrCannotPlaceItems = errors.New("cannot place items")

// PlaceItems picks n distinct open cells other than exclude by rejection sampling:
// uniform (col, row) draws are redrawn while they hit a wall, exclude, or an
// already chosen cell. The free cells are counted first so sampling always ends.
func PlaceItems(g *Grid, n int, exclude Cell, rng Rand) ([]Cell, error) {
	if n <= 0 {
		return nil, nil
	}

	free := g.OpenCount()
	if g.IsOpen(exclude) {
		free--
	}
	if n > free {
		return nil, fmt.Errorf("%w: want %d, %d free cells", ErrCannotPlaceItems, n, free)
	}

	items := make([]Cell, 0, n)
	taken := make(map[Cell]struct{}, n)
	for len(items) < n {
		c := Cell{Col: rng.Intn(g.cols), Row: rng.Intn(g.rows)}
		if !g.IsOpen(c) || c == exclude {
			continue
		}
		if _, ok := taken[c]; ok {
			continue
		}
		taken[c] = struct{}{}
		items = append(items, c)
	}
	return items, nil
}
