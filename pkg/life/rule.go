// Package life implements Conway's Game of Life (B3/S23) on a toroidal grid
// and the timed step/pause protocol that drives it.
package life

import "lifegrid/pkg/grid"

// neighborhood lists the eight (row, col) offsets around a cell.
var neighborhood = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// NeighborCount returns how many of the eight wrapped neighbors of (row, col)
// are alive. The cell itself is never counted.
func NeighborCount(g *grid.Grid, row, col int) int {
	n := 0
	for _, off := range neighborhood {
		if g.Get(row+off[0], col+off[1]) {
			n++
		}
	}
	return n
}

// Rule applies B3/S23 to a single cell.
func Rule(alive bool, neighbors int) bool {
	if alive {
		switch {
		case neighbors < 2:
			return false
		case neighbors == 2 || neighbors == 3:
			return true
		default:
			return false
		}
	}
	return neighbors == 3
}

// NextGeneration computes the successor of g into a freshly allocated grid of
// the same dimensions. g is not modified.
func NextGeneration(g *grid.Grid) *grid.Grid {
	h, w := g.Height(), g.Width()
	next, _ := grid.New(h, w)
	src := g.Cells()
	dst := next.Cells()
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			idx := g.Index(r, c)
			dst[idx] = Rule(src[idx], NeighborCount(g, r, c))
		}
	}
	return next
}
