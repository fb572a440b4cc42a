// Package grid stores boolean cell states on a fixed-size toroidal surface.
//
// Coordinates are always (row, col), i.e. (y, x). Reads wrap around both
// edges; writes are bounds-checked and never wrap.
package grid

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"lifegrid/pkg/core"
)

// DefaultProbability is the live-cell chance used for random fills.
const DefaultProbability = 0.5

var (
	// ErrInvalidDimension is returned when a grid is created with a
	// non-positive height or width.
	ErrInvalidDimension = errors.New("grid: invalid dimension")
	// ErrOutOfBounds is returned when a write targets a cell outside the grid.
	ErrOutOfBounds = errors.New("grid: coordinates out of bounds")
	// ErrInvalidProbability is returned for random fills outside [0, 1].
	ErrInvalidProbability = errors.New("grid: probability outside [0,1]")
)

// Cell addresses a single grid position.
type Cell struct {
	Row int
	Col int
}

// Grid stores a 2D matrix of cells in row-major order.
type Grid struct {
	h, w  int
	cells []bool
}

// New allocates a grid with every cell dead.
func New(height, width int) (*Grid, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, height, width)
	}
	return &Grid{h: height, w: width, cells: make([]bool, height*width)}, nil
}

// NewRandom allocates a grid where each cell is independently alive with the
// given probability.
func NewRandom(height, width int, probability float64, rng *rand.Rand) (*Grid, error) {
	if probability < 0 || probability > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProbability, probability)
	}
	g, err := New(height, width)
	if err != nil {
		return nil, err
	}
	core.FillChance(rng, g.cells, probability)
	return g, nil
}

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Size returns the grid dimensions.
func (g *Grid) Size() core.Size { return core.Size{W: g.w, H: g.h} }

// Index returns the linear slice index for an in-bounds (row, col).
func (g *Grid) Index(row, col int) int { return row*g.w + col }

// Contains reports whether (row, col) lies inside the grid without wrapping.
func (g *Grid) Contains(row, col int) bool {
	return row >= 0 && row < g.h && col >= 0 && col < g.w
}

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *Grid) Wrap(row, col int) (int, int) {
	row = (row%g.h + g.h) % g.h
	col = (col%g.w + g.w) % g.w
	return row, col
}

// Get returns the state of the cell at (row, col) after wrapping.
func (g *Grid) Get(row, col int) bool {
	row, col = g.Wrap(row, col)
	return g.cells[g.Index(row, col)]
}

// Set assigns a cell without wrapping.
func (g *Grid) Set(row, col int, alive bool) error {
	if !g.Contains(row, col) {
		return g.boundsErr(row, col)
	}
	g.cells[g.Index(row, col)] = alive
	return nil
}

// Toggle flips a cell in place. Coordinates are not wrapped.
func (g *Grid) Toggle(row, col int) error {
	if !g.Contains(row, col) {
		return g.boundsErr(row, col)
	}
	idx := g.Index(row, col)
	g.cells[idx] = !g.cells[idx]
	return nil
}

// SetPattern marks every listed cell alive on top of the existing state. The
// whole pattern is rejected if any cell falls outside the grid.
func (g *Grid) SetPattern(cells []Cell) error {
	for _, c := range cells {
		if !g.Contains(c.Row, c.Col) {
			return g.boundsErr(c.Row, c.Col)
		}
	}
	for _, c := range cells {
		g.cells[g.Index(c.Row, c.Col)] = true
	}
	return nil
}

// Clear kills every cell.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = false
	}
}

// Cells exposes the backing row-major slice.
func (g *Grid) Cells() []bool { return g.cells }

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	return &Grid{h: g.h, w: g.w, cells: append([]bool(nil), g.cells...)}
}

// Equal reports whether both grids have the same dimensions and cells.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.h != o.h || g.w != o.w {
		return false
	}
	for i, v := range g.cells {
		if o.cells[i] != v {
			return false
		}
	}
	return true
}

// Population counts live cells.
func (g *Grid) Population() int {
	n := 0
	for _, v := range g.cells {
		if v {
			n++
		}
	}
	return n
}

// Live lists live cells in row-major order.
func (g *Grid) Live() []Cell {
	var out []Cell
	for i, v := range g.cells {
		if v {
			out = append(out, Cell{Row: i / g.w, Col: i % g.w})
		}
	}
	return out
}

// String renders the grid one row per line using '#' for live cells and '.'
// for dead ones.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow(g.h * (g.w + 1))
	for r := 0; r < g.h; r++ {
		for c := 0; c < g.w; c++ {
			if g.cells[g.Index(r, c)] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Parse builds a grid from the String format. Blank lines and surrounding
// whitespace are ignored; every row must have the same width.
func Parse(s string) (*Grid, error) {
	var rows []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			rows = append(rows, line)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidDimension)
	}
	g, err := New(len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}
	for r, line := range rows {
		if len(line) != g.w {
			return nil, fmt.Errorf("grid: row %d has width %d, want %d", r, len(line), g.w)
		}
		for c := 0; c < len(line); c++ {
			switch line[c] {
			case '#', 'O', '*':
				g.cells[g.Index(r, c)] = true
			case '.', '_':
			default:
				return nil, fmt.Errorf("grid: row %d col %d: unexpected %q", r, c, line[c])
			}
		}
	}
	return g, nil
}

func (g *Grid) boundsErr(row, col int) error {
	return fmt.Errorf("%w: (%d,%d) not in %dx%d", ErrOutOfBounds, row, col, g.h, g.w)
}
