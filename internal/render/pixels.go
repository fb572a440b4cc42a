package render

import (
	"image/color"

	"lifegrid/pkg/grid"
)

// Layout converts between grid cells and canvas pixels. Cells are CellSize
// pixels square and separated (and framed) by Spacing pixels of gap.
type Layout struct {
	CellSize int
	Spacing  int
}

// Pitch returns the distance in pixels between the origins of adjacent cells.
func (l Layout) Pitch() int { return l.CellSize + l.Spacing }

// CanvasSize returns the pixel dimensions needed for a rows x cols grid.
func (l Layout) CanvasSize(rows, cols int) (w, h int) {
	return cols*l.Pitch() + l.Spacing, rows*l.Pitch() + l.Spacing
}

// CellOrigin returns the top-left pixel of a cell.
func (l Layout) CellOrigin(row, col int) (x, y int) {
	return l.Spacing + col*l.Pitch(), l.Spacing + row*l.Pitch()
}

// CellAt maps a canvas pixel to the cell under it. Pixels in the gaps or
// outside the grid report ok=false.
func (l Layout) CellAt(x, y, rows, cols int) (row, col int, ok bool) {
	if l.Pitch() <= 0 {
		return 0, 0, false
	}
	x -= l.Spacing
	y -= l.Spacing
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	if x%l.Pitch() >= l.CellSize || y%l.Pitch() >= l.CellSize {
		return 0, 0, false
	}
	row, col = y/l.Pitch(), x/l.Pitch()
	if row >= rows || col >= cols {
		return 0, 0, false
	}
	return row, col, true
}

// GridSize returns how many whole cells fit in a canvas of the given size.
func (l Layout) GridSize(w, h int) (rows, cols int) {
	if l.Pitch() <= 0 {
		return 0, 0
	}
	return max(0, (h-l.Spacing)/l.Pitch()), max(0, (w-l.Spacing)/l.Pitch())
}

// fillCellsRGBA paints g into buf, an RGBA canvas sized by CanvasSize. Live
// cells use on, dead cells use off and gaps use gap.
func fillCellsRGBA(buf []byte, g *grid.Grid, l Layout, on, off, gap color.Color) {
	w, _ := l.CanvasSize(g.Height(), g.Width())
	fillRGBA(buf, gap)
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			col := off
			if g.Get(r, c) {
				col = on
			}
			x0, y0 := l.CellOrigin(r, c)
			fillRect(buf, w, x0, y0, l.CellSize, l.CellSize, col)
		}
	}
}

func fillRGBA(buf []byte, c color.Color) {
	r, g, b, a := rgba8(c)
	for base := 0; base+3 < len(buf); base += 4 {
		buf[base+0] = r
		buf[base+1] = g
		buf[base+2] = b
		buf[base+3] = a
	}
}

func fillRect(buf []byte, stride, x0, y0, w, h int, c color.Color) {
	r, g, b, a := rgba8(c)
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			base := (y*stride + x) * 4
			buf[base+0] = r
			buf[base+1] = g
			buf[base+2] = b
			buf[base+3] = a
		}
	}
}

func rgba8(c color.Color) (r, g, b, a uint8) {
	r32, g32, b32, a32 := c.RGBA()
	return uint8(r32 >> 8), uint8(g32 >> 8), uint8(b32 >> 8), uint8(a32 >> 8)
}
