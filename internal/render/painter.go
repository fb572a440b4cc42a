//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"lifegrid/pkg/grid"
)

// GridPainter rasterizes a grid into an RGBA image using a Layout.
type GridPainter struct {
	layout     Layout
	rows, cols int
	img        *ebiten.Image
	buf        []byte

	On  color.Color
	Off color.Color
	Gap color.Color
}

// NewGridPainter allocates a painter with the default palette.
func NewGridPainter(layout Layout) *GridPainter {
	return &GridPainter{
		layout: layout,
		On:     color.Black,
		Off:    color.White,
		Gap:    color.RGBA{R: 220, G: 220, B: 220, A: 255},
	}
}

// Layout returns the pixel layout used by the painter.
func (gp *GridPainter) Layout() Layout { return gp.layout }

// Blit paints g and draws it onto dst at the origin. The backing image is
// reallocated when the grid dimensions change.
func (gp *GridPainter) Blit(dst *ebiten.Image, g *grid.Grid) {
	if g == nil {
		return
	}
	if gp.img == nil || gp.rows != g.Height() || gp.cols != g.Width() {
		w, h := gp.layout.CanvasSize(g.Height(), g.Width())
		if gp.img != nil {
			gp.img.Dispose()
		}
		gp.img = ebiten.NewImage(w, h)
		gp.buf = make([]byte, 4*w*h)
		gp.rows, gp.cols = g.Height(), g.Width()
	}
	fillCellsRGBA(gp.buf, g, gp.layout, gp.On, gp.Off, gp.Gap)
	gp.img.WritePixels(gp.buf)
	dst.DrawImage(gp.img, &ebiten.DrawImageOptions{})
}
