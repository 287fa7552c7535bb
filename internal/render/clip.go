package render

import (
	"image"

	"ca-explorer/internal/core"
)

// ClipPainter copies square neighbourhoods of a lattice into a paletted image.
type ClipPainter struct {
	Radius int
}

// Side returns the clip width and height.
func (cp ClipPainter) Side() int { return 2*cp.Radius + 1 }

// Paint draws the neighbourhood of (cx, cy) with its top-left corner at
// origin. Reads wrap around the lattice edges. When markCentre is set and the
// centre cell is empty it is drawn in the accent colour.
func (cp ClipPainter) Paint(dst *image.Paletted, origin image.Point, grid *core.ByteGrid, cx, cy int, markCentre bool) {
	side := cp.Side()
	for dy := 0; dy < side; dy++ {
		row := dst.PixOffset(origin.X, origin.Y+dy)
		for dx := 0; dx < side; dx++ {
			dst.Pix[row+dx] = CellIndex(grid.At(cx-cp.Radius+dx, cy-cp.Radius+dy))
		}
	}
	if markCentre && grid.At(cx, cy) == 0 {
		dst.Pix[dst.PixOffset(origin.X+cp.Radius, origin.Y+cp.Radius)] = IndexAccent
	}
}

// FillRect sets every pixel in r to the palette index.
func FillRect(dst *image.Paletted, r image.Rectangle, index uint8) {
	r = r.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := dst.PixOffset(r.Min.X, y)
		for x := 0; x < r.Dx(); x++ {
			dst.Pix[row+x] = index
		}
	}
}
