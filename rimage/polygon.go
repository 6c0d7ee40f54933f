package rimage

import (
	"image"

	"github.com/golang/geo/r2"

	"go.viam.com/morphometry/spatialmath"
)

// FillPolygon rasterizes poly into a width x height mask. A pixel is set when its
// center lies inside or on the boundary of the polygon, so the pixels the
// polygon was built from are always covered.
func FillPolygon(poly spatialmath.Polygon, width, height int) *Grid[uint8] {
	out := NewGrid[uint8](width, height)
	if len(poly) == 0 {
		return out
	}
	b := poly.Bounds().Intersect(out.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if poly.IsPointInside(r2.Point{X: float64(x), Y: float64(y)}) {
				out.Set(x, y, 1)
			}
		}
	}
	return out
}

// BoundaryCount returns the number of set pixels in mask that touch an unset
// pixel (or the grid edge) through nb.
func BoundaryCount(mask *Grid[uint8], nb Neighborhood) int {
	count := 0
	bounds := mask.Bounds()
	for y := 0; y < mask.Height(); y++ {
		for x := 0; x < mask.Width(); x++ {
			if mask.At(x, y) == 0 {
				continue
			}
			p := image.Point{x, y}
			for _, off := range nb.offsets {
				if nb.Outside(p, off, bounds) || mask.At(x+off.X, y+off.Y) == 0 {
					count++
					break
				}
			}
		}
	}
	return count
}

// Count returns the number of nonzero pixels in g.
func Count[T Pixel](g *Grid[T]) int {
	n := 0
	for _, v := range g.Data() {
		if v != 0 {
			n++
		}
	}
	return n
}

// Sum returns the sum of all values in g.
func Sum[T Pixel](g *Grid[T]) float64 {
	var s float64
	for _, v := range g.Data() {
		s += float64(v)
	}
	return s
}
