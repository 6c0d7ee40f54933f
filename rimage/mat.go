package rimage

import (
	"gocv.io/x/gocv"
)

// toMat copies g into a new single channel 32-bit float Mat. Every Pixel value
// up to 1<<24 is represented exactly. The caller must Close the result.
func toMat[T Pixel](g *Grid[T]) gocv.Mat {
	m := gocv.NewMatWithSize(g.Height(), g.Width(), gocv.MatTypeCV32F)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			m.SetFloatAt(y, x, float32(g.At(x, y)))
		}
	}
	return m
}

// gridFromMat copies the width x height window of a single channel 32-bit
// float Mat starting at (origin, origin) into a new grid.
func gridFromMat[T Pixel](m gocv.Mat, origin, width, height int) *Grid[T] {
	out := NewGrid[T](width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.Set(x, y, T(m.GetFloatAt(y+origin, x+origin)))
		}
	}
	return out
}
