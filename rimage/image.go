// Package rimage holds the pixel containers and low level image operators used by
// the feature engines: cropping, connected component labeling, morphology and
// distance transforms.
package rimage

import (
	"image"
	"image/draw"
)

// Pixel is the set of sample types a Grid may hold.
type Pixel interface {
	~uint8 | ~uint16 | ~uint32 | ~int | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Accessor gives read-only access to a rectangular window of samples. Callers
// must stay within Bounds.
type Accessor[T Pixel] interface {
	Bounds() image.Rectangle
	At(x, y int) T
}

// Grid is an owned, row-major 2D array of samples with its origin at (0, 0).
type Grid[T Pixel] struct {
	width, height int
	data          []T
}

// NewGrid returns a zeroed grid.
func NewGrid[T Pixel](width, height int) *Grid[T] {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid[T]{width: width, height: height, data: make([]T, width*height)}
}

// NewGridFromData wraps data, which must hold width*height samples in row-major order.
func NewGridFromData[T Pixel](width, height int, data []T) *Grid[T] {
	if len(data) != width*height {
		panic("rimage: grid data does not match dimensions")
	}
	return &Grid[T]{width: width, height: height, data: data}
}

func (g *Grid[T]) kxy(x, y int) int {
	return (y * g.width) + x
}

// Width returns the number of columns.
func (g *Grid[T]) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid[T]) Height() int {
	return g.height
}

// Bounds returns the grid rectangle.
func (g *Grid[T]) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.width, g.height)
}

// Contains returns whether (x, y) is inside the grid.
func (g *Grid[T]) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// At returns the sample at (x, y).
func (g *Grid[T]) At(x, y int) T {
	return g.data[g.kxy(x, y)]
}

// Get returns the sample at p.
func (g *Grid[T]) Get(p image.Point) T {
	return g.data[g.kxy(p.X, p.Y)]
}

// Set stores val at (x, y).
func (g *Grid[T]) Set(x, y int, val T) {
	g.data[g.kxy(x, y)] = val
}

// Data exposes the backing slice for tight loops. Index with y*Width()+x.
func (g *Grid[T]) Data() []T {
	return g.data
}

// Clone returns a deep copy.
func (g *Grid[T]) Clone() *Grid[T] {
	data := make([]T, len(g.data))
	copy(data, g.data)
	return &Grid[T]{width: g.width, height: g.height, data: data}
}

// Fill sets every sample to val.
func (g *Grid[T]) Fill(val T) {
	for i := range g.data {
		g.data[i] = val
	}
}

// View is a read-only window into another accessor, addressed with the parent's coordinates.
type View[T Pixel] struct {
	parent Accessor[T]
	rect   image.Rectangle
}

// NewView returns a window of parent clipped to its bounds.
func NewView[T Pixel](parent Accessor[T], r image.Rectangle) *View[T] {
	return &View[T]{parent: parent, rect: r.Intersect(parent.Bounds())}
}

// Bounds returns the window rectangle.
func (v *View[T]) Bounds() image.Rectangle {
	return v.rect
}

// At reads the parent sample at (x, y).
func (v *View[T]) At(x, y int) T {
	return v.parent.At(x, y)
}

// GrayAccessor adapts an *image.Gray.
type GrayAccessor struct {
	*image.Gray
}

// At returns the 8-bit sample at (x, y).
func (ga GrayAccessor) At(x, y int) uint8 {
	return ga.GrayAt(x, y).Y
}

// Gray16Accessor adapts an *image.Gray16.
type Gray16Accessor struct {
	*image.Gray16
}

// At returns the 16-bit sample at (x, y).
func (ga Gray16Accessor) At(x, y int) uint16 {
	return ga.Gray16At(x, y).Y
}

// GridFromImage converts any image into a 16-bit luminance grid anchored at (0, 0).
func GridFromImage(img image.Image) *Grid[uint16] {
	bounds := img.Bounds()
	gray, ok := img.(*image.Gray16)
	if !ok {
		gray = image.NewGray16(bounds)
		draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	}
	ga := Gray16Accessor{gray}
	out := NewGrid[uint16](bounds.Dx(), bounds.Dy())
	for y := 0; y < out.height; y++ {
		for x := 0; x < out.width; x++ {
			out.Set(x, y, ga.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return out
}
