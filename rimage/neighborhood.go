package rimage

import "image"

// Neighborhood is a fixed set of pixel offsets describing a connectivity.
type Neighborhood struct {
	offsets []image.Point
}

var (
	// Neighbors4 is the von Neumann neighborhood.
	Neighbors4 = Neighborhood{offsets: []image.Point{
		{0, -1},
		{-1, 0},
		{1, 0},
		{0, 1},
	}}
	// Neighbors8 is the Moore neighborhood.
	Neighbors8 = Neighborhood{offsets: []image.Point{
		{-1, -1},
		{0, -1},
		{1, -1},
		{-1, 0},
		{1, 0},
		{-1, 1},
		{0, 1},
		{1, 1},
	}}
)

// Offsets returns the offsets. The slice is shared and must not be modified.
func (n Neighborhood) Offsets() []image.Point {
	return n.offsets
}

// Len returns the number of offsets.
func (n Neighborhood) Len() int {
	return len(n.offsets)
}

// Outside returns whether p+off leaves bounds.
func (n Neighborhood) Outside(p, off image.Point, bounds image.Rectangle) bool {
	return !p.Add(off).In(bounds)
}
