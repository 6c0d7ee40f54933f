package vision

import (
	"image"

	"go.viam.com/morphometry/rimage"
)

// DiskFixture draws a filled disk of the given label and intensity into a fresh
// pair of width x height images. It exists for engine tests.
func DiskFixture(width, height int, center image.Point, radius int, label uint8, intensity uint16) (*rimage.Grid[uint16], *rimage.Grid[uint8]) {
	src := rimage.NewGrid[uint16](width, height)
	labels := rimage.NewGrid[uint8](width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy := x-center.X, y-center.Y
			if dx*dx+dy*dy <= radius*radius {
				src.Set(x, y, intensity)
				labels.Set(x, y, label)
			}
		}
	}
	return src, labels
}

// FixtureRegion builds the region of the single object with the given label.
func FixtureRegion(src *rimage.Grid[uint16], labels *rimage.Grid[uint8], label int) Region {
	for _, obj := range ObjectsFromLabels[uint8](labels) {
		if obj.Label == label {
			return NewRegion[uint16, uint8](src, labels, obj)
		}
	}
	return NewRegion[uint16, uint8](src, labels, NewObject(label, image.Rectangle{}))
}
