package rimage

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// DistanceTransform returns, for every nonzero mask pixel, the Euclidean distance
// to the nearest zero pixel; zero pixels get 0. Pixels beyond the grid edge
// count as zero. Distances come from OpenCV's 5x5 chamfer approximation of L2,
// which stays within 2% of the exact distance.
func DistanceTransform(mask *Grid[uint8]) (*Grid[float64], error) {
	width, height := mask.Width(), mask.Height()
	if width == 0 || height == 0 {
		return NewGrid[float64](width, height), nil
	}
	// pad by one on each side so the outside acts as background
	src := gocv.Zeros(height+2, width+2, gocv.MatTypeCV8U)
	defer src.Close()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask.At(x, y) != 0 {
				src.SetUCharAt(y+1, x+1, 1)
			}
		}
	}
	dst := gocv.NewMat()
	defer dst.Close()
	labels := gocv.NewMat()
	defer labels.Close()

	// requesting labels makes OpenCV fall back to the 5x5 mask whatever maskSize says
	if err := gocv.DistanceTransform(src, &dst, &labels, gocv.DistL2, gocv.DistanceMask3, gocv.DistanceLabelCComp); err != nil {
		return nil, errors.Wrap(err, "distance transform")
	}
	out := NewGrid[float64](width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.Set(x, y, float64(dst.GetFloatAt(y+1, x+1)))
		}
	}
	return out, nil
}
