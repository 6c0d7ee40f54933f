package rimage

import (
	"image"
	"math"

	"github.com/golang/geo/r2"

	"go.viam.com/morphometry/utils"
)

// MaxGreylevels is the largest quantization Crop accepts.
const MaxGreylevels = 1 << 16

// CropOptions control how Crop quantizes and pads an object's pixels.
type CropOptions struct {
	// Greylevels is the target quantization G; values land in [0, G-1].
	// Zero or less copies raw values.
	Greylevels int
	// MaxValue fixes the input range to [0, MaxValue] so objects from different
	// images share units. Zero stretches the object's own [min, max] instead.
	MaxValue float64
	// Border adds a zeroed margin of this many pixels on every side.
	Border int
}

// ROI is a privately owned crop of one object. Pixels outside the object are
// zero in both arrays; Mask is 1 inside the object.
type ROI struct {
	Source *Grid[int]
	Mask   *Grid[uint8]
	// Origin is the source image coordinate of ROI pixel (0, 0).
	Origin image.Point
	Border int
	// Greylevels is the quantization used, 0 for raw values.
	Greylevels int
}

// Crop copies the pixels of bbox whose label equals label into a new ROI,
// rescaling intensities according to opts. It never writes to src or labels.
func Crop[S, L Pixel](src Accessor[S], labels Accessor[L], bbox image.Rectangle, label int, opts CropOptions) (*ROI, error) {
	if bbox.Empty() {
		return nil, utils.NewPreconditionError("empty bounding box %v", bbox)
	}
	if !bbox.In(src.Bounds()) {
		return nil, utils.NewPreconditionError("bounding box %v outside source image %v", bbox, src.Bounds())
	}
	if !bbox.In(labels.Bounds()) {
		return nil, utils.NewPreconditionError("bounding box %v outside label image %v", bbox, labels.Bounds())
	}
	if opts.Greylevels > MaxGreylevels {
		return nil, utils.NewPreconditionError("greylevels %d exceeds %d", opts.Greylevels, MaxGreylevels)
	}
	if opts.Border < 0 {
		return nil, utils.NewPreconditionError("negative border %d", opts.Border)
	}
	if opts.MaxValue < 0 {
		return nil, utils.NewPreconditionError("negative max value %v", opts.MaxValue)
	}

	border := opts.Border
	width, height := bbox.Dx()+2*border, bbox.Dy()+2*border
	roi := &ROI{
		Source:     NewGrid[int](width, height),
		Mask:       NewGrid[uint8](width, height),
		Origin:     bbox.Min.Sub(image.Point{border, border}),
		Border:     border,
		Greylevels: utils.MaxInt(opts.Greylevels, 0),
	}

	sv, lv := NewView(src, bbox), NewView(labels, bbox)
	lo, hi := math.Inf(1), math.Inf(-1)
	for y := bbox.Min.Y; y < bbox.Max.Y; y++ {
		for x := bbox.Min.X; x < bbox.Max.X; x++ {
			if int(lv.At(x, y)) != label {
				continue
			}
			v := float64(sv.At(x, y))
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if opts.MaxValue > 0 {
		lo, hi = 0, opts.MaxValue
	}

	scale := 1.0
	if opts.Greylevels > 0 && hi > lo {
		scale = float64(opts.Greylevels-1) / (hi - lo)
	}

	for y := bbox.Min.Y; y < bbox.Max.Y; y++ {
		for x := bbox.Min.X; x < bbox.Max.X; x++ {
			if int(lv.At(x, y)) != label {
				continue
			}
			rx, ry := x-roi.Origin.X, y-roi.Origin.Y
			roi.Mask.Set(rx, ry, 1)
			v := float64(sv.At(x, y))
			if opts.Greylevels <= 0 {
				roi.Source.Set(rx, ry, int(v))
				continue
			}
			q := int(math.Round((v - lo) * scale))
			roi.Source.Set(rx, ry, utils.ClampInt(q, 0, opts.Greylevels-1))
		}
	}
	return roi, nil
}

// Width returns the ROI width including the border.
func (roi *ROI) Width() int {
	return roi.Mask.Width()
}

// Height returns the ROI height including the border.
func (roi *ROI) Height() int {
	return roi.Mask.Height()
}

// Area returns the number of object pixels.
func (roi *ROI) Area() int {
	area := 0
	for _, m := range roi.Mask.Data() {
		if m != 0 {
			area++
		}
	}
	return area
}

// Centroid returns the mean object pixel position in ROI coordinates. An empty
// object reports the ROI center.
func (roi *ROI) Centroid() r2.Point {
	var sum r2.Point
	n := 0
	for y := 0; y < roi.Height(); y++ {
		for x := 0; x < roi.Width(); x++ {
			if roi.Mask.At(x, y) != 0 {
				sum = sum.Add(r2.Point{X: float64(x), Y: float64(y)})
				n++
			}
		}
	}
	if n == 0 {
		return r2.Point{X: float64(roi.Width()-1) / 2, Y: float64(roi.Height()-1) / 2}
	}
	return sum.Mul(1 / float64(n))
}

// Points returns the object pixels in raster order.
func (roi *ROI) Points() []image.Point {
	pts := make([]image.Point, 0, roi.Area())
	for y := 0; y < roi.Height(); y++ {
		for x := 0; x < roi.Width(); x++ {
			if roi.Mask.At(x, y) != 0 {
				pts = append(pts, image.Point{x, y})
			}
		}
	}
	return pts
}
