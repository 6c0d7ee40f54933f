package vision

import (
	"image"

	"go.viam.com/morphometry/rimage"
)

// Engine computes one family of features for a single object. Implementations
// hold only configuration and are safe to share between goroutines.
type Engine interface {
	Name() string
	Compute(r Region) (Features, error)
}

// Region binds an object to the shared read-only source and label images. Every
// Crop call returns a new private copy.
type Region struct {
	Label       int
	BoundingBox image.Rectangle

	crop func(opts rimage.CropOptions) (*rimage.ROI, error)
}

// NewRegion returns the region of obj within src and labels.
func NewRegion[S, L rimage.Pixel](src rimage.Accessor[S], labels rimage.Accessor[L], obj *Object) Region {
	label, bbox := obj.Label, obj.BoundingBox
	return Region{
		Label:       label,
		BoundingBox: bbox,
		crop: func(opts rimage.CropOptions) (*rimage.ROI, error) {
			return rimage.Crop(src, labels, bbox, label, opts)
		},
	}
}

// Crop extracts the object's pixels with the given quantization and border.
func (r Region) Crop(opts rimage.CropOptions) (*rimage.ROI, error) {
	return r.crop(opts)
}

// Compute runs e on r and records its features into sink. Nothing is recorded
// when e fails.
func Compute(e Engine, r Region, sink Sink) error {
	fs, err := e.Compute(r)
	if err != nil {
		return err
	}
	fs.Record(sink)
	return nil
}
