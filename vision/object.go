// Package vision holds the per-object data model shared by the feature engines:
// the analyzed Object, structured feature keys, and the Region an engine crops
// its private working copy from.
package vision

import (
	"image"
	"sort"

	"github.com/golang/geo/r2"
	"github.com/samber/lo"

	"go.viam.com/morphometry/rimage"
)

// Sink accepts named feature values. Setting a name twice overwrites it.
type Sink interface {
	Set(name string, value float64)
}

// Object is one segmented region of a label image along with the features
// computed for it.
// NOTE: an Object is not safe for concurrent Set calls; the extractor gives
// each object to exactly one worker.
type Object struct {
	Label       int
	BoundingBox image.Rectangle
	Centroid    r2.Point
	// Size is the number of pixels carrying Label.
	Size int

	features map[string]float64
}

// NewObject returns an object with no features.
func NewObject(label int, bbox image.Rectangle) *Object {
	return &Object{Label: label, BoundingBox: bbox, features: map[string]float64{}}
}

// Set stores a feature value.
func (o *Object) Set(name string, value float64) {
	if o.features == nil {
		o.features = map[string]float64{}
	}
	o.features[name] = value
}

// Get returns a feature value and whether it was set.
func (o *Object) Get(name string) (float64, bool) {
	v, ok := o.features[name]
	return v, ok
}

// Names returns the feature names in lexical order.
func (o *Object) Names() []string {
	names := lo.Keys(o.features)
	sort.Strings(names)
	return names
}

// Features returns a copy of the feature map.
func (o *Object) Features() map[string]float64 {
	return lo.Assign(o.features)
}

// ObjectsFromLabels scans a label image and returns one Object per distinct
// nonzero label, ordered by label, with bounding box, centroid and size filled in.
func ObjectsFromLabels[L rimage.Pixel](labels rimage.Accessor[L]) []*Object {
	type acc struct {
		bbox image.Rectangle
		sum  r2.Point
		n    int
	}
	found := map[int]*acc{}
	b := labels.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			l := int(labels.At(x, y))
			if l == 0 {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			a, ok := found[l]
			if !ok {
				a = &acc{bbox: px}
				found[l] = a
			}
			a.bbox = a.bbox.Union(px)
			a.sum = a.sum.Add(r2.Point{X: float64(x), Y: float64(y)})
			a.n++
		}
	}

	ids := lo.Keys(found)
	sort.Ints(ids)
	return lo.Map(ids, func(l, _ int) *Object {
		a := found[l]
		obj := NewObject(l, a.bbox)
		obj.Centroid = a.sum.Mul(1 / float64(a.n))
		obj.Size = a.n
		return obj
	})
}
