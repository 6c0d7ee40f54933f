package vision

import (
	"image"
	"testing"

	"go.viam.com/test"

	"go.viam.com/morphometry/rimage"
)

func TestObjectFeatures(t *testing.T) {
	obj := NewObject(3, image.Rect(1, 2, 5, 6))
	_, ok := obj.Get("ch_area_ratio")
	test.That(t, ok, test.ShouldBeFalse)

	obj.Set("ch_area_ratio", 0.5)
	obj.Set("ch_area_ratio", 0.75)
	obj.Set("spots_count", 2)
	v, ok := obj.Get("ch_area_ratio")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, v, test.ShouldEqual, 0.75)
	test.That(t, obj.Names(), test.ShouldResemble, []string{"ch_area_ratio", "spots_count"})

	copied := obj.Features()
	copied["spots_count"] = 10
	v, _ = obj.Get("spots_count")
	test.That(t, v, test.ShouldEqual, 2.0)

	var zero Object
	zero.Set("x", 1)
	test.That(t, zero.Names(), test.ShouldResemble, []string{"x"})
}

func TestObjectsFromLabels(t *testing.T) {
	labels := rimage.NewGridFromData(5, 4, []uint8{
		0, 2, 2, 0, 0,
		0, 2, 2, 0, 7,
		0, 0, 0, 0, 7,
		1, 0, 0, 0, 0,
	})
	objs := ObjectsFromLabels[uint8](labels)
	test.That(t, len(objs), test.ShouldEqual, 3)

	test.That(t, objs[0].Label, test.ShouldEqual, 1)
	test.That(t, objs[0].BoundingBox, test.ShouldResemble, image.Rect(0, 3, 1, 4))
	test.That(t, objs[0].Size, test.ShouldEqual, 1)

	test.That(t, objs[1].Label, test.ShouldEqual, 2)
	test.That(t, objs[1].BoundingBox, test.ShouldResemble, image.Rect(1, 0, 3, 2))
	test.That(t, objs[1].Size, test.ShouldEqual, 4)
	test.That(t, objs[1].Centroid.X, test.ShouldAlmostEqual, 1.5)
	test.That(t, objs[1].Centroid.Y, test.ShouldAlmostEqual, 0.5)

	test.That(t, objs[2].Label, test.ShouldEqual, 7)
	test.That(t, objs[2].BoundingBox, test.ShouldResemble, image.Rect(4, 1, 5, 3))

	test.That(t, ObjectsFromLabels[uint8](rimage.NewGrid[uint8](3, 3)), test.ShouldBeEmpty)
}

func TestRegionCropIsPrivate(t *testing.T) {
	src, labels := DiskFixture(20, 20, image.Point{10, 10}, 8, 1, 100)
	r := FixtureRegion(src, labels, 1)
	test.That(t, r.Label, test.ShouldEqual, 1)
	test.That(t, r.BoundingBox, test.ShouldResemble, image.Rect(2, 2, 19, 19))

	a, err := r.Crop(rimage.CropOptions{})
	test.That(t, err, test.ShouldBeNil)
	b, err := r.Crop(rimage.CropOptions{})
	test.That(t, err, test.ShouldBeNil)
	a.Source.Set(8, 8, 0)
	test.That(t, b.Source.At(8, 8), test.ShouldEqual, 100)
	test.That(t, src.At(10, 10), test.ShouldEqual, uint16(100))

	missing := FixtureRegion(src, labels, 4)
	_, err = missing.Crop(rimage.CropOptions{})
	test.That(t, err, test.ShouldNotBeNil)
}
