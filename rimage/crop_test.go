package rimage

import (
	"image"
	"testing"

	"go.viam.com/test"

	"go.viam.com/morphometry/utils"
)

func cropFixture() (*Grid[uint16], *Grid[uint8]) {
	src := NewGridFromData(4, 3, []uint16{
		5, 10, 20, 7,
		5, 30, 20, 7,
		5, 5, 5, 7,
	})
	labels := gridFromRows([]string{
		".112",
		".112",
		"...2",
	})
	return src, labels
}

func TestCropStretchesObjectRange(t *testing.T) {
	src, labels := cropFixture()
	roi, err := Crop[uint16, uint8](src, labels, image.Rect(1, 0, 3, 2), 1, CropOptions{Greylevels: 3})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, roi.Width(), test.ShouldEqual, 2)
	test.That(t, roi.Height(), test.ShouldEqual, 2)
	test.That(t, roi.Source.Data(), test.ShouldResemble, []int{0, 1, 2, 1})
	test.That(t, roi.Area(), test.ShouldEqual, 4)
	test.That(t, roi.Greylevels, test.ShouldEqual, 3)
	test.That(t, roi.Origin, test.ShouldResemble, image.Point{1, 0})
}

func TestCropFixedRange(t *testing.T) {
	src := NewGridFromData(1, 1, []uint16{50})
	labels := NewGridFromData(1, 1, []uint8{1})
	roi, err := Crop[uint16, uint8](src, labels, src.Bounds(), 1, CropOptions{Greylevels: 3, MaxValue: 100})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, roi.Source.At(0, 0), test.ShouldEqual, 1)

	// values above MaxValue clamp to the top level
	src.Set(0, 0, 500)
	roi, err = Crop[uint16, uint8](src, labels, src.Bounds(), 1, CropOptions{Greylevels: 3, MaxValue: 100})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, roi.Source.At(0, 0), test.ShouldEqual, 2)
}

func TestCropUniformAndRaw(t *testing.T) {
	src, labels := cropFixture()
	roi, err := Crop[uint16, uint8](src, labels, image.Rect(3, 0, 4, 3), 2, CropOptions{Greylevels: 16})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, roi.Source.Data(), test.ShouldResemble, []int{0, 0, 0})

	roi, err = Crop[uint16, uint8](src, labels, image.Rect(1, 0, 3, 2), 1, CropOptions{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, roi.Source.Data(), test.ShouldResemble, []int{10, 20, 30, 20})
}

func TestCropBorderAndForeignPixels(t *testing.T) {
	src, labels := cropFixture()
	orig := src.Clone()
	roi, err := Crop[uint16, uint8](src, labels, image.Rect(1, 0, 4, 3), 1, CropOptions{Greylevels: 4, Border: 2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, roi.Width(), test.ShouldEqual, 7)
	test.That(t, roi.Height(), test.ShouldEqual, 7)
	test.That(t, roi.Origin, test.ShouldResemble, image.Point{-1, -2})
	test.That(t, roi.Area(), test.ShouldEqual, 4)
	// label 2 column and label 0 row are zeroed
	test.That(t, roi.Mask.At(4, 2), test.ShouldEqual, uint8(0))
	test.That(t, roi.Source.At(4, 2), test.ShouldEqual, 0)
	test.That(t, roi.Mask.At(2, 2), test.ShouldEqual, uint8(1))
	for x := 0; x < roi.Width(); x++ {
		test.That(t, roi.Mask.At(x, 0), test.ShouldEqual, uint8(0))
		test.That(t, roi.Mask.At(x, 6), test.ShouldEqual, uint8(0))
	}
	c := roi.Centroid()
	test.That(t, c.X, test.ShouldAlmostEqual, 2.5)
	test.That(t, c.Y, test.ShouldAlmostEqual, 2.5)
	test.That(t, src.Data(), test.ShouldResemble, orig.Data())
}

func TestCropPreconditions(t *testing.T) {
	src, labels := cropFixture()
	for _, tc := range []struct {
		name string
		bbox image.Rectangle
		opts CropOptions
	}{
		{"empty", image.Rect(1, 1, 1, 2), CropOptions{}},
		{"outside", image.Rect(2, 0, 6, 2), CropOptions{}},
		{"too many levels", image.Rect(0, 0, 2, 2), CropOptions{Greylevels: MaxGreylevels + 1}},
		{"negative border", image.Rect(0, 0, 2, 2), CropOptions{Border: -1}},
		{"negative max", image.Rect(0, 0, 2, 2), CropOptions{MaxValue: -3}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Crop[uint16, uint8](src, labels, tc.bbox, 1, tc.opts)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, utils.IsPreconditionError(err), test.ShouldBeTrue)
		})
	}
}

func TestCropEmptyObject(t *testing.T) {
	src, labels := cropFixture()
	roi, err := Crop[uint16, uint8](src, labels, image.Rect(0, 0, 1, 3), 1, CropOptions{Greylevels: 8, Border: 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, roi.Area(), test.ShouldEqual, 0)
	c := roi.Centroid()
	test.That(t, c.X, test.ShouldAlmostEqual, 1.0)
	test.That(t, c.Y, test.ShouldAlmostEqual, 2.0)
}
