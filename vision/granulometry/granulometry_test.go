package granulometry

import (
	"image"
	"testing"

	"go.viam.com/test"

	"go.viam.com/morphometry/rimage"
	"go.viam.com/morphometry/utils"
	"go.viam.com/morphometry/vision"
)

func texturedRegion() vision.Region {
	src, labels := vision.DiskFixture(40, 40, image.Point{20, 20}, 15, 1, 0)
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if labels.At(x, y) != 0 {
				src.Set(x, y, uint16(10+(x*7+y*13)%50+((x/5+y/4)%3)*40))
			}
		}
	}
	return vision.FixtureRegion(src, labels, 1)
}

func TestCurvesMonotone(t *testing.T) {
	r := texturedRegion()
	radii := []int{1, 2, 3, 5, 7}
	for _, mode := range []Mode{Opening, Closing} {
		roi, err := r.Crop(rimage.CropOptions{Border: 7})
		test.That(t, err, test.ShouldBeNil)
		area, volume, err := Curves(roi, radii, mode)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, len(area), test.ShouldEqual, len(radii))
		for i := range radii {
			test.That(t, area[i], test.ShouldBeGreaterThanOrEqualTo, 0)
			test.That(t, volume[i], test.ShouldBeGreaterThanOrEqualTo, 0)
			if i > 0 {
				test.That(t, area[i], test.ShouldBeGreaterThanOrEqualTo, area[i-1])
				test.That(t, volume[i], test.ShouldBeGreaterThanOrEqualTo, volume[i-1])
			}
		}
		test.That(t, volume[len(radii)-1], test.ShouldBeGreaterThan, 0)
	}

	e, err := New(Config{Radii: radii, Modes: []Mode{Opening, Closing}})
	test.That(t, err, test.ShouldBeNil)
	fs, err := e.Compute(r)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(fs), test.ShouldEqual, 20)
	for _, f := range fs {
		test.That(t, f.Value, test.ShouldBeGreaterThanOrEqualTo, 0)
	}
}

func TestThinLineVanishes(t *testing.T) {
	src := rimage.NewGrid[uint16](7, 3)
	labels := rimage.NewGrid[uint8](7, 3)
	for x := 1; x < 6; x++ {
		src.Set(x, 1, 100)
		labels.Set(x, 1, 1)
	}
	e, err := New(Config{Radii: []int{1, 2}, Modes: []Mode{Opening}})
	test.That(t, err, test.ShouldBeNil)
	fs, err := e.Compute(vision.FixtureRegion(src, labels, 1))
	test.That(t, err, test.ShouldBeNil)
	m := fs.Map()
	test.That(t, m["granulometry_area_1"], test.ShouldAlmostEqual, 1.0)
	test.That(t, m["granulometry_volume_1"], test.ShouldAlmostEqual, 1.0)
	test.That(t, m["granulometry_area_2"], test.ShouldAlmostEqual, 0.0)
	test.That(t, m["granulometry_volume_2"], test.ShouldAlmostEqual, 0.0)
}

func TestClosingFillsHole(t *testing.T) {
	src := rimage.NewGrid[uint16](5, 5)
	labels := rimage.NewGrid[uint8](5, 5)
	src.Fill(100)
	labels.Fill(1)
	src.Set(2, 2, 0)
	e, err := New(Config{Radii: []int{1}, Modes: []Mode{Closing}})
	test.That(t, err, test.ShouldBeNil)
	fs, err := e.Compute(vision.FixtureRegion(src, labels, 1))
	test.That(t, err, test.ShouldBeNil)
	m := fs.Map()
	test.That(t, m["granulometry_close_area_1"], test.ShouldAlmostEqual, 1.0/24)
	test.That(t, m["granulometry_close_volume_1"], test.ShouldAlmostEqual, 1.0/24)
}

func TestUniformDiskOpening(t *testing.T) {
	src, labels := vision.DiskFixture(20, 20, image.Point{10, 10}, 8, 1, 100)
	roi, err := vision.FixtureRegion(src, labels, 1).Crop(rimage.CropOptions{Border: 1})
	test.That(t, err, test.ShouldBeNil)
	area, volume, err := Curves(roi, []int{1}, Opening)
	test.That(t, err, test.ShouldBeNil)
	// a disk is open with respect to a smaller disk up to digitization
	test.That(t, area[0], test.ShouldBeLessThan, 0.1)
	test.That(t, volume[0], test.ShouldAlmostEqual, area[0])
}

func TestEmptyObject(t *testing.T) {
	roi := &rimage.ROI{Source: rimage.NewGrid[int](4, 4), Mask: rimage.NewGrid[uint8](4, 4)}
	area, volume, err := Curves(roi, []int{1, 3}, Opening)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, area, test.ShouldResemble, []float64{0, 0})
	test.That(t, volume, test.ShouldResemble, []float64{0, 0})
}

func TestRadiiPreconditions(t *testing.T) {
	roi := &rimage.ROI{Source: rimage.NewGrid[int](4, 4), Mask: rimage.NewGrid[uint8](4, 4)}
	for _, radii := range [][]int{{3, 2}, {1, 1}, {0, 2}, {-1}} {
		_, _, err := Curves(roi, radii, Opening)
		test.That(t, utils.IsPreconditionError(err), test.ShouldBeTrue)
	}
	_, _, err := Curves(roi, []int{1}, Mode("tophat"))
	test.That(t, utils.IsPreconditionError(err), test.ShouldBeTrue)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	test.That(t, cfg.Validate("granulometry"), test.ShouldBeNil)

	cfg = Config{Modes: []Mode{Opening}}
	test.That(t, cfg.Validate("granulometry").Error(), test.ShouldContainSubstring, `"radii" is required`)

	cfg = Config{Radii: []int{2, 1}, Modes: []Mode{Opening}}
	test.That(t, cfg.Validate("granulometry").Error(), test.ShouldContainSubstring, "strictly increasing")

	cfg = Config{Radii: []int{1}}
	test.That(t, cfg.Validate("granulometry"), test.ShouldNotBeNil)

	cfg = Config{Radii: []int{1}, Modes: []Mode{"erode"}}
	test.That(t, cfg.Validate("granulometry").Error(), test.ShouldContainSubstring, "granulometry.modes.0")
}
