package levelset

import (
	"image"
	"math"
	"testing"

	"go.viam.com/test"

	"go.viam.com/morphometry/rimage"
	"go.viam.com/morphometry/vision"
)

func twoBlocks() vision.Region {
	src := rimage.NewGridFromData(4, 2, []uint16{
		0, 0, 100, 100,
		0, 0, 100, 100,
	})
	labels := rimage.NewGrid[uint8](4, 2)
	labels.Fill(1)
	obj := vision.ObjectsFromLabels[uint8](labels)[0]
	return vision.NewRegion[uint16, uint8](src, labels, obj)
}

func TestTwoBlocks(t *testing.T) {
	e, err := New(Config{Greylevels: 4})
	test.That(t, err, test.ShouldBeNil)
	fs, err := e.Compute(twoBlocks())
	test.That(t, err, test.ShouldBeNil)
	m := fs.Map()
	test.That(t, len(m), test.ShouldEqual, 48)

	irreg := (1+math.Sqrt(math.Pi)*math.Sqrt(0.5))/2 - 1
	for _, pol := range []string{"0", "1"} {
		test.That(t, m["ls"+pol+"_TOTAL_AREA_max_value"], test.ShouldAlmostEqual, 0.5)
		test.That(t, m["ls"+pol+"_TOTAL_AREA_avg_value"], test.ShouldAlmostEqual, 1.0/3)
		test.That(t, m["ls"+pol+"_TOTAL_AREA_sample_mean"], test.ShouldAlmostEqual, 1.5)
		test.That(t, m["ls"+pol+"_TOTAL_AREA_sample_stddev"], test.ShouldAlmostEqual, 0.5)
		test.That(t, m["ls"+pol+"_CLUMP_AREA_max_value"], test.ShouldAlmostEqual, 0.5)
		test.That(t, m["ls"+pol+"_DISP_max_value"], test.ShouldAlmostEqual, math.Sqrt(math.Pi/8))
		test.That(t, m["ls"+pol+"_IRREG_max_value"], test.ShouldAlmostEqual, irreg)
		test.That(t, m["ls"+pol+"_INERTIA_max_value"], test.ShouldAlmostEqual, 0.125)
		test.That(t, m["ls"+pol+"_NCA_max_value"], test.ShouldAlmostEqual, 1/math.Sqrt(8))
	}
}

func TestUniformDisk(t *testing.T) {
	src, labels := vision.DiskFixture(20, 20, image.Point{10, 10}, 8, 1, 100)
	region := vision.FixtureRegion(src, labels, 1)
	size := vision.ObjectsFromLabels[uint8](labels)[0].Size

	e, err := New(DefaultConfig())
	test.That(t, err, test.ShouldBeNil)
	fs, err := e.Compute(region)
	test.That(t, err, test.ShouldBeNil)
	m := fs.Map()

	for name, v := range m {
		if name[:3] == "ls0" {
			test.That(t, v, test.ShouldEqual, 0.0)
		}
	}
	test.That(t, m["ls1_TOTAL_AREA_max_value"], test.ShouldAlmostEqual, 1.0)
	test.That(t, m["ls1_TOTAL_AREA_avg_value"], test.ShouldAlmostEqual, 30.0/31)
	test.That(t, m["ls1_TOTAL_AREA_sample_mean"], test.ShouldAlmostEqual, 15.5)
	test.That(t, m["ls1_TOTAL_AREA_sample_stddev"], test.ShouldAlmostEqual, math.Sqrt(899.0/12))
	test.That(t, m["ls1_DISP_max_value"], test.ShouldAlmostEqual, 0.0)
	test.That(t, m["ls1_NCA_max_value"], test.ShouldAlmostEqual, 1/math.Sqrt(float64(size)))
	// a digital disk is close to the ideal shape
	test.That(t, m["ls1_IRREG_max_value"], test.ShouldBeBetween, -0.1, 0.2)
}

func TestTooFewLevels(t *testing.T) {
	e, err := New(Config{Greylevels: 2})
	test.That(t, err, test.ShouldBeNil)
	fs, err := e.Compute(twoBlocks())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(fs), test.ShouldEqual, 48)
	for _, f := range fs {
		test.That(t, f.Value, test.ShouldEqual, 0.0)
	}
}

func TestSweepIgnoresSinglePixels(t *testing.T) {
	roi := &rimage.ROI{
		Source: rimage.NewGridFromData(5, 1, []int{2, 0, 2, 2, 0}),
		Mask:   rimage.NewGridFromData(5, 1, []uint8{1, 1, 1, 1, 1}),
	}
	curves := Sweep(roi, 3, Above)
	test.That(t, len(curves[TotalArea]), test.ShouldEqual, 1)
	test.That(t, curves[TotalArea][0], test.ShouldAlmostEqual, 2.0/5)
	test.That(t, curves[RegionCount][0], test.ShouldAlmostEqual, 1/math.Sqrt(5))

	empty := &rimage.ROI{Source: rimage.NewGrid[int](2, 2), Mask: rimage.NewGrid[uint8](2, 2)}
	test.That(t, Sweep(empty, 8, Above)[TotalArea], test.ShouldBeNil)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{0, 2, 0, 2}, 5)
	test.That(t, s.Max, test.ShouldEqual, 2.0)
	test.That(t, s.Average, test.ShouldAlmostEqual, 1.0)
	test.That(t, s.SampleMean, test.ShouldAlmostEqual, 3.0)
	test.That(t, s.SampleStdDev, test.ShouldAlmostEqual, 1.0)

	test.That(t, Summarize([]float64{0, 0}, 4), test.ShouldResemble, Summary{})
	test.That(t, Summarize(nil, 4), test.ShouldResemble, Summary{})

	single := Summarize([]float64{0.7}, 3)
	test.That(t, single.SampleMean, test.ShouldAlmostEqual, 1.0)
	test.That(t, single.SampleStdDev, test.ShouldAlmostEqual, 0.0)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	test.That(t, cfg.Validate("levelset"), test.ShouldBeNil)
	cfg.Greylevels = 0
	test.That(t, cfg.Validate("levelset").Error(), test.ShouldContainSubstring, `"greylevels" is required`)
	cfg.Greylevels = rimage.MaxGreylevels + 1
	test.That(t, cfg.Validate("levelset"), test.ShouldNotBeNil)
	cfg = Config{Greylevels: 8, MaxValue: -1}
	test.That(t, cfg.Validate("levelset"), test.ShouldNotBeNil)
}
