// Package levelset sweeps a grey level threshold over an object and summarizes
// the shape of the sub-regions found above and below every level.
package levelset

import (
	"image"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"go.viam.com/morphometry/rimage"
	"go.viam.com/morphometry/utils"
	"go.viam.com/morphometry/vision"
)

// Name is the engine name.
const Name = "levelset"

const keyPrefix = "ls"

// Polarity selects which side of a threshold is foreground.
type Polarity int

const (
	// Above takes pixels with value > t.
	Above Polarity = iota
	// AtOrBelow takes masked pixels with value <= t.
	AtOrBelow
)

// Curve is one per-threshold measurement.
type Curve int

// The curves, in output order.
const (
	Irregularity Curve = iota
	Displacement
	Inertia
	ClumpArea
	TotalArea
	RegionCount
	numCurves
)

var curveNames = [numCurves]string{"IRREG", "DISP", "INERTIA", "CLUMP_AREA", "TOTAL_AREA", "NCA"}

func (c Curve) String() string {
	return curveNames[c]
}

// Curves holds every curve of one polarity, indexed by threshold-1.
type Curves [numCurves][]float64

// Summary reduces one curve.
type Summary struct {
	Max          float64
	Average      float64
	SampleMean   float64
	SampleStdDev float64
}

// Engine is the levelset irregularity engine.
type Engine struct {
	cfg Config
}

// New returns an engine for a validated config.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(Name); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Name returns the engine name.
func (e *Engine) Name() string {
	return Name
}

// Compute sweeps r and emits four statistics for each curve and polarity.
func (e *Engine) Compute(r vision.Region) (vision.Features, error) {
	roi, err := r.Crop(rimage.CropOptions{Greylevels: e.cfg.Greylevels, MaxValue: e.cfg.MaxValue})
	if err != nil {
		return nil, errors.Wrap(err, "cropping region")
	}
	levels := e.cfg.Greylevels
	var fs vision.Features
	for _, pol := range []Polarity{Above, AtOrBelow} {
		curves := Sweep(roi, levels, pol)
		for c := Curve(0); c < numCurves; c++ {
			s := Summarize(curves[c], levels)
			k := vision.Key{Engine: keyPrefix, Variant: polarityVariant(pol), Curve: c.String()}
			fs.Add(withStat(k, "max_value"), s.Max)
			fs.Add(withStat(k, "avg_value"), s.Average)
			fs.Add(withStat(k, "sample_mean"), s.SampleMean)
			fs.Add(withStat(k, "sample_stddev"), s.SampleStdDev)
		}
	}
	return fs, nil
}

func polarityVariant(p Polarity) string {
	if p == Above {
		return "0"
	}
	return "1"
}

func withStat(k vision.Key, stat string) vision.Key {
	k.Stat = stat
	return k
}

// Sweep measures the sub-regions of roi at every threshold 1..levels-2. Fewer
// than three levels, or an empty object, give empty curves.
func Sweep(roi *rimage.ROI, levels int, pol Polarity) Curves {
	var curves Curves
	area := roi.Area()
	if levels < 3 || area == 0 {
		return curves
	}
	n := levels - 2
	for c := range curves {
		curves[c] = make([]float64, n)
	}

	objArea := float64(area)
	objCentroid := roi.Centroid()
	radius := math.Sqrt(objArea / math.Pi)
	// object pixels collapse to 2 above t and 1 at or below it; the other
	// polarity is ignored when labeling
	collapsed := rimage.NewGrid[uint8](roi.Width(), roi.Height())
	ignore := uint8(2)
	if pol == Above {
		ignore = 1
	}
	src, mask := roi.Source.Data(), roi.Mask.Data()

	for t := 1; t <= levels-2; t++ {
		bits := collapsed.Data()
		for i, m := range mask {
			switch {
			case m == 0:
				bits[i] = 0
			case src[i] > t:
				bits[i] = 2
			default:
				bits[i] = 1
			}
		}
		labels, count := rimage.LabelIgnoring(collapsed, rimage.Neighbors8, ignore)
		regions := measureRegions(labels, count)

		var totalArea, weightedIrreg, weightedDisp, inertia float64
		clumps := 0
		for _, reg := range regions {
			if reg.area <= 1 {
				continue
			}
			a := float64(reg.area)
			clumps++
			totalArea += a
			weightedIrreg += a * reg.irregularity()
			weightedDisp += a * reg.centroid.Sub(objCentroid).Norm()
			inertia += reg.inertia()
		}
		if clumps == 0 {
			continue
		}
		i := t - 1
		curves[Irregularity][i] = weightedIrreg / totalArea
		curves[Displacement][i] = utils.SafeDiv(weightedDisp/totalArea, radius)
		curves[Inertia][i] = inertia / float64(clumps)
		curves[ClumpArea][i] = totalArea / float64(clumps) / objArea
		curves[TotalArea][i] = totalArea / objArea
		curves[RegionCount][i] = float64(clumps) / math.Sqrt(objArea)
	}
	return curves
}

// Summarize reduces a curve indexed by threshold-1. The sample moments weight
// each threshold by its curve value and are zero when the curve sums to zero.
func Summarize(curve []float64, levels int) Summary {
	var s Summary
	if len(curve) == 0 {
		return s
	}
	total := floats.Sum(curve)
	s.Max = floats.Max(curve)
	s.Average = utils.SafeDiv(total, float64(levels-1))
	if total <= 0 {
		return s
	}
	thresholds := make([]float64, len(curve))
	for i := range thresholds {
		thresholds[i] = float64(i + 1)
	}
	mean, variance := stat.PopMeanVariance(thresholds, curve)
	s.SampleMean, s.SampleStdDev = mean, math.Sqrt(math.Max(variance, 0))
	return s
}

type region struct {
	area     int
	centroid r2.Point
	maxDist  float64
	sqDist   float64
}

// irregularity compares the farthest boundary pixel with the radius of a disk
// of the same area; a disk scores close to zero.
func (r region) irregularity() float64 {
	return (1+math.Sqrt(math.Pi)*r.maxDist)/math.Sqrt(float64(r.area)) - 1
}

func (r region) inertia() float64 {
	a := float64(r.area)
	return r.sqDist / (a * a)
}

func measureRegions(labels *rimage.Grid[int32], count int) []region {
	comps := rimage.ComponentStats(labels, count)
	regions := make([]region, count)
	for i, c := range comps {
		regions[i] = region{area: c.Area, centroid: c.Centroid}
	}
	for y := 0; y < labels.Height(); y++ {
		for x := 0; x < labels.Width(); x++ {
			l := labels.At(x, y)
			if l == 0 {
				continue
			}
			reg := &regions[l-1]
			d := r2.Point{X: float64(x), Y: float64(y)}.Sub(reg.centroid)
			reg.sqDist += d.Dot(d)
			if onBoundary(labels, x, y, l) {
				reg.maxDist = math.Max(reg.maxDist, d.Norm())
			}
		}
	}
	return regions
}

func onBoundary(labels *rimage.Grid[int32], x, y int, l int32) bool {
	p, bounds := image.Point{x, y}, labels.Bounds()
	for _, off := range rimage.Neighbors8.Offsets() {
		if rimage.Neighbors8.Outside(p, off, bounds) || labels.At(x+off.X, y+off.Y) != l {
			return true
		}
	}
	return false
}
