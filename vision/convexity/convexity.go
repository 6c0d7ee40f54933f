// Package convexity measures how an object deviates from its convex hull.
package convexity

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"go.viam.com/morphometry/rimage"
	"go.viam.com/morphometry/spatialmath"
	"go.viam.com/morphometry/utils"
	"go.viam.com/morphometry/vision"
)

// Name is the engine name.
const Name = "convexity"

const (
	keyPrefix = "ch"
	// largestClumps is how many of the biggest clumps are reported.
	largestClumps = 3
)

// Config describes the hull deviation analysis.
type Config struct {
	// SignificantArea is the clump size, in pixels, above which a clump counts
	// towards ch_cc.
	SignificantArea int `json:"significant_area"`
}

// DefaultConfig counts clumps larger than 16 pixels as significant.
func DefaultConfig() Config {
	return Config{SignificantArea: 16}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.SignificantArea <= 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "significant_area")
	}
	return nil
}

// Deviation is the residue analysis of one object.
type Deviation struct {
	ConvexArea    int
	AreaRatio     float64
	Rugosity      float64
	ACD           float64
	Significant   int
	ClumpCount    int
	Largest       [largestClumps]float64
	ClumpMean     float64
	ClumpVariance float64
}

// Engine is the convex hull deviation engine.
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

// Compute crops r with a one pixel border and analyzes its hull residue.
func (e *Engine) Compute(r vision.Region) (vision.Features, error) {
	roi, err := r.Crop(rimage.CropOptions{Border: 1})
	if err != nil {
		return nil, errors.Wrap(err, "cropping region")
	}
	d := Analyze(roi, e.cfg.SignificantArea)

	var fs vision.Features
	key := func(stat string) vision.Key { return vision.Key{Engine: keyPrefix, Stat: stat} }
	fs.Add(key("convex_area"), float64(d.ConvexArea))
	fs.Add(key("area_ratio"), d.AreaRatio)
	fs.Add(key("rugosity"), d.Rugosity)
	fs.Add(key("acd"), d.ACD)
	fs.Add(key("cc"), float64(d.Significant))
	fs.Add(key("clump_count"), float64(d.ClumpCount))
	for i, v := range d.Largest {
		fs.Add(vision.Key{Engine: keyPrefix, Stat: "largest", Index: i + 1}, v)
	}
	fs.Add(key("clump_mean"), d.ClumpMean)
	fs.Add(key("clump_var"), d.ClumpVariance)
	return fs, nil
}

// Analyze compares the object mask of roi with its filled convex hull. Residue
// components of a single pixel are digitization noise and are not clumps.
func Analyze(roi *rimage.ROI, significantArea int) Deviation {
	d := Deviation{AreaRatio: 1, Rugosity: 1}
	mask := roi.Mask
	objArea := roi.Area()
	if objArea == 0 {
		return d
	}

	hull := rimage.FillPolygon(spatialmath.ConvexHull(roi.Points()), mask.Width(), mask.Height())
	residue := rimage.NewGrid[uint8](mask.Width(), mask.Height())
	hd, md, rd := hull.Data(), mask.Data(), residue.Data()
	for i := range md {
		if md[i] != 0 {
			hd[i] = 1
		} else if hd[i] != 0 {
			rd[i] = 1
		}
	}

	d.ConvexArea = rimage.Count(hull)
	d.AreaRatio = float64(objArea) / float64(d.ConvexArea)
	d.Rugosity = utils.SafeDiv(
		float64(rimage.BoundaryCount(hull, rimage.Neighbors8)),
		float64(rimage.BoundaryCount(mask, rimage.Neighbors8)))

	labels, n := rimage.Label(residue, rimage.Neighbors8)
	clumps := lo.Filter(rimage.ComponentStats(labels, n), func(c rimage.Component, _ int) bool {
		return c.Area > 1
	})
	if len(clumps) == 0 {
		return d
	}

	centroid := roi.Centroid()
	areas := make([]float64, len(clumps))
	var weighted float64
	for i, c := range clumps {
		areas[i] = float64(c.Area)
		weighted += areas[i] * c.Centroid.Sub(centroid).Norm()
		if c.Area > significantArea {
			d.Significant++
		}
	}
	d.ClumpCount = len(clumps)
	d.ACD = weighted / (float64(objArea) * float64(len(clumps)))

	sorted := append([]float64(nil), areas...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	for i := 0; i < largestClumps && i < len(sorted); i++ {
		d.Largest[i] = sorted[i] / float64(objArea)
	}
	d.ClumpMean, d.ClumpVariance = stat.PopMeanVariance(areas, nil)
	return d
}
