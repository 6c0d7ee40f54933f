// Package dynamics ranks the regional extrema of an object by persistence, on
// its intensities and on the distance to its boundary.
package dynamics

import (
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/morphometry/rimage"
	"go.viam.com/morphometry/utils"
	"go.viam.com/morphometry/vision"
)

// Name is the engine name.
const Name = "dynamics"

const keyPrefix = "dyn"

// Config describes the dynamics analysis.
type Config struct {
	Greylevels int     `json:"greylevels"`
	MaxValue   float64 `json:"max_value,omitempty"`
	// Threshold is the smallest dynamic counted by dyn*_count.
	Threshold float64 `json:"threshold"`
	// Top is how many of the largest values are reported.
	Top int `json:"top"`
	// Distance enables the distance transform variant.
	Distance bool `json:"distance"`
	// MinRadius drops distance maxima closer than this to the boundary.
	MinRadius float64 `json:"min_radius"`
}

// DefaultConfig returns the default dynamics settings.
func DefaultConfig() Config {
	return Config{Greylevels: 256, Threshold: 3, Top: 3, Distance: true, MinRadius: 2}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.Greylevels < 0 || cfg.Greylevels > rimage.MaxGreylevels {
		return utils.NewConfigValidationError(path,
			errors.Errorf("greylevels must be in [0, %d], got %d", rimage.MaxGreylevels, cfg.Greylevels))
	}
	if cfg.Threshold < 0 {
		return utils.NewConfigValidationError(path, errors.New("threshold cannot be negative"))
	}
	if cfg.Top <= 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "top")
	}
	if cfg.MinRadius < 0 {
		return utils.NewConfigValidationError(path, errors.New("min_radius cannot be negative"))
	}
	return nil
}

// Engine is the dynamics engine.
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

// Compute emits minima and maxima dynamics of the intensities and, when
// enabled, the distance transform maxima.
func (e *Engine) Compute(r vision.Region) (vision.Features, error) {
	roi, err := r.Crop(rimage.CropOptions{Greylevels: e.cfg.Greylevels, MaxValue: e.cfg.MaxValue})
	if err != nil {
		return nil, errors.Wrap(err, "cropping region")
	}
	values := lo.Map(roi.Source.Data(), func(v, _ int) float64 { return float64(v) })
	mask := roi.Mask.Data()

	var fs vision.Features
	for _, maxima := range []bool{false, true} {
		variant := "min"
		if maxima {
			variant = "max"
		}
		dyn := Dynamics(Flood(values, mask, roi.Width(), maxima))
		e.summarize(&fs, variant, dyn, func(d float64) bool { return d >= e.cfg.Threshold })
	}

	if e.cfg.Distance {
		dt, err := rimage.DistanceTransform(roi.Mask)
		if err != nil {
			return nil, err
		}
		radii := DistanceMaxima(Flood(dt.Data(), mask, roi.Width(), true), e.cfg.MinRadius)
		largest := 0.0
		for _, v := range dt.Data() {
			if v > largest {
				largest = v
			}
		}
		normalized := lo.Map(radii, func(r float64, _ int) float64 { return utils.SafeDiv(r, largest) })
		e.summarize(&fs, "dist", normalized, func(float64) bool { return true })
	}
	return fs, nil
}

func (e *Engine) summarize(fs *vision.Features, variant string, values []float64, counted func(float64) bool) {
	key := func(stat string, idx int) vision.Key {
		return vision.Key{Engine: keyPrefix, Variant: variant, Stat: stat, Index: idx}
	}
	fs.Add(key("count", 0), float64(lo.CountBy(values, counted)))
	mean, err := stats.Mean(values)
	if err != nil {
		mean = 0
	}
	fs.Add(key("mean", 0), mean)
	for i, v := range Top(values, e.cfg.Top) {
		fs.Add(key("top", i+1), v)
	}
}

// Dynamics returns the nonzero dynamics of non-root extrema. The root basin of
// each component is the background every other basin drains into.
func Dynamics(extrema []Extremum) []float64 {
	return lo.FilterMap(extrema, func(e Extremum, _ int) (float64, bool) {
		return e.Dynamic, !e.Root && e.Dynamic > 0
	})
}

// DistanceMaxima returns the radius of every persistent distance maximum at
// least minRadius from the boundary. Unlike intensity dynamics the root is kept:
// it is the largest inscribed disk.
func DistanceMaxima(extrema []Extremum, minRadius float64) []float64 {
	return lo.FilterMap(extrema, func(e Extremum, _ int) (float64, bool) {
		return e.Level, e.Level >= minRadius && (e.Root || e.Dynamic > 0)
	})
}

// Top returns the n largest values in descending order, zero padded.
func Top(values []float64, n int) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	out := make([]float64, n)
	copy(out, sorted)
	return out
}
