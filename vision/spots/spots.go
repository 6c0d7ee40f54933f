// Package spots counts small bright features inside an object.
package spots

import (
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"go.viam.com/morphometry/rimage"
	"go.viam.com/morphometry/utils"
	"go.viam.com/morphometry/vision"
)

// Name is the engine name and key prefix.
const Name = "spots"

// Config describes spot detection.
type Config struct {
	// Diameter is the largest extent of a structure still considered a spot.
	Diameter int `json:"diameter"`
	// Cutoff is the smallest residue, in quantized levels, marking a spot pixel.
	// Unless MaxValue is set each object is stretched to its own range, so the
	// cutoff is relative to the object's contrast.
	Cutoff     int `json:"cutoff"`
	Greylevels int `json:"greylevels"`
	// MaxValue fixes the intensity scale shared by all objects.
	MaxValue float64 `json:"max_value,omitempty"`
}

// DefaultConfig returns the default spot detection settings.
func DefaultConfig() Config {
	return Config{Diameter: 5, Cutoff: 20, Greylevels: 256}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.Diameter <= 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "diameter")
	}
	if cfg.Cutoff <= 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "cutoff")
	}
	if cfg.Greylevels < 0 || cfg.Greylevels > rimage.MaxGreylevels {
		return utils.NewConfigValidationError(path,
			errors.Errorf("greylevels must be in [0, %d], got %d", rimage.MaxGreylevels, cfg.Greylevels))
	}
	if cfg.MaxValue < 0 {
		return utils.NewConfigValidationError(path, errors.New("max_value cannot be negative"))
	}
	return nil
}

// Spot is one detected bright feature.
type Spot struct {
	Area          int
	MeanIntensity float64
}

// Engine is the spot detection engine.
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

// Compute detects spots in r and summarizes them.
func (e *Engine) Compute(r vision.Region) (vision.Features, error) {
	roi, err := r.Crop(rimage.CropOptions{Greylevels: e.cfg.Greylevels, MaxValue: e.cfg.MaxValue})
	if err != nil {
		return nil, errors.Wrap(err, "cropping region")
	}
	found := Detect(roi, e.cfg.Diameter, e.cfg.Cutoff)

	means := make(stats.Float64Data, len(found))
	areas := make(stats.Float64Data, len(found))
	for i, s := range found {
		means[i] = s.MeanIntensity
		areas[i] = float64(s.Area)
	}
	var fs vision.Features
	key := func(stat string) vision.Key { return vision.Key{Engine: Name, Stat: stat} }
	fs.Add(key("count"), float64(len(found)))
	fs.Add(key("mean_intensity"), orZero(means.Mean()))
	fs.Add(key("intensity_var"), orZero(means.PopulationVariance()))
	fs.Add(key("mean_area"), orZero(areas.Mean()))
	return fs, nil
}

// orZero maps the empty input error of the stats package to 0.
func orZero(v float64, err error) float64 {
	if err != nil {
		return 0
	}
	return v
}

// Detect returns the 8-connected groups of masked pixels whose value exceeds
// their diameter opening by at least cutoff, in raster order.
func Detect(roi *rimage.ROI, diameter, cutoff int) []Spot {
	opened := rimage.DiameterOpening(roi.Source, diameter, rimage.Neighbors8)
	bright := rimage.NewGrid[uint8](roi.Width(), roi.Height())
	src, op, mask, bits := roi.Source.Data(), opened.Data(), roi.Mask.Data(), bright.Data()
	for i := range src {
		if mask[i] != 0 && src[i]-op[i] >= cutoff {
			bits[i] = 1
		}
	}

	labels, n := rimage.Label(bright, rimage.Neighbors8)
	found := make([]Spot, n)
	sums := make([]float64, n)
	for i, l := range labels.Data() {
		if l == 0 {
			continue
		}
		found[l-1].Area++
		sums[l-1] += float64(src[i])
	}
	for i := range found {
		found[i].MeanIntensity = sums[i] / float64(found[i].Area)
	}
	return found
}
