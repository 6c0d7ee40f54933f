// Package granulometry computes morphological size distributions of an object.
package granulometry

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"go.viam.com/morphometry/rimage"
	"go.viam.com/morphometry/utils"
	"go.viam.com/morphometry/vision"
)

// Name is the engine name and key prefix.
const Name = "granulometry"

// Mode selects the morphological filter.
type Mode string

// The supported filters.
const (
	Opening Mode = "opening"
	Closing Mode = "closing"
)

// Config describes the granulometry.
type Config struct {
	// Radii of the disk structuring elements, strictly increasing.
	Radii []int  `json:"radii"`
	Modes []Mode `json:"modes"`
	// Greylevels quantizes the object first; zero keeps raw intensities.
	Greylevels int `json:"greylevels,omitempty"`
}

// DefaultConfig opens with radii 1, 2, 3, 5 and 7.
func DefaultConfig() Config {
	return Config{Radii: []int{1, 2, 3, 5, 7}, Modes: []Mode{Opening}}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if len(cfg.Radii) == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "radii")
	}
	if err := checkRadii(cfg.Radii); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	if len(cfg.Modes) == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "modes")
	}
	for idx, m := range cfg.Modes {
		if m != Opening && m != Closing {
			return utils.NewConfigValidationError(fmt.Sprintf("%s.%s.%d", path, "modes", idx),
				errors.Errorf("unknown mode %q", m))
		}
	}
	if cfg.Greylevels < 0 || cfg.Greylevels > rimage.MaxGreylevels {
		return utils.NewConfigValidationError(path,
			errors.Errorf("greylevels must be in [0, %d], got %d", rimage.MaxGreylevels, cfg.Greylevels))
	}
	return nil
}

func checkRadii(radii []int) error {
	for i, r := range radii {
		if r <= 0 {
			return utils.NewPreconditionError("radius %d at index %d is not positive", r, i)
		}
		if i > 0 && r <= radii[i-1] {
			return utils.NewPreconditionError("radii must be strictly increasing, got %d after %d", r, radii[i-1])
		}
	}
	return nil
}

// Engine is the granulometry engine.
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

// Compute emits, per mode and radius, the area and volume divergence. The
// first radius carries the cumulative value, later radii the increment over
// the previous one.
func (e *Engine) Compute(r vision.Region) (vision.Features, error) {
	largest := e.cfg.Radii[len(e.cfg.Radii)-1]
	roi, err := r.Crop(rimage.CropOptions{Greylevels: e.cfg.Greylevels, Border: largest})
	if err != nil {
		return nil, errors.Wrap(err, "cropping region")
	}
	var fs vision.Features
	for _, mode := range e.cfg.Modes {
		area, volume, err := Curves(roi, e.cfg.Radii, mode)
		if err != nil {
			return nil, err
		}
		curve := ""
		if mode == Closing {
			curve = "close"
		}
		for i, radius := range e.cfg.Radii {
			fs.Add(vision.Key{Engine: Name, Curve: curve, Stat: "area", Index: radius}, differential(area, i))
			fs.Add(vision.Key{Engine: Name, Curve: curve, Stat: "volume", Index: radius}, differential(volume, i))
		}
	}
	return fs, nil
}

func differential(curve []float64, i int) float64 {
	if i == 0 {
		return curve[0]
	}
	return curve[i] - curve[i-1]
}

// Curves filters roi with disks of increasing radius, each step starting from
// the previous result, and returns the cumulative area and volume divergence
// from the original object after every step. Closing results are restricted to
// the object mask.
func Curves(roi *rimage.ROI, radii []int, mode Mode) (area, volume []float64, err error) {
	if err := checkRadii(radii); err != nil {
		return nil, nil, err
	}
	if mode != Opening && mode != Closing {
		return nil, nil, utils.NewPreconditionError("unknown mode %q", mode)
	}
	area = make([]float64, len(radii))
	volume = make([]float64, len(radii))

	cur := roi.Source.Clone()
	rimage.Multiply(cur, roi.Mask)
	area0, volume0 := float64(rimage.Count(cur)), rimage.Sum(cur)
	for i, radius := range radii {
		if mode == Opening {
			cur, err = rimage.Open(cur, radius)
		} else {
			cur, err = rimage.Close(cur, radius)
		}
		if err != nil {
			return nil, nil, err
		}
		rimage.Multiply(cur, roi.Mask)
		area[i] = utils.SafeDiv(math.Abs(float64(rimage.Count(cur))-area0), area0)
		volume[i] = utils.SafeDiv(math.Abs(rimage.Sum(cur)-volume0), volume0)
	}
	return area, volume, nil
}
