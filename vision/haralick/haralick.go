// Package haralick computes grey level co-occurrence texture features.
package haralick

import (
	"github.com/pkg/errors"

	"go.viam.com/morphometry/rimage"
	"go.viam.com/morphometry/vision"
)

// Name is the engine name and key prefix.
const Name = "haralick"

// Engine computes texture statistics at every configured distance.
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

// Compute crops r once and emits one statistic set per distance.
func (e *Engine) Compute(r vision.Region) (vision.Features, error) {
	roi, err := r.Crop(rimage.CropOptions{Greylevels: e.cfg.Greylevels, MaxValue: e.cfg.MaxValue})
	if err != nil {
		return nil, errors.Wrap(err, "cropping region")
	}
	var fs vision.Features
	for _, d := range e.cfg.Distances {
		s := NewMatrix(roi, e.cfg.Greylevels, d).Statistics()
		for _, stat := range s.named() {
			fs.Add(vision.Key{Engine: Name, Curve: stat.name, Index: d}, stat.value)
		}
	}
	return fs, nil
}

type namedStat struct {
	name  string
	value float64
}

func (s Statistics) named() []namedStat {
	return []namedStat{
		{"ASM", s.ASM},
		{"IDM", s.IDM},
		{"ENTROPY", s.Entropy},
		{"VARIANCE", s.Variance},
		{"CONTRAST", s.Contrast},
		{"CORRELATION", s.Correlation},
		{"PROMINENCE", s.Prominence},
		{"SHADE", s.Shade},
		{"SUM_AVERAGE", s.SumAverage},
		{"SUM_VARIANCE", s.SumVariance},
		{"SUM_ENTROPY", s.SumEntropy},
		{"DIFF_AVERAGE", s.DiffAverage},
		{"DIFF_VARIANCE", s.DiffVariance},
		{"DIFF_ENTROPY", s.DiffEntropy},
		{"COV", s.CoefficientOfVariation},
	}
}
