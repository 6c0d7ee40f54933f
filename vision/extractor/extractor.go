// Package extractor runs the feature engines over every object of a labeled
// image, one worker per object.
package extractor

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/morphometry/logging"
	"go.viam.com/morphometry/rimage"
	"go.viam.com/morphometry/utils"
	"go.viam.com/morphometry/vision"
	"go.viam.com/morphometry/vision/convexity"
	"go.viam.com/morphometry/vision/dynamics"
	"go.viam.com/morphometry/vision/granulometry"
	"go.viam.com/morphometry/vision/haralick"
	"go.viam.com/morphometry/vision/levelset"
	"go.viam.com/morphometry/vision/spots"
)

// Extractor computes features for batches of objects. It is safe for
// concurrent use.
type Extractor struct {
	engines []vision.Engine
	workers int
	logger  logging.Logger
}

// New validates cfg and builds its engines.
func New(cfg Config, logger logging.Logger) (*Extractor, error) {
	if err := cfg.Validate("extractor"); err != nil {
		return nil, err
	}
	var engines []vision.Engine
	add := func(name string, build func() (vision.Engine, error)) error {
		if !cfg.enabled(name) {
			return nil
		}
		e, err := build()
		if err != nil {
			return err
		}
		engines = append(engines, e)
		return nil
	}

	var err error
	if cfg.Haralick != nil {
		err = multierr.Append(err, add(haralick.Name, func() (vision.Engine, error) { return haralick.New(*cfg.Haralick) }))
	}
	if cfg.Levelset != nil {
		err = multierr.Append(err, add(levelset.Name, func() (vision.Engine, error) { return levelset.New(*cfg.Levelset) }))
	}
	if cfg.Convexity != nil {
		err = multierr.Append(err, add(convexity.Name, func() (vision.Engine, error) { return convexity.New(*cfg.Convexity) }))
	}
	if cfg.Granulometry != nil {
		err = multierr.Append(err, add(granulometry.Name, func() (vision.Engine, error) { return granulometry.New(*cfg.Granulometry) }))
	}
	if cfg.Dynamics != nil {
		err = multierr.Append(err, add(dynamics.Name, func() (vision.Engine, error) { return dynamics.New(*cfg.Dynamics) }))
	}
	if cfg.Spots != nil {
		err = multierr.Append(err, add(spots.Name, func() (vision.Engine, error) { return spots.New(*cfg.Spots) }))
	}
	if err != nil {
		return nil, err
	}
	return NewFromEngines(logger, cfg.Workers, engines...), nil
}

// NewFromEngines returns an extractor running the given engines in order. A nil
// logger means the global one.
func NewFromEngines(logger logging.Logger, workers int, engines ...vision.Engine) *Extractor {
	if logger == nil {
		logger = logging.Global()
	}
	return &Extractor{engines: engines, workers: workers, logger: logger}
}

// EngineNames returns the names of the engines that will run.
func (x *Extractor) EngineNames() []string {
	names := make([]string, 0, len(x.engines))
	for _, e := range x.engines {
		names = append(names, e.Name())
	}
	return names
}

// Extract computes features for every object from the shared read-only src and
// labels images and records them on the objects.
func Extract[S, L rimage.Pixel](
	ctx context.Context,
	x *Extractor,
	src rimage.Accessor[S],
	labels rimage.Accessor[L],
	objects []*vision.Object,
) error {
	regions := make([]vision.Region, len(objects))
	for i, obj := range objects {
		regions[i] = vision.NewRegion(src, labels, obj)
	}
	return x.ExtractRegions(ctx, objects, regions)
}

// ExtractRegions computes features for objects[i] from regions[i]. A failing
// engine only loses its own features for that object: every failure is
// logged, wrapped with the object label, and combined into the returned error
// while the rest of the batch completes.
func (x *Extractor) ExtractRegions(ctx context.Context, objects []*vision.Object, regions []vision.Region) error {
	if len(objects) != len(regions) {
		return utils.NewPreconditionError("%d objects but %d regions", len(objects), len(regions))
	}
	return utils.ForEachParallel(ctx, len(objects), x.workers, func(ctx context.Context, idx int) error {
		return x.extractOne(objects[idx], regions[idx])
	})
}

func (x *Extractor) extractOne(obj *vision.Object, r vision.Region) error {
	start := time.Now()
	x.logger.Debugw("extracting object", "label", obj.Label, "bbox", obj.BoundingBox)

	var errs error
	for _, e := range x.engines {
		fs, err := compute(e, r)
		if err != nil {
			x.logger.Warnw("engine failed", "label", obj.Label, "engine", e.Name(), "error", err)
			errs = multierr.Append(errs, errors.Wrapf(err, "object %d: engine %s", obj.Label, e.Name()))
			continue
		}
		fs.Record(obj)
	}

	x.logger.Debugw("extracted object", "label", obj.Label, "features", len(obj.Names()), "duration", time.Since(start))
	return errs
}

// compute runs one engine, turning a panic into an error.
func compute(e vision.Engine, r vision.Region) (fs vision.Features, err error) {
	defer func() {
		if thePanic := recover(); thePanic != nil {
			fs, err = nil, utils.NewPanicError(thePanic)
		}
	}()
	return e.Compute(r)
}
