package extractor

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/morphometry/utils"
	"go.viam.com/morphometry/vision/convexity"
	"go.viam.com/morphometry/vision/dynamics"
	"go.viam.com/morphometry/vision/granulometry"
	"go.viam.com/morphometry/vision/haralick"
	"go.viam.com/morphometry/vision/levelset"
	"go.viam.com/morphometry/vision/spots"
)

// EngineNames lists every engine in the order the extractor runs them.
var EngineNames = []string{
	haralick.Name,
	levelset.Name,
	convexity.Name,
	granulometry.Name,
	dynamics.Name,
	spots.Name,
}

// A Config describes which engines run and how.
type Config struct {
	// Workers bounds how many objects are processed at once; zero uses
	// utils.ParallelFactor.
	Workers int `json:"workers,omitempty"`
	// Engines restricts the run to the named engines; empty runs every
	// configured engine.
	Engines []string `json:"engines,omitempty"`

	Haralick     *haralick.Config     `json:"haralick,omitempty"`
	Levelset     *levelset.Config     `json:"levelset,omitempty"`
	Convexity    *convexity.Config    `json:"convexity,omitempty"`
	Granulometry *granulometry.Config `json:"granulometry,omitempty"`
	Dynamics     *dynamics.Config     `json:"dynamics,omitempty"`
	Spots        *spots.Config        `json:"spots,omitempty"`
}

// DefaultConfig enables every engine with its defaults.
func DefaultConfig() Config {
	h := haralick.DefaultConfig()
	l := levelset.DefaultConfig()
	c := convexity.DefaultConfig()
	g := granulometry.DefaultConfig()
	d := dynamics.DefaultConfig()
	s := spots.DefaultConfig()
	return Config{
		Haralick:     &h,
		Levelset:     &l,
		Convexity:    &c,
		Granulometry: &g,
		Dynamics:     &d,
		Spots:        &s,
	}
}

// ConfigFromAttributes decodes attrs over DefaultConfig, so only the settings
// that differ from the defaults need to be given. Unknown keys are an error.
func ConfigFromAttributes(attrs map[string]interface{}) (Config, error) {
	cfg := DefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &cfg,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(attrs); err != nil {
		return Config{}, errors.Wrap(err, "decoding extractor attributes")
	}
	return cfg, nil
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.Workers < 0 {
		return utils.NewConfigValidationError(path, errors.New("workers cannot be negative"))
	}
	for idx, name := range cfg.Engines {
		if !lo.Contains(EngineNames, name) {
			return utils.NewConfigValidationError(fmt.Sprintf("%s.%s.%d", path, "engines", idx),
				errors.Errorf("unknown engine %q", name))
		}
	}
	sub := func(name string) string { return fmt.Sprintf("%s.%s", path, name) }
	if cfg.Haralick != nil {
		if err := cfg.Haralick.Validate(sub(haralick.Name)); err != nil {
			return err
		}
	}
	if cfg.Levelset != nil {
		if err := cfg.Levelset.Validate(sub(levelset.Name)); err != nil {
			return err
		}
	}
	if cfg.Convexity != nil {
		if err := cfg.Convexity.Validate(sub(convexity.Name)); err != nil {
			return err
		}
	}
	if cfg.Granulometry != nil {
		if err := cfg.Granulometry.Validate(sub(granulometry.Name)); err != nil {
			return err
		}
	}
	if cfg.Dynamics != nil {
		if err := cfg.Dynamics.Validate(sub(dynamics.Name)); err != nil {
			return err
		}
	}
	if cfg.Spots != nil {
		if err := cfg.Spots.Validate(sub(spots.Name)); err != nil {
			return err
		}
	}
	return nil
}

func (cfg *Config) enabled(name string) bool {
	return len(cfg.Engines) == 0 || lo.Contains(cfg.Engines, name)
}
