package levelset

import (
	"github.com/pkg/errors"

	"go.viam.com/morphometry/rimage"
	"go.viam.com/morphometry/utils"
)

// Config describes the threshold sweep.
type Config struct {
	Greylevels int     `json:"greylevels"`
	MaxValue   float64 `json:"max_value,omitempty"`
}

// DefaultConfig sweeps 32 grey levels.
func DefaultConfig() Config {
	return Config{Greylevels: 32}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.Greylevels <= 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "greylevels")
	}
	if cfg.Greylevels > rimage.MaxGreylevels {
		return utils.NewConfigValidationError(path,
			errors.Errorf("greylevels cannot exceed %d", rimage.MaxGreylevels))
	}
	if cfg.MaxValue < 0 {
		return utils.NewConfigValidationError(path, errors.New("max_value cannot be negative"))
	}
	return nil
}
