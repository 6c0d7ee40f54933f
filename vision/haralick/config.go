package haralick

import (
	"fmt"

	"github.com/pkg/errors"

	"go.viam.com/morphometry/utils"
)

// MaxGreylevels bounds the dense co-occurrence matrix.
const MaxGreylevels = 1024

// Config describes the texture analysis.
type Config struct {
	Greylevels int   `json:"greylevels"`
	Distances  []int `json:"distances"`
	// MaxValue fixes the intensity range; zero stretches each object.
	MaxValue float64 `json:"max_value,omitempty"`
}

// DefaultConfig returns 32 grey levels at distance 1.
func DefaultConfig() Config {
	return Config{Greylevels: 32, Distances: []int{1}}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.Greylevels < 2 || cfg.Greylevels > MaxGreylevels {
		return utils.NewConfigValidationError(path,
			errors.Errorf("greylevels must be in [2, %d], got %d", MaxGreylevels, cfg.Greylevels))
	}
	if len(cfg.Distances) == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "distances")
	}
	for idx, d := range cfg.Distances {
		if d <= 0 {
			return utils.NewConfigValidationError(fmt.Sprintf("%s.%s.%d", path, "distances", idx),
				errors.Errorf("distance must be positive, got %d", d))
		}
	}
	if cfg.MaxValue < 0 {
		return utils.NewConfigValidationError(path, errors.New("max_value cannot be negative"))
	}
	return nil
}
