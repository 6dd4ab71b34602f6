package config

import (
	"strings"

	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/model"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if !model.Positive(c.Stock.Width) || !model.Positive(c.Stock.Height) {
		return errors.Wrapf(errors.ErrInvalidDimension,
			"stock.width and stock.height must be positive, got %g x %g", c.Stock.Width, c.Stock.Height)
	}
	if !model.NonNegative(c.Stock.Kerf) {
		return errors.Wrapf(errors.ErrInvalidDimension, "stock.kerf must be >= 0, got %g", c.Stock.Kerf)
	}

	if _, err := model.ParseAlgorithm(c.Nesting.Algorithm); err != nil {
		return errors.Wrap(err, "nesting.algorithm")
	}
	if c.Nesting.Genetic.MutationRate < 0 || c.Nesting.Genetic.MutationRate > 1 {
		return errors.Newf("nesting.genetic.mutation_rate must be within 0..1, got %g", c.Nesting.Genetic.MutationRate)
	}

	if c.Pricing.PricePerSquareMeter < 0 || c.Pricing.HingePrice < 0 || c.Pricing.HandlePrice < 0 {
		return errors.New("pricing values must be >= 0")
	}

	// Heights: safe Z must clear the surface approach height
	if c.GCode.ClearanceZ <= 0 {
		return errors.Newf("gcode.clearance_z must be > 0, got %g", c.GCode.ClearanceZ)
	}
	if c.GCode.SafeZ < c.GCode.ClearanceZ {
		return errors.Newf("gcode.safe_z (%g) must be >= gcode.clearance_z (%g)", c.GCode.SafeZ, c.GCode.ClearanceZ)
	}
	if c.GCode.DecimalPlaces < 1 || c.GCode.DecimalPlaces > 6 {
		return errors.Newf("gcode.decimal_places must be within 1..6, got %d", c.GCode.DecimalPlaces)
	}
	if c.GCode.StepOverRatio <= 0 || c.GCode.StepOverRatio > 1 {
		return errors.Newf("gcode.step_over_ratio must be within (0, 1], got %g", c.GCode.StepOverRatio)
	}

	// Workers: 0 = one per CPU, negative = invalid
	if c.Pipeline.Workers < 0 {
		return errors.Newf("pipeline.workers must be >= 0, got %d", c.Pipeline.Workers)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.Newf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	return nil
}
