// Package config loads CaseCut settings from defaults, an optional
// casecut.toml and CASECUT_* environment variables.
package config

import (
	"github.com/piwi3910/CaseCut/internal/engine"
	"github.com/piwi3910/CaseCut/internal/gcode"
	"github.com/piwi3910/CaseCut/internal/model"
)

// Config represents the complete CaseCut configuration
type Config struct {
	Stock    StockConfig    `mapstructure:"stock"`
	Nesting  NestingConfig  `mapstructure:"nesting"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	GCode    gcode.Settings `mapstructure:"gcode"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Log      LogConfig      `mapstructure:"log"`
}

// StockConfig describes the raw board and saw.
type StockConfig struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
	Kerf   float64 `mapstructure:"kerf"`
}

// NestingConfig selects the packing algorithm.
type NestingConfig struct {
	Algorithm string        `mapstructure:"algorithm"`
	Genetic   GeneticConfig `mapstructure:"genetic"`
}

// GeneticConfig tunes the genetic order search.
type GeneticConfig struct {
	PopulationSize int     `mapstructure:"population_size"`
	Generations    int     `mapstructure:"generations"`
	MutationRate   float64 `mapstructure:"mutation_rate"`
	Seed           int64   `mapstructure:"seed"`
}

// PricingConfig holds unit prices for the cost model.
type PricingConfig struct {
	PricePerSquareMeter float64 `mapstructure:"price_per_square_meter"`
	HingePrice          float64 `mapstructure:"hinge_price"`
	HandlePrice         float64 `mapstructure:"handle_price"`
}

// PipelineConfig controls batch runs.
type PipelineConfig struct {
	Workers     int    `mapstructure:"workers"`      // 0 means one per CPU
	OutputDir   string `mapstructure:"output_dir"`   // Default directory for `casecut run`
	Contour     bool   `mapstructure:"contour"`      // Cut every panel out along its perimeter
	BoundsCheck bool   `mapstructure:"bounds_check"` // Re-parse programs and flag cuts outside the panel
	Templates   string `mapstructure:"templates"`    // Cabinet template store
	Tools       string `mapstructure:"tools"`        // Tool rack merged onto the default catalog
}

// LogConfig controls the structured logger.
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// NestingSettings returns the optimizer settings described by the config.
func (c *Config) NestingSettings() (model.NestingSettings, error) {
	algo, err := model.ParseAlgorithm(c.Nesting.Algorithm)
	if err != nil {
		return model.NestingSettings{}, err
	}
	return model.NestingSettings{
		Algorithm: algo,
		Stock:     model.StockSheet{Width: c.Stock.Width, Height: c.Stock.Height},
		Kerf:      c.Stock.Kerf,
	}, nil
}

// GeneticSettings returns the genetic search parameters, keeping engine
// defaults for the fields the config does not expose.
func (c *Config) GeneticSettings() engine.GeneticConfig {
	g := engine.DefaultGeneticConfig()
	if c.Nesting.Genetic.PopulationSize > 0 {
		g.PopulationSize = c.Nesting.Genetic.PopulationSize
	}
	if c.Nesting.Genetic.Generations > 0 {
		g.Generations = c.Nesting.Genetic.Generations
	}
	if c.Nesting.Genetic.MutationRate > 0 {
		g.MutationRate = c.Nesting.Genetic.MutationRate
	}
	g.Seed = c.Nesting.Genetic.Seed
	return g
}

// PricingModel returns the configured prices.
func (c *Config) PricingModel() model.Pricing {
	return model.Pricing{
		PricePerSquareMeter: c.Pricing.PricePerSquareMeter,
		HingePrice:          c.Pricing.HingePrice,
		HandlePrice:         c.Pricing.HandlePrice,
	}
}
