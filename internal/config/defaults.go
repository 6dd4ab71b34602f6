package config

import (
	"github.com/spf13/viper"

	"github.com/piwi3910/CaseCut/internal/engine"
	"github.com/piwi3910/CaseCut/internal/gcode"
	"github.com/piwi3910/CaseCut/internal/model"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Stock defaults: full 8 x 4 ft board, 3 mm blade
	v.SetDefault("stock.width", model.DefaultSheetWidth)
	v.SetDefault("stock.height", model.DefaultSheetHeight)
	v.SetDefault("stock.kerf", model.DefaultKerf)

	// Nesting defaults
	genetic := engine.DefaultGeneticConfig()
	v.SetDefault("nesting.algorithm", string(model.AlgorithmShelf))
	v.SetDefault("nesting.genetic.population_size", genetic.PopulationSize)
	v.SetDefault("nesting.genetic.generations", genetic.Generations)
	v.SetDefault("nesting.genetic.mutation_rate", genetic.MutationRate)
	v.SetDefault("nesting.genetic.seed", genetic.Seed)

	// Pricing defaults
	pricing := model.DefaultPricing()
	v.SetDefault("pricing.price_per_square_meter", pricing.PricePerSquareMeter)
	v.SetDefault("pricing.hinge_price", pricing.HingePrice)
	v.SetDefault("pricing.handle_price", pricing.HandlePrice)

	// G-code defaults
	g := gcode.DefaultSettings()
	v.SetDefault("gcode.safe_z", g.SafeZ)
	v.SetDefault("gcode.clearance_z", g.ClearanceZ)
	v.SetDefault("gcode.decimal_places", g.DecimalPlaces)
	v.SetDefault("gcode.warmup_rpm", g.WarmupRPM)
	v.SetDefault("gcode.warmup_seconds", g.WarmupSeconds)
	v.SetDefault("gcode.dwell_seconds", g.DwellSeconds)
	v.SetDefault("gcode.step_over_ratio", g.StepOverRatio)

	// Pipeline defaults
	v.SetDefault("pipeline.workers", 0) // One per CPU
	v.SetDefault("pipeline.output_dir", "casecut-out")
	v.SetDefault("pipeline.contour", true)
	v.SetDefault("pipeline.bounds_check", true)
	v.SetDefault("pipeline.templates", "")
	v.SetDefault("pipeline.tools", "")

	// Log defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
}
