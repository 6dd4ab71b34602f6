package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/piwi3910/CaseCut/internal/engine"
	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/gcode"
	"github.com/piwi3910/CaseCut/internal/model"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	if err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	if cfg.Stock.Width != 2440 || cfg.Stock.Height != 1220 {
		t.Errorf("expected 2440 x 1220 stock, got %g x %g", cfg.Stock.Width, cfg.Stock.Height)
	}
	if cfg.Stock.Kerf != 3 {
		t.Errorf("expected kerf 3, got %g", cfg.Stock.Kerf)
	}
	if cfg.Nesting.Algorithm != "shelf" {
		t.Errorf("expected shelf algorithm, got %q", cfg.Nesting.Algorithm)
	}
	if cfg.GCode != gcode.DefaultSettings() {
		t.Errorf("expected default gcode settings, got %+v", cfg.GCode)
	}
	if cfg.PricingModel() != model.DefaultPricing() {
		t.Errorf("expected default pricing, got %+v", cfg.PricingModel())
	}
	if cfg.Pipeline.Workers != 0 {
		t.Errorf("expected workers 0, got %d", cfg.Pipeline.Workers)
	}
	if !cfg.Pipeline.Contour || !cfg.Pipeline.BoundsCheck {
		t.Error("expected contour and bounds check enabled by default")
	}
	if cfg.Log.Level != "info" || cfg.Log.JSON {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
}

func TestDefaultMatchesLoadWithViper(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		t.Fatal(err)
	}
	if *Default() != *cfg {
		t.Errorf("Default() = %+v, want %+v", *Default(), *cfg)
	}
}

func TestNestingSettings(t *testing.T) {
	cfg := Default()
	cfg.Nesting.Algorithm = "guillotine"
	cfg.Stock.Width = 2800
	cfg.Stock.Height = 2070
	cfg.Stock.Kerf = 4

	ns, err := cfg.NestingSettings()
	if err != nil {
		t.Fatal(err)
	}
	want := model.NestingSettings{
		Algorithm: model.AlgorithmGuillotine,
		Stock:     model.StockSheet{Width: 2800, Height: 2070},
		Kerf:      4,
	}
	if ns != want {
		t.Errorf("NestingSettings() = %+v, want %+v", ns, want)
	}

	cfg.Nesting.Algorithm = "tetris"
	if _, err := cfg.NestingSettings(); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}

func TestGeneticSettings(t *testing.T) {
	cfg := Default()
	if got := cfg.GeneticSettings(); got != engine.DefaultGeneticConfig() {
		t.Errorf("expected engine defaults, got %+v", got)
	}

	cfg.Nesting.Genetic.PopulationSize = 10
	cfg.Nesting.Genetic.Generations = 5
	cfg.Nesting.Genetic.Seed = 7
	got := cfg.GeneticSettings()
	if got.PopulationSize != 10 || got.Generations != 5 || got.Seed != 7 {
		t.Errorf("overrides not applied: %+v", got)
	}
	if got.TournamentSize != engine.DefaultGeneticConfig().TournamentSize {
		t.Errorf("tournament size should keep the engine default, got %d", got.TournamentSize)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "casecut.toml")
	content := `
[stock]
width = 2800
kerf = 4.5

[nesting]
algorithm = "genetic"

[nesting.genetic]
generations = 20

[pricing]
hinge_price = 4.25

[gcode]
safe_z = 25
decimal_places = 2

[pipeline]
workers = 3
contour = false

[log]
level = "debug"
json = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Stock.Width != 2800 || cfg.Stock.Height != 1220 {
		t.Errorf("expected 2800 x 1220 (height defaulted), got %g x %g", cfg.Stock.Width, cfg.Stock.Height)
	}
	if cfg.Stock.Kerf != 4.5 {
		t.Errorf("expected kerf 4.5, got %g", cfg.Stock.Kerf)
	}
	if cfg.Nesting.Algorithm != "genetic" || cfg.Nesting.Genetic.Generations != 20 {
		t.Errorf("nesting not loaded: %+v", cfg.Nesting)
	}
	if cfg.Pricing.HingePrice != 4.25 || cfg.Pricing.PricePerSquareMeter != 20 {
		t.Errorf("pricing not merged with defaults: %+v", cfg.Pricing)
	}
	if cfg.GCode.SafeZ != 25 || cfg.GCode.DecimalPlaces != 2 {
		t.Errorf("gcode not loaded: %+v", cfg.GCode)
	}
	if cfg.GCode.ClearanceZ != gcode.DefaultClearanceZ {
		t.Errorf("clearance_z should keep its default, got %g", cfg.GCode.ClearanceZ)
	}
	if cfg.Pipeline.Workers != 3 || cfg.Pipeline.Contour {
		t.Errorf("pipeline not loaded: %+v", cfg.Pipeline)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.JSON {
		t.Errorf("log not loaded: %+v", cfg.Log)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CASECUT_STOCK_KERF", "5")
	t.Setenv("CASECUT_NESTING_ALGORITHM", "guillotine")
	t.Setenv("CASECUT_PIPELINE_WORKERS", "2")

	v := NewViper()
	cfg, err := LoadWithViper(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Stock.Kerf != 5 {
		t.Errorf("expected kerf 5 from env, got %g", cfg.Stock.Kerf)
	}
	if cfg.Nesting.Algorithm != "guillotine" {
		t.Errorf("expected guillotine from env, got %q", cfg.Nesting.Algorithm)
	}
	if cfg.Pipeline.Workers != 2 {
		t.Errorf("expected 2 workers from env, got %d", cfg.Pipeline.Workers)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero width", func(c *Config) { c.Stock.Width = 0 }, true},
		{"negative height", func(c *Config) { c.Stock.Height = -5 }, true},
		{"negative kerf", func(c *Config) { c.Stock.Kerf = -1 }, true},
		{"zero kerf", func(c *Config) { c.Stock.Kerf = 0 }, false},
		{"NaN width", func(c *Config) { c.Stock.Width = math.NaN() }, true},
		{"infinite height", func(c *Config) { c.Stock.Height = math.Inf(1) }, true},
		{"NaN kerf", func(c *Config) { c.Stock.Kerf = math.NaN() }, true},
		{"infinite kerf", func(c *Config) { c.Stock.Kerf = math.Inf(1) }, true},
		{"unknown algorithm", func(c *Config) { c.Nesting.Algorithm = "tetris" }, true},
		{"empty algorithm", func(c *Config) { c.Nesting.Algorithm = "" }, false},
		{"mutation rate above one", func(c *Config) { c.Nesting.Genetic.MutationRate = 1.5 }, true},
		{"negative hinge price", func(c *Config) { c.Pricing.HingePrice = -1 }, true},
		{"safe below clearance", func(c *Config) { c.GCode.SafeZ = 1; c.GCode.ClearanceZ = 2 }, true},
		{"zero clearance", func(c *Config) { c.GCode.ClearanceZ = 0 }, true},
		{"zero decimals", func(c *Config) { c.GCode.DecimalPlaces = 0 }, true},
		{"step over too large", func(c *Config) { c.GCode.StepOverRatio = 1.2 }, true},
		{"negative workers", func(c *Config) { c.Pipeline.Workers = -1 }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"upper case log level", func(c *Config) { c.Log.Level = "DEBUG" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStockIsInvalidDimension(t *testing.T) {
	cfg := Default()
	cfg.Stock.Width = 0
	if err := cfg.Validate(); !errors.Is(err, errors.ErrInvalidDimension) {
		t.Errorf("expected ErrInvalidDimension, got %v", err)
	}
}
