// Package commands implements the casecut subcommands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/piwi3910/CaseCut/internal/config"
	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/logger"
	"github.com/piwi3910/CaseCut/internal/model"
	"github.com/piwi3910/CaseCut/internal/pipeline"
	"github.com/piwi3910/CaseCut/internal/project"
)

// GlobalFlags are the persistent flags shared by every command.
type GlobalFlags struct {
	ConfigPath string
	LogJSON    bool
	LogLevel   string
	Workers    int
}

// cfg is loaded once by Setup before any command runs.
var cfg = config.Default()

// Setup loads the configuration, applies flag overrides and initializes the
// global logger.
func Setup(cmd *cobra.Command, flags GlobalFlags) error {
	loaded, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-json") {
		loaded.Log.JSON = flags.LogJSON
	}
	if cmd.Flags().Changed("log-level") {
		loaded.Log.Level = flags.LogLevel
	}
	if cmd.Flags().Changed("workers") {
		loaded.Pipeline.Workers = flags.Workers
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	if err := logger.Initialize(loaded.Log.JSON, loaded.Log.Level); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	cfg = loaded
	return nil
}

// batch is everything a command needs to run the pipeline.
type batch struct {
	Name     string
	Input    pipeline.Input
	Options  pipeline.Options
	Warnings []string
}

// pipelineOptions builds pipeline options from the loaded configuration.
func pipelineOptions() (pipeline.Options, error) {
	nesting, err := cfg.NestingSettings()
	if err != nil {
		return pipeline.Options{}, err
	}

	catalog := model.DefaultToolCatalog()
	if cfg.Pipeline.Tools != "" {
		if catalog, err = project.LoadTools(cfg.Pipeline.Tools); err != nil {
			return pipeline.Options{}, err
		}
	}

	return pipeline.Options{
		Nesting:     nesting,
		Genetic:     cfg.GeneticSettings(),
		Pricing:     cfg.PricingModel(),
		GCode:       cfg.GCode,
		Catalog:     catalog,
		Workers:     cfg.Pipeline.Workers,
		Contour:     cfg.Pipeline.Contour,
		BoundsCheck: cfg.Pipeline.BoundsCheck,
	}, nil
}

// templatePath returns the configured template store, or the per-user default.
func templatePath() string {
	if cfg.Pipeline.Templates != "" {
		return cfg.Pipeline.Templates
	}
	return project.DefaultTemplatePath()
}

// loadBatch reads a job file when one is given, otherwise builds a single
// cabinet from the design flags.
func loadBatch(args []string, df *designFlags) (batch, error) {
	opts, err := pipelineOptions()
	if err != nil {
		return batch{}, err
	}
	store, err := project.LoadTemplates(templatePath())
	if err != nil {
		return batch{}, err
	}

	if len(args) == 0 {
		design, err := df.design(store)
		if err != nil {
			return batch{}, err
		}
		return batch{
			Name:    design.Name,
			Input:   pipeline.Input{Designs: []model.CabinetDesign{design}},
			Options: opts,
		}, nil
	}

	job, err := project.LoadJob(args[0])
	if err != nil {
		return batch{}, err
	}
	designs, warnings, err := job.Designs(store)
	if err != nil {
		return batch{}, err
	}
	panels, panelWarnings, err := job.Components()
	if err != nil {
		return batch{}, err
	}

	opts.Catalog = job.ToolCatalog(opts.Catalog)
	if opts.Nesting, err = job.ApplyNesting(opts.Nesting); err != nil {
		return batch{}, err
	}
	opts.Pricing = job.ApplyPricing(opts.Pricing)

	logger.Named("cli").Infow("Loaded job",
		logger.FieldFile, args[0],
		logger.FieldCabinet, len(designs),
		logger.FieldParts, len(panels),
	)
	return batch{
		Name:     job.Name,
		Input:    pipeline.Input{Designs: designs, Panels: panels},
		Options:  opts,
		Warnings: append(warnings, panelWarnings...),
	}, nil
}
