// Package pipeline runs the full manufacturing flow for a batch of cabinets:
// cut lists, nesting, machining jobs, G-code and cost.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/CaseCut/internal/cutlist"
	"github.com/piwi3910/CaseCut/internal/engine"
	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/gcode"
	"github.com/piwi3910/CaseCut/internal/logger"
	"github.com/piwi3910/CaseCut/internal/machining"
	"github.com/piwi3910/CaseCut/internal/model"
)

// Options configures a pipeline run.
type Options struct {
	Nesting     model.NestingSettings
	Genetic     engine.GeneticConfig
	Pricing     model.Pricing
	GCode       gcode.Settings
	Catalog     model.ToolCatalog
	Workers     int  // 0 means one per CPU
	Contour     bool // Cut every cabinet panel out along its perimeter
	BoundsCheck bool // Re-parse each program and warn about cuts outside the panel
}

// DefaultOptions returns shelf nesting on the default sheet, default prices,
// machine settings and tools.
func DefaultOptions() Options {
	return Options{
		Nesting:     model.DefaultNestingSettings(),
		Genetic:     engine.DefaultGeneticConfig(),
		Pricing:     model.DefaultPricing(),
		GCode:       gcode.DefaultSettings(),
		Catalog:     model.DefaultToolCatalog(),
		Contour:     true,
		BoundsCheck: true,
	}
}

// Input is one batch: cabinet designs plus free-standing panels such as DXF
// imports.
type Input struct {
	Designs []model.CabinetDesign
	Panels  []model.ComponentDimensions
}

// CutListResult is the output of the cut-list stage.
type CutListResult struct {
	Items      []model.CutListItem
	Components []model.ComponentDimensions
	DoorCount  int
}

// MachiningResult is the output of the machining stage, sorted by job id.
type MachiningResult struct {
	Jobs     []model.ManufacturingJob
	Programs []gcode.Program
	Warnings []string
}

// Result is everything a run produces.
type Result struct {
	Cabinets   []string
	Items      []model.CutListItem
	Sheets     []model.NestingSheet
	Components []model.ComponentDimensions
	Jobs       []model.ManufacturingJob
	Programs   []gcode.Program
	Cost       model.CostBreakdown
	Warnings   []string
	Duration   time.Duration
}

// Pipeline runs batches with a fixed set of options. It is safe for
// concurrent use.
type Pipeline struct {
	opts Options
	log  *zap.SugaredLogger
}

// New returns a Pipeline. An empty catalog is replaced by the default tools.
func New(opts Options) *Pipeline {
	if opts.Catalog.Len() == 0 {
		opts.Catalog = model.DefaultToolCatalog()
	}
	return &Pipeline{opts: opts, log: logger.Named("pipeline")}
}

// Options returns the options the pipeline was built with.
func (p *Pipeline) Options() Options {
	return p.opts
}

func (p *Pipeline) workers() int {
	if p.opts.Workers > 0 {
		return p.opts.Workers
	}
	return runtime.NumCPU()
}

// Run executes every stage. Cut lists and machining fan out over the worker
// pool; nesting and costing run once over the joined results. The output is
// identical for any worker count.
func (p *Pipeline) Run(ctx context.Context, in Input) (Result, error) {
	start := time.Now()
	if len(in.Designs) == 0 && len(in.Panels) == 0 {
		return Result{}, errors.New("nothing to manufacture: no cabinets or panels")
	}

	cl, err := p.CutList(ctx, in.Designs)
	if err != nil {
		return Result{}, err
	}

	sheets, err := p.Nest(cl.Items)
	if err != nil {
		return Result{}, err
	}

	components := nameComponents(append(append([]model.ComponentDimensions(nil), cl.Components...), in.Panels...))
	mr, err := p.Machine(ctx, components)
	if err != nil {
		return Result{}, err
	}

	cost := model.CalculateCost(cl.Items, sheets, p.opts.Nesting.Stock, p.opts.Pricing, cl.DoorCount)

	res := Result{
		Items:      cl.Items,
		Sheets:     sheets,
		Components: components,
		Jobs:       mr.Jobs,
		Programs:   mr.Programs,
		Cost:       cost,
		Warnings:   mr.Warnings,
		Duration:   time.Since(start),
	}
	for _, d := range in.Designs {
		res.Cabinets = append(res.Cabinets, d.Name)
	}

	p.log.Infow("Pipeline complete",
		logger.FieldCabinet, len(in.Designs),
		logger.FieldParts, len(cl.Items),
		logger.FieldSheets, len(sheets),
		logger.FieldOperations, countOperations(mr.Jobs),
		"warnings", len(mr.Warnings),
		logger.FieldDurationMS, res.Duration.Milliseconds(),
	)
	return res, nil
}

// CutList generates the cut list and machinable components for every
// design. With more than one design, item ids are prefixed with the cabinet
// slug so they stay unique. Cabinet names must be unique.
func (p *Pipeline) CutList(ctx context.Context, designs []model.CabinetDesign) (CutListResult, error) {
	if err := checkUniqueNames(designs); err != nil {
		return CutListResult{}, err
	}

	type cabinetParts struct {
		items      []model.CutListItem
		components []model.ComponentDimensions
	}
	parts := make([]cabinetParts, len(designs))
	batch := len(designs) > 1

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	for i, d := range designs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items, err := cutlist.Generate(d)
			if err != nil {
				return errors.Wrapf(err, "cabinet %q", d.Name)
			}
			comps := cutlist.Components(d, items, cutlist.Options{Contour: p.opts.Contour})
			if batch {
				items = cutlist.WithPrefix(items, d.Slug())
			}
			parts[i] = cabinetParts{items: items, components: comps}
			p.log.Debugw("Generated cut list",
				logger.FieldCabinet, d.Name,
				logger.FieldCount, len(items),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CutListResult{}, err
	}

	var res CutListResult
	for i, cp := range parts {
		res.Items = append(res.Items, cp.items...)
		res.Components = append(res.Components, cp.components...)
		res.DoorCount += designs[i].DoorCount
	}
	return res, nil
}

// Nest packs items onto stock sheets with the configured algorithm.
func (p *Pipeline) Nest(items []model.CutListItem) ([]model.NestingSheet, error) {
	opt := engine.New(p.opts.Nesting)
	opt.Genetic = p.opts.Genetic
	sheets, err := opt.Optimize(items)
	if err != nil {
		return nil, errors.Wrap(err, "nesting")
	}
	return sheets, nil
}

// Machine builds a manufacturing job and a G-code program for every
// component. Each component draws operation ids from its own sequence so
// ids do not depend on scheduling. Jobs and programs come back sorted by job
// id; warnings are prefixed with the component name.
func (p *Pipeline) Machine(ctx context.Context, components []model.ComponentDimensions) (MachiningResult, error) {
	components = nameComponents(components)
	if err := checkUniqueJobs(components); err != nil {
		return MachiningResult{}, err
	}

	type output struct {
		job      model.ManufacturingJob
		program  gcode.Program
		warnings []string
	}
	outputs := make([]output, len(components))
	margin := maxToolRadius(p.opts.Catalog)
	mlog := logger.Named("machining")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	for i, c := range components {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			job, err := machining.New(p.opts.Catalog, model.NewIDGenerator(), mlog).Generate(c)
			if err != nil {
				return errors.Wrapf(err, "component %q", c.Name)
			}
			program, err := gcode.New(p.opts.GCode, p.opts.Catalog).Generate(job)
			if err != nil {
				return errors.Wrapf(err, "component %q", c.Name)
			}

			out := output{job: job, program: program}
			for _, w := range job.Warnings {
				out.warnings = append(out.warnings, fmt.Sprintf("%s: %s", c.Name, w))
			}
			if p.opts.BoundsCheck {
				violations := gcode.CheckProgram(program, c.Width, c.Height, margin)
				out.warnings = append(out.warnings, gcode.FormatBoundsWarnings(c.Name, violations)...)
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return MachiningResult{}, err
	}

	sort.SliceStable(outputs, func(i, j int) bool {
		return outputs[i].job.ID < outputs[j].job.ID
	})

	var res MachiningResult
	for _, o := range outputs {
		res.Jobs = append(res.Jobs, o.job)
		res.Programs = append(res.Programs, o.program)
		res.Warnings = append(res.Warnings, o.warnings...)
	}
	return res, nil
}

func checkUniqueNames(designs []model.CabinetDesign) error {
	seen := make(map[string]bool, len(designs))
	for _, d := range designs {
		if seen[d.Name] {
			return errors.WithHint(
				errors.Newf("duplicate cabinet name %q", d.Name),
				"cabinet names prefix part ids and program names, so each must be unique")
		}
		seen[d.Name] = true
	}
	return nil
}

// nameComponents returns components with every name that has no usable
// slug replaced by "Panel <n>", n being the 1-based position.
func nameComponents(components []model.ComponentDimensions) []model.ComponentDimensions {
	out := make([]model.ComponentDimensions, len(components))
	copy(out, components)
	for i := range out {
		if model.Slugify(out[i].Name) == "" {
			out[i].Name = fmt.Sprintf("Panel %d", i+1)
		}
	}
	return out
}

// checkUniqueJobs rejects components whose names map to the same job id,
// since their programs would overwrite each other.
func checkUniqueJobs(components []model.ComponentDimensions) error {
	seen := make(map[string]string, len(components))
	for _, c := range components {
		slug := model.Slugify(c.Name)
		if prev, ok := seen[slug]; ok {
			return errors.Newf("components %q and %q share job id %q", prev, c.Name, slug)
		}
		seen[slug] = c.Name
	}
	return nil
}

func maxToolRadius(catalog model.ToolCatalog) float64 {
	var r float64
	for _, t := range catalog.Tools() {
		if t.Radius() > r {
			r = t.Radius()
		}
	}
	return r
}

func countOperations(jobs []model.ManufacturingJob) int {
	n := 0
	for _, j := range jobs {
		n += len(j.Operations)
	}
	return n
}
