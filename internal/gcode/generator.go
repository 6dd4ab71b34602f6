package gcode

import (
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/logger"
	"github.com/piwi3910/CaseCut/internal/model"
)

// Defaults for Settings.
const (
	DefaultSafeZ         = 15.0
	DefaultClearanceZ    = 2.0
	DefaultDecimalPlaces = 3
	DefaultWarmupRPM     = 12000
	DefaultWarmupSeconds = 5.0
	DefaultDwellSeconds  = 0.5
	DefaultStepOverRatio = 0.4
)

// UnknownToolNumber is emitted for catalog tools missing from the tool table.
const UnknownToolNumber = 99

// toolNumbers is the fixed rack layout. Numbers never depend on the order
// tools are used in.
var toolNumbers = map[string]int{
	model.ToolShelfPinDrill:  1,
	model.ToolHingeBore35mm:  2,
	model.ToolDadoRouter:     3,
	model.ToolProfileEndmill: 4,
	model.ToolPocketEndmill:  5,
}

// ToolNumber returns the T number for a tool id.
func ToolNumber(toolID string) int {
	if n, ok := toolNumbers[toolID]; ok {
		return n
	}
	return UnknownToolNumber
}

// Settings controls machine heights and formatting.
type Settings struct {
	SafeZ         float64 `mapstructure:"safe_z" toml:"safe_z" yaml:"safe_z" json:"safe_z"`                     // Rapid travel height
	ClearanceZ    float64 `mapstructure:"clearance_z" toml:"clearance_z" yaml:"clearance_z" json:"clearance_z"` // Just above the surface
	DecimalPlaces int     `mapstructure:"decimal_places" toml:"decimal_places" yaml:"decimal_places" json:"decimal_places"`
	WarmupRPM     int     `mapstructure:"warmup_rpm" toml:"warmup_rpm" yaml:"warmup_rpm" json:"warmup_rpm"`
	WarmupSeconds float64 `mapstructure:"warmup_seconds" toml:"warmup_seconds" yaml:"warmup_seconds" json:"warmup_seconds"`
	DwellSeconds  float64 `mapstructure:"dwell_seconds" toml:"dwell_seconds" yaml:"dwell_seconds" json:"dwell_seconds"` // At the bottom of each drill hole
	StepOverRatio float64 `mapstructure:"step_over_ratio" toml:"step_over_ratio" yaml:"step_over_ratio" json:"step_over_ratio"`
}

// DefaultSettings returns the standard machine settings.
func DefaultSettings() Settings {
	return Settings{
		SafeZ:         DefaultSafeZ,
		ClearanceZ:    DefaultClearanceZ,
		DecimalPlaces: DefaultDecimalPlaces,
		WarmupRPM:     DefaultWarmupRPM,
		WarmupSeconds: DefaultWarmupSeconds,
		DwellSeconds:  DefaultDwellSeconds,
		StepOverRatio: DefaultStepOverRatio,
	}
}

// Generator produces G-code programs from manufacturing jobs.
type Generator struct {
	Settings Settings
	catalog  model.ToolCatalog
	now      func() time.Time
	log      *zap.SugaredLogger
}

// New returns a Generator. Zero settings fields fall back to defaults.
func New(settings Settings, catalog model.ToolCatalog) *Generator {
	d := DefaultSettings()
	if settings.SafeZ <= 0 {
		settings.SafeZ = d.SafeZ
	}
	if settings.ClearanceZ <= 0 {
		settings.ClearanceZ = d.ClearanceZ
	}
	if settings.DecimalPlaces <= 0 {
		settings.DecimalPlaces = d.DecimalPlaces
	}
	if settings.WarmupRPM <= 0 {
		settings.WarmupRPM = d.WarmupRPM
	}
	if settings.StepOverRatio <= 0 || settings.StepOverRatio > 1 {
		settings.StepOverRatio = d.StepOverRatio
	}
	return &Generator{
		Settings: settings,
		catalog:  catalog,
		now:      time.Now,
		log:      logger.Named("gcode"),
	}
}

// Generate builds the program for one job. Every operation's tool must be in
// the catalog.
func (g *Generator) Generate(job model.ManufacturingJob) (Program, error) {
	program := Program{
		JobID:       job.ID,
		Name:        job.Component.Name,
		GeneratedAt: g.now().UTC().Truncate(time.Second),
		Precision:   g.Settings.DecimalPlaces,
	}

	for _, op := range job.Operations {
		tool, ok := g.catalog.Lookup(op.Tool)
		if !ok {
			return Program{}, errors.WithDetailf(
				errors.Wrapf(errors.ErrUnknownToolReference, "operation %s (%s) uses tool %q", op.ID, op.Name, op.Tool),
				"job=%s", job.ID)
		}

		block := Block{
			OperationID: op.ID,
			Name:        op.Name,
			Tool:        tool.ID,
			ToolNumber:  ToolNumber(tool.ID),
		}
		block.Instructions = g.toolChange(op, tool, block.ToolNumber)

		var body []Instruction
		var err error
		switch op.Type {
		case model.OpDrill:
			body = g.drill(op, tool)
		case model.OpRoute, model.OpContour:
			body, err = g.route(op, tool)
		case model.OpPocket:
			body, err = g.pocket(op, tool)
		default:
			err = errors.Wrapf(errors.ErrMalformedGeometry, "operation %s has unknown type %q", op.ID, op.Type)
		}
		if err != nil {
			return Program{}, err
		}
		block.Instructions = append(block.Instructions, body...)

		program.Operations = append(program.Operations, block)
		program.EstimatedTime += op.EstimatedTime
	}

	program.Header = g.header(job, program)
	program.Footer = g.footer()

	g.log.Debugw("Generated G-code program",
		logger.FieldJobID, job.ID,
		logger.FieldOperations, len(program.Operations),
	)
	return program, nil
}

// FileName returns the .nc file name for a component.
func FileName(component string) string {
	name := strings.ReplaceAll(strings.TrimSpace(component), " ", "_")
	if name == "" {
		name = "program"
	}
	return name + ".nc"
}

func (g *Generator) header(job model.ManufacturingJob, p Program) []Instruction {
	c := job.Component
	s := g.Settings
	h := []Instruction{
		comment("CaseCut G-code: %s", c.Name),
		comment("Generated: %s", p.GeneratedAt.Format(time.RFC3339)),
		comment("Job: %s", job.ID),
		comment("Component: %.1f x %.1f x %.1f mm %s", c.Width, c.Height, c.Thickness, c.Material),
		comment("Operations: %d, estimated machining time: %s", len(p.Operations), p.EstimatedTime.Round(time.Second)),
	}
	for _, id := range job.ToolsUsed() {
		if t, ok := g.catalog.Lookup(id); ok {
			h = append(h, comment("T%d = %s, %gmm", ToolNumber(id), t.Name, t.Diameter))
		}
	}
	return append(h,
		words(code('G', 21)),
		words(code('G', 90)),
		words(code('G', 94)),
		words(code('G', 17)),
		words(code('G', 28)),
		words(code('G', 0), coord('Z', s.SafeZ)),
		words(code('M', 3), code('S', s.WarmupRPM)),
		words(code('G', 4), coord('P', s.WarmupSeconds)),
		words(code('M', 5)),
	)
}

func (g *Generator) footer() []Instruction {
	return []Instruction{
		comment("End of program"),
		words(code('M', 5)),
		words(code('G', 91), code('G', 28), code('Z', 0)),
		words(code('G', 91), code('G', 28), code('X', 0), code('Y', 0)),
		words(code('G', 90)),
		words(code('M', 30)),
	}
}

func (g *Generator) toolChange(op model.CNCOperation, tool model.Tool, number int) []Instruction {
	return []Instruction{
		comment("Operation %s: %s", op.ID, op.Name),
		comment("Tool T%d: %s, %gmm", number, tool.Name, tool.Diameter),
		words(code('M', 5)),
		words(code('T', number), code('M', 6)),
		words(code('M', 3), code('S', tool.RPM)),
	}
}

// drill emits a single peck at the operation's start point.
func (g *Generator) drill(op model.CNCOperation, tool model.Tool) []Instruction {
	s := g.Settings
	return []Instruction{
		words(code('G', 0), coord('X', op.StartPoint.X), coord('Y', op.StartPoint.Y)),
		words(code('G', 0), coord('Z', s.SafeZ)),
		words(code('G', 0), coord('Z', s.ClearanceZ)),
		words(code('G', 1), coord('Z', -op.Depth), coord('F', tool.PlungeRate)),
		words(code('G', 4), coord('P', s.DwellSeconds)),
		words(code('G', 0), coord('Z', s.SafeZ)),
	}
}

// route follows the path once per pass, stepping down each time. Closed
// paths return to their first point.
func (g *Generator) route(op model.CNCOperation, tool model.Tool) ([]Instruction, error) {
	if len(op.Path) < 2 {
		return nil, errors.WithDetailf(
			errors.Wrapf(errors.ErrMalformedGeometry, "operation %s path needs at least 2 points", op.ID),
			"points=%d", len(op.Path))
	}
	s := g.Settings
	start := op.Path[0]
	passes := max(op.Passes, 1)

	out := []Instruction{
		words(code('G', 0), coord('X', start.X), coord('Y', start.Y)),
		words(code('G', 0), coord('Z', s.ClearanceZ)),
	}
	for pass := 1; pass <= passes; pass++ {
		out = append(out,
			comment("Pass %d/%d", pass, passes),
			words(code('G', 1), coord('Z', -passDepth(op, pass)), coord('F', tool.PlungeRate)),
		)
		for _, pt := range op.Path[1:] {
			out = append(out, words(code('G', 1), coord('X', pt.X), coord('Y', pt.Y), coord('F', tool.FeedRate)))
		}
		if op.Closed {
			out = append(out, words(code('G', 1), coord('X', start.X), coord('Y', start.Y), coord('F', tool.FeedRate)))
		}
		if pass < passes {
			out = append(out,
				words(code('G', 0), coord('Z', s.ClearanceZ)),
				words(code('G', 0), coord('X', start.X), coord('Y', start.Y)),
			)
		}
	}
	return append(out, words(code('G', 0), coord('Z', s.SafeZ))), nil
}

// pocket clears the path's bounding box with a zig-zag raster along X, one
// raster per depth pass. The tool centre stays a radius inside the box.
func (g *Generator) pocket(op model.CNCOperation, tool model.Tool) ([]Instruction, error) {
	if len(op.Path) < 2 {
		return nil, errors.WithDetailf(
			errors.Wrapf(errors.ErrMalformedGeometry, "operation %s pocket needs at least 2 points", op.ID),
			"points=%d", len(op.Path))
	}
	s := g.Settings
	box := model.BoundingBox(op.Path)
	x0, x1 := insetSpan(box.Min.X, box.Max.X, tool.Radius())
	y0, y1 := insetSpan(box.Min.Y, box.Max.Y, tool.Radius())
	rows := rasterRows(y0, y1, tool.Diameter*s.StepOverRatio)
	passes := max(op.Passes, 1)

	out := []Instruction{
		words(code('G', 0), coord('X', x0), coord('Y', y0)),
		words(code('G', 0), coord('Z', s.ClearanceZ)),
	}
	for pass := 1; pass <= passes; pass++ {
		out = append(out,
			comment("Pass %d/%d", pass, passes),
			words(code('G', 1), coord('Z', -passDepth(op, pass)), coord('F', tool.PlungeRate)),
		)
		for i, y := range rows {
			if i > 0 {
				// Step over along the edge the previous row finished on
				out = append(out, words(code('G', 1), coord('Y', y), coord('F', tool.FeedRate)))
			}
			x := x1
			if i%2 == 1 {
				x = x0
			}
			out = append(out, words(code('G', 1), coord('X', x), coord('Y', y), coord('F', tool.FeedRate)))
		}
		out = append(out, words(code('G', 0), coord('Z', s.ClearanceZ)))
		if pass < passes {
			out = append(out, words(code('G', 0), coord('X', x0), coord('Y', y0)))
		}
	}
	return append(out, words(code('G', 0), coord('Z', s.SafeZ))), nil
}

// passDepth returns the positive cut depth reached by the given 1-based pass.
// The last pass lands exactly on the operation depth.
func passDepth(op model.CNCOperation, pass int) float64 {
	if pass >= op.Passes {
		return op.Depth
	}
	return op.DepthPerPass() * float64(pass)
}

// insetSpan shrinks [lo, hi] by r on both sides, collapsing to the midpoint
// when the span is narrower than the tool.
func insetSpan(lo, hi, r float64) (float64, float64) {
	if hi-lo <= 2*r {
		mid := (lo + hi) / 2
		return mid, mid
	}
	return lo + r, hi - r
}

// rasterRows returns the Y of each raster line from y0 to y1 inclusive.
func rasterRows(y0, y1, step float64) []float64 {
	if step <= 0 || y1-y0 < 1e-9 {
		return []float64{y0}
	}
	n := int(math.Ceil((y1-y0)/step - 1e-9))
	rows := make([]float64, 0, n+1)
	for i := 0; i < n; i++ {
		rows = append(rows, y0+float64(i)*step)
	}
	return append(rows, y1)
}
