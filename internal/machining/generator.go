// Package machining turns a panel with holes, grooves and pockets into an
// ordered list of CNC operations with time estimates.
package machining

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/logger"
	"github.com/piwi3910/CaseCut/internal/model"
)

// Generator builds manufacturing jobs. It is not safe for concurrent use
// because it draws operation ids from a single IDGenerator.
type Generator struct {
	catalog model.ToolCatalog
	ids     *model.IDGenerator
	log     *zap.SugaredLogger
}

// New returns a Generator. A nil ids starts a fresh sequence and a nil log
// uses the package logger.
func New(catalog model.ToolCatalog, ids *model.IDGenerator, log *zap.SugaredLogger) *Generator {
	if ids == nil {
		ids = model.NewIDGenerator()
	}
	if log == nil {
		log = logger.Named("machining")
	}
	return &Generator{catalog: catalog, ids: ids, log: log}
}

// holeTools maps each known hole type to its drill.
var holeTools = map[model.HoleType]string{
	model.HoleShelfPin: model.ToolShelfPinDrill,
	model.HoleHinge:    model.ToolHingeBore35mm,
}

// Generate derives the drilling patterns, routing paths, edge banding and
// operations for one component. Operations are ordered drilling, routing,
// pocketing, contour; each group keeps generation order.
func (g *Generator) Generate(component model.ComponentDimensions) (model.ManufacturingJob, error) {
	if !model.Positive(component.Width) || !model.Positive(component.Height) || !model.Positive(component.Thickness) {
		return model.ManufacturingJob{}, errors.Wrapf(errors.ErrInvalidDimension,
			"component %q: %.1f x %.1f x %.1f", component.Name, component.Width, component.Height, component.Thickness)
	}

	job := model.ManufacturingJob{
		ID:        jobID(component, g.ids),
		Component: component,
	}
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		job.Warnings = append(job.Warnings, msg)
		g.log.Warnw("Skipping unsupported feature",
			logger.FieldComponent, component.Name,
			logger.FieldWarning, msg,
		)
	}

	patterns, err := g.drillingPatterns(component, warn)
	if err != nil {
		return model.ManufacturingJob{}, err
	}
	grooves, err := g.groovePaths(component, warn)
	if err != nil {
		return model.ManufacturingJob{}, err
	}
	pockets, err := g.pocketPaths(component, warn)
	if err != nil {
		return model.ManufacturingJob{}, err
	}
	var contours []model.RoutingPath
	if component.Contour {
		contour, err := g.contourPath(component)
		if err != nil {
			return model.ManufacturingJob{}, err
		}
		contours = append(contours, contour)
	}

	job.DrillingPatterns = patterns
	job.RoutingPaths = append(append(append(job.RoutingPaths, grooves...), pockets...), contours...)

	for _, p := range patterns {
		ops, err := g.drillOperations(p)
		if err != nil {
			return model.ManufacturingJob{}, err
		}
		job.Operations = append(job.Operations, ops...)
	}
	for _, group := range []struct {
		typ   model.OperationType
		paths []model.RoutingPath
	}{
		{model.OpRoute, grooves},
		{model.OpPocket, pockets},
		{model.OpContour, contours},
	} {
		for _, path := range group.paths {
			op, err := g.pathOperation(group.typ, path)
			if err != nil {
				return model.ManufacturingJob{}, err
			}
			job.Operations = append(job.Operations, op)
		}
	}

	job.EdgeBanding = model.NewEdgeBandingSequence(component.EdgeBanding)
	aggregateTimes(&job)

	g.log.Debugw("Generated manufacturing job",
		logger.FieldJobID, job.ID,
		logger.FieldComponent, component.Name,
		logger.FieldOperations, len(job.Operations),
		logger.FieldDurationMS, job.TotalTime.Milliseconds(),
	)
	return job, nil
}

// jobID derives a stable id from the component name, falling back to the
// session sequence for unnamed components.
func jobID(c model.ComponentDimensions, ids *model.IDGenerator) string {
	if slug := model.Slugify(c.Name); slug != "" {
		return slug
	}
	return ids.NextID("job")
}

// drillingPatterns groups holes by type in first-seen order. Shelf-pin
// patterns expand into a vertical line of Count holes; hinge patterns map to
// one hole each.
func (g *Generator) drillingPatterns(c model.ComponentDimensions, warn func(string, ...any)) ([]model.DrillingPattern, error) {
	var patterns []model.DrillingPattern
	index := make(map[model.HoleType]int)

	for i, h := range c.Holes {
		toolID, known := holeTools[h.Type]
		if !known {
			warn("hole %d: unknown hole type %q", i, h.Type)
			continue
		}
		if !model.Positive(h.Diameter) || !model.Positive(h.Depth) || !model.Finite(h.X) || !model.Finite(h.Y) ||
			!model.Finite(h.Spacing) {
			return nil, errors.WithDetailf(
				errors.Wrapf(errors.ErrMalformedGeometry, "component %q hole %d", c.Name, i),
				"diameter=%g depth=%g x=%g y=%g spacing=%g", h.Diameter, h.Depth, h.X, h.Y, h.Spacing)
		}
		if err := checkDepth(c, fmt.Sprintf("%s hole %d", h.Type, i), h.Depth, h.Through); err != nil {
			return nil, err
		}

		var holes []model.DrillHole
		switch h.Type {
		case model.HoleShelfPin:
			count := max(h.Count, 1)
			for n := 0; n < count; n++ {
				holes = append(holes, drillHole(h, h.X, h.Y+float64(n)*h.Spacing))
			}
		default:
			holes = append(holes, drillHole(h, h.X, h.Y))
		}

		for _, dh := range holes {
			if !insidePanel(c, dh.Position) {
				warn("%s hole at %s lies outside the %.1f x %.1f panel", h.Type, dh.Position, c.Width, c.Height)
			}
		}

		pi, ok := index[h.Type]
		if !ok {
			pi = len(patterns)
			index[h.Type] = pi
			patterns = append(patterns, model.DrillingPattern{Type: h.Type, Tool: toolID})
		}
		patterns[pi].Holes = append(patterns[pi].Holes, holes...)
	}
	return patterns, nil
}

func drillHole(h model.HolePattern, x, y float64) model.DrillHole {
	return model.DrillHole{
		Position:    model.Pt(x, y),
		Diameter:    h.Diameter,
		Depth:       h.Depth,
		ThroughHole: h.Through,
	}
}

// groovePaths converts grooves into router paths. Dados and back-panel
// grooves are straight open cuts; rabbets are closed rectangles.
func (g *Generator) groovePaths(c model.ComponentDimensions, warn func(string, ...any)) ([]model.RoutingPath, error) {
	if len(c.Grooves) == 0 {
		return nil, nil
	}
	router, err := g.tool(model.ToolDadoRouter)
	if err != nil {
		return nil, err
	}

	var paths []model.RoutingPath
	for i, gr := range c.Grooves {
		switch gr.Type {
		case model.GrooveDado, model.GrooveBackPanel, model.GrooveRabbet:
		default:
			warn("groove %d: unknown groove type %q", i, gr.Type)
			continue
		}
		if gr.Orientation != model.Horizontal && gr.Orientation != model.Vertical {
			warn("groove %d: unknown orientation %q", i, gr.Orientation)
			continue
		}
		if !model.Finite(gr.X) || !model.Finite(gr.Y) || !model.Finite(gr.Width) {
			return nil, errors.WithDetailf(
				errors.Wrapf(errors.ErrMalformedGeometry, "component %q %s groove %d has a non-numeric position", c.Name, gr.Type, i),
				"x=%g y=%g width=%g", gr.X, gr.Y, gr.Width)
		}
		if !model.Positive(gr.Length) {
			return nil, errors.WithDetailf(
				errors.Wrapf(errors.ErrMalformedGeometry, "component %q %s groove %d has zero length", c.Name, gr.Type, i),
				"length=%g", gr.Length)
		}
		if !model.Positive(gr.Depth) {
			return nil, errors.Wrapf(errors.ErrMalformedGeometry, "component %q %s groove %d has no depth", c.Name, gr.Type, i)
		}
		if err := checkDepth(c, fmt.Sprintf("%s groove %d", gr.Type, i), gr.Depth, false); err != nil {
			return nil, err
		}

		path := model.RoutingPath{
			Type:   model.PathType(gr.Type),
			Tool:   router.ID,
			Depth:  gr.Depth,
			Passes: passes(gr.Depth, router.StepDown),
		}
		horizontal := gr.Orientation == model.Horizontal

		if gr.Type == model.GrooveRabbet {
			width := gr.Width
			if width <= 0 {
				width = router.Diameter
			}
			if horizontal {
				path.Path = model.Rectangle(gr.X, gr.Y, gr.Length, width)
			} else {
				path.Path = model.Rectangle(gr.X, gr.Y, width, gr.Length)
			}
			path.Closed = true
		} else {
			end := model.Pt(gr.X, gr.Y+gr.Length)
			if horizontal {
				end = model.Pt(gr.X+gr.Length, gr.Y)
			}
			path.Path = []model.Point3D{model.Pt(gr.X, gr.Y), end}
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// pocketPaths converts pockets into closed rectangles cleared by the
// pocketing end mill.
func (g *Generator) pocketPaths(c model.ComponentDimensions, warn func(string, ...any)) ([]model.RoutingPath, error) {
	if len(c.Pockets) == 0 {
		return nil, nil
	}
	mill, err := g.tool(model.ToolPocketEndmill)
	if err != nil {
		return nil, err
	}

	var paths []model.RoutingPath
	for i, p := range c.Pockets {
		if !model.Positive(p.Width) || !model.Positive(p.Height) || !model.Positive(p.Depth) ||
			!model.Finite(p.X) || !model.Finite(p.Y) {
			return nil, errors.WithDetailf(
				errors.Wrapf(errors.ErrMalformedGeometry, "component %q pocket %d %q", c.Name, i, p.Name),
				"width=%g height=%g depth=%g x=%g y=%g", p.Width, p.Height, p.Depth, p.X, p.Y)
		}
		if err := checkDepth(c, fmt.Sprintf("pocket %q", p.Name), p.Depth, false); err != nil {
			return nil, err
		}
		if p.Width < mill.Diameter || p.Height < mill.Diameter {
			warn("pocket %q (%.1f x %.1f) is narrower than the %.1fmm end mill", p.Name, p.Width, p.Height, mill.Diameter)
		}
		paths = append(paths, model.RoutingPath{
			Type:   model.PathPocket,
			Path:   model.Rectangle(p.X, p.Y, p.Width, p.Height),
			Tool:   mill.ID,
			Depth:  p.Depth,
			Passes: passes(p.Depth, mill.StepDown),
			Closed: true,
		})
	}
	return paths, nil
}

// contourPath cuts the panel free along its outside perimeter, offset by the
// tool radius so the finished part keeps its nominal size.
func (g *Generator) contourPath(c model.ComponentDimensions) (model.RoutingPath, error) {
	mill, err := g.tool(model.ToolProfileEndmill)
	if err != nil {
		return model.RoutingPath{}, err
	}
	r := mill.Radius()
	return model.RoutingPath{
		Type:   model.PathContour,
		Path:   model.Rectangle(-r, -r, c.Width+2*r, c.Height+2*r),
		Tool:   mill.ID,
		Depth:  c.Thickness,
		Passes: passes(c.Thickness, mill.StepDown),
		Closed: true,
	}, nil
}

// drillOperations emits one drill operation per hole.
func (g *Generator) drillOperations(p model.DrillingPattern) ([]model.CNCOperation, error) {
	drill, err := g.tool(p.Tool)
	if err != nil {
		return nil, err
	}
	ops := make([]model.CNCOperation, 0, len(p.Holes))
	for i, h := range p.Holes {
		ops = append(ops, model.CNCOperation{
			ID:            g.ids.NextID("op"),
			Type:          model.OpDrill,
			Tool:          drill.ID,
			StartPoint:    h.Position,
			Depth:         h.Depth,
			Passes:        1,
			Name:          fmt.Sprintf("%s hole %d", p.Type, i+1),
			EstimatedTime: DrillTime(h.Depth, drill),
		})
	}
	return ops, nil
}

// pathOperation emits the operation for one routing path.
func (g *Generator) pathOperation(typ model.OperationType, path model.RoutingPath) (model.CNCOperation, error) {
	if len(path.Path) < 2 {
		return model.CNCOperation{}, errors.WithDetailf(
			errors.Wrapf(errors.ErrMalformedGeometry, "%s path needs at least 2 points", path.Type),
			"points=%d", len(path.Path))
	}
	tool, err := g.tool(path.Tool)
	if err != nil {
		return model.CNCOperation{}, err
	}
	pts := make([]model.Point3D, len(path.Path))
	copy(pts, path.Path)
	return model.CNCOperation{
		ID:            g.ids.NextID("op"),
		Type:          typ,
		Tool:          tool.ID,
		StartPoint:    pts[0],
		Path:          pts,
		Closed:        path.Closed,
		Depth:         path.Depth,
		Passes:        path.Passes,
		Name:          string(path.Type),
		EstimatedTime: RouteTime(path.Length(), path.Depth, path.Passes, tool),
	}, nil
}

func (g *Generator) tool(id string) (model.Tool, error) {
	t, ok := g.catalog.Lookup(id)
	if !ok {
		return model.Tool{}, errors.Wrapf(errors.ErrUnknownToolReference, "tool %q is not in the catalog", id)
	}
	return t, nil
}

// checkDepth rejects features at least as deep as the panel. A through hole
// may equal the thickness.
func checkDepth(c model.ComponentDimensions, feature string, depth float64, through bool) error {
	if depth < c.Thickness || (through && depth == c.Thickness) {
		return nil
	}
	return errors.WithDetailf(
		errors.Wrapf(errors.ErrDepthExceedsThickness, "component %q %s", c.Name, feature),
		"depth=%g thickness=%g", depth, c.Thickness)
}

func insidePanel(c model.ComponentDimensions, p model.Point3D) bool {
	panel := model.Box{Max: model.Point3D{X: c.Width, Y: c.Height}}
	return panel.Contains(p, 0)
}

// passes returns how many step-downs are needed to reach depth.
func passes(depth, stepDown float64) int {
	if stepDown <= 0 {
		return 1
	}
	return max(int(math.Ceil(depth/stepDown-1e-9)), 1)
}
