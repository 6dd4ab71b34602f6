package importer

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/CaseCut/internal/model"
)

// DXF layer names that carry machining features. A numeric suffix after an
// underscore sets the feature depth, e.g. "SHELF_PIN_12" or "DADO_9".
const (
	LayerOutline   = "OUTLINE"
	LayerShelfPin  = "SHELF_PIN"
	LayerHinge     = "HINGE"
	LayerDado      = "DADO"
	LayerRabbet    = "RABBET"
	LayerBackPanel = "BACK_PANEL"
	LayerPocket    = "POCKET"
)

// Feature depths used when the layer name carries none.
var defaultDepths = map[string]float64{
	LayerShelfPin:  12,
	LayerHinge:     13,
	LayerDado:      6,
	LayerRabbet:    9,
	LayerBackPanel: 6,
	LayerPocket:    2,
}

var grooveLayers = map[string]model.GrooveType{
	LayerDado:      model.GrooveDado,
	LayerRabbet:    model.GrooveRabbet,
	LayerBackPanel: model.GrooveBackPanel,
}

const pointTolerance = 0.01

// PanelResult holds a component rebuilt from a DXF drawing.
type PanelResult struct {
	Component model.ComponentDimensions
	Errors    []string
	Warnings  []string
}

// segment represents a line segment between two points, used for chaining
// disconnected LINE and ARC entities into closed outlines.
type segment struct {
	start model.Point3D
	end   model.Point3D
}

// ImportDXF reads panel features from a DXF drawing onto base, which supplies
// the name, thickness and material. The largest closed shape on the OUTLINE
// layer sets the panel size and marks it for contour cutting; every feature
// is positioned relative to the outline's lower-left corner. Circles become
// holes, axis-aligned lines grooves and closed polylines pockets, selected by
// layer.
func ImportDXF(path string, base model.ComponentDimensions) PanelResult {
	result := PanelResult{Component: base}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var (
		outlines     [][]model.Point3D
		outlineSegs  []segment
		circles      []*entity.Circle
		circleLayers []string
		lines        []*entity.Line
		lineLayers   []string
		pockets      [][]model.Point3D
		pocketLayers []string
	)

	for _, ent := range entities {
		layer, _ := splitLayer(layerName(ent))
		switch e := ent.(type) {
		case *entity.LwPolyline:
			pts := lwPolylinePoints(e)
			switch {
			case len(pts) < 3:
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
			case layer == LayerOutline:
				outlines = append(outlines, pts)
			case layer == LayerPocket:
				pockets = append(pockets, pts)
				pocketLayers = append(pocketLayers, layerName(ent))
			default:
				result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped LWPOLYLINE on layer %q", layerName(ent)))
			}

		case *entity.Circle:
			if layer == LayerShelfPin || layer == LayerHinge {
				circles = append(circles, e)
				circleLayers = append(circleLayers, layerName(ent))
			} else {
				result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped CIRCLE on layer %q", layerName(ent)))
			}

		case *entity.Arc:
			if layer == LayerOutline {
				if pts := arcToPoints(e, 32); len(pts) >= 2 {
					outlineSegs = append(outlineSegs, pointsToSegments(pts)...)
				}
			}

		case *entity.Line:
			seg := segment{
				start: model.Pt(e.Start[0], e.Start[1]),
				end:   model.Pt(e.End[0], e.End[1]),
			}
			if layer == LayerOutline {
				outlineSegs = append(outlineSegs, seg)
			} else if _, ok := grooveLayers[layer]; ok {
				lines = append(lines, e)
				lineLayers = append(lineLayers, layerName(ent))
			}

		default:
			// Unsupported entity types are silently skipped
		}
	}

	outlines = append(outlines, chainSegments(outlineSegs, pointTolerance)...)

	var origin model.Point3D
	if len(outlines) > 0 {
		sort.SliceStable(outlines, func(i, j int) bool {
			return outlineArea(outlines[i]) > outlineArea(outlines[j])
		})
		box := model.BoundingBox(outlines[0])
		if box.Width() < pointTolerance || box.Height() < pointTolerance {
			result.Errors = append(result.Errors, fmt.Sprintf("Degenerate outline (%.2f x %.2f mm)", box.Width(), box.Height()))
			return result
		}
		origin = box.Min
		result.Component.Width = box.Width()
		result.Component.Height = box.Height()
		result.Component.Contour = true
		if len(outlines) > 1 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Found %d outlines, using the largest", len(outlines)))
		}
	}

	for i, c := range circles {
		result.Component.Holes = append(result.Component.Holes, circleToHole(c, circleLayers[i], origin))
	}
	for i, l := range lines {
		g, ok := lineToGroove(l, lineLayers[i], origin)
		if !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped non axis-aligned LINE on layer %q", lineLayers[i]))
			continue
		}
		result.Component.Grooves = append(result.Component.Grooves, g)
	}
	for i, pts := range pockets {
		result.Component.Pockets = append(result.Component.Pockets, polylineToPocket(pts, pocketLayers[i], origin, i))
	}

	if result.Component.Width <= 0 || result.Component.Height <= 0 {
		result.Errors = append(result.Errors, "No panel outline found and no size given")
	}
	if !result.Component.HasMachining() {
		result.Errors = append(result.Errors, "No machining features found in DXF file")
	}
	return result
}

func layerName(ent entity.Entity) string {
	if l := ent.Layer(); l != nil {
		return l.Name()
	}
	return ""
}

// splitLayer parses "HINGE_13" into ("HINGE", 13). Layer names match
// case-insensitively.
func splitLayer(name string) (string, float64) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if i := strings.LastIndexByte(name, '_'); i > 0 {
		if d, err := strconv.ParseFloat(name[i+1:], 64); err == nil && d > 0 {
			return name[:i], d
		}
	}
	return name, 0
}

// layerDepth returns the depth named by the layer or the feature default.
func layerDepth(layer string) float64 {
	kind, depth := splitLayer(layer)
	if depth > 0 {
		return depth
	}
	return defaultDepths[kind]
}

func circleToHole(c *entity.Circle, layer string, origin model.Point3D) model.HolePattern {
	kind, _ := splitLayer(layer)
	holeType := model.HoleShelfPin
	if kind == LayerHinge {
		holeType = model.HoleHinge
	}
	return model.HolePattern{
		Type:     holeType,
		X:        round3(c.Center[0] - origin.X),
		Y:        round3(c.Center[1] - origin.Y),
		Diameter: round3(2 * c.Radius),
		Depth:    layerDepth(layer),
	}
}

// lineToGroove converts an axis-aligned LINE into a groove starting at its
// lower or leftmost end.
func lineToGroove(l *entity.Line, layer string, origin model.Point3D) (model.Groove, bool) {
	kind, _ := splitLayer(layer)
	x0, y0 := l.Start[0]-origin.X, l.Start[1]-origin.Y
	x1, y1 := l.End[0]-origin.X, l.End[1]-origin.Y

	g := model.Groove{Type: grooveLayers[kind], Depth: layerDepth(layer)}
	switch {
	case math.Abs(y1-y0) <= pointTolerance && math.Abs(x1-x0) > pointTolerance:
		g.Orientation = model.Horizontal
		g.X, g.Y, g.Length = math.Min(x0, x1), y0, math.Abs(x1-x0)
	case math.Abs(x1-x0) <= pointTolerance && math.Abs(y1-y0) > pointTolerance:
		g.Orientation = model.Vertical
		g.X, g.Y, g.Length = x0, math.Min(y0, y1), math.Abs(y1-y0)
	default:
		return model.Groove{}, false
	}
	g.X, g.Y, g.Length = round3(g.X), round3(g.Y), round3(g.Length)
	return g, true
}

// polylineToPocket clears the polyline's bounding box.
func polylineToPocket(pts []model.Point3D, layer string, origin model.Point3D, n int) model.Pocket {
	box := model.BoundingBox(pts)
	return model.Pocket{
		Name:   fmt.Sprintf("pocket %d", n+1),
		X:      round3(box.Min.X - origin.X),
		Y:      round3(box.Min.Y - origin.Y),
		Width:  round3(box.Width()),
		Height: round3(box.Height()),
		Depth:  layerDepth(layer),
	}
}

// lwPolylinePoints converts a DXF LWPOLYLINE entity to points.
// Bulge values on vertices produce interpolated arc segments.
func lwPolylinePoints(lw *entity.LwPolyline) []model.Point3D {
	var pts []model.Point3D

	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := model.Pt(v[0], v[1])

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			nextIdx := (i + 1) % len(lw.Vertices)
			next := model.Pt(lw.Vertices[nextIdx][0], lw.Vertices[nextIdx][1])
			arcPts := bulgeArcPoints(current, next, bulge, 32)
			// The next vertex is added by its own iteration
			pts = append(pts, arcPts[:len(arcPts)-1]...)
		} else {
			pts = append(pts, current)
		}
	}

	return pts
}

// bulgeArcPoints generates points along an arc defined by two endpoints and a
// DXF bulge factor. The bulge is the tangent of 1/4 the included angle.
func bulgeArcPoints(p1, p2 model.Point3D, bulge float64, numSegments int) []model.Point3D {
	mx := (p1.X + p2.X) / 2
	my := (p1.Y + p2.Y) / 2
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	chordLen := math.Hypot(dx, dy)
	if chordLen < 1e-9 {
		return []model.Point3D{p1, p2}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	// Centre lies on the chord's perpendicular bisector
	perpX := -dy / chordLen
	perpY := dx / chordLen
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	startAngle := math.Atan2(p1.Y-cy, p1.X-cx)
	endAngle := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else if endAngle < startAngle {
		endAngle += 2 * math.Pi
	}

	pts := make([]model.Point3D, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, model.Pt(cx+radius*math.Cos(angle), cy+radius*math.Sin(angle)))
	}
	return pts
}

// arcToPoints converts a DXF ARC entity to a series of line points.
func arcToPoints(a *entity.Arc, numSegments int) []model.Point3D {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius

	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]model.Point3D, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = model.Pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
	}
	return pts
}

// pointsToSegments converts a point sequence to a slice of connected segments.
func pointsToSegments(pts []model.Point3D) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them connected.
func chainSegments(segs []segment, tolerance float64) [][]model.Point3D {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines [][]model.Point3D

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []model.Point3D{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if tail.DistanceTo(seg.start) <= tolerance {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if tail.DistanceTo(seg.end) <= tolerance {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		closed := len(chain) >= 4 && chain[0].DistanceTo(chain[len(chain)-1]) <= tolerance
		if closed {
			outlines = append(outlines, chain[:len(chain)-1])
		}
	}

	return outlines
}

// outlineArea computes the absolute area of a polygon using the shoelace formula.
func outlineArea(o []model.Point3D) float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X * o[j].Y
		area -= o[j].X * o[i].Y
	}
	return math.Abs(area) / 2
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
