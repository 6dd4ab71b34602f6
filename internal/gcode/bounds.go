package gcode

import (
	"fmt"
	"math"
)

// BoundsViolation is a cutting move whose tool centre leaves the allowed area
// around the panel.
type BoundsViolation struct {
	Line     int
	Tool     int
	X, Y     float64
	Distance float64 // How far outside the allowed area, mm
}

// CheckBounds flags every cutting move that ends outside the panel rectangle
// grown by margin on each side. Contours legitimately run a tool radius
// outside the panel, so callers pass the largest tool radius in use.
func CheckBounds(moves []Move, width, height, margin float64) []BoundsViolation {
	var violations []BoundsViolation
	x0, y0 := -margin, -margin
	x1, y1 := width+margin, height+margin

	for _, m := range moves {
		if !m.Cutting() {
			continue
		}
		dist := distanceOutside(m.To.X, m.To.Y, x0, y0, x1, y1)
		if dist > 0.001 {
			violations = append(violations, BoundsViolation{
				Line:     m.Line,
				Tool:     m.Tool,
				X:        m.To.X,
				Y:        m.To.Y,
				Distance: dist,
			})
		}
	}
	return violations
}

// CheckProgram renders and re-parses a program, then checks it against the
// panel size.
func CheckProgram(p Program, width, height, margin float64) []BoundsViolation {
	return CheckBounds(ParseGCode(Render(p)), width, height, margin)
}

// distanceOutside returns the distance from (px, py) to the rectangle, or 0
// when the point is inside or on its edge.
func distanceOutside(px, py, x0, y0, x1, y1 float64) float64 {
	nearestX := math.Max(x0, math.Min(px, x1))
	nearestY := math.Max(y0, math.Min(py, y1))
	return math.Hypot(px-nearestX, py-nearestY)
}

// FormatBoundsWarnings produces human-readable warning messages.
func FormatBoundsWarnings(name string, violations []BoundsViolation) []string {
	warnings := make([]string, 0, len(violations))
	for _, v := range violations {
		warnings = append(warnings, fmt.Sprintf(
			"%s: line %d T%d cuts at (%.1f, %.1f), %.1f mm outside the panel",
			name, v.Line, v.Tool, v.X, v.Y, v.Distance,
		))
	}
	return warnings
}
