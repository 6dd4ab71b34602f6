package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Positive reports whether v is a finite length greater than zero. NaN and
// the infinities are not.
func Positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// NonNegative reports whether v is finite and not below zero.
func NonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Point3D is a position in panel space (mm). Z is zero at the top surface and
// negative into the material.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Pt returns a point on the panel surface.
func Pt(x, y float64) Point3D {
	return Point3D{X: x, Y: y}
}

// Vec converts the point to a gonum vector.
func (p Point3D) Vec() r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// String returns "(x, y, z)".
func (p Point3D) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", p.X, p.Y, p.Z)
}

// DistanceTo returns the straight-line distance to q.
func (p Point3D) DistanceTo(q Point3D) float64 {
	return r3.Norm(r3.Sub(q.Vec(), p.Vec()))
}

// PathLength returns the length of the polyline through pts. A closed path
// includes the segment from the last point back to the first.
func PathLength(pts []Point3D, closed bool) float64 {
	if len(pts) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(pts); i++ {
		total += pts[i-1].DistanceTo(pts[i])
	}
	if closed {
		total += pts[len(pts)-1].DistanceTo(pts[0])
	}
	return total
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min Point3D `json:"min"`
	Max Point3D `json:"max"`
}

// Width returns the X extent.
func (b Box) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the Y extent.
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }

// Contains reports whether p lies inside b in XY, with tolerance tol.
func (b Box) Contains(p Point3D, tol float64) bool {
	return p.X >= b.Min.X-tol && p.X <= b.Max.X+tol &&
		p.Y >= b.Min.Y-tol && p.Y <= b.Max.Y+tol
}

// BoundingBox returns the smallest box containing every point. The zero Box
// is returned for an empty slice.
func BoundingBox(pts []Point3D) Box {
	if len(pts) == 0 {
		return Box{}
	}
	lo, hi := pts[0].Vec(), pts[0].Vec()
	for _, p := range pts[1:] {
		v := p.Vec()
		lo = r3.Vec{X: min(lo.X, v.X), Y: min(lo.Y, v.Y), Z: min(lo.Z, v.Z)}
		hi = r3.Vec{X: max(hi.X, v.X), Y: max(hi.Y, v.Y), Z: max(hi.Z, v.Z)}
	}
	return Box{
		Min: Point3D{X: lo.X, Y: lo.Y, Z: lo.Z},
		Max: Point3D{X: hi.X, Y: hi.Y, Z: hi.Z},
	}
}

// Rectangle returns the four corners of an axis-aligned rectangle, counter
// clockwise from (x, y).
func Rectangle(x, y, w, h float64) []Point3D {
	return []Point3D{Pt(x, y), Pt(x+w, y), Pt(x+w, y+h), Pt(x, y+h)}
}
