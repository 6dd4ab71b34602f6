package model

import (
	"math"
	"strings"
)

// Edge names one of the four panel edges.
type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
)

// EdgeBanding flags which edges of a panel receive banding. In panel space the
// front (visible) edge is Top.
type EdgeBanding struct {
	Top    bool `json:"top"`
	Bottom bool `json:"bottom"`
	Left   bool `json:"left"`
	Right  bool `json:"right"`
}

// BandAll returns banding on all four edges.
func BandAll() EdgeBanding {
	return EdgeBanding{Top: true, Bottom: true, Left: true, Right: true}
}

// BandFront returns banding on the front edge only.
func BandFront() EdgeBanding {
	return EdgeBanding{Top: true}
}

// All reports whether every edge is banded.
func (e EdgeBanding) All() bool {
	return e.Top && e.Bottom && e.Left && e.Right
}

// Front reports whether only the front edge is banded.
func (e EdgeBanding) Front() bool {
	return e.Top && !e.Bottom && !e.Left && !e.Right
}

// HasAny reports whether at least one edge is banded.
func (e EdgeBanding) HasAny() bool {
	return e.Top || e.Bottom || e.Left || e.Right
}

// Edges lists the banded edges in top, bottom, left, right order.
func (e EdgeBanding) Edges() []Edge {
	var edges []Edge
	if e.Top {
		edges = append(edges, EdgeTop)
	}
	if e.Bottom {
		edges = append(edges, EdgeBottom)
	}
	if e.Left {
		edges = append(edges, EdgeLeft)
	}
	if e.Right {
		edges = append(edges, EdgeRight)
	}
	return edges
}

// EdgeCount returns the number of banded edges.
func (e EdgeBanding) EdgeCount() int {
	return len(e.Edges())
}

// LinearLength returns the banding length for one panel of width w and height h.
// Top and bottom run along the width, left and right along the height.
func (e EdgeBanding) LinearLength(w, h float64) float64 {
	var total float64
	if e.Top {
		total += w
	}
	if e.Bottom {
		total += w
	}
	if e.Left {
		total += h
	}
	if e.Right {
		total += h
	}
	return total
}

// String returns "all", "front", "none" or the comma-joined edge names.
func (e EdgeBanding) String() string {
	switch {
	case e.All():
		return "all"
	case e.Front():
		return "front"
	case !e.HasAny():
		return "none"
	}
	names := make([]string, 0, 4)
	for _, edge := range e.Edges() {
		names = append(names, string(edge))
	}
	return strings.Join(names, ",")
}

// ParseEdgeBanding accepts the forms produced by String plus the short
// "T+B+L+R" notation used in imported sheets.
func ParseEdgeBanding(s string) EdgeBanding {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "all":
		return BandAll()
	case "front":
		return BandFront()
	case "", "none":
		return EdgeBanding{}
	}
	var e EdgeBanding
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '+' || r == ' ' }) {
		switch tok {
		case "top", "t":
			e.Top = true
		case "bottom", "b":
			e.Bottom = true
		case "left", "l":
			e.Left = true
		case "right", "r":
			e.Right = true
		}
	}
	return e
}

// Edge banding material applied by the bander.
const (
	EdgeBandingMaterial  = "PVC"
	EdgeBandingThickness = 0.5 // mm
)

// EdgeBandingSequence is the banding step of a manufacturing job.
type EdgeBandingSequence struct {
	Edges        []Edge  `json:"edges"`
	Material     string  `json:"material"`
	Thickness    float64 `json:"thickness"`
	TrimRequired bool    `json:"trim_required"`
}

// NewEdgeBandingSequence returns the sequence for the banded edges, or nil
// when no edge is banded.
func NewEdgeBandingSequence(e EdgeBanding) *EdgeBandingSequence {
	if !e.HasAny() {
		return nil
	}
	return &EdgeBandingSequence{
		Edges:        e.Edges(),
		Material:     EdgeBandingMaterial,
		Thickness:    EdgeBandingThickness,
		TrimRequired: true,
	}
}

// EdgeBandingSummary holds the calculated edge banding requirements for a cut list.
type EdgeBandingSummary struct {
	TotalLinearMM    float64 `json:"total_linear_mm"`     // Total banding length in mm (no waste)
	TotalLinearM     float64 `json:"total_linear_m"`      // Total banding length in meters (no waste)
	WastePercent     float64 `json:"waste_percent"`       // Waste percentage applied
	TotalWithWasteMM float64 `json:"total_with_waste_mm"` // Total with waste in mm
	TotalWithWasteM  float64 `json:"total_with_waste_m"`  // Total with waste in meters
	PartCount        int     `json:"part_count"`          // Number of individual pieces needing banding
	EdgeCount        int     `json:"edge_count"`          // Total number of edges needing banding
}

// CalculateEdgeBanding computes the total edge banding needed for a cut list.
// wastePercent is the additional percentage to add for waste (e.g., 10 for 10%).
func CalculateEdgeBanding(items []CutListItem, wastePercent float64) EdgeBandingSummary {
	var totalMM float64
	var partCount, edgeCount int

	for _, it := range items {
		if !it.EdgeBanding.HasAny() {
			continue
		}
		totalMM += it.EdgeBanding.LinearLength(it.Width, it.Height) * float64(it.Quantity)
		partCount += it.Quantity
		edgeCount += it.EdgeBanding.EdgeCount() * it.Quantity
	}

	totalWithWaste := math.Ceil(totalMM * (1.0 + wastePercent/100.0))

	return EdgeBandingSummary{
		TotalLinearMM:    totalMM,
		TotalLinearM:     totalMM / 1000.0,
		WastePercent:     wastePercent,
		TotalWithWasteMM: totalWithWaste,
		TotalWithWasteM:  totalWithWaste / 1000.0,
		PartCount:        partCount,
		EdgeCount:        edgeCount,
	}
}

// PerItemEdgeBanding is the banding breakdown for one cut-list row.
type PerItemEdgeBanding struct {
	Name          string  `json:"name"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Quantity      int     `json:"quantity"`
	Edges         string  `json:"edges"`
	LengthPerUnit float64 `json:"length_per_unit"` // mm per piece
	TotalLength   float64 `json:"total_length"`    // mm for all pieces
}

// CalculatePerItemEdgeBanding returns a breakdown of banding per cut-list row.
func CalculatePerItemEdgeBanding(items []CutListItem) []PerItemEdgeBanding {
	var results []PerItemEdgeBanding
	for _, it := range items {
		if !it.EdgeBanding.HasAny() {
			continue
		}
		perUnit := it.EdgeBanding.LinearLength(it.Width, it.Height)
		results = append(results, PerItemEdgeBanding{
			Name:          it.Name,
			Width:         it.Width,
			Height:        it.Height,
			Quantity:      it.Quantity,
			Edges:         it.EdgeBanding.String(),
			LengthPerUnit: perUnit,
			TotalLength:   perUnit * float64(it.Quantity),
		})
	}
	return results
}
