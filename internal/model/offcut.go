package model

import (
	"fmt"
	"math"
	"sort"
)

// Offcut is a usable rectangular remnant left on a sheet after nesting.
type Offcut struct {
	ID         string  `json:"id"`
	SheetIndex int     `json:"sheet_index"` // Index of the source sheet
	X          float64 `json:"x"`           // Position on the sheet (mm from left)
	Y          float64 `json:"y"`           // Position on the sheet (mm from top)
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Value      float64 `json:"value"` // Material value at the per-m² price (0 if not priced)
}

// Area returns the area of the offcut in square mm.
func (o Offcut) Area() float64 {
	return o.Width * o.Height
}

// MinOffcutDimension is the minimum width or height (in mm) for a remnant
// to be considered a usable offcut. Remnants smaller than this are waste.
const MinOffcutDimension = 50.0

// MinOffcutArea is the minimum area (in sq mm) for a remnant to be considered usable.
const MinOffcutArea = 10000.0 // 100mm x 100mm equivalent

// DetectOffcuts finds the strips to the right of and below the placed parts
// that are large enough to reuse. Results are sorted by area, largest first.
func DetectOffcuts(sheet NestingSheet, kerf float64, pricing Pricing) []Offcut {
	sheetW, sheetH := sheet.Width, sheet.Height

	newOffcut := func(side string, x, y, w, h float64) Offcut {
		return Offcut{
			ID:         fmt.Sprintf("sheet%d-%s", sheet.Index+1, side),
			SheetIndex: sheet.Index,
			X:          x,
			Y:          y,
			Width:      w,
			Height:     h,
			Value:      w * h / 1e6 * pricing.PricePerSquareMeter,
		}
	}

	if len(sheet.Parts) == 0 {
		return []Offcut{newOffcut("full", 0, 0, sheetW, sheetH)}
	}

	var maxPartRight, maxPartBottom float64
	for _, p := range sheet.Parts {
		maxPartRight = math.Max(maxPartRight, p.X+p.Width+kerf)
		maxPartBottom = math.Max(maxPartBottom, p.Y+p.Height+kerf)
	}

	var offcuts []Offcut

	rightStripW := sheetW - maxPartRight
	if rightStripW >= MinOffcutDimension && sheetH >= MinOffcutDimension && rightStripW*sheetH >= MinOffcutArea {
		offcuts = append(offcuts, newOffcut("right", maxPartRight, 0, rightStripW, sheetH))
	}

	// Bottom strip stops at the right edge of the parts so it cannot overlap the right strip
	bottomStripH := sheetH - maxPartBottom
	usableBottomW := math.Min(maxPartRight, sheetW)
	if bottomStripH >= MinOffcutDimension && usableBottomW >= MinOffcutDimension && bottomStripH*usableBottomW >= MinOffcutArea {
		offcuts = append(offcuts, newOffcut("bottom", 0, maxPartBottom, usableBottomW, bottomStripH))
	}

	sort.SliceStable(offcuts, func(i, j int) bool {
		return offcuts[i].Area() > offcuts[j].Area()
	})
	return offcuts
}

// DetectAllOffcuts finds offcuts across all sheets.
func DetectAllOffcuts(sheets []NestingSheet, kerf float64, pricing Pricing) []Offcut {
	var all []Offcut
	for _, s := range sheets {
		all = append(all, DetectOffcuts(s, kerf, pricing)...)
	}
	return all
}

// TotalOffcutArea returns the total area of all offcuts in square mm.
func TotalOffcutArea(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Area()
	}
	return total
}
